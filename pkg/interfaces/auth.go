package interfaces

import "context"

// Authorizer decides whether an operator may run a flow entry point. The
// permission string is `<content_type>:<action>` where action is one of
// create, update or delete. Implementations return a non-nil error to deny.
type Authorizer interface {
	Authorize(ctx context.Context, operatorID int64, permission string) error
}

// AuthorizerFunc adapts a function into an Authorizer.
type AuthorizerFunc func(ctx context.Context, operatorID int64, permission string) error

// Authorize satisfies Authorizer.
func (fn AuthorizerFunc) Authorize(ctx context.Context, operatorID int64, permission string) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, operatorID, permission)
}
