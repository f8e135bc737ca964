package permissions

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	OperatorID int64
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// PermissionSet captures the CRUD tokens for one content type.
type PermissionSet struct {
	Create string `json:"create,omitempty"`
	Update string `json:"update,omitempty"`
	Delete string `json:"delete,omitempty"`
}

// ContentTypePermissions returns the permission set for a content type code.
func ContentTypePermissions(contentType string) PermissionSet {
	normalized := normalizeToken(contentType)
	return PermissionSet{
		Create: Join(normalized, ActionCreate),
		Update: Join(normalized, ActionUpdate),
		Delete: Join(normalized, ActionDelete),
	}
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

// List returns the non-empty permissions in the set.
func (p PermissionSet) List() []string {
	out := make([]string, 0, 3)
	if p.Create != "" {
		out = append(out, p.Create)
	}
	if p.Update != "" {
		out = append(out, p.Update)
	}
	if p.Delete != "" {
		out = append(out, p.Delete)
	}
	return out
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a static permission list. Entries may use `<resource>:*` or `*`.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, action := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	if action != "" {
		if _, ok := s["*:"+string(action)]; ok {
			return true
		}
	}
	if _, ok := s["*"]; ok {
		return true
	}
	return false
}

// Role grants a fixed permission set to operators.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// RolePermissions returns the checker granted by a role.
func RolePermissions(role Role) Checker {
	switch role {
	case RoleAdmin:
		return NewSet("*")
	case RoleManager:
		return NewSet("*:" + string(ActionUpdate))
	default:
		return NewSet()
	}
}

// OperatorPolicy authorizes operators by role. Operators without a role are
// denied everything.
type OperatorPolicy struct {
	mu    sync.RWMutex
	roles map[int64]Role
}

var _ interfaces.Authorizer = (*OperatorPolicy)(nil)

// NewOperatorPolicy assigns admin and manager roles. An operator listed in
// both is an admin.
func NewOperatorPolicy(admins, managers []int64) *OperatorPolicy {
	policy := &OperatorPolicy{roles: make(map[int64]Role, len(admins)+len(managers))}
	for _, id := range managers {
		policy.roles[id] = RoleManager
	}
	for _, id := range admins {
		policy.roles[id] = RoleAdmin
	}
	return policy
}

// Grant assigns role to operatorID, replacing any previous role.
func (p *OperatorPolicy) Grant(operatorID int64, role Role) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roles[operatorID] = role
}

// Revoke removes every right of operatorID.
func (p *OperatorPolicy) Revoke(operatorID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.roles, operatorID)
}

// Role returns the role held by operatorID.
func (p *OperatorPolicy) Role(operatorID int64) (Role, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	role, ok := p.roles[operatorID]
	return role, ok
}

// IsPrivileged reports whether operatorID holds any role.
func (p *OperatorPolicy) IsPrivileged(operatorID int64) bool {
	_, ok := p.Role(operatorID)
	return ok
}

func (p *OperatorPolicy) Authorize(_ context.Context, operatorID int64, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	role, ok := p.Role(operatorID)
	if !ok || !RolePermissions(role).Allowed(normalized) {
		return Error{OperatorID: operatorID, Permission: normalized}
	}
	return nil
}

// AllowAll is the authorizer used when no policy is configured.
func AllowAll() interfaces.Authorizer {
	return interfaces.AuthorizerFunc(func(context.Context, int64, string) error { return nil })
}

// IsDenied reports whether err is a permission denial.
func IsDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func splitPermission(permission string) (string, Action) {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, ":", 2)
	resource := normalizeToken(parts[0])
	if len(parts) == 1 {
		return resource, ""
	}
	return resource, Action(normalizeToken(parts[1]))
}

func normalizePermission(permission string) string {
	trimmed := strings.TrimSpace(permission)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
