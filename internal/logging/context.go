package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "bot.logging.fields"

// ContextWithFields returns a context carrying fields that loggers bound with
// WithContext merge into every entry. Fields already on ctx are kept unless
// overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextWithChat tags ctx with the conversation an inbound event belongs to.
func ContextWithChat(ctx context.Context, operatorID, chatID int64) context.Context {
	fields := map[string]any{"operator_id": operatorID}
	if chatID != 0 {
		fields["chat_id"] = chatID
	}
	return ContextWithFields(ctx, fields)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
