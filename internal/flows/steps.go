package flows

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/pagination"
	recordsvc "github.com/goliatone/go-content-bot/internal/records"
	"github.com/goliatone/go-content-bot/internal/validation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

func (e *Engine) validateName(in Input, policy fields.Policy) *ValidationError {
	name := strings.TrimSpace(in.Value)
	if name == "" {
		return newValidationError(records.FieldName, e.fieldPrompt(policy, records.FieldName))
	}
	// the limit applies to the text as sent, padding included
	if !validation.IsValidDisplayName(in.Value) {
		return newValidationError(records.FieldName, e.copy.RejectName)
	}
	return nil
}

func (e *Engine) validateURL(in Input, _ fields.Policy) *ValidationError {
	if !validation.IsValidURL(strings.TrimSpace(in.Value)) {
		return newValidationError(records.FieldURL, e.copy.RejectURL)
	}
	return nil
}

func (e *Engine) validateText(in Input, policy fields.Policy) *ValidationError {
	text := strings.TrimSpace(in.Value)
	if text == "" {
		return newValidationError(records.FieldDescription, e.copy.RejectText)
	}
	if field, ok := policy.Field(records.FieldDescription); ok && field.MaxLength > 0 {
		if utf8.RuneCountInString(text) > field.MaxLength {
			return newValidationError(records.FieldDescription, e.copy.RejectText)
		}
	}
	return nil
}

func (e *Engine) validateMedia(in Input, _ fields.Policy) *ValidationError {
	if in.Media == nil || strings.TrimSpace(in.Media.FileID) == "" {
		return newValidationError(records.FieldMedia, e.copy.RejectMedia)
	}
	return nil
}

// checkNameFree rejects a display name already used by another record of the
// same content type and scope.
func (e *Engine) checkNameFree(ctx context.Context, convo *conversation.Context, name string) error {
	existing, err := e.store.GetByNameOrID(ctx, convo.ContentType, convo.Scope, name)
	switch {
	case recordsvc.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case convo.Target != nil && existing.ID == convo.Target.ID:
		return nil
	default:
		return newValidationError(records.FieldName, e.copy.RejectNameExists)
	}
}

func captureField(name string) Effect {
	return func(_ context.Context, step *Step) error {
		step.Convo.Capture(name, strings.TrimSpace(step.Input.Value))
		return nil
	}
}

func captureMedia(_ context.Context, step *Step) error {
	media := step.Input.Media
	step.Convo.Capture(records.FieldMedia, strings.TrimSpace(media.FileID))
	step.Convo.Capture(records.FieldCaption, strings.TrimSpace(media.Caption))
	return nil
}

// chooseKind accepts a content kind only when the policy offers it.
func chooseKind(name string) Effect {
	return func(_ context.Context, step *Step) error {
		if _, ok := step.Policy.Field(name); !ok {
			return errStale
		}
		return nil
	}
}

func (e *Engine) selectTarget(ctx context.Context, step *Step) error {
	key := strings.TrimSpace(step.Input.Value)
	if key == "" {
		return errStale
	}
	convo := step.Convo
	record, err := e.store.GetByNameOrID(ctx, convo.ContentType, convo.Scope, key)
	if err != nil {
		if recordsvc.IsNotFound(err) {
			return newNotFoundError(convo.ContentType, key, err)
		}
		return err
	}
	convo.Target = &conversation.TargetRef{ID: record.ID, Name: record.Name}
	convo.Fields = nil
	step.Target = record
	return nil
}

func turnPage(_ context.Context, step *Step) error {
	page, ok := pagination.ParseToken(step.Input.Value)
	if !ok {
		return errStale
	}
	step.Convo.Page = page
	return nil
}

// loadTarget resolves the record the conversation points at.
func (e *Engine) loadTarget(ctx context.Context, step *Step) (*records.Record, error) {
	if step.Target != nil {
		return step.Target, nil
	}
	convo := step.Convo
	if convo.Target == nil {
		return nil, newNotFoundError(convo.ContentType, "", nil)
	}
	record, err := e.store.GetByNameOrID(ctx, convo.ContentType, convo.Scope, convo.Target.ID.String())
	if err != nil {
		if recordsvc.IsNotFound(err) {
			return nil, newNotFoundError(convo.ContentType, convo.Target.ID.String(), err)
		}
		return nil, err
	}
	step.Target = record
	return record, nil
}

func (e *Engine) fieldPrompt(policy fields.Policy, name string) string {
	if field, ok := policy.Field(name); ok && field.Prompt != "" {
		return field.Prompt
	}
	switch name {
	case records.FieldName:
		return e.copy.PromptName
	case records.FieldURL:
		return e.copy.PromptURL
	case records.FieldDescription:
		return e.copy.PromptText
	case records.FieldMedia:
		return e.copy.PromptMedia
	default:
		return ""
	}
}

func (e *Engine) staticPrompt(name string) PromptFunc {
	return func(_ context.Context, step *Step) (interfaces.Prompt, error) {
		return interfaces.Prompt{Text: e.fieldPrompt(step.Policy, name)}, nil
	}
}

func (e *Engine) kindPrompt(_ context.Context, step *Step) (interfaces.Prompt, error) {
	kinds := step.Policy.ContentKinds()
	options := make([]interfaces.Option, 0, len(kinds))
	for _, kind := range kinds {
		options = append(options, interfaces.Option{Label: kind.Label, Value: kind.Name})
	}
	return interfaces.Prompt{Text: e.copy.PromptContentKind, Options: options}, nil
}

// listPrompt renders one page of the records the operator can pick from.
// The conversation page is clamped to the available range.
func (e *Engine) listPrompt(text string) PromptFunc {
	return func(ctx context.Context, step *Step) (interfaces.Prompt, error) {
		convo := step.Convo
		items, err := e.store.List(ctx, convo.ContentType, convo.Scope)
		if err != nil {
			return interfaces.Prompt{}, fmt.Errorf("flows: list %s: %w", convo.ContentType, err)
		}
		if len(items) == 0 {
			convo.Page = 1
			return interfaces.Prompt{Text: e.copy.PromptEmptyList}, nil
		}

		page := pagination.Paginate(items, e.pageSize, convo.Page)
		convo.Page = page.Number

		options := make([]interfaces.Option, 0, len(page.Items))
		for _, record := range page.Items {
			options = append(options, interfaces.Option{Label: record.Name, Value: record.ID.String()})
		}
		var navigation []interfaces.Option
		if page.HasPrev {
			navigation = append(navigation, interfaces.Option{Label: e.copy.Prev, Value: pagination.Token(page.Number - 1)})
		}
		if page.HasNext {
			navigation = append(navigation, interfaces.Option{Label: e.copy.Next, Value: pagination.Token(page.Number + 1)})
		}
		return interfaces.Prompt{Text: text, Options: options, Navigation: navigation}, nil
	}
}
