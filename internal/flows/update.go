package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

var updateKindStates = map[string]State{
	records.FieldURL:         StateUpdateURL,
	records.FieldDescription: StateUpdateText,
	records.FieldMedia:       StateUpdateMedia,
}

var errNoTarget = errors.New("flows: conversation has no target record")

func (e *Engine) updateDefinition() Definition {
	return Definition{
		Flow:    conversation.FlowUpdate,
		Initial: StateUpdateSelect,
		States: []StateSpec{
			{Name: StateUpdateSelect},
			{Name: StateUpdateField},
			{Name: StateUpdateName},
			{Name: StateUpdateContentKind},
			{Name: StateUpdateURL},
			{Name: StateUpdateText},
			{Name: StateUpdateMedia},
			{Name: StateUpdatePersist, Terminal: true},
		},
		Transitions: []Transition{
			{Name: "select_record", From: StateUpdateSelect, On: ShapeChoice, To: StateUpdateField, Apply: e.selectTarget},
			{Name: "select_record_by_name", From: StateUpdateSelect, On: ShapeText, To: StateUpdateField, Apply: e.selectTarget},
			{Name: "turn_page", From: StateUpdateSelect, On: ShapePage, To: StateUpdateSelect, Apply: turnPage},
			{Name: "edit_name", From: StateUpdateField, On: ShapeChoice, Match: AxisName, To: StateUpdateName},
			{
				Name:    "edit_content",
				From:    StateUpdateField,
				On:      ShapeChoice,
				Match:   AxisContent,
				Targets: []State{StateUpdateURL, StateUpdateText, StateUpdateMedia, StateUpdateContentKind},
				Apply:   e.routeContent,
			},
			{Name: "capture_name", From: StateUpdateName, On: ShapeText, To: StateUpdatePersist, Validate: e.validateName, Apply: e.captureUpdateName},
			{Name: "choose_url", From: StateUpdateContentKind, On: ShapeChoice, Match: records.FieldURL, To: StateUpdateURL, Apply: chooseKind(records.FieldURL)},
			{Name: "choose_text", From: StateUpdateContentKind, On: ShapeChoice, Match: records.FieldDescription, To: StateUpdateText, Apply: chooseKind(records.FieldDescription)},
			{Name: "choose_media", From: StateUpdateContentKind, On: ShapeChoice, Match: records.FieldMedia, To: StateUpdateMedia, Apply: chooseKind(records.FieldMedia)},
			{Name: "capture_url", From: StateUpdateURL, On: ShapeText, To: StateUpdatePersist, Validate: e.validateURL, Apply: captureField(records.FieldURL)},
			{Name: "capture_text", From: StateUpdateText, On: ShapeText, To: StateUpdatePersist, Validate: e.validateText, Apply: captureField(records.FieldDescription)},
			{Name: "capture_media", From: StateUpdateMedia, On: ShapeMedia, To: StateUpdatePersist, Validate: e.validateMedia, Apply: captureMedia},
		},
		Prompts: map[State]PromptFunc{
			StateUpdateSelect:      e.listPrompt(e.copy.PromptUpdateSelect),
			StateUpdateField:       e.fieldChoicePrompt,
			StateUpdateName:        e.currentNamePrompt,
			StateUpdateContentKind: e.kindPrompt,
			StateUpdateURL:         e.currentValuePrompt(records.FieldURL, e.copy.PromptCurrentURL),
			StateUpdateText:        e.currentValuePrompt(records.FieldDescription, e.copy.PromptCurrentText),
			StateUpdateMedia:       e.currentMediaPrompt,
		},
		Commits: map[State]CommitFunc{
			StateUpdatePersist: e.commitUpdate,
		},
	}
}

// routeContent picks the capture state for the content field the record
// currently uses. Records without any populated content field go through
// kind selection first.
func (e *Engine) routeContent(ctx context.Context, step *Step) error {
	record, err := e.loadTarget(ctx, step)
	if err != nil {
		return err
	}
	field, ok := step.Policy.ContentField(record)
	if !ok {
		step.Next = StateUpdateContentKind
		return nil
	}
	next, ok := updateKindStates[field.Name]
	if !ok {
		step.Next = StateUpdateContentKind
		return nil
	}
	step.Next = next
	return nil
}

func (e *Engine) captureUpdateName(ctx context.Context, step *Step) error {
	name := strings.TrimSpace(step.Input.Value)
	if err := e.checkNameFree(ctx, step.Convo, name); err != nil {
		return err
	}
	step.Convo.Capture(records.FieldName, name)
	return nil
}

func (e *Engine) fieldChoicePrompt(_ context.Context, _ *Step) (interfaces.Prompt, error) {
	return interfaces.Prompt{
		Text: e.copy.PromptUpdateField,
		Options: []interfaces.Option{
			{Label: e.copy.AxisName, Value: AxisName},
			{Label: e.copy.AxisContent, Value: AxisContent},
		},
	}, nil
}

func (e *Engine) currentNamePrompt(_ context.Context, step *Step) (interfaces.Prompt, error) {
	if step.Convo.Target == nil {
		return interfaces.Prompt{}, errNoTarget
	}
	return interfaces.Prompt{Text: fmt.Sprintf(e.copy.PromptCurrentName, step.Convo.Target.Name)}, nil
}

// currentValuePrompt shows the value being replaced, or the plain capture
// prompt when the record has none yet.
func (e *Engine) currentValuePrompt(name, format string) PromptFunc {
	return func(ctx context.Context, step *Step) (interfaces.Prompt, error) {
		record, err := e.loadTarget(ctx, step)
		if err != nil {
			return interfaces.Prompt{}, err
		}
		if !record.Has(name) {
			return interfaces.Prompt{Text: e.fieldPrompt(step.Policy, name)}, nil
		}
		return interfaces.Prompt{Text: fmt.Sprintf(format, record.Value(name))}, nil
	}
}

func (e *Engine) currentMediaPrompt(ctx context.Context, step *Step) (interfaces.Prompt, error) {
	record, err := e.loadTarget(ctx, step)
	if err != nil {
		return interfaces.Prompt{}, err
	}
	if !record.Has(records.FieldMedia) {
		return interfaces.Prompt{Text: e.fieldPrompt(step.Policy, records.FieldMedia)}, nil
	}
	return interfaces.Prompt{
		Text: e.copy.PromptCurrentMedia,
		Media: &interfaces.Media{
			FileID:  record.Value(records.FieldMedia),
			Caption: record.Value(records.FieldCaption),
		},
	}, nil
}

func (e *Engine) commitUpdate(ctx context.Context, step *Step) (*records.Record, error) {
	convo := step.Convo
	if convo.Target == nil {
		return nil, errNoTarget
	}
	return e.store.Update(ctx, interfaces.UpdateRecordRequest{
		ID:      convo.Target.ID,
		Fields:  convo.Fields.Clone(),
		ActorID: convo.Key.OperatorID,
	})
}
