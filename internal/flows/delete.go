package flows

import (
	"context"
	"fmt"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

func (e *Engine) deleteDefinition() Definition {
	return Definition{
		Flow:    conversation.FlowDelete,
		Initial: StateDeleteSelect,
		States: []StateSpec{
			{Name: StateDeleteSelect},
			{Name: StateDeleteConfirm},
			{Name: StateDeleteRemove, Terminal: true},
		},
		Transitions: []Transition{
			{Name: "select_record", From: StateDeleteSelect, On: ShapeChoice, To: StateDeleteConfirm, Apply: e.selectTarget},
			{Name: "select_record_by_name", From: StateDeleteSelect, On: ShapeText, To: StateDeleteConfirm, Apply: e.selectTarget},
			{Name: "turn_page", From: StateDeleteSelect, On: ShapePage, To: StateDeleteSelect, Apply: turnPage},
			{Name: "confirm", From: StateDeleteConfirm, On: ShapeYes, To: StateDeleteRemove},
			{Name: "decline", From: StateDeleteConfirm, On: ShapeNo, To: StateReturn},
		},
		Prompts: map[State]PromptFunc{
			StateDeleteSelect:  e.listPrompt(e.copy.PromptDeleteSelect),
			StateDeleteConfirm: e.confirmPrompt,
		},
		Commits: map[State]CommitFunc{
			StateDeleteRemove: e.commitDelete,
		},
	}
}

func (e *Engine) confirmPrompt(_ context.Context, step *Step) (interfaces.Prompt, error) {
	if step.Convo.Target == nil {
		return interfaces.Prompt{}, errNoTarget
	}
	return interfaces.Prompt{
		Text: fmt.Sprintf(e.copy.PromptDeleteConfirm, step.Convo.Target.Name),
		Options: []interfaces.Option{
			{Label: e.copy.Yes, Value: e.copy.Yes},
			{Label: e.copy.No, Value: e.copy.No},
		},
	}, nil
}

func (e *Engine) commitDelete(ctx context.Context, step *Step) (*records.Record, error) {
	convo := step.Convo
	if convo.Target == nil {
		return nil, errNoTarget
	}
	if err := e.store.Remove(ctx, convo.Target.ID); err != nil {
		return nil, err
	}
	return &records.Record{
		ID:          convo.Target.ID,
		ContentType: convo.ContentType,
		Scope:       convo.Scope,
		Name:        convo.Target.Name,
	}, nil
}
