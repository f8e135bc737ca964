package flows

import (
	"context"
	"strings"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

var createKindStates = map[string]State{
	records.FieldURL:         StateCreateURL,
	records.FieldDescription: StateCreateText,
	records.FieldMedia:       StateCreateMedia,
}

func (e *Engine) createDefinition() Definition {
	return Definition{
		Flow:    conversation.FlowCreate,
		Initial: StateCreateName,
		States: []StateSpec{
			{Name: StateCreateName},
			{Name: StateCreateContentKind},
			{Name: StateCreateURL},
			{Name: StateCreateText},
			{Name: StateCreateMedia},
			{Name: StateCreatePersist, Terminal: true},
		},
		Transitions: []Transition{
			{
				Name:     "capture_name",
				From:     StateCreateName,
				On:       ShapeText,
				Targets:  []State{StateCreateContentKind, StateCreateURL, StateCreateText, StateCreateMedia},
				Validate: e.validateName,
				Apply:    e.captureCreateName,
			},
			{Name: "choose_url", From: StateCreateContentKind, On: ShapeChoice, Match: records.FieldURL, To: StateCreateURL, Apply: chooseKind(records.FieldURL)},
			{Name: "choose_text", From: StateCreateContentKind, On: ShapeChoice, Match: records.FieldDescription, To: StateCreateText, Apply: chooseKind(records.FieldDescription)},
			{Name: "choose_media", From: StateCreateContentKind, On: ShapeChoice, Match: records.FieldMedia, To: StateCreateMedia, Apply: chooseKind(records.FieldMedia)},
			{Name: "capture_url", From: StateCreateURL, On: ShapeText, To: StateCreatePersist, Validate: e.validateURL, Apply: captureField(records.FieldURL)},
			{Name: "capture_text", From: StateCreateText, On: ShapeText, To: StateCreatePersist, Validate: e.validateText, Apply: captureField(records.FieldDescription)},
			{Name: "capture_media", From: StateCreateMedia, On: ShapeMedia, To: StateCreatePersist, Validate: e.validateMedia, Apply: captureMedia},
		},
		Prompts: map[State]PromptFunc{
			StateCreateName:        e.staticPrompt(records.FieldName),
			StateCreateContentKind: e.kindPrompt,
			StateCreateURL:         e.staticPrompt(records.FieldURL),
			StateCreateText:        e.staticPrompt(records.FieldDescription),
			StateCreateMedia:       e.staticPrompt(records.FieldMedia),
		},
		Commits: map[State]CommitFunc{
			StateCreatePersist: e.commitCreate,
		},
	}
}

// captureCreateName stores the name and skips kind selection when the policy
// offers a single content kind.
func (e *Engine) captureCreateName(ctx context.Context, step *Step) error {
	name := strings.TrimSpace(step.Input.Value)
	if err := e.checkNameFree(ctx, step.Convo, name); err != nil {
		return err
	}
	step.Convo.Capture(records.FieldName, name)

	step.Next = StateCreateContentKind
	if step.Policy.SkipsKindSelection() {
		step.Next = createKindStates[step.Policy.ContentKinds()[0].Name]
	}
	return nil
}

func (e *Engine) commitCreate(ctx context.Context, step *Step) (*records.Record, error) {
	convo := step.Convo
	return e.store.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: convo.ContentType,
		Scope:       convo.Scope,
		Fields:      convo.Fields.Clone(),
		ActorID:     convo.Key.OperatorID,
	})
}
