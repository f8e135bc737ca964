package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

var (
	ErrDefinitionFlowRequired   = errors.New("flows: definition flow required")
	ErrDefinitionStatesRequired = errors.New("flows: definition requires at least one state")
	ErrDuplicateState           = errors.New("flows: duplicate state")
	ErrInitialStateInvalid      = errors.New("flows: invalid initial state")
	ErrTransitionNameRequired   = errors.New("flows: transition name required")
	ErrTransitionStateUnknown   = errors.New("flows: transition references unknown state")
	ErrTransitionTargetInvalid  = errors.New("flows: transition needs exactly one of To or Targets")
	ErrDuplicateTransition      = errors.New("flows: duplicate transition for state")
	ErrPromptMissing            = errors.New("flows: non-terminal state has no prompt")
	ErrCommitMissing            = errors.New("flows: terminal state has no commit")
)

// Input is a classified operator action.
type Input struct {
	Shape Shape
	Value string
	Media *MediaInput
}

// MediaInput is an uploaded image with its caption.
type MediaInput struct {
	FileID  string
	Caption string
}

// Step is the per-action working set handed to validators, effects and
// prompt builders. It never outlives a single action.
type Step struct {
	Convo  *conversation.Context
	Policy fields.Policy
	Input  Input
	// Next is set by effects of transitions declaring Targets.
	Next State
	// Target caches the record an update or delete flow points at.
	Target *records.Record
	// Record is the committed record once a terminal state persists.
	Record *records.Record
}

// Validator rejects input before any mutation happens.
type Validator func(in Input, policy fields.Policy) *ValidationError

// Effect mutates the conversation context for an accepted transition.
type Effect func(ctx context.Context, step *Step) error

// PromptFunc renders the prompt shown while a conversation sits in a state.
type PromptFunc func(ctx context.Context, step *Step) (interfaces.Prompt, error)

// CommitFunc performs the single persistence call of a terminal state.
type CommitFunc func(ctx context.Context, step *Step) (*records.Record, error)

// StateSpec declares one state.
type StateSpec struct {
	Name     State
	Terminal bool
}

// Transition maps (From, On, Match) to a destination. Match narrows choice
// transitions to one callback value; an empty Match accepts any value.
type Transition struct {
	Name     string
	From     State
	On       Shape
	Match    string
	To       State
	Targets  []State
	Validate Validator
	Apply    Effect
}

// Definition is the declarative form of one flow.
type Definition struct {
	Flow        conversation.Flow
	Initial     State
	States      []StateSpec
	Transitions []Transition
	Prompts     map[State]PromptFunc
	Commits     map[State]CommitFunc
}

type compiledTransition struct {
	Transition
	targets map[State]struct{}
}

// Machine is a compiled, immutable Definition.
type Machine struct {
	flow     conversation.Flow
	initial  State
	terminal map[State]bool
	table    map[string]*compiledTransition
	shapes   map[State]map[Shape]struct{}
	prompts  map[State]PromptFunc
	commits  map[State]CommitFunc
}

// Compile validates a definition and builds its transition table.
func Compile(def Definition) (*Machine, error) {
	if strings.TrimSpace(string(def.Flow)) == "" {
		return nil, ErrDefinitionFlowRequired
	}
	if len(def.States) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, def.Flow)
	}

	m := &Machine{
		flow:     def.Flow,
		initial:  def.Initial,
		terminal: make(map[State]bool, len(def.States)+1),
		table:    make(map[string]*compiledTransition, len(def.Transitions)),
		shapes:   make(map[State]map[Shape]struct{}),
		prompts:  make(map[State]PromptFunc, len(def.Prompts)),
		commits:  make(map[State]CommitFunc, len(def.Commits)),
	}
	for _, spec := range def.States {
		if _, exists := m.terminal[spec.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, spec.Name)
		}
		m.terminal[spec.Name] = spec.Terminal
	}
	m.terminal[StateReturn] = true

	if initialTerminal, ok := m.terminal[def.Initial]; !ok || initialTerminal {
		return nil, fmt.Errorf("%w: %s", ErrInitialStateInvalid, def.Initial)
	}

	for idx, tr := range def.Transitions {
		if strings.TrimSpace(tr.Name) == "" {
			return nil, fmt.Errorf("%w at index %d", ErrTransitionNameRequired, idx)
		}
		if _, ok := m.terminal[tr.From]; !ok || m.terminal[tr.From] {
			return nil, fmt.Errorf("%w: %s from %s", ErrTransitionStateUnknown, tr.Name, tr.From)
		}
		if (tr.To == "") == (len(tr.Targets) == 0) {
			return nil, fmt.Errorf("%w: %s", ErrTransitionTargetInvalid, tr.Name)
		}
		compiled := &compiledTransition{Transition: tr}
		destinations := tr.Targets
		if tr.To != "" {
			destinations = []State{tr.To}
		}
		compiled.targets = make(map[State]struct{}, len(destinations))
		for _, target := range destinations {
			if _, ok := m.terminal[target]; !ok {
				return nil, fmt.Errorf("%w: %s to %s", ErrTransitionStateUnknown, tr.Name, target)
			}
			compiled.targets[target] = struct{}{}
		}

		key := transitionKey(tr.From, tr.On, tr.Match)
		if _, exists := m.table[key]; exists {
			return nil, fmt.Errorf("%w: %s from %s", ErrDuplicateTransition, tr.Name, tr.From)
		}
		m.table[key] = compiled
		if m.shapes[tr.From] == nil {
			m.shapes[tr.From] = make(map[Shape]struct{})
		}
		m.shapes[tr.From][tr.On] = struct{}{}
	}

	for state, terminal := range m.terminal {
		if state == StateReturn {
			continue
		}
		if terminal {
			commit, ok := def.Commits[state]
			if !ok || commit == nil {
				return nil, fmt.Errorf("%w: %s", ErrCommitMissing, state)
			}
			m.commits[state] = commit
			continue
		}
		prompt, ok := def.Prompts[state]
		if !ok || prompt == nil {
			return nil, fmt.Errorf("%w: %s", ErrPromptMissing, state)
		}
		m.prompts[state] = prompt
	}

	return m, nil
}

// Flow names the compiled flow.
func (m *Machine) Flow() conversation.Flow { return m.flow }

// Initial returns the first state of the flow.
func (m *Machine) Initial() State { return m.initial }

// Terminal reports whether state ends the flow.
func (m *Machine) Terminal(state State) bool { return m.terminal[state] }

// Known reports whether state belongs to the flow.
func (m *Machine) Known(state State) bool {
	_, ok := m.terminal[state]
	return ok
}

// Accepts reports whether any transition leaves state on shape.
func (m *Machine) Accepts(state State, shape Shape) bool {
	_, ok := m.shapes[state][shape]
	return ok
}

// lookup finds the transition for an input, preferring an exact match over
// the catch-all entry for the shape.
func (m *Machine) lookup(state State, in Input) (*compiledTransition, bool) {
	if tr, ok := m.table[transitionKey(state, in.Shape, in.Value)]; ok {
		return tr, true
	}
	tr, ok := m.table[transitionKey(state, in.Shape, "")]
	return tr, ok
}

func (m *Machine) prompt(state State) (PromptFunc, bool) {
	fn, ok := m.prompts[state]
	return fn, ok
}

func (m *Machine) commit(state State) (CommitFunc, bool) {
	fn, ok := m.commits[state]
	return fn, ok
}

func (t *compiledTransition) allows(state State) bool {
	_, ok := t.targets[state]
	return ok
}

func transitionKey(from State, on Shape, match string) string {
	return string(from) + "::" + string(on) + "::" + match
}
