package presentation

import (
	"strings"

	"github.com/goliatone/go-content-bot/internal/pagination"
	"github.com/goliatone/go-content-bot/internal/validation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// EditSuffix is appended to a menu callback to open its admin flows.
const EditSuffix = "_"

// Labels holds the control captions rendered by the keyboard builders.
type Labels struct {
	Back string
	Edit string
	Yes  string
	No   string
	Prev string
	Next string
}

// DefaultLabels returns the captions the bot ships with.
func DefaultLabels() Labels {
	return Labels{
		Back: "Назад",
		Edit: "Редактировать🔧",
		Yes:  "Да",
		No:   "Нет",
		Prev: "◀️ Предыдущая",
		Next: "Следующая ▶️",
	}
}

func (l Labels) merged() Labels {
	defaults := DefaultLabels()
	if l.Back == "" {
		l.Back = defaults.Back
	}
	if l.Edit == "" {
		l.Edit = defaults.Edit
	}
	if l.Yes == "" {
		l.Yes = defaults.Yes
	}
	if l.No == "" {
		l.No = defaults.No
	}
	if l.Prev == "" {
		l.Prev = defaults.Prev
	}
	if l.Next == "" {
		l.Next = defaults.Next
	}
	return l
}

// Keyboard is an ordered grid of controls.
type Keyboard struct {
	Rows [][]interfaces.Option `json:"rows"`
}

// Buttons flattens the keyboard in display order.
func (k Keyboard) Buttons() []interfaces.Option {
	var out []interfaces.Option
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}

// Overlay adds the privileged edit control for a menu.
type Overlay struct {
	Menu    string
	Enabled bool
}

// BuildKeyboard lays out one option per row, the edit overlay when enabled
// and the return control on the last row.
func BuildKeyboard(options []interfaces.Option, back string, overlay Overlay, labels Labels) Keyboard {
	labels = labels.merged()
	kb := Keyboard{}
	for _, option := range options {
		kb.Rows = append(kb.Rows, []interfaces.Option{option})
	}
	if overlay.Enabled && strings.TrimSpace(overlay.Menu) != "" {
		kb.Rows = append(kb.Rows, []interfaces.Option{{Label: labels.Edit, Value: EditCallback(overlay.Menu)}})
	}
	if back != "" {
		kb.Rows = append(kb.Rows, []interfaces.Option{{Label: labels.Back, Value: back}})
	}
	return kb
}

// PromptKeyboard renders the controls of an engine prompt. Navigation shares
// one row and the return control stays last.
func PromptKeyboard(prompt interfaces.Prompt, labels Labels) Keyboard {
	labels = labels.merged()
	kb := BuildKeyboard(prompt.Options, "", Overlay{Menu: prompt.Menu, Enabled: prompt.Privileged}, labels)
	if len(prompt.Navigation) > 0 {
		kb.Rows = append(kb.Rows, append([]interfaces.Option(nil), prompt.Navigation...))
	}
	if prompt.Back != "" {
		kb.Rows = append(kb.Rows, []interfaces.Option{{Label: labels.Back, Value: prompt.Back}})
	}
	return kb
}

// PaginatedKeyboard renders one page of options. The previous control only
// appears past the first page and the next control only while items remain.
func PaginatedKeyboard(options []interfaces.Option, pageSize, page int, back string, labels Labels) Keyboard {
	labels = labels.merged()
	current := pagination.Paginate(options, pageSize, page)
	kb := BuildKeyboard(current.Items, "", Overlay{}, labels)

	var nav []interfaces.Option
	if current.HasPrev {
		nav = append(nav, interfaces.Option{Label: labels.Prev, Value: pagination.Token(current.Number - 1)})
	}
	if current.HasNext {
		nav = append(nav, interfaces.Option{Label: labels.Next, Value: pagination.Token(current.Number + 1)})
	}
	if len(nav) > 0 {
		kb.Rows = append(kb.Rows, nav)
	}
	if back != "" {
		kb.Rows = append(kb.Rows, []interfaces.Option{{Label: labels.Back, Value: back}})
	}
	return kb
}

// ConfirmationKeyboard renders the yes/no pair on one row.
func ConfirmationKeyboard(labels Labels) Keyboard {
	labels = labels.merged()
	return Keyboard{Rows: [][]interfaces.Option{{
		{Label: labels.Yes, Value: labels.Yes},
		{Label: labels.No, Value: labels.No},
	}}}
}

// EditCallback returns the callback that opens the admin flows of menu.
func EditCallback(menu string) string {
	return strings.TrimSpace(menu) + EditSuffix
}

// IsEditCallback reports whether callback opens admin flows and returns the
// menu it belongs to.
func IsEditCallback(callback string) (string, bool) {
	menu, ok := strings.CutSuffix(strings.TrimSpace(callback), EditSuffix)
	if !ok || menu == "" {
		return "", false
	}
	return menu, true
}

// CaptionFits reports whether a media caption stays within the transport
// limit. Oversized captions are refused before they reach the engine.
func CaptionFits(caption string) bool {
	return validation.CaptionFits(caption)
}
