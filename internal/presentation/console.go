package presentation

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// ConsolePresenter renders prompts as numbered text menus. The operator picks
// a control by typing its number.
type ConsolePresenter struct {
	mu     sync.Mutex
	out    io.Writer
	labels Labels
	seq    int64
	last   []interfaces.Option
}

var _ interfaces.Presenter = (*ConsolePresenter)(nil)

// NewConsolePresenter writes prompts to out.
func NewConsolePresenter(out io.Writer, labels Labels) *ConsolePresenter {
	return &ConsolePresenter{out: out, labels: labels.merged()}
}

func (p *ConsolePresenter) RenderPrompt(_ context.Context, chat interfaces.ChatRef, prompt interfaces.Prompt) (interfaces.MessageRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	if prompt.Media != nil {
		fmt.Fprintf(&b, "[image %s]", prompt.Media.FileID)
		if prompt.Media.Caption != "" {
			fmt.Fprintf(&b, " %s", prompt.Media.Caption)
		}
		b.WriteString("\n")
	}
	if prompt.Text != "" {
		b.WriteString(prompt.Text)
		b.WriteString("\n")
	}

	keyboard := PromptKeyboard(prompt, p.labels)
	buttons := keyboard.Buttons()
	index := 0
	for _, row := range keyboard.Rows {
		cells := make([]string, 0, len(row))
		for _, button := range row {
			index++
			if button.URL != "" {
				cells = append(cells, fmt.Sprintf("[%d] %s <%s>", index, button.Label, button.URL))
				continue
			}
			cells = append(cells, fmt.Sprintf("[%d] %s", index, button.Label))
		}
		b.WriteString("  ")
		b.WriteString(strings.Join(cells, "   "))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(p.out, b.String()); err != nil {
		return interfaces.MessageRef{}, fmt.Errorf("presentation: write prompt: %w", err)
	}
	p.seq++
	p.last = buttons
	return interfaces.MessageRef{ChatID: chat.ChatID, MessageID: p.seq}, nil
}

// Resolve maps a typed control number from the last prompt to its callback.
func (p *ConsolePresenter) Resolve(input string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(p.last) {
		return "", false
	}
	button := p.last[n-1]
	if button.Value == "" {
		return "", false
	}
	return button.Value, true
}
