package prompt

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs each dialog as a bubbletea program on the terminal.
type TUI struct {
	styles *Styles
	in     io.Reader
	out    io.Writer
}

// NewTUI creates a terminal prompter. Nil in/out default to stdin/stdout.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TUI{styles: DefaultStyles(), in: in, out: out}
}

func (t *TUI) run(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dialog: %w", err)
	}
	return nil
}

// SelectMultiple implements Prompter.
func (t *TUI) SelectMultiple(ctx context.Context, prompt string, options []string) ([]string, error) {
	m := NewMultiSelect(t.styles, prompt, options)
	if err := t.run(ctx, m); err != nil {
		return nil, err
	}
	return m.Selected(), nil
}

// SelectFile implements Prompter.
func (t *TUI) SelectFile(ctx context.Context, prompt, dir string, exts []string) (string, error) {
	m := NewFilePick(t.styles, prompt, dir, exts)
	if err := t.run(ctx, m); err != nil {
		return "", err
	}
	return m.Selected(), nil
}

// Notify implements Notifier by printing a framed message.
func (t *TUI) Notify(title, message string) {
	fmt.Fprintln(t.out, RenderNotice(t.styles, title, message))
}

// RenderNotice formats a notification.
func RenderNotice(s *Styles, title, message string) string {
	if s == nil {
		s = DefaultStyles()
	}
	return s.Box.Render(s.Title.Render(title) + "\n" + s.Normal.Render(message))
}
