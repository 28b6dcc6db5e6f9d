package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MultiSelect is a checklist dialog.
type MultiSelect struct {
	styles    *Styles
	prompt    string
	options   []string
	checked   []bool
	cursor    int
	cancelled bool
	done      bool
}

// NewMultiSelect creates a checklist for options.
func NewMultiSelect(s *Styles, prompt string, options []string) *MultiSelect {
	if s == nil {
		s = DefaultStyles()
	}
	return &MultiSelect{
		styles:  s,
		prompt:  prompt,
		options: options,
		checked: make([]bool, len(options)),
	}
}

// Init initialises the dialog.
func (m *MultiSelect) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m *MultiSelect) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.options) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case "a":
		all := true
		for _, c := range m.checked {
			all = all && c
		}
		for i := range m.checked {
			m.checked[i] = !all
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the checklist.
func (m *MultiSelect) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.prompt))
	b.WriteString("\n\n")
	for i, opt := range m.options {
		cursor := "  "
		style := m.styles.Normal
		if i == m.cursor {
			cursor = "> "
			style = m.styles.Cursor
		}
		box := "[ ] "
		if m.checked[i] {
			box = m.styles.Checked.Render("[x]") + " "
		}
		b.WriteString(cursor + box + style.Render(opt) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("[j/k] Navegar  [espacio] Marcar  [a] Todos  [Enter] OK  [Esc] Cancelar"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the checked options in display order, or nil if the
// dialog was cancelled or nothing was checked.
func (m *MultiSelect) Selected() []string {
	if m.cancelled {
		return nil
	}
	var out []string
	for i, c := range m.checked {
		if c {
			out = append(out, m.options[i])
		}
	}
	return out
}

// Cancelled reports whether the user dismissed the dialog.
func (m *MultiSelect) Cancelled() bool {
	return m.cancelled
}
