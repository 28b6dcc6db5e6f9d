package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// FilePick is a file selection dialog.
type FilePick struct {
	styles    *Styles
	prompt    string
	picker    filepicker.Model
	selected  string
	cancelled bool
}

// NewFilePick creates a dialog browsing dir. Only files ending in one of
// exts can be chosen.
func NewFilePick(s *Styles, prompt, dir string, exts []string) *FilePick {
	if s == nil {
		s = DefaultStyles()
	}
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = exts
	fp.ShowPermissions = false
	fp.Styles.Selected = s.Cursor
	return &FilePick{styles: s, prompt: prompt, picker: fp}
}

// Init reads the starting directory.
func (m *FilePick) Init() tea.Cmd {
	return m.picker.Init()
}

// Update forwards messages to the file picker and records a selection.
func (m *FilePick) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.selected = path
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the dialog.
func (m *FilePick) View() string {
	if m.selected != "" || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.prompt))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("[j/k] Navegar  [l/h] Abrir/Volver  [Enter] Elegir  [q] Cancelar"))
	return b.String()
}

// Selected returns the chosen path, or "" if the dialog was cancelled.
func (m *FilePick) Selected() string {
	if m.cancelled {
		return ""
	}
	return m.selected
}
