package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"orbnaments/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel provides the y/n handling shared by destructive actions
type ConfirmationModel struct {
	Keys ConfirmKeyMap
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// HandleKeyMsg processes key messages for confirmation prompts.
// Returns (handled, cmd) where handled is true if the key was processed.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, func() tea.Msg { return onCancel() }
	case key.Matches(msg, m.Keys.Confirm):
		return true, func() tea.Msg { return onConfirm() }
	}
	return false, nil
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}

// RenderFileList renders the visible page of affected paths
func RenderFileList(files []string, p *Paginator) string {
	if len(files) == 0 {
		return ""
	}

	var b strings.Builder
	start, end := p.VisibleRange()
	for i := start; i < end; i++ {
		prefix := "  "
		if i == p.Cursor() {
			prefix = styles.HelpKey.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(styles.FilePath.Render(files[i]))
		b.WriteString("\n")
	}
	if p.TotalPages() > 1 {
		b.WriteString(RenderMuted(pageIndicator(p)))
		b.WriteString("\n")
	}
	return b.String()
}

func pageIndicator(p *Paginator) string {
	return fmt.Sprintf("  page %d/%d", p.CurrentPage(), p.TotalPages())
}
