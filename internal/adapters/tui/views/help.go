package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"orbnaments/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	marker string
}

// NewHelpModel creates a new help view model
func NewHelpModel(conflictMarker string) *HelpModel {
	return &HelpModel{marker: conflictMarker}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToPaletteMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Orbnaments Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Vault housekeeping for Obsidian"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Palette"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("Enter", "Preview the selected command"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Running a command"))
	b.WriteString("\n")
	b.WriteString(helpLine("Tab", "Switch between target and destination"))
	b.WriteString(helpLine("y / n", "Confirm or cancel after the preview"))
	b.WriteString(helpLine("c", "Copy affected paths"))
	b.WriteString(helpLine("o", "Open the target note in Obsidian"))
	b.WriteString(helpLine("e", "Edit the target note in $EDITOR"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Sync conflicts"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Any file whose name contains " + m.marker))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  e.g. note" + m.marker + "-20240101-120000-ABCDEFG.md"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
