package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"orbnaments/internal/adapters/tui/styles"
)

// PaletteKeyMap defines key bindings for the command palette
type PaletteKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var PaletteKeys = PaletteKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type paletteItem struct {
	action Action
	desc   string
}

// PaletteModel lists the maintenance commands
type PaletteModel struct {
	ViewState
	vaultName string
	items     []paletteItem
	paginator *Paginator
}

// NewPaletteModel creates the command palette for a vault
func NewPaletteModel(vaultName string) *PaletteModel {
	items := []paletteItem{
		{action: ActionRemoveConflicts, desc: "Trash every file whose name carries the sync-conflict marker"},
		{action: ActionMoveLinked, desc: "Move root-level files linking to a note into a folder"},
		{action: ActionReindex, desc: "Rescan the vault and rebuild the link graph"},
	}
	p := NewPaginator(len(items))
	p.SetTotal(len(items))
	return &PaletteModel{
		vaultName: vaultName,
		items:     items,
		paginator: p,
	}
}

// Init initializes the palette
func (m *PaletteModel) Init() tea.Cmd {
	return nil
}

// Selected returns the action under the cursor
func (m *PaletteModel) Selected() Action {
	return m.items[m.paginator.Cursor()].action
}

// Update handles messages for the palette
func (m *PaletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		switch {
		case key.Matches(msg, PaletteKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, PaletteKeys.Up):
			m.paginator.CursorUp()
		case key.Matches(msg, PaletteKeys.Down):
			m.paginator.CursorDown()
		case key.Matches(msg, PaletteKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		case key.Matches(msg, PaletteKeys.Select):
			action := m.Selected()
			return m, func() tea.Msg { return SwitchToActionMsg{Action: action} }
		}
	}
	return m, nil
}

// View renders the palette
func (m *PaletteModel) View() string {
	v := NewViewBuilder().
		Title("Orbnaments").
		Subtitle(m.vaultName).
		Message(m.Message, m.MessageErr)

	for i, item := range m.items {
		line := "  " + item.action.String()
		if i == m.paginator.Cursor() {
			v.Line(styles.ItemSelected.Render(line + " "))
		} else {
			v.Line(styles.Item.Render(line))
		}
		v.Line(styles.ItemDesc.Render(item.desc))
	}

	return v.BlankLine().
		Help(PaletteKeys.Up, PaletteKeys.Down, PaletteKeys.Select, PaletteKeys.Help, PaletteKeys.Quit).
		String()
}
