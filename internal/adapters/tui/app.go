package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"orbnaments/internal/adapters/editor"
	"orbnaments/internal/adapters/tui/views"
	"orbnaments/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewPalette ViewState = iota
	ViewAction
	ViewHelp
)

// Config carries the vault details the views display
type Config struct {
	VaultName      string
	ConflictMarker string
	Defaults       views.MoveDefaults
}

// App is the main TUI application model
type App struct {
	svc    views.Service
	opener ports.ObsidianOpener
	editor *editor.Opener

	state   ViewState
	palette *views.PaletteModel
	action  *views.ActionModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application.
// opener and ed may be nil, which disables the matching keys.
func NewApp(svc views.Service, cfg Config, opener ports.ObsidianOpener, ed *editor.Opener) *App {
	return &App{
		svc:     svc,
		opener:  opener,
		editor:  ed,
		state:   ViewPalette,
		palette: views.NewPaletteModel(cfg.VaultName),
		action:  views.NewActionModel(svc, cfg.Defaults),
		help:    views.NewHelpModel(cfg.ConflictMarker),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.palette.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.palette.SetSize(msg.Width, msg.Height)
		a.action.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToActionMsg:
		a.state = ViewAction
		return a, a.action.Start(msg.Action)

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToPaletteMsg:
		a.state = ViewPalette
		return a, nil

	case views.OpenObsidianMsg:
		return a, a.openObsidian(msg.Path)

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewPalette:
		_, cmd = a.palette.Update(msg)
	case ViewAction:
		_, cmd = a.action.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) openObsidian(path string) tea.Cmd {
	if a.opener == nil {
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		return views.OpenedMsg{Path: path, Err: opener.OpenNote(path)}
	}
}

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return views.OpenedMsg{Path: path, Err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return views.OpenedMsg{Path: path, Err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewAction:
		return a.action.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.palette.View()
	}
}
