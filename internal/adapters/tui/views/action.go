package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"orbnaments/internal/adapters/tui/styles"
	"orbnaments/internal/domain"
)

// ActionState represents the current step of an action
type ActionState int

const (
	ActionInput      ActionState = iota // Collecting target note and destination
	ActionPreviewing                    // Dry run in flight
	ActionConfirm                       // Waiting for y/n on the preview
	ActionRunning                       // Real run in flight
	ActionDone                          // Showing the notice
	ActionFailed                        // Showing the error
)

const fileListPageSize = 12

// ActionKeyMap defines key bindings for the action view
type ActionKeyMap struct {
	NextField key.Binding
	Submit    key.Binding
	Up        key.Binding
	Down      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Copy      key.Binding
	Open      key.Binding
	Edit      key.Binding
	Back      key.Binding
}

var ActionKeys = ActionKeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "preview"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", "right", "l"),
		key.WithHelp("→/l", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "left", "h"),
		key.WithHelp("←/h", "prev page"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy paths"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in obsidian"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit note"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q", "enter"),
		key.WithHelp("esc", "back"),
	),
}

// MoveDefaults prefills the relocation inputs
type MoveDefaults struct {
	TargetNote        string
	DestinationFolder string
}

// ActionModel runs one maintenance action: preview, confirm, run, report
type ActionModel struct {
	ViewState
	svc      Service
	defaults MoveDefaults
	confirm  ConfirmationModel

	state ActionState
	kind  Action

	targetInput textinput.Model
	destInput   textinput.Model
	focus       int

	spinner   spinner.Model
	paginator *Paginator

	preview *domain.Outcome
	outcome *domain.Outcome
	stats   *domain.SyncStats
	err     error

	// copyText writes to the system clipboard; replaced in tests
	copyText func(string) error
}

// NewActionModel creates the action view
func NewActionModel(svc Service, defaults MoveDefaults) *ActionModel {
	target := textinput.New()
	target.Placeholder = defaults.TargetNote
	target.CharLimit = 256
	target.Width = 40

	dest := textinput.New()
	dest.Placeholder = defaults.DestinationFolder
	dest.CharLimit = 256
	dest.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ActionModel{
		svc:         svc,
		defaults:    defaults,
		confirm:     NewConfirmationModel(),
		targetInput: target,
		destInput:   dest,
		spinner:     s,
		paginator:   NewPaginator(fileListPageSize),
		copyText:    clipboard.WriteAll,
	}
}

// State returns the current step
func (m *ActionModel) State() ActionState {
	return m.state
}

// Outcome returns the result of the last real run
func (m *ActionModel) Outcome() *domain.Outcome {
	return m.outcome
}

// Start resets the view for a new run of kind
func (m *ActionModel) Start(kind Action) tea.Cmd {
	m.kind = kind
	m.preview = nil
	m.outcome = nil
	m.stats = nil
	m.err = nil
	m.ClearMessage()
	m.paginator.Reset()

	switch kind {
	case ActionMoveLinked:
		m.state = ActionInput
		m.focus = 0
		m.targetInput.SetValue("")
		m.destInput.SetValue("")
		m.destInput.Blur()
		return m.targetInput.Focus()
	case ActionReindex:
		m.state = ActionRunning
		return tea.Batch(m.spinner.Tick, m.reindex())
	default:
		m.state = ActionPreviewing
		return tea.Batch(m.spinner.Tick, m.run(true))
	}
}

// Init initializes the action view
func (m *ActionModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the action view
func (m *ActionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.state == ActionPreviewing || m.state == ActionRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case outcomeMsg:
		return m, m.handleOutcome(msg)

	case reindexMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = ActionFailed
			return m, nil
		}
		m.stats = msg.stats
		m.state = ActionDone
		return m, nil

	case confirmedMsg:
		if m.state != ActionConfirm {
			return m, nil
		}
		m.state = ActionRunning
		return m, tea.Batch(m.spinner.Tick, m.run(false))

	case OpenedMsg:
		if msg.Err != nil {
			m.SetMessage(fmt.Sprintf("Could not open %s: %v", msg.Path, msg.Err), true)
		} else {
			m.SetMessage("Opened "+msg.Path, false)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case ActionInput:
			return m.updateInput(msg)
		case ActionConfirm:
			return m.updateConfirm(msg)
		case ActionDone:
			return m.updateDone(msg)
		case ActionFailed:
			return m, backToPalette
		}
	}

	return m, nil
}

func (m *ActionModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, backToPalette
	case tea.KeyTab, tea.KeyShiftTab:
		return m, m.toggleFocus()
	case tea.KeyEnter:
		if m.focus == 0 {
			return m, m.toggleFocus()
		}
		m.state = ActionPreviewing
		return m, tea.Batch(m.spinner.Tick, m.run(true))
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.targetInput, cmd = m.targetInput.Update(msg)
	} else {
		m.destInput, cmd = m.destInput.Update(msg)
	}
	return m, cmd
}

func (m *ActionModel) toggleFocus() tea.Cmd {
	if m.focus == 0 {
		m.focus = 1
		m.targetInput.Blur()
		return m.destInput.Focus()
	}
	m.focus = 0
	m.destInput.Blur()
	return m.targetInput.Focus()
}

func (m *ActionModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.confirm.HandleKeyMsg(msg,
		func() tea.Msg { return confirmedMsg{} },
		func() tea.Msg { return SwitchToPaletteMsg{} },
	); handled {
		return m, cmd
	}
	m.scroll(msg)
	return m, nil
}

func (m *ActionModel) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ActionKeys.Copy):
		m.copyFiles()
		return m, nil
	case key.Matches(msg, ActionKeys.Open):
		if target := m.target(); target != "" {
			return m, func() tea.Msg { return OpenObsidianMsg{Path: target} }
		}
		return m, nil
	case key.Matches(msg, ActionKeys.Edit):
		if target := m.target(); target != "" {
			return m, func() tea.Msg { return OpenEditorMsg{Path: target} }
		}
		return m, nil
	case key.Matches(msg, ActionKeys.Back):
		return m, backToPalette
	}
	m.scroll(msg)
	return m, nil
}

func (m *ActionModel) scroll(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, ActionKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, ActionKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, ActionKeys.NextPage):
		m.paginator.NextPage()
	case key.Matches(msg, ActionKeys.PrevPage):
		m.paginator.PrevPage()
	}
}

func (m *ActionModel) copyFiles() {
	files := m.files()
	if len(files) == 0 {
		m.SetMessage("Nothing to copy", true)
		return
	}
	if err := m.copyText(strings.Join(files, "\n")); err != nil {
		m.SetMessage("Clipboard unavailable: "+err.Error(), true)
		return
	}
	m.SetMessage(fmt.Sprintf("Copied %d path(s)", len(files)), false)
}

func (m *ActionModel) handleOutcome(msg outcomeMsg) tea.Cmd {
	if msg.err != nil {
		m.err = msg.err
		m.state = ActionFailed
		return nil
	}

	if msg.dryRun {
		m.preview = msg.outcome
		m.paginator.Reset()
		m.paginator.SetTotal(len(msg.outcome.Files))
		if msg.outcome.Count == 0 {
			// Nothing to confirm
			m.outcome = msg.outcome
			m.state = ActionDone
			return nil
		}
		m.state = ActionConfirm
		return nil
	}

	m.outcome = msg.outcome
	m.paginator.Reset()
	m.paginator.SetTotal(len(msg.outcome.Files))
	m.state = ActionDone
	return nil
}

func (m *ActionModel) run(dryRun bool) tea.Cmd {
	svc := m.svc
	kind := m.kind
	target := strings.TrimSpace(m.targetInput.Value())
	dest := strings.TrimSpace(m.destInput.Value())
	return func() tea.Msg {
		ctx := context.Background()
		var (
			outcome *domain.Outcome
			err     error
		)
		if kind == ActionMoveLinked {
			outcome, err = svc.MoveLinkedFiles(ctx, target, dest, dryRun)
		} else {
			outcome, err = svc.RemoveSyncConflicts(ctx, dryRun)
		}
		return outcomeMsg{outcome: outcome, dryRun: dryRun, err: err}
	}
}

func (m *ActionModel) reindex() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		stats, err := svc.Reindex(context.Background(), true)
		return reindexMsg{stats: stats, err: err}
	}
}

// files returns the paths shown on screen
func (m *ActionModel) files() []string {
	if m.outcome != nil {
		return m.outcome.Files
	}
	if m.preview != nil {
		return m.preview.Files
	}
	return nil
}

func (m *ActionModel) target() string {
	if m.outcome != nil && m.outcome.Target != "" {
		return m.outcome.Target
	}
	if m.preview != nil {
		return m.preview.Target
	}
	return ""
}

func backToPalette() tea.Msg {
	return SwitchToPaletteMsg{}
}

// View renders the action view
func (m *ActionModel) View() string {
	v := NewViewBuilder().Title(m.kind.String())

	switch m.state {
	case ActionInput:
		v.Raw(m.renderInputs()).
			BlankLine().
			Help(ActionKeys.NextField, ActionKeys.Submit, DefaultConfirmKeys.Cancel)

	case ActionPreviewing:
		v.Line(m.spinner.View() + " Looking for files...")

	case ActionRunning:
		v.Line(m.spinner.View() + " Working...")

	case ActionConfirm:
		v.Line(styles.WarningMsg.Render(previewHeadline(m.kind, m.preview))).
			BlankLine().
			Raw(RenderFileList(m.preview.Files, m.paginator)).
			BlankLine().
			Line(RenderConfirmPrompt("Proceed?"))

	case ActionDone:
		v.Message(m.Message, m.MessageErr)
		if m.stats != nil {
			v.Line(RenderMessage(statsLine(m.stats), false))
		} else if m.outcome != nil {
			v.Line(RenderMessage(m.outcome.Message, false)).
				BlankLine().
				Raw(RenderFileList(m.outcome.Files, m.paginator))
		}
		v.BlankLine()
		if m.target() != "" {
			v.Help(ActionKeys.Copy, ActionKeys.Open, ActionKeys.Edit, ActionKeys.Back)
		} else {
			v.Help(ActionKeys.Copy, ActionKeys.Back)
		}

	case ActionFailed:
		v.Line(RenderMessage(m.err.Error(), true)).
			BlankLine().
			Muted("Press any key to go back")
	}

	return v.String()
}

func (m *ActionModel) renderInputs() string {
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render("Target note"))
	b.WriteString("\n")
	b.WriteString(inputBox(m.focus == 0).Render(m.targetInput.View()))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Destination folder"))
	b.WriteString("\n")
	b.WriteString(inputBox(m.focus == 1).Render(m.destInput.View()))
	b.WriteString("\n")

	if m.defaults.TargetNote != "" || m.defaults.DestinationFolder != "" {
		b.WriteString(RenderMuted("Leave a field empty to use the configured default"))
		b.WriteString("\n")
	}
	return b.String()
}

func inputBox(focused bool) lipgloss.Style {
	if focused {
		return styles.InputFocused
	}
	return styles.InputField
}

func previewHeadline(kind Action, preview *domain.Outcome) string {
	if kind == ActionMoveLinked {
		return fmt.Sprintf("%d file(s) link to %s and will move to %s",
			preview.Count, preview.Target, preview.Destination)
	}
	return fmt.Sprintf("%d sync conflict file(s) will be trashed", preview.Count)
}

func statsLine(s *domain.SyncStats) string {
	return fmt.Sprintf("Indexed %d file(s): +%d ~%d -%d nodes, +%d -%d links in %s",
		s.FilesScanned, s.NodesAdded, s.NodesUpdated, s.NodesDeleted,
		s.EdgesAdded, s.EdgesDeleted, s.Duration.Round(time.Millisecond))
}
