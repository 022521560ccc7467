package views

import (
	"context"

	"orbnaments/internal/domain"
	"orbnaments/internal/ports"
)

// Service is what the views need from the wired application
type Service interface {
	ports.Maintenance
	Reindex(ctx context.Context, full bool) (*domain.SyncStats, error)
}

// Action identifies an entry of the command palette
type Action int

const (
	ActionRemoveConflicts Action = iota
	ActionMoveLinked
	ActionReindex
)

func (a Action) String() string {
	switch a {
	case ActionRemoveConflicts:
		return "Remove sync conflicts"
	case ActionMoveLinked:
		return "Move linked files"
	case ActionReindex:
		return "Rebuild link index"
	default:
		return "Unknown"
	}
}

// View switching messages
type SwitchToPaletteMsg struct{}

type SwitchToActionMsg struct {
	Action Action
}

type SwitchToHelpMsg struct{}

// OpenObsidianMsg asks the app to open a note in Obsidian
type OpenObsidianMsg struct {
	Path string
}

// OpenEditorMsg asks the app to open a note in $EDITOR
type OpenEditorMsg struct {
	Path string
}

// OpenedMsg reports the result of an open request back to the action view
type OpenedMsg struct {
	Path string
	Err  error
}

// outcomeMsg carries the result of a maintenance run
type outcomeMsg struct {
	outcome *domain.Outcome
	dryRun  bool
	err     error
}

// reindexMsg carries the result of an index rebuild
type reindexMsg struct {
	stats *domain.SyncStats
	err   error
}

type confirmedMsg struct{}
