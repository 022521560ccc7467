package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"orbnaments/internal/domain"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

// failure is a failed run reported with its user-facing notice
type failure struct {
	notice string
	err    error
}

func (f *failure) Error() string { return f.notice }
func (f *failure) Unwrap() error { return f.err }

// printOutcome writes the notice line, then the affected paths for dry runs
func printOutcome(w io.Writer, o *domain.Outcome) {
	switch {
	case o.Count == 0:
		yellow.Fprintln(w, o.Message)
	case o.DryRun:
		yellow.Fprintln(w, o.Message)
		for _, f := range o.Files {
			faint.Fprintf(w, "  %s\n", f)
		}
	default:
		green.Fprintln(w, o.Message)
	}
}

func printError(w io.Writer, err error) {
	red.Fprintln(w, err)
}

func printStats(w io.Writer, s *domain.SyncStats) {
	fmt.Fprintf(w, "Indexed %d file(s): %d added, %d updated, %d removed, %d link(s) added in %s\n",
		s.FilesScanned, s.NodesAdded, s.NodesUpdated, s.NodesDeleted, s.EdgesAdded, s.Duration.Round(time.Millisecond))
}
