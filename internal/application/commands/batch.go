package commands

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"orbnaments/internal/domain"
	"orbnaments/internal/logging"
)

// runBatch applies fn to every file concurrently and waits for all of them.
// The first error is returned; the other calls still run to completion.
func runBatch(ctx context.Context, files []domain.FileRef, fn func(context.Context, domain.FileRef) error) error {
	var g errgroup.Group
	for _, f := range files {
		g.Go(func() error {
			return fn(ctx, f)
		})
	}
	return g.Wait()
}

func paths(files []domain.FileRef) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return logging.Discard()
	}
	return l
}
