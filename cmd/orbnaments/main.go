package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"orbnaments/internal/adapters/editor"
	"orbnaments/internal/adapters/obsidian"
	"orbnaments/internal/adapters/tui"
	"orbnaments/internal/adapters/tui/views"
	"orbnaments/internal/app"
	"orbnaments/internal/config"
)

func main() {
	vaultFlag := flag.String("vault", "", "path to the vault (default $"+config.EnvPrefix+"_VAULT or "+config.DefaultVaultPath+")")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "append logs to this file (logs are dropped when empty)")
	flag.Parse()

	if err := run(*vaultFlag, *logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(vaultPath, logLevel, logFile string) error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs never go to stderr here
	var logOutput io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}

	vault, err := app.New(app.Options{
		VaultPath: vaultPath,
		LogLevel:  logLevel,
		LogOutput: logOutput,
	})
	if err != nil {
		return err
	}
	defer vault.Close()

	tuiApp := tui.NewApp(vault, tui.Config{
		VaultName:      filepath.Base(vault.VaultPath),
		ConflictMarker: vault.Settings.ConflictMarker,
		Defaults: views.MoveDefaults{
			TargetNote:        vault.Settings.TargetNote,
			DestinationFolder: vault.Settings.DestinationFolder,
		},
	}, obsidian.NewOpener(vault.VaultPath), editor.NewOpener(vault.VaultPath))

	p := tea.NewProgram(tuiApp, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
