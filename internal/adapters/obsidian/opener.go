package obsidian

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"

	"orbnaments/internal/domain"
	"orbnaments/internal/ports"
)

// Opener implements ports.ObsidianOpener
type Opener struct {
	vaultName string
	run       func(uri string) error
}

// Ensure Opener implements ObsidianOpener
var _ ports.ObsidianOpener = (*Opener)(nil)

// NewOpener creates a new Obsidian opener for the given vault path
func NewOpener(vaultPath string) *Opener {
	return &Opener{
		vaultName: filepath.Base(filepath.Clean(vaultPath)),
		run:       openURI,
	}
}

// OpenNote opens a vault-relative note in Obsidian using the obsidian:// URI scheme
func (o *Opener) OpenNote(relPath string) error {
	uri, err := o.BuildURI(relPath)
	if err != nil {
		return err
	}
	return o.run(uri)
}

// BuildURI constructs the obsidian:// URI for a vault-relative path
func (o *Opener) BuildURI(relPath string) (string, error) {
	if domain.EscapesVault(relPath) {
		return "", fmt.Errorf("file is outside the vault: %s", relPath)
	}
	rel := domain.NormalizePath(relPath)
	if rel == "" {
		return "", fmt.Errorf("no file to open")
	}

	uri := fmt.Sprintf("obsidian://open?vault=%s&file=%s",
		url.PathEscape(o.vaultName),
		url.PathEscape(rel),
	)

	return uri, nil
}

func openURI(uri string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
