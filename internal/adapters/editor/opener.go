package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Opener launches the user's editor on vault notes
type Opener struct {
	vaultPath string
	lookPath  func(string) (string, error)
}

// NewOpener creates an editor opener for notes inside vaultPath
func NewOpener(vaultPath string) *Opener {
	return &Opener{
		vaultPath: vaultPath,
		lookPath:  exec.LookPath,
	}
}

// Command returns an exec.Cmd editing the vault-relative path.
// The command is meant for bubbletea's ExecProcess.
func (o *Opener) Command(relPath string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, filepath.Join(o.vaultPath, filepath.FromSlash(relPath)))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
