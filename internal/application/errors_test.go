package application

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationError_IsMatchesKindSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     ErrorKind
	}{
		{name: "scan", err: NewScanError("list", fs.ErrPermission), sentinel: ErrScan, kind: KindScan},
		{name: "mutation", err: NewMutationError("trash", "a.md", fs.ErrPermission), sentinel: ErrMutation, kind: KindMutation},
		{name: "folder", err: NewFolderCreationError("Finanzas", fs.ErrExist), sentinel: ErrFolderCreation, kind: KindFolderCreation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			for _, other := range []error{ErrScan, ErrMutation, ErrFolderCreation} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, tt.err, other)
				}
			}

			kind, ok := KindOf(fmt.Errorf("wrapped: %w", tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestOperationError_UnwrapsCause(t *testing.T) {
	err := NewMutationError("rename", "a.md", fs.ErrExist)
	assert.ErrorIs(t, err, fs.ErrExist)
	assert.Equal(t, "rename a.md: mutation failed: file already exists", err.Error())
}

func TestOperationError_MessageWithoutPath(t *testing.T) {
	err := NewScanError("list files", errors.New("disk gone"))
	assert.Equal(t, "list files: scan failed: disk gone", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
}
