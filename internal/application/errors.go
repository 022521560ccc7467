package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrScan           = errors.New("scan failed")
	ErrMutation       = errors.New("mutation failed")
	ErrFolderCreation = errors.New("folder creation failed")
	ErrVaultBusy      = errors.New("vault is locked by another run")
)

// ErrorKind classifies where an operation failed
type ErrorKind int

const (
	KindScan           ErrorKind = iota // Listing or link lookup failed
	KindMutation                        // A trash or rename call failed
	KindFolderCreation                  // The destination folder could not be established
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindScan:
		return "scan"
	case KindMutation:
		return "mutation"
	case KindFolderCreation:
		return "folder creation"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindScan:
		return ErrScan
	case KindMutation:
		return ErrMutation
	case KindFolderCreation:
		return ErrFolderCreation
	default:
		return nil
	}
}

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OperationError is the failure of a maintenance operation.
// Err carries the store error that caused it.
type OperationError struct {
	Kind ErrorKind
	Op   string // e.g. "trash", "rename", "list"
	Path string // Affected path, if any
	Err  error
}

func (e *OperationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.sentinel().Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewScanError wraps a failure to enumerate or look up files
func NewScanError(op string, err error) error {
	return &OperationError{Kind: KindScan, Op: op, Err: err}
}

// NewMutationError wraps a failed trash or rename of path
func NewMutationError(op, path string, err error) error {
	return &OperationError{Kind: KindMutation, Op: op, Path: path, Err: err}
}

// NewFolderCreationError wraps a failure to establish the folder at path
func NewFolderCreationError(path string, err error) error {
	return &OperationError{Kind: KindFolderCreation, Op: "create folder", Path: path, Err: err}
}

// KindOf returns the kind of an operation error anywhere in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind, true
	}
	return 0, false
}
