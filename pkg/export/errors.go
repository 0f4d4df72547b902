package export

import (
	"errors"
	"fmt"
)

// ErrScaffold marks a virtual file tree that could not be assembled.
var ErrScaffold = errors.New("scaffold failed")

// ErrExport marks any other failure while mapping shapes or executing templates.
var ErrExport = errors.New("export failed")

// ScaffoldError reports a folder or file entry that cannot be created.
type ScaffoldError struct {
	Path   string
	Reason string
}

func (e *ScaffoldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrScaffold, e.Path, e.Reason)
}

func (e *ScaffoldError) Unwrap() error {
	return ErrScaffold
}

// Error wraps a failure during one stage of the pipeline.
type Error struct {
	Target string
	Stage  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", ErrExport, e.Target, e.Stage, e.Err)
}

// Unwrap exposes both ErrExport and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{ErrExport, e.Err}
}
