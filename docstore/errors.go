package docstore

import (
	"errors"
	"fmt"
)

// ErrLoadDisabled is returned by Reload when the store was configured with
// LoadFromDisk disabled: there is no defined source file in that mode.
var ErrLoadDisabled = errors.New("store was configured without disk loading")

// NotFoundError is returned by Load (and the typed model layer) when a
// document id is absent and no default applies.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.ID)
}

// ParseError reports malformed JSON in the backing file during load or
// reload. It carries the file path and wraps the underlying parse error.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
