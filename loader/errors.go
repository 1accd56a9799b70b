package loader

import (
	"fmt"
	"io"

	"github.com/sakib/mankey/core"
)

// FileError wraps a read, decode or validation failure with the file it
// came from.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := e.Op
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *FileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type ErrorCollector struct {
	// Violations collected so far
	Errors core.ValidationErrors

	// Stop collecting after this many violations
	// 0 => no limit
	MaxErrors int
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}

func (c *ErrorCollector) PrintErrors(w io.Writer) {
	for _, err := range c.Errors {
		fmt.Fprintln(w, err)
	}
}

// Add records the violations of the record at index. It returns false once
// the limit has been reached.
func (c *ErrorCollector) Add(index int, errs core.ValidationErrors) bool {
	for _, err := range errs.WithIndex(index) {
		if c.MaxErrors > 0 && len(c.Errors) >= c.MaxErrors {
			return false
		}
		c.Errors = append(c.Errors, err)
	}
	return c.MaxErrors == 0 || len(c.Errors) < c.MaxErrors
}

// Err returns the collected violations, or nil.
func (c *ErrorCollector) Err() error {
	return c.Errors.Err()
}
