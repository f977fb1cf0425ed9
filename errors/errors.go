package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

type CompilationError struct {
	Line, Col, Len int
	Lexeme         string
	Reason         string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error [L%d:%d]: %s", e.Line, e.Col, e.Reason)
}

// CompileFailure is the single failure reported for a compilation that hit
// one or more CompilationErrors.
type CompileFailure struct{ errs *multierror.Error }

func NewCompileFailure(errs *multierror.Error) *CompileFailure {
	if errs.ErrorOrNil() == nil {
		return nil
	}
	errs.ErrorFormat = func(es []error) string {
		lines := make([]string, len(es))
		for i, err := range es {
			lines[i] = err.Error()
		}
		return strings.Join(lines, "\n")
	}
	return &CompileFailure{errs}
}

func (f *CompileFailure) Error() string { return f.errs.Error() }

// Errors returns every CompilationError collected, in source order.
func (f *CompileFailure) Errors() (res []*CompilationError) {
	for _, err := range f.errs.WrappedErrors() {
		var ce *CompilationError
		if errors.As(err, &ce) {
			res = append(res, ce)
		}
	}
	return
}

func (f *CompileFailure) Unwrap() error { return f.errs }

type RuntimeError struct {
	Line   int
	Reason string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error [L%d]: %s", e.Line, e.Reason)
}

// InternalError signals a compiler or VM defect. It is only ever panicked.
type InternalError struct{ Reason string }

func (e *InternalError) Error() string { return "internal error: " + e.Reason }

//go:generate stringer -type=Status -trimprefix=Status
type Status int

const (
	StatusOK Status = iota
	StatusCompileError
	StatusRuntimeError
)

// StatusOf classifies the result of an interpretation.
func StatusOf(err error) Status {
	var cf *CompileFailure
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &cf):
		return StatusCompileError
	default:
		return StatusRuntimeError
	}
}

func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusCompileError:
		return 2
	default:
		return 1
	}
}
