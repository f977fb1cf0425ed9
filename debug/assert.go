package debug

import (
	"fmt"

	e "github.com/rami3l/blox/errors"
)

// Assertf aborts with an *errors.InternalError when b does not hold.
// Failed assertions always indicate a compiler or VM defect, never bad user input.
func Assertf(b bool, format string, a ...any) {
	if !b {
		panic(&e.InternalError{Reason: fmt.Sprintf(format, a...)})
	}
}

func AssertEq[T comparable](expected, got T) { Assertf(expected == got, "%v != %v", expected, got) }

func Unreachable() *e.InternalError { return &e.InternalError{Reason: "entered unreachable code"} }
