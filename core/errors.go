package core

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned when the current read-eval cycle was aborted by
// an interrupt.
var ErrInterrupted = errors.New("interrupted")

// ExitError requests that the interpreter terminate with Code.
type ExitError struct {
	Code int
	// Message is printed before exiting if non-empty.
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// ExitCode extracts the requested exit status from err. Nil maps to 0 and
// errors other than *ExitError map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
