package bytecode

import (
	"errors"
	"fmt"
)

// ErrMallocFailed reports that the container could not grow. It carries no
// line prefix.
var ErrMallocFailed = errors.New("Error: malloc failed")

// RuntimeError is a fatal script fault tied to a source line.
type RuntimeError struct {
	Line int    // 1-based script line
	Msg  string // Diagnostic without the line prefix
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("L%d: %s", e.Line, e.Msg)
}

func runtimeErrorf(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// IsRuntimeError checks if an error is a script fault and returns it.
func IsRuntimeError(err error) (*RuntimeError, bool) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}
