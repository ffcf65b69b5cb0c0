package cli

import "fmt"

// ExitError ends the process with Code after the command has already
// reported the reason.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s (exit %d)", e.Reason, e.Code)
}
