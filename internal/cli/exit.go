package cli

import "fmt"

// ExitError signals a non-zero exit status for an outcome the command has
// already reported, such as a verify run that found problems.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}
