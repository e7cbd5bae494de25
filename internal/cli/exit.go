package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/runoshun/elfrun/internal/domain"
)

// Process exit codes.
const (
	ExitSuccess  = 0 // The program ran and succeeded
	ExitFailure  = 1 // The execution service reported a failure
	ExitAbnormal = 2 // Usage, I/O or configuration error
)

// ExitCode maps the error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrExecutionFailed):
		return ExitFailure
	default:
		return ExitAbnormal
	}
}

// PrintError writes err to w unless it is an execution failure, which is
// reported through the exit code alone.
func PrintError(w io.Writer, err error) {
	if err == nil || errors.Is(err, domain.ErrExecutionFailed) {
		return
	}
	_, _ = fmt.Fprintln(w, "elfrun:", err)
}
