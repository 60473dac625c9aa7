package cli

import (
	"errors"
)

const (
	exitCodeSuccessConstant = 0
	exitCodeFailureConstant = 1
	exitCodeUsageConstant   = 2
)

// UsageError reports malformed command-line flags.
type UsageError struct {
	Err error
}

// Error describes the malformed input.
func (usageError UsageError) Error() string {
	return usageError.Err.Error()
}

// Unwrap exposes the flag parsing error.
func (usageError UsageError) Unwrap() error {
	return usageError.Err
}

// ExitCode maps an execution error to the process exit status: 0 on success, 2 for usage errors, 1 otherwise.
func ExitCode(executionError error) int {
	if executionError == nil {
		return exitCodeSuccessConstant
	}
	var usageError UsageError
	if errors.As(executionError, &usageError) {
		return exitCodeUsageConstant
	}
	return exitCodeFailureConstant
}
