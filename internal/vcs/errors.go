package vcs

import (
	"errors"
	"fmt"
	"strings"
)

const (
	vcsErrorTemplateConstant = "git %s failed in %s: %v"
	vcsErrorNoCauseConstant  = "unknown error"
	defaultDirectoryConstant = "current directory"
)

var (
	// ErrGitExecutorNotConfigured indicates the client was constructed without an executor.
	ErrGitExecutorNotConfigured = errors.New("git executor not configured")
	// ErrMergeConflict indicates a merge stopped because of conflicting changes.
	ErrMergeConflict = errors.New("merge conflict")
)

// Error describes a failed git operation.
type Error struct {
	Operation        string
	Arguments        []string
	WorkingDirectory string
	Conflict         bool
	Err              error
}

// Error renders the operation, location, and cause.
func (vcsError *Error) Error() string {
	location := vcsError.WorkingDirectory
	if len(strings.TrimSpace(location)) == 0 {
		location = defaultDirectoryConstant
	}
	var cause any = vcsErrorNoCauseConstant
	if vcsError.Err != nil {
		cause = vcsError.Err
	}
	if vcsError.Conflict {
		cause = fmt.Sprintf("%v: %v", ErrMergeConflict, cause)
	}
	return fmt.Sprintf(vcsErrorTemplateConstant, vcsError.Operation, location, cause)
}

// Unwrap exposes the underlying execution error.
func (vcsError *Error) Unwrap() error {
	return vcsError.Err
}

// Is matches ErrMergeConflict for conflicting merges.
func (vcsError *Error) Is(target error) bool {
	return target == ErrMergeConflict && vcsError.Conflict
}
