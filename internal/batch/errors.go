package batch

import (
	"errors"
	"fmt"

	"github.com/temirov/branchsync/internal/projects"
)

var (
	// ErrUnknownOperation indicates an unsupported -o/--option value.
	ErrUnknownOperation = errors.New("invalid option")
	// ErrFromBranchRequired indicates diff or merge without a source branch.
	ErrFromBranchRequired = errors.New("source branch not specified (-f/--from_branch)")
	// ErrToBranchRequired indicates diff or merge without a target branch.
	ErrToBranchRequired = errors.New("target branch not specified (-t/--to_branch)")
	// ErrNoProjects indicates an empty project list.
	ErrNoProjects = projects.ErrRegistryEmpty
	// ErrUnexpectedArguments indicates positional arguments, which the command does not accept.
	ErrUnexpectedArguments = errors.New("positional arguments are not supported")
	// ErrCacheNotConfigured indicates the orchestrator was constructed without a workspace cache.
	ErrCacheNotConfigured = errors.New("workspace cache not configured")
	// ErrDifferNotConfigured indicates the orchestrator was constructed without a branch differ.
	ErrDifferNotConfigured = errors.New("branch differ not configured")
	// ErrMergerNotConfigured indicates the orchestrator was constructed without a merge engine.
	ErrMergerNotConfigured = errors.New("merge engine not configured")
)

// ConfigurationError reports invalid arguments or project configuration. It is fatal and is returned before
// any project is processed.
type ConfigurationError struct {
	Detail string
	Err    error
}

// Error renders the cause with optional detail.
func (configurationError ConfigurationError) Error() string {
	if len(configurationError.Detail) == 0 {
		return configurationError.Err.Error()
	}
	return fmt.Sprintf("%v: %s", configurationError.Err, configurationError.Detail)
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Err
}

func newConfigurationError(cause error, detail string) error {
	return ConfigurationError{Detail: detail, Err: cause}
}
