package vcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/branchsync/internal/execshell"
	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisableValueConstant    = "0"

	gitCloneSubcommandConstant    = "clone"
	gitPullSubcommandConstant     = "pull"
	gitCheckoutSubcommandConstant = "checkout"
	gitBranchSubcommandConstant   = "branch"
	gitPushSubcommandConstant     = "push"
	gitMergeSubcommandConstant    = "merge"
	gitResetSubcommandConstant    = "reset"
	gitRevParseSubcommandConstant = "rev-parse"
	gitLogSubcommandConstant      = "log"

	gitFastForwardOnlyFlagConstant = "--ff-only"
	gitForceDeleteFlagConstant     = "-D"
	gitDeleteFlagConstant          = "--delete"
	gitNoEditFlagConstant          = "--no-edit"
	gitAbortFlagConstant           = "--abort"
	gitHardFlagConstant            = "--hard"
	gitVerifyFlagConstant          = "--verify"
	gitOnelineFlagConstant         = "--oneline"
	gitEndOfOptionsConstant        = "--"

	operationCloneConstant              = "clone"
	operationPullConstant               = "pull"
	operationCheckoutConstant           = "checkout"
	operationCreateBranchConstant       = "create branch"
	operationDeleteLocalBranchConstant  = "delete local branch"
	operationDeleteRemoteBranchConstant = "delete remote branch"
	operationPushConstant               = "push"
	operationMergeConstant              = "merge"
	operationMergeAbortConstant         = "merge abort"
	operationResetConstant              = "reset"
	operationRevParseConstant           = "rev-parse"
	operationLogRangeConstant           = "log range"

	remoteRefTemplateConstant = "%s/%s"
	logRangeTemplateConstant  = "%s..%s"
)

var mergeConflictMarkers = []string{"CONFLICT", "Automatic merge failed"}

// GitClient runs branch-level git operations against a working copy and a single named remote.
type GitClient struct {
	executor   shared.GitExecutor
	remoteName string
}

// NewGitClient constructs a GitClient. A blank remote name selects "origin".
func NewGitClient(executor shared.GitExecutor, remoteName string) (*GitClient, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		trimmedRemote = shared.OriginRemoteNameConstant
	}
	return &GitClient{executor: executor, remoteName: trimmedRemote}, nil
}

// RemoteName returns the remote every push, delete, and range operation targets.
func (client *GitClient) RemoteName() string {
	return client.remoteName
}

// RemoteRef returns the remote-tracking reference for a branch, such as "origin/main".
func (client *GitClient) RemoteRef(branch string) string {
	return fmt.Sprintf(remoteRefTemplateConstant, client.remoteName, branch)
}

// Clone clones repositoryURL into destinationPath.
func (client *GitClient) Clone(executionContext context.Context, repositoryURL string, destinationPath string) error {
	_, cloneError := client.run(executionContext, operationCloneConstant, "", gitCloneSubcommandConstant, gitEndOfOptionsConstant, repositoryURL, destinationPath)
	return cloneError
}

// Pull fast-forwards the checked-out branch and refreshes remote-tracking references.
func (client *GitClient) Pull(executionContext context.Context, repositoryPath string) error {
	_, pullError := client.run(executionContext, operationPullConstant, repositoryPath, gitPullSubcommandConstant, gitFastForwardOnlyFlagConstant)
	return pullError
}

// Checkout switches the working copy to branch.
func (client *GitClient) Checkout(executionContext context.Context, repositoryPath string, branch string) error {
	_, checkoutError := client.run(executionContext, operationCheckoutConstant, repositoryPath, gitCheckoutSubcommandConstant, branch)
	return checkoutError
}

// CreateBranch creates branch at the current HEAD without switching to it.
func (client *GitClient) CreateBranch(executionContext context.Context, repositoryPath string, branch string) error {
	_, createError := client.run(executionContext, operationCreateBranchConstant, repositoryPath, gitBranchSubcommandConstant, branch)
	return createError
}

// DeleteLocalBranch force-deletes a local branch.
func (client *GitClient) DeleteLocalBranch(executionContext context.Context, repositoryPath string, branch string) error {
	_, deleteError := client.run(executionContext, operationDeleteLocalBranchConstant, repositoryPath, gitBranchSubcommandConstant, gitForceDeleteFlagConstant, branch)
	return deleteError
}

// DeleteRemoteBranch deletes a branch from the remote.
func (client *GitClient) DeleteRemoteBranch(executionContext context.Context, repositoryPath string, branch string) error {
	_, deleteError := client.run(executionContext, operationDeleteRemoteBranchConstant, repositoryPath, gitPushSubcommandConstant, client.remoteName, gitDeleteFlagConstant, branch)
	return deleteError
}

// Push publishes branch to the remote.
func (client *GitClient) Push(executionContext context.Context, repositoryPath string, branch string) error {
	_, pushError := client.run(executionContext, operationPushConstant, repositoryPath, gitPushSubcommandConstant, client.remoteName, branch)
	return pushError
}

// Merge merges revision into the checked-out branch without opening an editor. Conflicts match
// ErrMergeConflict.
func (client *GitClient) Merge(executionContext context.Context, repositoryPath string, revision string) error {
	_, mergeError := client.run(executionContext, operationMergeConstant, repositoryPath, gitMergeSubcommandConstant, gitNoEditFlagConstant, revision)
	if mergeError == nil {
		return nil
	}

	var vcsError *Error
	var failedCommand execshell.CommandFailedError
	if errors.As(mergeError, &vcsError) && errors.As(mergeError, &failedCommand) && reportsConflict(failedCommand.Result) {
		vcsError.Conflict = true
	}
	return mergeError
}

// MergeAbort abandons an in-progress merge.
func (client *GitClient) MergeAbort(executionContext context.Context, repositoryPath string) error {
	_, abortError := client.run(executionContext, operationMergeAbortConstant, repositoryPath, gitMergeSubcommandConstant, gitAbortFlagConstant)
	return abortError
}

// ResetHard resets the checked-out branch, index, and working tree to revision.
func (client *GitClient) ResetHard(executionContext context.Context, repositoryPath string, revision string) error {
	_, resetError := client.run(executionContext, operationResetConstant, repositoryPath, gitResetSubcommandConstant, gitHardFlagConstant, revision)
	return resetError
}

// RevParse resolves a revision expression to a commit identifier.
func (client *GitClient) RevParse(executionContext context.Context, repositoryPath string, revision string) (string, error) {
	executionResult, revParseError := client.run(executionContext, operationRevParseConstant, repositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, revision)
	if revParseError != nil {
		return "", revParseError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// LogRange lists, one per line, the commits reachable from the remote fromBranch but not from the remote
// toBranch.
func (client *GitClient) LogRange(executionContext context.Context, repositoryPath string, fromBranch string, toBranch string) (string, error) {
	revisionRange := fmt.Sprintf(logRangeTemplateConstant, client.RemoteRef(toBranch), client.RemoteRef(fromBranch))
	executionResult, logError := client.run(executionContext, operationLogRangeConstant, repositoryPath, gitLogSubcommandConstant, gitOnelineFlagConstant, revisionRange, gitEndOfOptionsConstant)
	if logError != nil {
		return "", logError
	}
	return executionResult.StandardOutput, nil
}

func (client *GitClient) run(executionContext context.Context, operation string, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisableValueConstant},
	}

	executionResult, executionError := client.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return execshell.ExecutionResult{}, &Error{
			Operation:        operation,
			Arguments:        append([]string(nil), arguments...),
			WorkingDirectory: repositoryPath,
			Err:              executionError,
		}
	}
	return executionResult, nil
}

func reportsConflict(result execshell.ExecutionResult) bool {
	combinedOutput := result.StandardOutput + "\n" + result.StandardError
	for _, marker := range mergeConflictMarkers {
		if strings.Contains(combinedOutput, marker) {
			return true
		}
	}
	return false
}
