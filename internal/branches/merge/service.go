package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/branchsync/internal/branches/diff"
	"github.com/temirov/branchsync/internal/repos/shared"
)

const (
	gitClientMissingMessageConstant = "git client not configured"
	differMissingMessageConstant    = "branch differ not configured"
	repositoryPathRequiredConstant  = "repository path must be provided"
	branchNamesRequiredConstant     = "source and target branch names must be provided"
	headRevisionConstant            = "HEAD"

	prepareTargetErrorTemplateConstant = "failed to prepare target branch %s: %w"
	backupErrorTemplateConstant        = "failed to create backup branch %s: %w"
	mergeErrorTemplateConstant         = "failed to merge %s into %s: %w"

	cleanupDeleteExistingLocalConstant  = "delete existing local backup"
	cleanupDeleteExistingRemoteConstant = "delete existing remote backup"
	cleanupRestoreTargetConstant        = "restore target branch"
	cleanupAbortMergeConstant           = "abort merge"
	cleanupResetTargetConstant          = "reset target branch"
	cleanupDeleteLocalBackupConstant    = "delete local backup"
	cleanupDeleteRemoteBackupConstant   = "delete remote backup"

	cleanupFailedMessageConstant   = "best-effort cleanup failed"
	mergeSkippedMessageConstant    = "branches do not differ; nothing to merge"
	backupCreatedMessageConstant   = "backup branch published"
	mergeCompletedMessageConstant  = "merge completed"
	mergeRolledBackMessageConstant = "merge failed; target branch rolled back"
	mergeFailedMessageConstant     = "merge not attempted"

	logFieldRepositoryPathConstant = "repository_path"
	logFieldFromBranchConstant     = "from_branch"
	logFieldToBranchConstant       = "to_branch"
	logFieldBackupBranchConstant   = "backup_branch"
	logFieldCleanupStepConstant    = "step"
	logFieldStageConstant          = "stage"
	logFieldConflictConstant       = "conflict"
)

// ErrGitClientNotConfigured indicates the git client dependency was missing.
var ErrGitClientNotConfigured = errors.New(gitClientMissingMessageConstant)

// ErrDifferNotConfigured indicates the differ dependency was missing.
var ErrDifferNotConfigured = errors.New(differMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredConstant)

// ErrBranchNamesRequired indicates a blank source or target branch.
var ErrBranchNamesRequired = errors.New(branchNamesRequiredConstant)

// GitOperations is the subset of git used by the merge workflow.
type GitOperations interface {
	Checkout(executionContext context.Context, repositoryPath string, branch string) error
	Pull(executionContext context.Context, repositoryPath string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branch string) error
	DeleteLocalBranch(executionContext context.Context, repositoryPath string, branch string) error
	DeleteRemoteBranch(executionContext context.Context, repositoryPath string, branch string) error
	Push(executionContext context.Context, repositoryPath string, branch string) error
	Merge(executionContext context.Context, repositoryPath string, revision string) error
	MergeAbort(executionContext context.Context, repositoryPath string) error
	ResetHard(executionContext context.Context, repositoryPath string, revision string) error
	RevParse(executionContext context.Context, repositoryPath string, revision string) (string, error)
	RemoteRef(branch string) string
}

// Differ compares the source and target branches.
type Differ interface {
	Diff(executionContext context.Context, options diff.Options) (diff.Result, error)
}

// Dependencies enumerates external collaborators required for merges.
type Dependencies struct {
	GitClient GitOperations
	Differ    Differ
	Clock     shared.Clock
	Logger    *zap.Logger
}

// Service runs the merge-with-backup workflow.
type Service struct {
	gitClient GitOperations
	differ    Differ
	clock     shared.Clock
	logger    *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitClient == nil {
		return nil, ErrGitClientNotConfigured
	}
	if dependencies.Differ == nil {
		return nil, ErrDifferNotConfigured
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gitClient: dependencies.GitClient, differ: dependencies.Differ, clock: clock, logger: logger}, nil
}

// Merge merges origin/FromBranch into ToBranch behind a dated backup branch. Workflow failures are reported
// through Result; the returned error is reserved for invalid options.
func (service *Service) Merge(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}
	fromBranch := strings.TrimSpace(options.FromBranch)
	toBranch := strings.TrimSpace(options.ToBranch)
	if len(fromBranch) == 0 || len(toBranch) == 0 {
		return Result{}, ErrBranchNamesRequired
	}

	result := Result{RepositoryPath: repositoryPath, FromBranch: fromBranch, ToBranch: toBranch, Stage: StageIdle}
	workflowLogger := service.logger.With(
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldFromBranchConstant, fromBranch),
		zap.String(logFieldToBranchConstant, toBranch),
	)

	diffResult, diffError := service.differ.Diff(executionContext, diff.Options{RepositoryPath: repositoryPath, FromBranch: fromBranch, ToBranch: toBranch})
	if diffError != nil {
		return result, diffError
	}
	result.Diff = diffResult
	result.Stage = StageDiffChecked

	if !diffResult.Diverged() {
		result.Stage = StageNoOp
		result.Err = diffResult.Err
		workflowLogger.Debug(mergeSkippedMessageConstant, zap.Stringer(logFieldStageConstant, diffResult.Outcome))
		return result, nil
	}

	if prepareError := service.prepareTarget(executionContext, repositoryPath, toBranch); prepareError != nil {
		return service.fail(workflowLogger, result, fmt.Errorf(prepareTargetErrorTemplateConstant, toBranch, prepareError)), nil
	}

	result.BackupBranch = BackupBranchName(toBranch, service.clock.Now())
	workflowLogger = workflowLogger.With(zap.String(logFieldBackupBranchConstant, result.BackupBranch))

	result.Cleanup = append(result.Cleanup,
		service.bestEffort(executionContext, workflowLogger, cleanupDeleteExistingLocalConstant, func(stepContext context.Context) error {
			return service.gitClient.DeleteLocalBranch(stepContext, repositoryPath, result.BackupBranch)
		}),
		service.bestEffort(executionContext, workflowLogger, cleanupDeleteExistingRemoteConstant, func(stepContext context.Context) error {
			return service.gitClient.DeleteRemoteBranch(stepContext, repositoryPath, result.BackupBranch)
		}),
	)

	if backupError := service.publishBackup(executionContext, workflowLogger, &result); backupError != nil {
		return service.fail(workflowLogger, result, fmt.Errorf(backupErrorTemplateConstant, result.BackupBranch, backupError)), nil
	}
	result.Stage = StageBackedUp
	workflowLogger.Info(backupCreatedMessageConstant)

	result.Stage = StageMerging
	mergeAttempted, mergeError := service.mergeIntoTarget(executionContext, &result)
	if mergeError != nil {
		service.rollback(executionContext, workflowLogger, &result, mergeAttempted)
		result.Stage = StageAborted
		result.Err = fmt.Errorf(mergeErrorTemplateConstant, service.gitClient.RemoteRef(fromBranch), toBranch, mergeError)
		workflowLogger.Error(mergeRolledBackMessageConstant, zap.Bool(logFieldConflictConstant, result.Conflict()), zap.Error(result.Err))
		return result, nil
	}

	result.Stage = StageMerged
	workflowLogger.Info(mergeCompletedMessageConstant)
	return result, nil
}

func (service *Service) prepareTarget(executionContext context.Context, repositoryPath string, toBranch string) error {
	if checkoutError := service.gitClient.Checkout(executionContext, repositoryPath, toBranch); checkoutError != nil {
		return checkoutError
	}
	return service.gitClient.Pull(executionContext, repositoryPath)
}

// publishBackup creates, checks out, and pushes the backup branch. Partial progress is undone best-effort.
func (service *Service) publishBackup(executionContext context.Context, workflowLogger *zap.Logger, result *Result) error {
	repositoryPath := result.RepositoryPath
	if createError := service.gitClient.CreateBranch(executionContext, repositoryPath, result.BackupBranch); createError != nil {
		return createError
	}

	publishError := service.gitClient.Checkout(executionContext, repositoryPath, result.BackupBranch)
	checkedOut := publishError == nil
	pushAttempted := false
	if publishError == nil {
		pushAttempted = true
		publishError = service.gitClient.Push(executionContext, repositoryPath, result.BackupBranch)
	}
	if publishError == nil {
		return nil
	}

	if checkedOut {
		result.Cleanup = append(result.Cleanup, service.bestEffort(executionContext, workflowLogger, cleanupRestoreTargetConstant, func(stepContext context.Context) error {
			return service.gitClient.Checkout(stepContext, repositoryPath, result.ToBranch)
		}))
	}
	service.removeBackup(executionContext, workflowLogger, result, pushAttempted)
	return publishError
}

// mergeIntoTarget reports whether git merge ran so rollback knows whether a merge may be in progress.
func (service *Service) mergeIntoTarget(executionContext context.Context, result *Result) (bool, error) {
	repositoryPath := result.RepositoryPath
	if checkoutError := service.gitClient.Checkout(executionContext, repositoryPath, result.ToBranch); checkoutError != nil {
		return false, checkoutError
	}
	if pullError := service.gitClient.Pull(executionContext, repositoryPath); pullError != nil {
		return false, pullError
	}

	preMergeRevision, revParseError := service.gitClient.RevParse(executionContext, repositoryPath, headRevisionConstant)
	if revParseError != nil {
		return false, revParseError
	}
	result.PreMergeRevision = preMergeRevision

	if mergeError := service.gitClient.Merge(executionContext, repositoryPath, service.gitClient.RemoteRef(result.FromBranch)); mergeError != nil {
		return true, mergeError
	}
	return true, service.gitClient.Push(executionContext, repositoryPath, result.ToBranch)
}

func (service *Service) rollback(executionContext context.Context, workflowLogger *zap.Logger, result *Result, mergeAttempted bool) {
	repositoryPath := result.RepositoryPath
	if mergeAttempted {
		result.Cleanup = append(result.Cleanup, service.bestEffort(executionContext, workflowLogger, cleanupAbortMergeConstant, func(stepContext context.Context) error {
			return service.gitClient.MergeAbort(stepContext, repositoryPath)
		}))
	}
	if len(result.PreMergeRevision) > 0 {
		result.Cleanup = append(result.Cleanup, service.bestEffort(executionContext, workflowLogger, cleanupResetTargetConstant, func(stepContext context.Context) error {
			return service.gitClient.ResetHard(stepContext, repositoryPath, result.PreMergeRevision)
		}))
	}
	service.removeBackup(executionContext, workflowLogger, result, true)
}

func (service *Service) removeBackup(executionContext context.Context, workflowLogger *zap.Logger, result *Result, includeRemote bool) {
	repositoryPath := result.RepositoryPath
	result.Cleanup = append(result.Cleanup, service.bestEffort(executionContext, workflowLogger, cleanupDeleteLocalBackupConstant, func(stepContext context.Context) error {
		return service.gitClient.DeleteLocalBranch(stepContext, repositoryPath, result.BackupBranch)
	}))
	if includeRemote {
		result.Cleanup = append(result.Cleanup, service.bestEffort(executionContext, workflowLogger, cleanupDeleteRemoteBackupConstant, func(stepContext context.Context) error {
			return service.gitClient.DeleteRemoteBranch(stepContext, repositoryPath, result.BackupBranch)
		}))
	}
}

func (service *Service) bestEffort(executionContext context.Context, workflowLogger *zap.Logger, name string, step func(stepContext context.Context) error) CleanupStep {
	stepError := step(executionContext)
	if stepError != nil {
		workflowLogger.Warn(cleanupFailedMessageConstant, zap.String(logFieldCleanupStepConstant, name), zap.Error(stepError))
	}
	return CleanupStep{Name: name, BestEffort: true, Err: stepError}
}

func (service *Service) fail(workflowLogger *zap.Logger, result Result, failure error) Result {
	result.Stage = StageFailed
	result.Err = failure
	workflowLogger.Error(mergeFailedMessageConstant, zap.Error(failure))
	return result
}
