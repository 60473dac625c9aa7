package batch

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/branchsync/internal/branches/diff"
	"github.com/temirov/branchsync/internal/branches/merge"
	"github.com/temirov/branchsync/internal/projects"
	"github.com/temirov/branchsync/internal/repos/shared"
	"github.com/temirov/branchsync/internal/workspace"
)

const (
	runStartedMessageConstant        = "batch run started"
	runCompletedMessageConstant      = "batch run completed"
	workingCopyFailedMessageConstant = "working copy unavailable"
	branchesDivergedMessageConstant  = "branches diverged"
	diffInconclusiveMessageConstant  = "branch comparison inconclusive"
	manualMergeMessageConstant       = "manual merge required"
	logFieldOperationConstant        = "operation"
	logFieldFromBranchConstant       = "from_branch"
	logFieldToBranchConstant         = "to_branch"
	logFieldProjectCountConstant     = "project_count"
	logFieldAttentionConstant        = "attention"
	logFieldElapsedConstant          = "elapsed"
	logFieldMergeStageConstant       = "merge_stage"
	logFieldCommitCountConstant      = "commit_count"
)

// WorkingCopyEnsurer materializes a project locally.
type WorkingCopyEnsurer interface {
	Ensure(executionContext context.Context, localPath string, repositoryURL string) (workspace.WorkingCopy, error)
}

// BranchDiffer compares two remote branches of a working copy.
type BranchDiffer interface {
	Diff(executionContext context.Context, options diff.Options) (diff.Result, error)
}

// BranchMerger runs the merge-with-backup workflow.
type BranchMerger interface {
	Merge(executionContext context.Context, options merge.Options) (merge.Result, error)
}

// Dependencies enumerates the collaborators of Orchestrator.
type Dependencies struct {
	Cache     WorkingCopyEnsurer
	Differ    BranchDiffer
	Merger    BranchMerger
	Clock     shared.Clock
	Logger    *zap.Logger
	Observers []ProgressObserver
}

// Options configures a single run.
type Options struct {
	Operation  Operation
	FromBranch string
	ToBranch   string
	Layout     projects.Layout
}

// Orchestrator applies one operation to every project, strictly in order.
type Orchestrator struct {
	cache     WorkingCopyEnsurer
	differ    BranchDiffer
	merger    BranchMerger
	clock     shared.Clock
	logger    *zap.Logger
	observers []ProgressObserver
}

// NewOrchestrator validates collaborators and constructs an Orchestrator.
func NewOrchestrator(dependencies Dependencies) (*Orchestrator, error) {
	if dependencies.Cache == nil {
		return nil, ErrCacheNotConfigured
	}
	if dependencies.Differ == nil {
		return nil, ErrDifferNotConfigured
	}
	if dependencies.Merger == nil {
		return nil, ErrMergerNotConfigured
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	observers := make([]ProgressObserver, 0, len(dependencies.Observers))
	for _, observer := range dependencies.Observers {
		if observer != nil {
			observers = append(observers, observer)
		}
	}

	return &Orchestrator{
		cache:     dependencies.Cache,
		differ:    dependencies.Differ,
		merger:    dependencies.Merger,
		clock:     clock,
		logger:    logger,
		observers: observers,
	}, nil
}

// Run validates options and processes every project of the registry. Only ConfigurationError values are
// returned; project failures are recorded in the RunResult.
func (orchestrator *Orchestrator) Run(executionContext context.Context, registry projects.Registry, options Options) (RunResult, error) {
	normalizedOptions, validationError := normalizeOptions(options)
	if validationError != nil {
		return RunResult{}, validationError
	}
	if registry.Len() == 0 {
		return RunResult{}, newConfigurationError(ErrNoProjects, "")
	}

	startedAt := orchestrator.clock.Now()
	runResult := RunResult{
		Operation:  normalizedOptions.Operation,
		FromBranch: normalizedOptions.FromBranch,
		ToBranch:   normalizedOptions.ToBranch,
	}

	orchestrator.logger.Info(
		runStartedMessageConstant,
		zap.String(logFieldOperationConstant, string(runResult.Operation)),
		zap.String(logFieldFromBranchConstant, runResult.FromBranch),
		zap.String(logFieldToBranchConstant, runResult.ToBranch),
		zap.Int(logFieldProjectCountConstant, registry.Len()),
	)

	projectSpecs := registry.Projects()
	for projectIndex, projectSpec := range projectSpecs {
		projectResult := orchestrator.processProject(executionContext, projectSpec, normalizedOptions)
		runResult.record(projectResult)

		processed := projectIndex + 1
		orchestrator.notify(ProgressEvent{
			Path:      projectSpec.Path,
			Processed: processed,
			Total:     len(projectSpecs),
			Percent:   ProgressPercent(processed, len(projectSpecs)),
			Result:    projectResult,
		})
	}

	runResult.Elapsed = orchestrator.clock.Now().Sub(startedAt)
	orchestrator.logger.Info(
		runCompletedMessageConstant,
		zap.String(logFieldOperationConstant, string(runResult.Operation)),
		zap.Strings(logFieldAttentionConstant, runResult.Attention),
		zap.Duration(logFieldElapsedConstant, runResult.Elapsed),
	)

	return runResult, nil
}

func (orchestrator *Orchestrator) processProject(executionContext context.Context, projectSpec projects.ProjectSpec, options Options) ProjectResult {
	localPath := options.Layout.LocalPath(projectSpec)
	projectResult := ProjectResult{Project: projectSpec, LocalPath: localPath}
	projectLogger := orchestrator.logger.With(
		zap.String(logFieldProjectPathConstant, projectSpec.Path),
		zap.String(logFieldLocalPathConstant, localPath),
	)

	workingCopy, ensureError := orchestrator.cache.Ensure(executionContext, localPath, projectSpec.RepositoryURL)
	if ensureError != nil {
		projectLogger.Warn(workingCopyFailedMessageConstant, zap.Error(ensureError))
		projectResult.Status = StatusFailed
		projectResult.Err = ensureError
		return projectResult
	}
	projectResult.WorkingCopy = workingCopy

	switch options.Operation {
	case OperationInit:
		projectResult.Status = StatusReady
	case OperationDiff:
		orchestrator.diffProject(executionContext, projectLogger, &projectResult, options)
	case OperationMerge:
		orchestrator.mergeProject(executionContext, projectLogger, &projectResult, options)
	}

	return projectResult
}

func (orchestrator *Orchestrator) diffProject(executionContext context.Context, projectLogger *zap.Logger, projectResult *ProjectResult, options Options) {
	diffResult, diffError := orchestrator.differ.Diff(executionContext, diff.Options{
		RepositoryPath: projectResult.WorkingCopy.Path,
		FromBranch:     options.FromBranch,
		ToBranch:       options.ToBranch,
	})
	if diffError != nil {
		projectResult.Status = StatusFailed
		projectResult.Err = diffError
		return
	}

	projectResult.Diff = &diffResult
	switch diffResult.Outcome {
	case diff.OutcomeDiverged:
		projectLogger.Info(branchesDivergedMessageConstant, zap.Int(logFieldCommitCountConstant, len(diffResult.Commits)))
		projectResult.Status = StatusDiverged
	case diff.OutcomeUnknown:
		projectLogger.Warn(diffInconclusiveMessageConstant, zap.Error(diffResult.Err))
		projectResult.Status = StatusInconclusive
		projectResult.Err = diffResult.Err
	default:
		projectResult.Status = StatusNoDifference
	}
}

func (orchestrator *Orchestrator) mergeProject(executionContext context.Context, projectLogger *zap.Logger, projectResult *ProjectResult, options Options) {
	mergeResult, mergeError := orchestrator.merger.Merge(executionContext, merge.Options{
		RepositoryPath: projectResult.WorkingCopy.Path,
		FromBranch:     options.FromBranch,
		ToBranch:       options.ToBranch,
	})
	if mergeError != nil {
		projectResult.Status = StatusFailed
		projectResult.Err = mergeError
		return
	}

	projectResult.Merge = &mergeResult
	diffResult := mergeResult.Diff
	projectResult.Diff = &diffResult

	switch {
	case !mergeResult.Succeeded():
		projectLogger.Warn(manualMergeMessageConstant, zap.String(logFieldMergeStageConstant, mergeResult.Stage.String()), zap.Error(mergeResult.Err))
		projectResult.Status = StatusNeedsManualMerge
		projectResult.Err = mergeResult.Err
	case mergeResult.Diff.Outcome == diff.OutcomeUnknown:
		projectLogger.Warn(diffInconclusiveMessageConstant, zap.Error(mergeResult.Err))
		projectResult.Status = StatusInconclusive
		projectResult.Err = mergeResult.Err
	case mergeResult.Stage == merge.StageMerged:
		projectResult.Status = StatusMerged
	default:
		projectResult.Status = StatusNoDifference
	}
}

func (orchestrator *Orchestrator) notify(event ProgressEvent) {
	for _, observer := range orchestrator.observers {
		observer.ProjectProcessed(event)
	}
}

func normalizeOptions(options Options) (Options, error) {
	operation := options.Operation
	if len(strings.TrimSpace(string(operation))) == 0 {
		operation = OperationDiff
	}
	parsedOperation, parseError := ParseOperation(string(operation))
	if parseError != nil {
		return Options{}, parseError
	}

	normalized := Options{Operation: parsedOperation, Layout: options.Layout}
	if !parsedOperation.RequiresBranches() {
		return normalized, nil
	}

	fromBranch, fromError := validateBranch(options.FromBranch, ErrFromBranchRequired)
	if fromError != nil {
		return Options{}, fromError
	}
	toBranch, toError := validateBranch(options.ToBranch, ErrToBranchRequired)
	if toError != nil {
		return Options{}, toError
	}

	normalized.FromBranch = fromBranch
	normalized.ToBranch = toBranch
	return normalized, nil
}

func validateBranch(raw string, missingError error) (string, error) {
	branchName, branchError := shared.NewBranchName(raw)
	if errors.Is(branchError, shared.ErrBranchNameEmpty) {
		return "", newConfigurationError(missingError, "")
	}
	if branchError != nil {
		return "", newConfigurationError(branchError, "")
	}
	return branchName.String(), nil
}
