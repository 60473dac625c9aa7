package diff

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	branchNamesRequiredMessageConstant    = "source and target branch names must be provided"
	gitClientMissingMessageConstant       = "git client not configured"
	comparisonFailedMessageConstant       = "unable to compare branches; treating as no difference"
	logFieldRepositoryPathConstant        = "repository_path"
	logFieldFromBranchConstant            = "from_branch"
	logFieldToBranchConstant              = "to_branch"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrBranchNamesRequired indicates a blank source or target branch.
var ErrBranchNamesRequired = errors.New(branchNamesRequiredMessageConstant)

// ErrGitClientNotConfigured indicates the git client dependency was missing.
var ErrGitClientNotConfigured = errors.New(gitClientMissingMessageConstant)

// Outcome classifies a branch comparison.
type Outcome int

// Comparison outcomes.
const (
	OutcomeNoDifference Outcome = iota
	OutcomeDiverged
	OutcomeUnknown
)

// String returns the outcome label used in logs.
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeNoDifference:
		return "no_difference"
	case OutcomeDiverged:
		return "diverged"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// LogReader lists the commits reachable from the remote source branch but not the remote target branch.
type LogReader interface {
	LogRange(executionContext context.Context, repositoryPath string, fromBranch string, toBranch string) (string, error)
}

// Dependencies enumerates external collaborators required for comparisons.
type Dependencies struct {
	GitClient LogReader
	Logger    *zap.Logger
}

// Options configures a comparison.
type Options struct {
	RepositoryPath string
	FromBranch     string
	ToBranch       string
}

// Result captures a comparison outcome. Err is set only for OutcomeUnknown.
type Result struct {
	RepositoryPath string
	FromBranch     string
	ToBranch       string
	Outcome        Outcome
	Commits        []string
	Err            error
}

// Diverged reports whether the source branch has commits the target lacks. Unknown outcomes report false.
func (result Result) Diverged() bool {
	return result.Outcome == OutcomeDiverged
}

// Service compares remote branches of a working copy.
type Service struct {
	gitClient LogReader
	logger    *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitClient == nil {
		return nil, ErrGitClientNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gitClient: dependencies.GitClient, logger: logger}, nil
}

// Diff inspects origin/to..origin/from. A failing log command yields OutcomeUnknown rather than an error;
// the returned error is reserved for invalid options.
func (service *Service) Diff(executionContext context.Context, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}
	trimmedFromBranch := strings.TrimSpace(options.FromBranch)
	trimmedToBranch := strings.TrimSpace(options.ToBranch)
	if len(trimmedFromBranch) == 0 || len(trimmedToBranch) == 0 {
		return Result{}, ErrBranchNamesRequired
	}

	result := Result{RepositoryPath: trimmedRepositoryPath, FromBranch: trimmedFromBranch, ToBranch: trimmedToBranch}

	logOutput, logError := service.gitClient.LogRange(executionContext, trimmedRepositoryPath, trimmedFromBranch, trimmedToBranch)
	if logError != nil {
		service.logger.Warn(comparisonFailedMessageConstant,
			zap.String(logFieldRepositoryPathConstant, trimmedRepositoryPath),
			zap.String(logFieldFromBranchConstant, trimmedFromBranch),
			zap.String(logFieldToBranchConstant, trimmedToBranch),
			zap.Error(logError),
		)
		result.Outcome = OutcomeUnknown
		result.Err = logError
		return result, nil
	}

	result.Commits = splitCommitLines(logOutput)
	if len(result.Commits) > 0 {
		result.Outcome = OutcomeDiverged
	} else {
		result.Outcome = OutcomeNoDifference
	}
	return result, nil
}

func splitCommitLines(logOutput string) []string {
	var commits []string
	for _, line := range strings.Split(logOutput, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) > 0 {
			commits = append(commits, trimmedLine)
		}
	}
	return commits
}
