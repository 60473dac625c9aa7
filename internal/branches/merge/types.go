package merge

import (
	"errors"
	"time"

	"github.com/temirov/branchsync/internal/branches/diff"
	"github.com/temirov/branchsync/internal/vcs"
)

const (
	backupBranchInfixConstant      = "_bak"
	backupBranchDateLayoutConstant = "20060102"
)

// Stage is a state of the merge workflow. Result.Stage holds the terminal state.
type Stage int

// Workflow states.
const (
	StageIdle Stage = iota
	StageDiffChecked
	StageNoOp
	StageBackedUp
	StageMerging
	StageMerged
	StageAborted
	StageFailed
)

// String returns the stage label used in logs.
func (stage Stage) String() string {
	switch stage {
	case StageIdle:
		return "idle"
	case StageDiffChecked:
		return "diff_checked"
	case StageNoOp:
		return "no_op"
	case StageBackedUp:
		return "backed_up"
	case StageMerging:
		return "merging"
	case StageMerged:
		return "merged"
	case StageAborted:
		return "aborted"
	case StageFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// CleanupStep records a rollback or housekeeping action. Failed best-effort steps never change the outcome.
type CleanupStep struct {
	Name       string
	BestEffort bool
	Err        error
}

// Succeeded reports whether the step completed.
func (step CleanupStep) Succeeded() bool {
	return step.Err == nil
}

// Options configures a merge.
type Options struct {
	RepositoryPath string
	FromBranch     string
	ToBranch       string
}

// Result captures the observable outcome of a merge attempt.
type Result struct {
	RepositoryPath   string
	FromBranch       string
	ToBranch         string
	BackupBranch     string
	PreMergeRevision string
	Stage            Stage
	Diff             diff.Result
	Cleanup          []CleanupStep
	Err              error
}

// Succeeded reports whether the target branch is merged or needed no merge.
func (result Result) Succeeded() bool {
	return result.Stage == StageMerged || result.Stage == StageNoOp
}

// Conflict reports whether the attempt failed because of conflicting changes.
func (result Result) Conflict() bool {
	return errors.Is(result.Err, vcs.ErrMergeConflict)
}

// FailedCleanup returns the cleanup steps that did not complete.
func (result Result) FailedCleanup() []CleanupStep {
	var failed []CleanupStep
	for _, step := range result.Cleanup {
		if !step.Succeeded() {
			failed = append(failed, step)
		}
	}
	return failed
}

// BackupBranchName returns the backup branch for targetBranch on the local calendar day of moment.
func BackupBranchName(targetBranch string, moment time.Time) string {
	return targetBranch + backupBranchInfixConstant + moment.Local().Format(backupBranchDateLayoutConstant)
}
