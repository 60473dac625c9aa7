package batch

import (
	"time"

	"github.com/temirov/branchsync/internal/branches/diff"
	"github.com/temirov/branchsync/internal/branches/merge"
	"github.com/temirov/branchsync/internal/projects"
	"github.com/temirov/branchsync/internal/workspace"
)

// Status summarizes what happened to one project.
type Status string

// Project statuses.
const (
	StatusReady            Status = Status("ready")
	StatusNoDifference     Status = Status("no_difference")
	StatusDiverged         Status = Status("diverged")
	StatusInconclusive     Status = Status("inconclusive")
	StatusMerged           Status = Status("merged")
	StatusNeedsManualMerge Status = Status("needs_manual_merge")
	StatusFailed           Status = Status("failed")
)

// ProjectResult records the outcome for one project. Diff and Merge are set for the operations that produce
// them.
type ProjectResult struct {
	Project     projects.ProjectSpec
	LocalPath   string
	Status      Status
	WorkingCopy workspace.WorkingCopy
	Diff        *diff.Result
	Merge       *merge.Result
	Err         error
}

// RunResult aggregates a run. Attention lists diverging projects in diff mode and projects requiring a manual
// merge in merge mode.
type RunResult struct {
	Operation    Operation
	FromBranch   string
	ToBranch     string
	Projects     []ProjectResult
	Attention    []string
	Inconclusive []string
	Failed       []string
	Elapsed      time.Duration
}

func (runResult *RunResult) record(projectResult ProjectResult) {
	runResult.Projects = append(runResult.Projects, projectResult)

	projectPath := projectResult.Project.Path
	switch projectResult.Status {
	case StatusDiverged, StatusNeedsManualMerge:
		runResult.Attention = append(runResult.Attention, projectPath)
	case StatusInconclusive:
		runResult.Inconclusive = append(runResult.Inconclusive, projectPath)
	case StatusFailed:
		if runResult.Operation == OperationMerge {
			runResult.Attention = append(runResult.Attention, projectPath)
		} else {
			runResult.Failed = append(runResult.Failed, projectPath)
		}
	}
}
