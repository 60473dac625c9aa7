package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesGitSubcommands(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedStart   string
		expectedSuccess string
	}{
		{
			name:            "Clone",
			arguments:       []string{"clone", "git@example.com:team/api.git", "/workspace/repo/team/api"},
			expectedStart:   "Cloning git@example.com:team/api.git into /workspace/repo/team/api",
			expectedSuccess: "Cloned git@example.com:team/api.git into /workspace/repo/team/api",
		},
		{
			name:            "Pull",
			arguments:       []string{"pull", "--ff-only"},
			expectedStart:   "Pulling latest changes in /workspace/repo",
			expectedSuccess: "Pulled latest changes in /workspace/repo",
		},
		{
			name:            "Checkout",
			arguments:       []string{"checkout", "main"},
			expectedStart:   "Switching /workspace/repo to branch main",
			expectedSuccess: "/workspace/repo now on branch main",
		},
		{
			name:            "BranchCreate",
			arguments:       []string{"branch", "main_bak20240102"},
			expectedStart:   "Creating branch main_bak20240102 in /workspace/repo",
			expectedSuccess: "Created branch main_bak20240102 in /workspace/repo",
		},
		{
			name:            "BranchDelete",
			arguments:       []string{"branch", "-D", "main_bak20240102"},
			expectedStart:   "Removing local branch main_bak20240102 in /workspace/repo",
			expectedSuccess: "Removed local branch main_bak20240102 in /workspace/repo",
		},
		{
			name:            "Push",
			arguments:       []string{"push", "origin", "main"},
			expectedStart:   "Pushing main to origin from /workspace/repo",
			expectedSuccess: "Pushed main to origin from /workspace/repo",
		},
		{
			name:            "PushDelete",
			arguments:       []string{"push", "origin", "--delete", "main_bak20240102"},
			expectedStart:   "Deleting remote branch main_bak20240102 from origin in /workspace/repo",
			expectedSuccess: "Deleted remote branch main_bak20240102 from origin in /workspace/repo",
		},
		{
			name:            "Merge",
			arguments:       []string{"merge", "--no-edit", "origin/feature"},
			expectedStart:   "Merging origin/feature in /workspace/repo",
			expectedSuccess: "Merged origin/feature in /workspace/repo",
		},
		{
			name:            "MergeAbort",
			arguments:       []string{"merge", "--abort"},
			expectedStart:   "Aborting merge in /workspace/repo",
			expectedSuccess: "Aborted merge in /workspace/repo",
		},
		{
			name:            "Log",
			arguments:       []string{"log", "--oneline", "origin/main..origin/feature"},
			expectedStart:   "Listing commits in /workspace/repo for origin/main..origin/feature",
			expectedSuccess: "Listed commits in /workspace/repo for origin/main..origin/feature",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: "/workspace/repo"}}
			require.Equal(t, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(t, testCase.expectedSuccess, formatter.BuildSuccessMessage(command))
		})
	}
}

func TestCommandMessageFormatterIncludesFailureDetails(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"merge", "--no-edit", "origin/feature"}, WorkingDirectory: "/workspace/repo"}}

	failureMessage := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1, StandardError: " CONFLICT (content)\n"})
	require.Equal(t, "Failed to merge origin/feature in /workspace/repo (exit code 1: CONFLICT (content))", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("executable not found"))
	require.Equal(t, "Unable to merge origin/feature in /workspace/repo: executable not found", executionFailureMessage)
}

func TestCommandMessageFormatterFallsBackToGenericLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"gc", "--auto"}}}

	require.Equal(t, "Running git gc --auto", formatter.BuildStartedMessage(command))
	require.Equal(t, "git gc --auto failed with exit code 128", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128}))
}
