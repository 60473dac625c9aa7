package dependencies_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/branchsync/internal/execshell"
	"github.com/temirov/branchsync/internal/repos/dependencies"
	"github.com/temirov/branchsync/internal/repos/filesystem"
	"github.com/temirov/branchsync/internal/repos/shared"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolveGitExecutorPrefersExisting(testInstance *testing.T) {
	existing := stubGitExecutor{}
	resolved, resolveError := dependencies.ResolveGitExecutor(existing, zap.NewNop(), false)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, existing, resolved)
}

func TestResolveGitExecutorBuildsShellExecutor(testInstance *testing.T) {
	for _, humanReadable := range []bool{false, true} {
		resolved, resolveError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), humanReadable)
		require.NoError(testInstance, resolveError)
		require.IsType(testInstance, &execshell.ShellExecutor{}, resolved)
	}
}

func TestResolveGitExecutorRequiresLogger(testInstance *testing.T) {
	_, resolveError := dependencies.ResolveGitExecutor(nil, nil, false)
	require.ErrorIs(testInstance, resolveError, execshell.ErrLoggerNotConfigured)
}

func TestResolveDefaults(testInstance *testing.T) {
	require.Equal(testInstance, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))
	require.Equal(testInstance, shared.SystemClock{}, dependencies.ResolveClock(nil))
}
