package batch_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsync/internal/batch"
)

const (
	integrationProjectPathConstant   = "team/svc"
	integrationBackupBranchConstant  = "main_bak20240315"
	integrationReadmeFileConstant    = "README.md"
	integrationGitExecutableConstant = "git"
)

type fixedClock struct {
	moment time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.moment
}

type integrationFixture struct {
	remotePath    string
	seedPath      string
	workspaceRoot string
}

func newIntegrationFixture(testInstance *testing.T) integrationFixture {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(integrationGitExecutableConstant); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("XDG_CONFIG_HOME", homeDirectory)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	testInstance.Setenv("GIT_AUTHOR_NAME", "Branch Sync")
	testInstance.Setenv("GIT_AUTHOR_EMAIL", "branchsync@example.com")
	testInstance.Setenv("GIT_COMMITTER_NAME", "Branch Sync")
	testInstance.Setenv("GIT_COMMITTER_EMAIL", "branchsync@example.com")

	fixtureRoot := testInstance.TempDir()
	fixture := integrationFixture{
		remotePath:    filepath.Join(fixtureRoot, "remote.git"),
		seedPath:      filepath.Join(fixtureRoot, "seed"),
		workspaceRoot: filepath.Join(fixtureRoot, "repo"),
	}

	runIntegrationGit(testInstance, fixtureRoot, "init", "--bare", fixture.remotePath)
	runIntegrationGit(testInstance, fixture.remotePath, "symbolic-ref", "HEAD", "refs/heads/main")
	runIntegrationGit(testInstance, fixtureRoot, "clone", fixture.remotePath, fixture.seedPath)
	runIntegrationGit(testInstance, fixture.seedPath, "symbolic-ref", "HEAD", "refs/heads/main")
	fixture.commitFile(testInstance, integrationReadmeFileConstant, "base\n", "initial commit")
	runIntegrationGit(testInstance, fixture.seedPath, "push", "origin", "main")

	runIntegrationGit(testInstance, fixture.seedPath, "checkout", "-b", "feature")
	runIntegrationGit(testInstance, fixture.seedPath, "push", "origin", "feature")
	runIntegrationGit(testInstance, fixture.seedPath, "checkout", "main")

	return fixture
}

func (fixture integrationFixture) commitFile(testInstance *testing.T, fileName string, content string, message string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(fixture.seedPath, fileName), []byte(content), 0o644))
	runIntegrationGit(testInstance, fixture.seedPath, "add", fileName)
	runIntegrationGit(testInstance, fixture.seedPath, "commit", "-m", message)
}

func (fixture integrationFixture) commitOnBranch(testInstance *testing.T, branch string, fileName string, content string) {
	testInstance.Helper()
	runIntegrationGit(testInstance, fixture.seedPath, "checkout", branch)
	fixture.commitFile(testInstance, fileName, content, "update "+fileName+" on "+branch)
	runIntegrationGit(testInstance, fixture.seedPath, "push", "origin", branch)
	runIntegrationGit(testInstance, fixture.seedPath, "checkout", "main")
}

func (fixture integrationFixture) addFeatureCommits(testInstance *testing.T, count int) []string {
	testInstance.Helper()
	fileNames := make([]string, 0, count)
	for commitIndex := 1; commitIndex <= count; commitIndex++ {
		fileName := fmt.Sprintf("feature-%d.txt", commitIndex)
		fixture.commitOnBranch(testInstance, "feature", fileName, fileName+"\n")
		fileNames = append(fileNames, fileName)
	}
	return fileNames
}

func (fixture integrationFixture) remoteRevision(testInstance *testing.T, branch string) string {
	testInstance.Helper()
	return runIntegrationGit(testInstance, fixture.remotePath, "rev-parse", "refs/heads/"+branch)
}

func (fixture integrationFixture) remoteBranches(testInstance *testing.T) []string {
	testInstance.Helper()
	output := runIntegrationGit(testInstance, fixture.remotePath, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	return strings.Fields(output)
}

func (fixture integrationFixture) localPath() string {
	return filepath.Join(fixture.workspaceRoot, filepath.FromSlash(integrationProjectPathConstant))
}

func (fixture integrationFixture) run(testInstance *testing.T, arguments ...string) string {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	builder := batch.CommandBuilder{
		ConfigurationProvider: func() batch.CommandConfiguration {
			return batch.CommandConfiguration{
				WorkspaceRoot: fixture.workspaceRoot,
				Projects: []map[string]any{
					{"path": integrationProjectPathConstant, "repo_url": fixture.remotePath},
				},
			}
		},
		Clock:  fixedClock{moment: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)},
		Output: outputBuffer,
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetArgs(arguments)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	require.NoError(testInstance, command.Execute())
	return outputBuffer.String()
}

func runIntegrationGit(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	command := exec.Command(integrationGitExecutableConstant, arguments...)
	command.Dir = workingDirectory
	outputBytes, commandError := command.CombinedOutput()
	require.NoError(testInstance, commandError, string(outputBytes))
	return string(bytes.TrimSpace(outputBytes))
}

func TestIntegrationInitClonesThenPulls(testInstance *testing.T) {
	fixture := newIntegrationFixture(testInstance)

	firstOutput := fixture.run(testInstance, "-o", "init")
	require.Equal(testInstance, "team/svc processed\nprogress: 100%\ninitialization complete\nelapsed: 0.000s\n", firstOutput)
	require.FileExists(testInstance, filepath.Join(fixture.localPath(), integrationReadmeFileConstant))

	fixture.commitOnBranch(testInstance, "main", "CHANGELOG.md", "v2\n")
	secondOutput := fixture.run(testInstance, "--option", "init")
	require.Contains(testInstance, secondOutput, "initialization complete")
	require.FileExists(testInstance, filepath.Join(fixture.localPath(), "CHANGELOG.md"))
}

func TestIntegrationDiffReportsDivergence(testInstance *testing.T) {
	fixture := newIntegrationFixture(testInstance)

	require.Contains(testInstance, fixture.run(testInstance, "-f", "feature", "-t", "main"), "no differences found\n")

	fixture.addFeatureCommits(testInstance, 3)
	divergedOutput := fixture.run(testInstance, "-f", "feature", "-t", "main")
	require.Contains(testInstance, divergedOutput, "diverging projects:\n  - team/svc\n")

	inconclusiveOutput := fixture.run(testInstance, "-f", "missing", "-t", "main")
	require.Contains(testInstance, inconclusiveOutput, "projects that could not be compared:\n  - team/svc\n")
}

func TestIntegrationMergeKeepsBackupOnSuccess(testInstance *testing.T) {
	fixture := newIntegrationFixture(testInstance)
	featureFiles := fixture.addFeatureCommits(testInstance, 3)
	originalMain := fixture.remoteRevision(testInstance, "main")

	output := fixture.run(testInstance, "-o", "merge", "-f", "feature", "-t", "main")
	require.Contains(testInstance, output, "all projects merged\n")
	require.Empty(testInstance, runIntegrationGit(testInstance, fixture.remotePath, "log", "--oneline", "refs/heads/main..refs/heads/feature"))

	require.Contains(testInstance, fixture.remoteBranches(testInstance), integrationBackupBranchConstant)
	require.Equal(testInstance, originalMain, fixture.remoteRevision(testInstance, integrationBackupBranchConstant))
	require.NotEqual(testInstance, originalMain, fixture.remoteRevision(testInstance, "main"))
	for _, featureFile := range featureFiles {
		require.FileExists(testInstance, filepath.Join(fixture.localPath(), featureFile))
	}

	require.Contains(testInstance, fixture.run(testInstance, "-o", "merge", "-f", "feature", "-t", "main"), "all projects merged\n")
}

func TestIntegrationMergeConflictRollsBack(testInstance *testing.T) {
	fixture := newIntegrationFixture(testInstance)
	fixture.commitOnBranch(testInstance, "feature", integrationReadmeFileConstant, "feature line\n")
	fixture.commitOnBranch(testInstance, "main", integrationReadmeFileConstant, "main line\n")
	originalMain := fixture.remoteRevision(testInstance, "main")

	output := fixture.run(testInstance, "-o", "merge", "-f", "feature", "-t", "main")
	require.Contains(testInstance, output, "projects requiring manual merge:\n  - team/svc\n")

	require.Equal(testInstance, originalMain, fixture.remoteRevision(testInstance, "main"))
	require.NotContains(testInstance, fixture.remoteBranches(testInstance), integrationBackupBranchConstant)
	require.Empty(testInstance, runIntegrationGit(testInstance, fixture.localPath(), "status", "--porcelain"))
	require.Equal(testInstance, originalMain, runIntegrationGit(testInstance, fixture.localPath(), "rev-parse", "HEAD"))
	require.Equal(testInstance, "main", runIntegrationGit(testInstance, fixture.localPath(), "rev-parse", "--abbrev-ref", "HEAD"))

	localBranches := runIntegrationGit(testInstance, fixture.localPath(), "branch", "--list", integrationBackupBranchConstant)
	require.Empty(testInstance, localBranches)
}
