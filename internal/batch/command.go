package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchsync/internal/branches/diff"
	"github.com/temirov/branchsync/internal/branches/merge"
	"github.com/temirov/branchsync/internal/projects"
	"github.com/temirov/branchsync/internal/repos/dependencies"
	"github.com/temirov/branchsync/internal/repos/shared"
	pathutils "github.com/temirov/branchsync/internal/utils/path"
	"github.com/temirov/branchsync/internal/vcs"
	"github.com/temirov/branchsync/internal/workspace"
)

const (
	commandUseConstant              = "branchsync"
	commandShortDescriptionConstant = "Clone, compare, or merge branches across configured projects"
	commandLongDescriptionConstant  = "branchsync applies one operation to every configured project in order: init clones or pulls each working copy, diff reports projects whose source branch has commits missing from the target branch, and merge merges the source branch into the target branch behind a dated backup branch, rolling back on failure."
	commandExampleConstant          = "  branchsync -o init\n  branchsync -f feature -t main\n  branchsync -o merge -f develop -t main --projects projects.yaml"

	flagFromBranchNameConstant           = "from_branch"
	flagFromBranchShorthandConstant      = "f"
	flagFromBranchDescriptionConstant    = "Source branch"
	flagToBranchNameConstant             = "to_branch"
	flagToBranchShorthandConstant        = "t"
	flagToBranchDescriptionConstant      = "Target branch"
	flagOperationNameConstant            = "option"
	flagOperationShorthandConstant       = "o"
	flagOperationDescriptionConstant     = "Operation to run"
	flagWorkspaceRootNameConstant        = "workspace-root"
	flagWorkspaceRootDescriptionConstant = "Directory holding the working copies"
	flagProjectsNameConstant             = "projects"
	flagProjectsDescriptionConstant      = "Project list file (YAML, JSON, or TOML)"

	projectSourceFileDetailTemplateConstant = "projects file %s"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the branchsync Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	Clock                        shared.Clock
	Output                       io.Writer
}

// Build constructs the command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		RunE:    builder.run,
	}
	builder.BindFlags(command)
	return command, nil
}

// BindFlags registers the batch flags on command.
func (builder *CommandBuilder) BindFlags(command *cobra.Command) {
	command.Flags().StringP(flagFromBranchNameConstant, flagFromBranchShorthandConstant, "", flagFromBranchDescriptionConstant)
	command.Flags().StringP(flagToBranchNameConstant, flagToBranchShorthandConstant, "", flagToBranchDescriptionConstant)
	command.Flags().StringP(flagOperationNameConstant, flagOperationShorthandConstant, string(OperationDiff), operationUsage(flagOperationDescriptionConstant))
	command.Flags().String(flagWorkspaceRootNameConstant, "", flagWorkspaceRootDescriptionConstant)
	command.Flags().String(flagProjectsNameConstant, "", flagProjectsDescriptionConstant)
}

// Run executes the batch operation for command. It is exported so a root command can reuse it as RunE.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	return builder.run(command, arguments)
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return newConfigurationError(ErrUnexpectedArguments, strings.Join(arguments, " "))
	}

	configuration := builder.resolveConfiguration(command)
	options, optionsError := builder.parseOptions(command, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	clock := dependencies.ResolveClock(builder.Clock)

	registry, registryError := builder.loadRegistry(fileSystem, configuration)
	if registryError != nil {
		return registryError
	}

	reporter := builder.resolveReporter(command)
	orchestrator, orchestratorError := builder.buildOrchestrator(reporter, logger, fileSystem, clock, configuration)
	if orchestratorError != nil {
		return orchestratorError
	}

	runResult, runError := orchestrator.Run(command.Context(), registry, options)
	if runError != nil {
		return runError
	}

	NewSummaryPrinter(reporter).Print(runResult)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command != nil {
		if command.Flags().Changed(flagWorkspaceRootNameConstant) {
			workspaceRootValue, _ := command.Flags().GetString(flagWorkspaceRootNameConstant)
			configuration.WorkspaceRoot = workspaceRootValue
		}
		if command.Flags().Changed(flagProjectsNameConstant) {
			projectsFileValue, _ := command.Flags().GetString(flagProjectsNameConstant)
			configuration.ProjectsFile = projectsFileValue
		}
	}

	return configuration.sanitize()
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) (Options, error) {
	operationValue, _ := command.Flags().GetString(flagOperationNameConstant)
	fromBranchValue, _ := command.Flags().GetString(flagFromBranchNameConstant)
	toBranchValue, _ := command.Flags().GetString(flagToBranchNameConstant)

	expander := pathutils.NewHomeExpander()
	return normalizeOptions(Options{
		Operation:  Operation(operationValue),
		FromBranch: fromBranchValue,
		ToBranch:   toBranchValue,
		Layout:     projects.Layout{Root: expander.Expand(configuration.WorkspaceRoot)},
	})
}

func (builder *CommandBuilder) loadRegistry(fileSystem shared.FileSystem, configuration CommandConfiguration) (projects.Registry, error) {
	projectSpecs, sourceDetail, sourceError := builder.readProjectSpecs(fileSystem, configuration)
	if sourceError != nil {
		return projects.Registry{}, newConfigurationError(sourceError, "")
	}

	registry, registryError := projects.NewRegistry(projectSpecs)
	if registryError != nil {
		return projects.Registry{}, newConfigurationError(registryError, sourceDetail)
	}
	return registry, nil
}

func (builder *CommandBuilder) readProjectSpecs(fileSystem shared.FileSystem, configuration CommandConfiguration) ([]projects.ProjectSpec, string, error) {
	if len(configuration.ProjectsFile) == 0 {
		projectSpecs, decodeError := projects.DecodeEntries(configuration.Projects)
		return projectSpecs, "", decodeError
	}

	projectsFile := pathutils.NewHomeExpander().Expand(configuration.ProjectsFile)
	loader, loaderError := projects.NewLoader(fileSystem)
	if loaderError != nil {
		return nil, "", loaderError
	}
	projectSpecs, loadError := loader.LoadFile(projectsFile)
	return projectSpecs, fmt.Sprintf(projectSourceFileDetailTemplateConstant, projectsFile), loadError
}

func (builder *CommandBuilder) buildOrchestrator(reporter shared.Reporter, logger *zap.Logger, fileSystem shared.FileSystem, clock shared.Clock, configuration CommandConfiguration) (*Orchestrator, error) {
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
	if executorError != nil {
		return nil, executorError
	}

	gitClient, clientError := vcs.NewGitClient(gitExecutor, configuration.Remote)
	if clientError != nil {
		return nil, clientError
	}

	cache, cacheError := workspace.NewCache(workspace.Dependencies{GitClient: gitClient, FileSystem: fileSystem, Logger: logger})
	if cacheError != nil {
		return nil, cacheError
	}

	differ, differError := diff.NewService(diff.Dependencies{GitClient: gitClient, Logger: logger})
	if differError != nil {
		return nil, differError
	}

	merger, mergerError := merge.NewService(merge.Dependencies{GitClient: gitClient, Differ: differ, Clock: clock, Logger: logger})
	if mergerError != nil {
		return nil, mergerError
	}

	return NewOrchestrator(Dependencies{
		Cache:  cache,
		Differ: differ,
		Merger: merger,
		Clock:  clock,
		Logger: logger,
		Observers: []ProgressObserver{
			NewConsoleProgressReporter(reporter),
			NewLoggingProgressObserver(logger),
		},
	})
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command) shared.Reporter {
	if builder.Output != nil {
		return shared.NewWriterReporter(builder.Output)
	}
	return shared.NewWriterReporter(command.OutOrStdout())
}
