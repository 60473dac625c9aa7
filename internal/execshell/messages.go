package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitCloneSubcommandNameConstant    = "clone"
	gitPullSubcommandNameConstant     = "pull"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitBranchSubcommandNameConstant   = "branch"
	gitPushSubcommandNameConstant     = "push"
	gitMergeSubcommandNameConstant    = "merge"
	gitResetSubcommandNameConstant    = "reset"
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitLogSubcommandNameConstant      = "log"
	gitDeleteFlagConstant             = "--delete"
	gitForceDeleteFlagConstant        = "-D"
	gitAbortFlagConstant              = "--abort"
)

// Each template set is ordered start, success, failure, execution failure.
type messageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitCloneTemplates = messageTemplates{
		start:            "Cloning %s into %s",
		success:          "Cloned %s into %s",
		failure:          "Failed to clone %s into %s (exit code %d%s)",
		executionFailure: "Unable to clone %s into %s: %s",
	}
	gitPullTemplates = messageTemplates{
		start:            "Pulling latest changes in %s",
		success:          "Pulled latest changes in %s",
		failure:          "Failed to pull latest changes in %s (exit code %d%s)",
		executionFailure: "Unable to pull latest changes in %s: %s",
	}
	gitCheckoutTemplates = messageTemplates{
		start:            "Switching %s to branch %s",
		success:          "%s now on branch %s",
		failure:          "Failed to switch %s to branch %s (exit code %d%s)",
		executionFailure: "Unable to switch %s to branch %s: %s",
	}
	gitBranchCreationTemplates = messageTemplates{
		start:            "Creating branch %s in %s",
		success:          "Created branch %s in %s",
		failure:          "Failed to create branch %s in %s (exit code %d%s)",
		executionFailure: "Unable to create branch %s in %s: %s",
	}
	gitBranchDeletionTemplates = messageTemplates{
		start:            "Removing local branch %s in %s",
		success:          "Removed local branch %s in %s",
		failure:          "Failed to remove local branch %s in %s (exit code %d%s)",
		executionFailure: "Unable to remove local branch %s in %s: %s",
	}
	gitPushTemplates = messageTemplates{
		start:            "Pushing %s to %s from %s",
		success:          "Pushed %s to %s from %s",
		failure:          "Failed to push %s to %s from %s (exit code %d%s)",
		executionFailure: "Unable to push %s to %s from %s: %s",
	}
	gitPushDeletionTemplates = messageTemplates{
		start:            "Deleting remote branch %s from %s in %s",
		success:          "Deleted remote branch %s from %s in %s",
		failure:          "Failed to delete remote branch %s from %s in %s (exit code %d%s)",
		executionFailure: "Unable to delete remote branch %s from %s in %s: %s",
	}
	gitMergeTemplates = messageTemplates{
		start:            "Merging %s in %s",
		success:          "Merged %s in %s",
		failure:          "Failed to merge %s in %s (exit code %d%s)",
		executionFailure: "Unable to merge %s in %s: %s",
	}
	gitMergeAbortTemplates = messageTemplates{
		start:            "Aborting merge in %s",
		success:          "Aborted merge in %s",
		failure:          "Failed to abort merge in %s (exit code %d%s)",
		executionFailure: "Unable to abort merge in %s: %s",
	}
	gitResetTemplates = messageTemplates{
		start:            "Resetting %s to %s",
		success:          "Reset %s to %s",
		failure:          "Failed to reset %s to %s (exit code %d%s)",
		executionFailure: "Unable to reset %s to %s: %s",
	}
	gitRevParseTemplates = messageTemplates{
		start:            "Resolving %s in %s",
		success:          "Resolved %s in %s",
		failure:          "Failed to resolve %s in %s (exit code %d%s)",
		executionFailure: "Unable to resolve %s in %s: %s",
	}
	gitLogTemplates = messageTemplates{
		start:            "Listing commits in %s for %s",
		success:          "Listed commits in %s for %s",
		failure:          "Failed to list commits in %s for %s (exit code %d%s)",
		executionFailure: "Unable to list commits in %s for %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	positional := positionalArguments(arguments[1:])

	switch strings.TrimSpace(arguments[0]) {
	case gitCloneSubcommandNameConstant:
		return formatter.render(gitCloneTemplates, stage, result, failure, formatter.valueAt(positional, 0), formatter.valueAt(positional, 1))
	case gitPullSubcommandNameConstant:
		return formatter.render(gitPullTemplates, stage, result, failure, workingDirectory)
	case gitCheckoutSubcommandNameConstant:
		return formatter.render(gitCheckoutTemplates, stage, result, failure, workingDirectory, formatter.valueAt(positional, 0))
	case gitBranchSubcommandNameConstant:
		if containsArgument(arguments, gitForceDeleteFlagConstant) || containsArgument(arguments, gitDeleteFlagConstant) {
			return formatter.render(gitBranchDeletionTemplates, stage, result, failure, formatter.valueAt(positional, 0), workingDirectory)
		}
		return formatter.render(gitBranchCreationTemplates, stage, result, failure, formatter.valueAt(positional, 0), workingDirectory)
	case gitPushSubcommandNameConstant:
		if containsArgument(arguments, gitDeleteFlagConstant) {
			return formatter.render(gitPushDeletionTemplates, stage, result, failure, formatter.valueAt(positional, 1), formatter.valueAt(positional, 0), workingDirectory)
		}
		return formatter.render(gitPushTemplates, stage, result, failure, formatter.valueAt(positional, 1), formatter.valueAt(positional, 0), workingDirectory)
	case gitMergeSubcommandNameConstant:
		if containsArgument(arguments, gitAbortFlagConstant) {
			return formatter.render(gitMergeAbortTemplates, stage, result, failure, workingDirectory)
		}
		return formatter.render(gitMergeTemplates, stage, result, failure, formatter.valueAt(positional, 0), workingDirectory)
	case gitResetSubcommandNameConstant:
		return formatter.render(gitResetTemplates, stage, result, failure, workingDirectory, formatter.valueAt(positional, 0))
	case gitRevParseSubcommandNameConstant:
		return formatter.render(gitRevParseTemplates, stage, result, failure, formatter.valueAt(positional, 0), workingDirectory)
	case gitLogSubcommandNameConstant:
		return formatter.render(gitLogTemplates, stage, result, failure, workingDirectory, formatter.valueAt(positional, 0))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) render(templates messageTemplates, stage messageStage, result ExecutionResult, failure error, subjects ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(subjects, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, append(subjects, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) valueAt(values []string, index int) string {
	if index < 0 || index >= len(values) {
		return fallbackUnknownValueLabelConstant
	}
	return values[index]
}

func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
