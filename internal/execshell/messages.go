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
)

const (
	gitInitSubcommandNameConstant         = "init"
	gitConfigSubcommandNameConstant       = "config"
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitRemoteSetURLSubcommandNameConstant = "set-url"
	gitPushSubcommandNameConstant         = "push"
	gitForceFlagConstant                  = "--force"
	gitAddSubcommandNameConstant          = "add"
	gitCommitSubcommandNameConstant       = "commit"
	gitMessageFlagConstant                = "-m"
	gitInitialBranchFlagPrefixConstant    = "--initial-branch="
)

// Stage templates are ordered start, success, failure, execution failure.
type stageTemplates [4]string

var (
	gitInitTemplates = stageTemplates{
		"Initializing repository on branch %s in %s",
		"Initialized repository on branch %s in %s",
		"Failed to initialize repository on branch %s in %s (exit code %d%s)",
		"Unable to initialize repository on branch %s in %s: %s",
	}
	gitConfigTemplates = stageTemplates{
		"Setting %s in %s",
		"Set %s in %s",
		"Failed to set %s in %s (exit code %d%s)",
		"Unable to set %s in %s: %s",
	}
	gitWorkTreeTemplates = stageTemplates{
		"Checking for a Git repository at %s",
		"%s is a Git repository",
		"%s is not a Git repository (exit code %d%s)",
		"Unable to inspect %s: %s",
	}
	gitRemoteAddTemplates = stageTemplates{
		"Adding remote %s -> %s in %s",
		"Added remote %s -> %s in %s",
		"Failed to add remote %s -> %s in %s (exit code %d%s)",
		"Unable to add remote %s -> %s in %s: %s",
	}
	gitRemoteSetURLTemplates = stageTemplates{
		"Updating remote %s -> %s in %s",
		"Updated remote %s -> %s in %s",
		"Failed to update remote %s -> %s in %s (exit code %d%s)",
		"Unable to update remote %s -> %s in %s: %s",
	}
	gitRemoteGetURLTemplates = stageTemplates{
		"Resolving remote %s in %s",
		"Resolved remote %s in %s",
		"Remote %s is not configured in %s (exit code %d%s)",
		"Unable to resolve remote %s in %s: %s",
	}
	gitAddTemplates = stageTemplates{
		"Staging %s in %s",
		"Staged %s in %s",
		"Failed to stage %s in %s (exit code %d%s)",
		"Unable to stage %s in %s: %s",
	}
	gitCommitTemplates = stageTemplates{
		"Committing in %s: %s",
		"Committed in %s: %s",
		"Failed to commit in %s: %s (exit code %d%s)",
		"Unable to commit in %s: %s: %s",
	}
	gitPushTemplates = stageTemplates{
		"Pushing %s to %s%s from %s",
		"Pushed %s to %s%s from %s",
		"Failed to push %s to %s%s from %s (exit code %d%s)",
		"Unable to push %s to %s%s from %s: %s",
	}
)

const gitForcePushSuffixConstant = " (force)"

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
	redactedCommand := command
	redactedCommand.Details.Arguments = RedactArguments(command.Details.Arguments)
	if command.Name == CommandGit {
		return formatter.describeGitMessage(redactedCommand, result, failure, stage)
	}
	return formatter.buildGenericMessage(redactedCommand, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch strings.TrimSpace(arguments[0]) {
	case gitInitSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.extractInitialBranch(arguments))
		return formatter.render(gitInitTemplates, stage, result, failure, branchName, workingDirectory)
	case gitConfigSubcommandNameConstant:
		settingName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
		return formatter.render(gitConfigTemplates, stage, result, failure, settingName, workingDirectory)
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitWorkTreeFlagConstant) {
			return formatter.render(gitWorkTreeTemplates, stage, result, failure, workingDirectory)
		}
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		targetPath := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
		return formatter.render(gitAddTemplates, stage, result, failure, targetPath, workingDirectory)
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.ensureValue(findFlagValue(arguments, gitMessageFlagConstant))
		return formatter.render(gitCommitTemplates, stage, result, failure, workingDirectory, commitMessage)
	case gitPushSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(arguments[1:])
		forceSuffix := emptyStringConstant
		if containsArgument(arguments, gitForceFlagConstant) {
			forceSuffix = gitForcePushSuffixConstant
		}
		return formatter.render(gitPushTemplates, stage, result, failure, formatter.ensureValue(strings.Join(references, ", ")), formatter.ensureValue(remoteName), forceSuffix, workingDirectory)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	remoteURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))

	switch formatter.argumentAtIndex(arguments, 1) {
	case gitRemoteAddSubcommandNameConstant:
		return formatter.render(gitRemoteAddTemplates, stage, result, failure, remoteName, remoteURL, workingDirectory)
	case gitRemoteSetURLSubcommandNameConstant:
		return formatter.render(gitRemoteSetURLTemplates, stage, result, failure, remoteName, remoteURL, workingDirectory)
	case gitRemoteGetURLSubcommandNameConstant:
		return formatter.render(gitRemoteGetURLTemplates, stage, result, failure, remoteName, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, stage messageStage, result ExecutionResult, failure error, values ...any) string {
	switch stage {
	case messageStageStart, messageStageSuccess:
		return fmt.Sprintf(templates[stage], values...)
	case messageStageFailure:
		return fmt.Sprintf(templates[stage], append(values, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates[stage], append(values, formatter.describeFailure(failure))...)
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
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
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
	trimmedStandardError := strings.TrimSpace(RedactCredentials(standardError))
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
	return RedactCredentials(failure.Error())
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return strings.TrimSpace(arguments[index])
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractInitialBranch(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmed, gitInitialBranchFlagPrefixConstant) {
			return strings.TrimPrefix(trimmed, gitInitialBranchFlagPrefixConstant)
		}
	}
	return emptyStringConstant
}

// extractRemoteAndReferences treats the first positional argument as the remote.
func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remoteName, references
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
