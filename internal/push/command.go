package push

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/dependencies"
	"github.com/temirov/textgen/internal/execshell"
	"github.com/temirov/textgen/internal/gitrepo"
	"github.com/temirov/textgen/internal/utils"
)

const (
	commandUseConstant                    = "push <github|hf|origin|space>"
	commandShortDescriptionConstant       = "Commit everything and push to GitHub or a Hugging Face Space"
	commandLongDescriptionConstant        = "push initializes the repository if needed, adds the requested remote from credentials or prompts, commits all changes and pushes the branch."
	commandExecutionErrorTemplateConstant = "push failed: %w"
	missingTargetMessageConstant          = "push requires exactly one remote argument: github, hf, origin or space"
	flagForceNameConstant                 = "force"
	flagForceDescriptionConstant          = "Force push, overwriting remote changes"
	flagPathNameConstant                  = "path"
	flagPathDescriptionConstant           = "Path to the project directory"
	flagBranchNameConstant                = "branch"
	flagBranchDescriptionConstant         = "Branch to push"
	flagMessageNameConstant               = "message"
	flagMessageDescriptionConstant        = "Commit message"
)

var errMissingTarget = errors.New(missingTargetMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current push configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the push command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GitExecutor           gitrepo.GitExecutor
	GitManager            dependencies.GitRepositoryManager
	CredentialsLoader     dependencies.CredentialsLoader
	Prompter              dependencies.Prompter
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the push command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:       commandUseConstant,
		Short:     commandShortDescriptionConstant,
		Long:      commandLongDescriptionConstant,
		ValidArgs: SupportedTargets(),
		RunE:      builder.run,
	}

	defaults := DefaultConfiguration()
	command.Flags().Bool(flagForceNameConstant, false, flagForceDescriptionConstant)
	command.Flags().String(flagPathNameConstant, defaults.Path, flagPathDescriptionConstant)
	command.Flags().String(flagBranchNameConstant, defaults.Branch, flagBranchDescriptionConstant)
	command.Flags().String(flagMessageNameConstant, defaults.Message, flagMessageDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errMissingTarget
	}
	remoteName, targetError := ResolveRemoteName(arguments[0])
	if targetError != nil {
		return targetError
	}

	configuration := builder.resolveConfiguration()
	options := builder.parseOptions(command, configuration, remoteName)
	logger := builder.resolveLogger()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}
	gitManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(Dependencies{
		Logger:            logger,
		CredentialsLoader: dependencies.ResolveCredentialsLoader(builder.CredentialsLoader, options.WorkingDirectory),
		GitManager:        gitManager,
		Prompter:          dependencies.ResolvePrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout()),
		Output:            command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration Configuration, remoteName string) Options {
	options := Options{
		WorkingDirectory: resolveWorkingDirectory(command),
		ProjectPath:      configuration.Path,
		RemoteName:       remoteName,
		Branch:           configuration.Branch,
		CommitMessage:    configuration.Message,
	}

	flags := command.Flags()
	options.Force, _ = flags.GetBool(flagForceNameConstant)
	if flags.Changed(flagPathNameConstant) {
		options.ProjectPath, _ = flags.GetString(flagPathNameConstant)
	}
	if flags.Changed(flagBranchNameConstant) {
		branchValue, _ := flags.GetString(flagBranchNameConstant)
		options.Branch = selectNonEmpty(branchValue, configuration.Branch)
	}
	if flags.Changed(flagMessageNameConstant) {
		messageValue, _ := flags.GetString(flagMessageNameConstant)
		options.CommitMessage = selectNonEmpty(messageValue, configuration.Message)
	}
	return options
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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

func resolveWorkingDirectory(command *cobra.Command) string {
	if workingDirectory, found := utils.NewCommandContextAccessor().WorkingDirectory(command.Context()); found && len(strings.TrimSpace(workingDirectory)) > 0 {
		return workingDirectory
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return ""
	}
	return workingDirectory
}
