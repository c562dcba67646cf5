package bootstrap

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
	commandUseConstant                    = "github-setup"
	commandShortDescriptionConstant       = "Create the GitHub repository, wire origin and scaffold project files"
	commandLongDescriptionConstant        = "github-setup registers the project on GitHub, initializes the local repository, points origin at it, writes .env.example, the Hugging Face sync workflow and the README section, and optionally commits and pushes."
	commandExecutionErrorTemplateConstant = "github setup failed: %w"
	unexpectedArgumentsMessageConstant    = "github-setup does not accept positional arguments"
	flagPathNameConstant                  = "path"
	flagPathDescriptionConstant           = "Path to the project directory"
	flagCreateRepositoryNameConstant      = "create-repo"
	flagCreateRepositoryDescription       = "Create the GitHub repository if it does not exist"
	flagMessageNameConstant               = "message"
	flagMessageDescriptionConstant        = "Commit message"
	flagPushNameConstant                  = "push"
	flagPushDescriptionConstant           = "Commit and push changes to GitHub after setup"
	flagBranchNameConstant                = "branch"
	flagBranchDescriptionConstant         = "Branch to push to"
	flagAssumeYesNameConstant             = "yes"
	flagAssumeYesDescriptionConstant      = "Force push without asking when the remote rejects the push"
	flagSetSecretNameConstant             = "set-hf-secret"
	flagSetSecretDescriptionConstant      = "Store HF_TOKEN as a GitHub Actions secret with the gh CLI"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current github-setup configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the github-setup command.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    ConfigurationProvider
	GitExecutor              gitrepo.GitExecutor
	GitManager               dependencies.GitRepositoryManager
	CredentialsLoader        dependencies.CredentialsLoader
	RepositoryCreatorFactory dependencies.RepositoryCreatorFactory
	Prompter                 dependencies.Prompter
	SecretWriter             dependencies.SecretWriter
	CommandEventsObserver    execshell.CommandEventObserver
}

// Build constructs the github-setup command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultConfiguration()
	command.Flags().String(flagPathNameConstant, defaults.Path, flagPathDescriptionConstant)
	command.Flags().Bool(flagCreateRepositoryNameConstant, false, flagCreateRepositoryDescription)
	command.Flags().String(flagMessageNameConstant, defaults.Message, flagMessageDescriptionConstant)
	command.Flags().Bool(flagPushNameConstant, false, flagPushDescriptionConstant)
	command.Flags().String(flagBranchNameConstant, defaults.Branch, flagBranchDescriptionConstant)
	command.Flags().Bool(flagAssumeYesNameConstant, false, flagAssumeYesDescriptionConstant)
	command.Flags().Bool(flagSetSecretNameConstant, false, flagSetSecretDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration()
	options := builder.parseOptions(command, configuration)
	logger := builder.resolveLogger()

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}
	gitManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitManager, gitExecutor)
	if managerError != nil {
		return managerError
	}
	secretWriter, secretWriterError := dependencies.ResolveSecretWriter(builder.SecretWriter, logger, builder.CommandEventsObserver)
	if secretWriterError != nil {
		return secretWriterError
	}

	service, serviceError := NewService(Dependencies{
		Logger:                   logger,
		CredentialsLoader:        dependencies.ResolveCredentialsLoader(builder.CredentialsLoader, options.WorkingDirectory),
		RepositoryCreatorFactory: dependencies.ResolveRepositoryCreatorFactory(builder.RepositoryCreatorFactory, configuration.GitHubAPIBaseURL, logger),
		GitManager:               gitManager,
		Prompter:                 dependencies.ResolvePrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout()),
		SecretWriter:             secretWriter,
		Output:                   command.OutOrStdout(),
		ErrorOutput:              command.ErrOrStderr(),
	})
	if serviceError != nil {
		return serviceError
	}

	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration Configuration) Options {
	options := Options{
		WorkingDirectory: resolveWorkingDirectory(command),
		ProjectPath:      configuration.Path,
		CreateRepository: configuration.CreateRepository,
		Push:             configuration.Push,
		CommitMessage:    configuration.Message,
		Branch:           configuration.Branch,
		AssumeYes:        configuration.AssumeYes,
		SetSecret:        configuration.SetSecret,
	}

	flags := command.Flags()
	if flags.Changed(flagPathNameConstant) {
		options.ProjectPath, _ = flags.GetString(flagPathNameConstant)
	}
	if flags.Changed(flagCreateRepositoryNameConstant) {
		options.CreateRepository, _ = flags.GetBool(flagCreateRepositoryNameConstant)
	}
	if flags.Changed(flagMessageNameConstant) {
		messageValue, _ := flags.GetString(flagMessageNameConstant)
		options.CommitMessage = selectNonEmpty(messageValue, configuration.Message)
	}
	if flags.Changed(flagPushNameConstant) {
		options.Push, _ = flags.GetBool(flagPushNameConstant)
	}
	if flags.Changed(flagBranchNameConstant) {
		branchValue, _ := flags.GetString(flagBranchNameConstant)
		options.Branch = selectNonEmpty(branchValue, configuration.Branch)
	}
	if flags.Changed(flagAssumeYesNameConstant) {
		options.AssumeYes, _ = flags.GetBool(flagAssumeYesNameConstant)
	}
	if flags.Changed(flagSetSecretNameConstant) {
		options.SetSecret, _ = flags.GetBool(flagSetSecretNameConstant)
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
