package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/bootstrap"
	"github.com/temirov/textgen/internal/credentials"
	"github.com/temirov/textgen/internal/execshell"
	"github.com/temirov/textgen/internal/inference"
	"github.com/temirov/textgen/internal/push"
	"github.com/temirov/textgen/internal/server"
	"github.com/temirov/textgen/internal/ui"
	"github.com/temirov/textgen/internal/utils"
	flagutils "github.com/temirov/textgen/internal/utils/flags"
)

const (
	applicationNameConstant                 = "textgen"
	applicationShortDescriptionConstant     = "Text generation API with GitHub and Hugging Face Space tooling"
	applicationLongDescriptionConstant      = "textgen serves a small text generation HTTP API and ships helpers that bootstrap the GitHub repository and push the project to GitHub or a Hugging Face Space."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "TEXTGEN"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "textgen CLI executed"
	rootCommandDebugMessageConstant         = "textgen CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	xdgConfigurationHomeEnvironmentConstant = "XDG_CONFIG_HOME"
	serverConfigurationKeyConstant          = "server"
	inferenceConfigurationKeyConstant       = "inference"
	toolsConfigurationKeyConstant           = "tools"
	githubSetupConfigurationKeyConstant     = toolsConfigurationKeyConstant + ".github_setup"
	pushConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".push"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Server    server.Configuration           `mapstructure:"server"`
	Inference inference.Configuration        `mapstructure:"inference"`
	Tools     ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for the repository tooling subcommands.
type ApplicationToolsConfiguration struct {
	GitHubSetup bootstrap.Configuration `mapstructure:"github_setup"`
	Push        push.Configuration      `mapstructure:"push"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	environmentLookup      func(string) (string, bool)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		environmentLookup:      os.LookupEnv,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().Var(
		flagutils.NewChoiceValue(&application.logLevelFlagValue, string(utils.LogLevelInfo), utils.SupportedLogLevels()),
		logLevelFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagUsageConstant),
	)
	cobraCommand.PersistentFlags().Var(
		flagutils.NewChoiceValue(&application.logFormatFlagValue, string(utils.LogFormatStructured), utils.SupportedLogFormats()),
		logFormatFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogFormatStructured), utils.SupportedLogFormats(), logFormatFlagUsageConstant),
	)

	application.rootCommand = cobraCommand
	application.registerSubcommands()

	return application
}

func (application *Application) registerSubcommands() {
	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	serveBuilder := server.CommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: application.serveConfiguration,
	}
	githubSetupBuilder := bootstrap.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() bootstrap.Configuration {
			return application.configuration.Tools.GitHubSetup
		},
		CommandEventsObserver: application.commandEventsObserver(),
	}
	pushBuilder := push.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() push.Configuration {
			return application.configuration.Tools.Push
		},
		CommandEventsObserver: application.commandEventsObserver(),
	}

	builders := []interface {
		Build() (*cobra.Command, error)
	}{&serveBuilder, &githubSetupBuilder, &pushBuilder}

	for _, builder := range builders {
		subcommand, buildError := builder.Build()
		if buildError == nil {
			application.rootCommand.AddCommand(subcommand)
		}
	}
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	mergeDefaultValues(defaultValues, serverConfigurationKeyConstant, server.DefaultConfigurationValues())
	mergeDefaultValues(defaultValues, inferenceConfigurationKeyConstant, inference.DefaultConfigurationValues())
	mergeDefaultValues(defaultValues, githubSetupConfigurationKeyConstant, bootstrap.DefaultConfigurationValues())
	mergeDefaultValues(defaultValues, pushConfigurationKeyConstant, push.DefaultConfigurationValues())

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		if workingDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
			updatedContext = application.commandContextAccessor.WithWorkingDirectory(updatedContext, workingDirectory)
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// serveConfiguration falls back to HF_TOKEN when no inference token is configured.
func (application *Application) serveConfiguration() server.ServeConfiguration {
	inferenceConfiguration := application.configuration.Inference
	if len(strings.TrimSpace(inferenceConfiguration.APIToken)) == 0 && application.environmentLookup != nil {
		if tokenValue, found := application.environmentLookup(credentials.EnvHuggingFaceToken); found {
			inferenceConfiguration.APIToken = tokenValue
		}
	}
	return server.ServeConfiguration{
		Server:    application.configuration.Server.Sanitize(),
		Inference: inferenceConfiguration.Sanitize(),
	}
}

// commandEventsObserver forwards git and gh command events to the console logger when console output is enabled.
func (application *Application) commandEventsObserver() execshell.CommandEventObserver {
	return execshell.NewLazyCommandEventObserver(func() execshell.CommandEventObserver {
		if !application.humanReadableLoggingEnabled() {
			return nil
		}
		return ui.NewConsoleCommandEventLogger(application.consoleLogger)
	})
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func mergeDefaultValues(target map[string]any, prefix string, values map[string]any) {
	for configurationKey, configurationValue := range values {
		target[prefix+"."+configurationKey] = configurationValue
	}
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if configurationHome := strings.TrimSpace(os.Getenv(xdgConfigurationHomeEnvironmentConstant)); len(configurationHome) > 0 {
		searchPaths = append(searchPaths, filepath.Join(configurationHome, applicationNameConstant))
	} else if homeDirectory, homeError := os.UserHomeDir(); homeError == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, ".config", applicationNameConstant))
	}
	return searchPaths
}
