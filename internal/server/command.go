package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/inference"
)

const (
	commandUseConstant                    = "serve"
	commandShortDescriptionConstant       = "Serve the text generation HTTP API"
	commandLongDescriptionConstant        = "serve exposes GET / and GET /generate?text=... and forwards prompts to the configured text2text model."
	commandExecutionErrorTemplateConstant = "serve failed: %w"
	unexpectedArgumentsMessageConstant    = "serve does not accept positional arguments"
	flagAddressNameConstant               = "address"
	flagAddressDescriptionConstant        = "Address to listen on (host:port)"
	flagModelNameConstant                 = "model"
	flagModelDescriptionConstant          = "Model identifier served by the inference backend"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current serve configuration.
type ConfigurationProvider func() ServeConfiguration

// CommandBuilder assembles the serve command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Generator             inference.Generator
	Listener              net.Listener
}

// Build constructs the serve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagAddressNameConstant, "", flagAddressDescriptionConstant)
	command.Flags().String(flagModelNameConstant, "", flagModelDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration(command)
	logger := builder.resolveLogger()

	generator := builder.Generator
	if generator == nil {
		configuredGenerator := inference.NewConfiguredGenerator(configuration.Inference, logger)
		defer configuredGenerator.Close()
		generator = configuredGenerator
	}

	apiHandler, handlerError := NewAPIHandler(generator, logger)
	if handlerError != nil {
		return handlerError
	}

	signalContext, stopSignals := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	apiServer := New(configuration.Server, apiHandler, logger)
	var serveError error
	if builder.Listener != nil {
		serveError = apiServer.Serve(signalContext, builder.Listener)
	} else {
		serveError = apiServer.ListenAndServe(signalContext)
	}
	if serveError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, serveError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) ServeConfiguration {
	configuration := ServeConfiguration{Server: DefaultConfiguration(), Inference: inference.DefaultConfiguration()}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if addressValue, _ := command.Flags().GetString(flagAddressNameConstant); len(strings.TrimSpace(addressValue)) > 0 {
		configuration.Server.Address = addressValue
	}
	if modelValue, _ := command.Flags().GetString(flagModelNameConstant); len(strings.TrimSpace(modelValue)) > 0 {
		configuration.Inference.Model = modelValue
	}

	configuration.Server = configuration.Server.Sanitize()
	configuration.Inference = configuration.Inference.Sanitize()
	return configuration
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
