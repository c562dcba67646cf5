package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/textgen/internal/execshell"
	"github.com/temirov/textgen/internal/utils"
)

func executeRoot(testInstance *testing.T, application *Application, arguments ...string) string {
	testInstance.Helper()
	output := &bytes.Buffer{}
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(output)
	application.rootCommand.SetArgs(arguments)
	require.NoError(testInstance, application.rootCommand.Execute())
	return output.String()
}

func TestApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registered := map[string]bool{}
	for _, subcommand := range application.rootCommand.Commands() {
		registered[subcommand.Name()] = true
	}
	require.True(testInstance, registered["serve"])
	require.True(testInstance, registered["github-setup"])
	require.True(testInstance, registered["push"])
}

func TestApplicationConfigurationPrecedence(testInstance *testing.T) {
	configurationPath := filepath.Join(testInstance.TempDir(), "config.yaml")
	configurationContent := "server:\n  address: \":9000\"\ninference:\n  model: google/flan-t5-base\ntools:\n  push:\n    branch: develop\n"
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))
	testInstance.Setenv("TEXTGEN_INFERENCE_MODEL", "google/flan-t5-large")

	application := NewApplication()
	helpOutput := executeRoot(testInstance, application, "--config", configurationPath, "--log-level", "error")

	require.Contains(testInstance, helpOutput, "github-setup")
	require.Equal(testInstance, "error", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.Equal(testInstance, ":9000", application.configuration.Server.Address)
	require.Equal(testInstance, "google/flan-t5-large", application.configuration.Inference.Model)
	require.Equal(testInstance, "develop", application.configuration.Tools.Push.Branch)
	require.Equal(testInstance, "Update", application.configuration.Tools.Push.Message)
	require.Equal(testInstance, "Initial commit", application.configuration.Tools.GitHubSetup.Message)
	require.Equal(testInstance, configurationPath, application.configurationMetadata.ConfigFileUsed)
}

func TestApplicationRejectsUnknownLogFormat(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{"--log-format", "xml"})

	require.ErrorContains(testInstance, application.rootCommand.Execute(), `invalid value "xml"`)
}

func TestServeConfigurationFallsBackToHuggingFaceToken(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuredToken string
		environment     map[string]string
		expectedToken   string
	}{
		{
			name:          "environment_token_used",
			environment:   map[string]string{"HF_TOKEN": "hf_env"},
			expectedToken: "hf_env",
		},
		{
			name:            "configured_token_wins",
			configuredToken: "hf_configured",
			environment:     map[string]string{"HF_TOKEN": "hf_env"},
			expectedToken:   "hf_configured",
		},
		{
			name:          "no_token",
			expectedToken: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application := &Application{
				environmentLookup: func(name string) (string, bool) {
					value, found := testCase.environment[name]
					return value, found
				},
			}
			application.configuration.Inference.APIToken = testCase.configuredToken

			serveConfiguration := application.serveConfiguration()
			require.Equal(testInstance, testCase.expectedToken, serveConfiguration.Inference.APIToken)
			require.Equal(testInstance, ":7860", serveConfiguration.Server.Address)
			require.Equal(testInstance, "google/flan-t5-small", serveConfiguration.Inference.Model)
		})
	}
}

func TestCommandEventsObserverFollowsLogFormat(testInstance *testing.T) {
	testCases := []struct {
		name            string
		logFormat       utils.LogFormat
		expectedEntries int
	}{
		{name: "console_format_prints", logFormat: utils.LogFormatConsole, expectedEntries: 2},
		{name: "structured_format_silent", logFormat: utils.LogFormatStructured, expectedEntries: 0},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.InfoLevel)
			application := &Application{consoleLogger: zap.New(observedCore)}
			application.configuration.Common.LogFormat = string(testCase.logFormat)

			command := execshell.ShellCommand{
				Name:    execshell.CommandGit,
				Details: execshell.CommandDetails{Arguments: []string{"add", "."}, WorkingDirectory: "/workspace/demo"},
			}
			eventsObserver := application.commandEventsObserver()
			eventsObserver.CommandStarted(command)
			eventsObserver.CommandCompleted(command, execshell.ExecutionResult{})

			require.Equal(testInstance, testCase.expectedEntries, observedLogs.Len())
		})
	}
}
