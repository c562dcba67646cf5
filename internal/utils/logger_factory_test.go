package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/textgen/internal/utils"
)

const testLogMessageConstant = "serving on :7860"

// captureStandardError redirects os.Stderr while action runs and returns what was written.
func captureStandardError(testInstance *testing.T, action func()) []byte {
	testInstance.Helper()
	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStandardError := os.Stderr
	os.Stderr = pipeWriter
	defer func() { os.Stderr = originalStandardError }()

	action()

	require.NoError(testInstance, pipeWriter.Close())
	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())
	return bytes.TrimSpace(capturedOutput)
}

func TestLoggerFactoryCreateLoggerForEverySupportedCombination(testInstance *testing.T) {
	for _, levelName := range utils.SupportedLogLevels() {
		for _, formatName := range utils.SupportedLogFormats() {
			testInstance.Run(levelName+"_"+formatName, func(testInstance *testing.T) {
				capturedOutput := captureStandardError(testInstance, func() {
					logger, creationError := utils.NewLoggerFactory().CreateLogger(utils.LogLevel(levelName), utils.LogFormat(formatName))
					require.NoError(testInstance, creationError)
					logger.Error(testLogMessageConstant)
					if syncError := logger.Sync(); syncError != nil {
						require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) || errors.Is(syncError, syscall.ENOTTY))
					}
				})

				require.Contains(testInstance, string(capturedOutput), testLogMessageConstant)
				require.Equal(testInstance, formatName == string(utils.LogFormatStructured), json.Valid(capturedOutput))
			})
		}
	}
}

func TestLoggerFactoryCreateLoggerRejectsUnsupportedSettings(testInstance *testing.T) {
	testCases := map[string]struct {
		level  utils.LogLevel
		format utils.LogFormat
	}{
		"trace_level": {level: utils.LogLevel("trace"), format: utils.LogFormatStructured},
		"xml_format":  {level: utils.LogLevelInfo, format: utils.LogFormat("xml")},
	}

	for name, testCase := range testCases {
		testInstance.Run(name, func(testInstance *testing.T) {
			logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.level, testCase.format)
			require.Error(testInstance, creationError)
			require.Nil(testInstance, logger)
		})
	}
}

func TestLoggerFactoryCreateLoggerOutputs(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		requestedLogFormat    utils.LogFormat
		expectedConsoleOutput string
	}{
		{
			name:                  "console_format_prints_progress_messages",
			requestedLogFormat:    utils.LogFormatConsole,
			expectedConsoleOutput: "Pushed main to origin\n",
		},
		{
			name:               "structured_format_discards_progress_messages",
			requestedLogFormat: utils.LogFormatStructured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			consoleBuffer := &bytes.Buffer{}
			loggerFactory := utils.NewLoggerFactoryWithConsoleWriter(consoleBuffer)

			outputs, creationError := loggerFactory.CreateLoggerOutputs(utils.LogLevelError, testCase.requestedLogFormat)
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, outputs.DiagnosticLogger)
			require.NotNil(testInstance, outputs.ConsoleLogger)

			outputs.ConsoleLogger.Info("Pushed main to origin")
			require.Equal(testInstance, testCase.expectedConsoleOutput, consoleBuffer.String())
		})
	}
}

func TestLoggerFactoryCreateLoggerOutputsRejectsUnknownLevel(testInstance *testing.T) {
	_, creationError := utils.NewLoggerFactory().CreateLoggerOutputs(utils.LogLevel("verbose"), utils.LogFormatConsole)
	require.Error(testInstance, creationError)
}
