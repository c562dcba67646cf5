package githubcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/textgen/internal/execshell"
)

const (
	secretSubcommandConstant                = "secret"
	setSubcommandConstant                   = "set"
	repoFlagConstant                        = "--repo"
	gitHubTokenEnvironmentConstant          = "GH_TOKEN"
	promptDisabledEnvironmentConstant       = "GH_PROMPT_DISABLED"
	promptDisabledValueConstant             = "1"
	repositoryFieldNameConstant             = "repository"
	secretNameFieldNameConstant             = "secret_name"
	secretValueFieldNameConstant            = "secret_value"
	requiredValueMessageConstant            = "value required"
	repositoryFormatMessageConstant         = "expected owner/name"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	repositorySeparatorConstant             = "/"
	setSecretOperationNameConstant          = OperationName("SetRepositorySecret")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// SecretRequest describes an Actions secret to store on a repository.
type SecretRequest struct {
	// Repository is owner/name.
	Repository string
	Name       string
	Value      string
	// Token authenticates gh through GH_TOKEN. Empty means the gh login session is used.
	Token string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// SetRepositorySecret stores an Actions secret with gh secret set. The value travels on
// standard input so it never appears in the argument list or the command logs.
func (client *Client) SetRepositorySecret(executionContext context.Context, request SecretRequest) error {
	repositoryIdentifier := strings.TrimSpace(request.Repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	ownerAndName := strings.Split(repositoryIdentifier, repositorySeparatorConstant)
	if len(ownerAndName) != 2 || len(ownerAndName[0]) == 0 || len(ownerAndName[1]) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: repositoryFormatMessageConstant}
	}

	secretName := strings.TrimSpace(request.Name)
	if len(secretName) == 0 {
		return InvalidInputError{FieldName: secretNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(request.Value) == 0 {
		return InvalidInputError{FieldName: secretValueFieldNameConstant, Message: requiredValueMessageConstant}
	}

	environmentVariables := map[string]string{promptDisabledEnvironmentConstant: promptDisabledValueConstant}
	if token := strings.TrimSpace(request.Token); len(token) > 0 {
		environmentVariables[gitHubTokenEnvironmentConstant] = token
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			secretSubcommandConstant,
			setSubcommandConstant,
			secretName,
			repoFlagConstant,
			repositoryIdentifier,
		},
		EnvironmentVariables: environmentVariables,
		StandardInput:        []byte(request.Value),
	}

	if _, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: setSecretOperationNameConstant, Cause: executionError}
	}
	return nil
}
