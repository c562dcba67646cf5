package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v58/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	tokenNotConfiguredMessageConstant     = "GitHub token not configured"
	repositoryNameRequiredMessageConstant = "repository name required"
	operationErrorTemplateConstant        = "GitHub %s failed with status %d: %s"
	operationErrorWithoutStatusTemplate   = "GitHub %s failed: %v"
	invalidBaseURLErrorTemplateConstant   = "invalid GitHub API base URL %q: %w"
	createRepositoryOperationConstant     = "repository creation"
	urlPathSeparatorConstant              = "/"
	repositoryCreatedMessageConstant      = "created GitHub repository"
	repositoryExistsMessageConstant       = "GitHub repository already exists"
	repositoryFieldConstant               = "repository"
)

var (
	// ErrTokenNotConfigured indicates the client was built without an access token.
	ErrTokenNotConfigured = errors.New(tokenNotConfiguredMessageConstant)
	// ErrRepositoryNameRequired indicates CreateRepository was called without a name.
	ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)
)

// CreateOutcome describes the result of a repository creation request.
type CreateOutcome int

// Repository creation outcomes.
const (
	RepositoryCreated CreateOutcome = iota
	RepositoryAlreadyExists
)

// String names the outcome for summaries.
func (outcome CreateOutcome) String() string {
	if outcome == RepositoryAlreadyExists {
		return "already exists"
	}
	return "created"
}

// RepositoryRequest describes a repository to create under the authenticated user.
type RepositoryRequest struct {
	Name        string
	Description string
	Private     bool
	AutoInit    bool
}

// OperationError reports a GitHub API failure other than "already exists".
type OperationError struct {
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

// Error describes the failure.
func (operationError OperationError) Error() string {
	if operationError.StatusCode == 0 {
		return fmt.Sprintf(operationErrorWithoutStatusTemplate, operationError.Operation, operationError.Cause)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.StatusCode, operationError.Message)
}

// Unwrap exposes the underlying client error.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ClientOptions customizes the GitHub client.
type ClientOptions struct {
	// BaseURL overrides https://api.github.com/, for GitHub Enterprise or tests.
	BaseURL string
	Logger  *zap.Logger
}

// Client talks to the GitHub REST API with a personal access token.
type Client struct {
	client *github.Client
	logger *zap.Logger
}

// NewClient constructs a Client authenticated with token.
func NewClient(executionContext context.Context, token string, options ClientOptions) (*Client, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenNotConfigured
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken})
	githubClient := github.NewClient(oauth2.NewClient(executionContext, tokenSource))

	if trimmedBaseURL := strings.TrimSpace(options.BaseURL); len(trimmedBaseURL) > 0 {
		if !strings.HasSuffix(trimmedBaseURL, urlPathSeparatorConstant) {
			trimmedBaseURL += urlPathSeparatorConstant
		}
		parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
		if parseError != nil {
			return nil, fmt.Errorf(invalidBaseURLErrorTemplateConstant, options.BaseURL, parseError)
		}
		githubClient.BaseURL = parsedBaseURL
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{client: githubClient, logger: logger}, nil
}

// CreateRepository creates a repository for the authenticated user.
// HTTP 422 is reported as RepositoryAlreadyExists rather than an error.
func (client *Client) CreateRepository(executionContext context.Context, request RepositoryRequest) (CreateOutcome, error) {
	if len(strings.TrimSpace(request.Name)) == 0 {
		return RepositoryCreated, ErrRepositoryNameRequired
	}

	repository := &github.Repository{
		Name:        github.String(request.Name),
		Description: github.String(request.Description),
		Private:     github.Bool(request.Private),
		AutoInit:    github.Bool(request.AutoInit),
	}

	_, response, createError := client.client.Repositories.Create(executionContext, "", repository)
	if createError == nil {
		client.logger.Info(repositoryCreatedMessageConstant, zap.String(repositoryFieldConstant, request.Name))
		return RepositoryCreated, nil
	}

	var errorResponse *github.ErrorResponse
	if errors.As(createError, &errorResponse) && errorResponse.Response != nil {
		statusCode := errorResponse.Response.StatusCode
		if statusCode == http.StatusUnprocessableEntity {
			client.logger.Info(repositoryExistsMessageConstant, zap.String(repositoryFieldConstant, request.Name))
			return RepositoryAlreadyExists, nil
		}
		return RepositoryCreated, OperationError{Operation: createRepositoryOperationConstant, StatusCode: statusCode, Message: errorResponse.Message, Cause: createError}
	}
	if response != nil {
		return RepositoryCreated, OperationError{Operation: createRepositoryOperationConstant, StatusCode: response.StatusCode, Message: createError.Error(), Cause: createError}
	}
	return RepositoryCreated, OperationError{Operation: createRepositoryOperationConstant, Cause: createError}
}
