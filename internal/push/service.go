package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/credentials"
	"github.com/temirov/textgen/internal/dependencies"
	"github.com/temirov/textgen/internal/gitrepo"
	pathutils "github.com/temirov/textgen/internal/utils/path"
)

const (
	gitHubUsernamePromptConstant      = "GitHub username"
	gitHubTokenPromptConstant         = "GitHub token"
	repositoryNamePromptConstant      = "Repository name"
	huggingFaceUsernamePromptConstant = "Hugging Face username"
	huggingFaceTokenPromptConstant    = "Hugging Face token"
	spaceNamePromptConstant           = "Space name"
	pushFailedErrorTemplateConstant   = "push to %s %s failed: %v. Try using --force if you need to overwrite remote changes"
	commitErrorTemplateConstant       = "commit failed: %w"
	credentialsLoadErrorTemplate      = "unable to load credentials: %w"
	promptErrorTemplateConstant       = "unable to read %s: %w"
	unsupportedRemoteErrorTemplate    = "no credentials are known for remote %s"
	pushSuccessfulLineConstant        = "Push successful!\n"
	initializingLogMessage            = "initializing git repository"
	remoteAddedLogMessage             = "added remote"
	nothingToCommitLogMessage         = "no changes to commit"
	committedLogMessage               = "changes committed"
	retryWithUpstreamLogMessage       = "push failed; retrying with upstream tracking"
	pushedLogMessage                  = "pushed"
	forcePushedLogMessage             = "force pushed"
	pathFieldConstant                 = "path"
	remoteFieldConstant               = "remote"
	branchFieldConstant               = "branch"
)

var (
	// ErrCredentialsLoaderNotConfigured indicates the service was built without a credentials loader.
	ErrCredentialsLoaderNotConfigured = errors.New("credentials loader not configured")
	// ErrGitManagerNotConfigured indicates the service was built without a git repository manager.
	ErrGitManagerNotConfigured = errors.New("git repository manager not configured")
)

// PushFailedError reports a push that failed even after the upstream retry.
type PushFailedError struct {
	Remote string
	Branch string
	Cause  error
}

// Error suggests --force.
func (failedError PushFailedError) Error() string {
	return fmt.Sprintf(pushFailedErrorTemplateConstant, failedError.Remote, failedError.Branch, failedError.Cause)
}

// Unwrap exposes the last push failure.
func (failedError PushFailedError) Unwrap() error {
	return failedError.Cause
}

// Options configures a single push run.
type Options struct {
	WorkingDirectory string
	ProjectPath      string
	RemoteName       string
	Branch           string
	CommitMessage    string
	Force            bool
}

// Result records what a push run did.
type Result struct {
	ProjectPath           string
	RemoteName            string
	RepositoryInitialized bool
	RemoteAdded           bool
	CommitOutcome         gitrepo.CommitOutcome
	UsedUpstreamRetry     bool
}

// Dependencies lists the collaborators of Service.
type Dependencies struct {
	Logger            *zap.Logger
	CredentialsLoader dependencies.CredentialsLoader
	GitManager        dependencies.GitRepositoryManager
	Prompter          dependencies.Prompter
	PathResolver      *pathutils.HomeExpander
	Output            io.Writer
}

// Service stages, commits and pushes a project to one named remote.
type Service struct {
	dependencies Dependencies
}

// NewService validates dependencies and fills optional ones with defaults.
func NewService(serviceDependencies Dependencies) (*Service, error) {
	if serviceDependencies.CredentialsLoader == nil {
		return nil, ErrCredentialsLoaderNotConfigured
	}
	if serviceDependencies.GitManager == nil {
		return nil, ErrGitManagerNotConfigured
	}
	if serviceDependencies.Logger == nil {
		serviceDependencies.Logger = zap.NewNop()
	}
	if serviceDependencies.PathResolver == nil {
		serviceDependencies.PathResolver = pathutils.NewHomeExpander()
	}
	if serviceDependencies.Output == nil {
		serviceDependencies.Output = io.Discard
	}
	return &Service{dependencies: serviceDependencies}, nil
}

// Run initializes the repository when needed, ensures the remote exists, commits and pushes.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	logger := service.dependencies.Logger
	gitManager := service.dependencies.GitManager

	projectPath, pathError := service.dependencies.PathResolver.ResolveProjectDirectory(options.WorkingDirectory, options.ProjectPath)
	if pathError != nil {
		return Result{}, pathError
	}
	result := Result{ProjectPath: projectPath, RemoteName: options.RemoteName}

	isRepository, inspectError := gitManager.IsRepository(executionContext, projectPath)
	if inspectError != nil {
		return result, inspectError
	}
	if !isRepository {
		logger.Info(initializingLogMessage, zap.String(pathFieldConstant, projectPath))
		if initializeError := gitManager.Initialize(executionContext, projectPath, options.Branch); initializeError != nil {
			return result, initializeError
		}
		result.RepositoryInitialized = true
	}

	remoteExists, remoteError := gitManager.RemoteExists(executionContext, projectPath, options.RemoteName)
	if remoteError != nil {
		return result, remoteError
	}
	if !remoteExists {
		remoteURL, urlError := service.buildRemoteURL(projectPath, options.RemoteName)
		if urlError != nil {
			return result, urlError
		}
		if addError := gitManager.AddRemote(executionContext, projectPath, options.RemoteName, remoteURL); addError != nil {
			return result, addError
		}
		result.RemoteAdded = true
		logger.Info(remoteAddedLogMessage, zap.String(remoteFieldConstant, options.RemoteName))
	}

	if stageError := gitManager.StageAll(executionContext, projectPath); stageError != nil {
		return result, stageError
	}
	commitOutcome, commitError := gitManager.Commit(executionContext, projectPath, options.CommitMessage)
	if commitError != nil {
		return result, fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	result.CommitOutcome = commitOutcome
	if commitOutcome == gitrepo.CommitNothingToCommit {
		logger.Info(nothingToCommitLogMessage)
	} else {
		logger.Info(committedLogMessage)
	}

	usedUpstreamRetry, pushError := service.push(executionContext, projectPath, options)
	result.UsedUpstreamRetry = usedUpstreamRetry
	if pushError != nil {
		return result, pushError
	}

	_, _ = io.WriteString(service.dependencies.Output, pushSuccessfulLineConstant)
	return result, nil
}

func (service *Service) push(executionContext context.Context, projectPath string, options Options) (bool, error) {
	logger := service.dependencies.Logger
	gitManager := service.dependencies.GitManager
	pushOptions := gitrepo.PushOptions{Remote: options.RemoteName, Branch: options.Branch, Force: options.Force}

	if options.Force {
		if forceError := gitManager.Push(executionContext, projectPath, pushOptions); forceError != nil {
			return false, PushFailedError{Remote: options.RemoteName, Branch: options.Branch, Cause: forceError}
		}
		logger.Info(forcePushedLogMessage, zap.String(remoteFieldConstant, options.RemoteName), zap.String(branchFieldConstant, options.Branch))
		return false, nil
	}

	firstError := gitManager.Push(executionContext, projectPath, pushOptions)
	if firstError == nil {
		logger.Info(pushedLogMessage, zap.String(remoteFieldConstant, options.RemoteName), zap.String(branchFieldConstant, options.Branch))
		return false, nil
	}
	logger.Info(retryWithUpstreamLogMessage, zap.String(remoteFieldConstant, options.RemoteName), zap.Error(firstError))

	pushOptions.SetUpstream = true
	if retryError := gitManager.Push(executionContext, projectPath, pushOptions); retryError != nil {
		return true, PushFailedError{Remote: options.RemoteName, Branch: options.Branch, Cause: retryError}
	}
	logger.Info(pushedLogMessage, zap.String(remoteFieldConstant, options.RemoteName), zap.String(branchFieldConstant, options.Branch))
	return true, nil
}

func (service *Service) buildRemoteURL(projectPath string, remoteName string) (string, error) {
	projectCredentials, loadError := service.dependencies.CredentialsLoader.Load(projectPath)
	if loadError != nil {
		return "", fmt.Errorf(credentialsLoadErrorTemplate, loadError)
	}

	switch remoteName {
	case gitrepo.OriginRemoteName:
		values, promptError := service.resolveValues(projectCredentials,
			credentials.EnvGitHubUsername, gitHubUsernamePromptConstant,
			credentials.EnvGitHubToken, gitHubTokenPromptConstant,
			credentials.EnvRepositoryName, repositoryNamePromptConstant,
		)
		if promptError != nil {
			return "", promptError
		}
		return gitrepo.GitHubRemote{Username: values[0], Token: values[1], Repository: values[2]}.AuthenticatedURL()
	case gitrepo.SpaceRemoteName:
		values, promptError := service.resolveValues(projectCredentials,
			credentials.EnvHuggingFaceUser, huggingFaceUsernamePromptConstant,
			credentials.EnvHuggingFaceToken, huggingFaceTokenPromptConstant,
			credentials.EnvHuggingFaceSpace, spaceNamePromptConstant,
		)
		if promptError != nil {
			return "", promptError
		}
		return gitrepo.HuggingFaceSpaceRemote{Username: values[0], Token: values[1], Space: values[2]}.AuthenticatedURL()
	default:
		return "", fmt.Errorf(unsupportedRemoteErrorTemplate, remoteName)
	}
}

// resolveValues takes (variable, prompt label) pairs and prompts for every variable without a value.
func (service *Service) resolveValues(projectCredentials credentials.Credentials, namesAndLabels ...string) ([]string, error) {
	values := make([]string, 0, len(namesAndLabels)/2)
	for pairIndex := 0; pairIndex+1 < len(namesAndLabels); pairIndex += 2 {
		value := projectCredentials.Value(namesAndLabels[pairIndex])
		if len(value) == 0 && service.dependencies.Prompter != nil {
			promptedValue, promptError := service.dependencies.Prompter.PromptValue(namesAndLabels[pairIndex+1])
			if promptError != nil {
				return nil, fmt.Errorf(promptErrorTemplateConstant, namesAndLabels[pairIndex+1], promptError)
			}
			value = strings.TrimSpace(promptedValue)
		}
		values = append(values, value)
	}
	return values, nil
}
