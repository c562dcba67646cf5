package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/credentials"
	"github.com/temirov/textgen/internal/dependencies"
	"github.com/temirov/textgen/internal/githubapi"
	"github.com/temirov/textgen/internal/githubcli"
	"github.com/temirov/textgen/internal/gitrepo"
	"github.com/temirov/textgen/internal/scaffold"
	pathutils "github.com/temirov/textgen/internal/utils/path"
)

const (
	gitHubNoReplyEmailTemplateConstant = "%s@users.noreply.github.com"
	forcePushPromptConstant            = "Do you want to force push? This will overwrite remote changes. (y/N): "
	pushAbortedMessageTemplate         = "push aborted. You may need to pull changes first: git pull %s %s"
	repositoryCreationErrorTemplate    = "unable to create GitHub repository %s: %w"
	credentialsLoadErrorTemplate       = "unable to load credentials: %w"
	forcePushErrorTemplateConstant     = "force push failed: %w"
	pushErrorTemplateConstant          = "push failed: %w"
	commitErrorTemplateConstant        = "commit failed: %w"
	secretErrorTemplateConstant        = "unable to store %s secret: %w"
	huggingFaceSecretNameConstant      = "HF_TOKEN"
	repositoryIdentifierTemplate       = "%s/%s"
	missingCredentialsHintConstant     = `Please create a .env file with the following variables:
GITHUB_USERNAME=your_github_username
GITHUB_TOKEN=your_github_token
PROJECT_NAME=your_project_name
PROJECT_DESCRIPTION=your_description  # Optional
`
	setupStartedLogMessage       = "setting up GitHub repository"
	credentialsLoadedLogMessage  = "all required environment variables are set"
	repositoryInitializedMessage = "initialized git repository"
	repositoryExistingMessage    = "git repository already exists"
	remoteAddedLogMessage        = "added GitHub remote"
	remoteUpdatedLogMessage      = "updated existing GitHub remote"
	environmentExampleLogMessage = "wrote .env.example"
	workflowWrittenLogMessage    = "created GitHub Actions workflow"
	workflowSkippedLogMessage    = "skipping GitHub Actions workflow creation (HF_USERNAME or HF_SPACE_NAME not set)"
	readmeUpdatedLogMessage      = "updated README with GitHub information"
	nothingToCommitLogMessage    = "no changes to commit"
	committedLogMessage          = "committed changes"
	pushedLogMessage             = "pushed changes to GitHub"
	pushRejectedLogMessage       = "push rejected; the remote repository has changes that are not in the local repository"
	forcePushedLogMessage        = "force pushed changes to GitHub"
	projectPathFieldConstant     = "project_path"
	remoteFieldConstant          = "remote"
	branchFieldConstant          = "branch"
	pathFieldConstant            = "path"
	messageFieldConstant         = "message"
	confirmationFailedLogMessage = "force push confirmation unavailable"
	secretStoredLogMessage       = "stored HF_TOKEN repository secret"
	secretSkippedLogMessage      = "skipping HF_TOKEN repository secret (HF_TOKEN, HF_USERNAME or HF_SPACE_NAME not set)"
)

var (
	// ErrPushAborted indicates the operator declined to force push after a rejection.
	ErrPushAborted = errors.New("push aborted")
	// ErrCredentialsLoaderNotConfigured indicates the service was built without a credentials loader.
	ErrCredentialsLoaderNotConfigured = errors.New("credentials loader not configured")
	// ErrGitManagerNotConfigured indicates the service was built without a git repository manager.
	ErrGitManagerNotConfigured = errors.New("git repository manager not configured")
	// ErrRepositoryCreatorNotConfigured indicates the service was built without a repository creator factory.
	ErrRepositoryCreatorNotConfigured = errors.New("repository creator factory not configured")
	// ErrSecretWriterNotConfigured indicates a secret was requested but no secret writer was provided.
	ErrSecretWriterNotConfigured = errors.New("secret writer not configured")

	requiredVariableNames = []string{credentials.EnvGitHubUsername, credentials.EnvGitHubToken, credentials.EnvProjectName}
)

// PushAbortedError reports a declined force push.
type PushAbortedError struct {
	Remote string
	Branch string
}

// Error suggests pulling the remote changes first.
func (abortedError PushAbortedError) Error() string {
	return fmt.Sprintf(pushAbortedMessageTemplate, abortedError.Remote, abortedError.Branch)
}

// Is matches ErrPushAborted.
func (abortedError PushAbortedError) Is(target error) bool {
	return target == ErrPushAborted
}

// Options configures a single github-setup run.
type Options struct {
	WorkingDirectory string
	ProjectPath      string
	CreateRepository bool
	Push             bool
	CommitMessage    string
	Branch           string
	AssumeYes        bool
	// SetSecret stores HF_TOKEN as an Actions secret once the repository is wired.
	SetSecret        bool
}

// Dependencies lists the collaborators of Service.
type Dependencies struct {
	Logger                   *zap.Logger
	CredentialsLoader        dependencies.CredentialsLoader
	RepositoryCreatorFactory dependencies.RepositoryCreatorFactory
	GitManager               dependencies.GitRepositoryManager
	Prompter                 dependencies.Prompter
	SecretWriter             dependencies.SecretWriter
	EnvironmentWriter        *scaffold.EnvironmentExampleWriter
	WorkflowWriter           *scaffold.WorkflowWriter
	ReadmeUpdater            *scaffold.ReadmeUpdater
	PathResolver             *pathutils.HomeExpander
	Output                   io.Writer
	ErrorOutput              io.Writer
}

// Service runs the github-setup steps strictly in order.
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
	if serviceDependencies.RepositoryCreatorFactory == nil {
		return nil, ErrRepositoryCreatorNotConfigured
	}
	if serviceDependencies.Logger == nil {
		serviceDependencies.Logger = zap.NewNop()
	}
	if serviceDependencies.EnvironmentWriter == nil {
		serviceDependencies.EnvironmentWriter = scaffold.NewEnvironmentExampleWriter(nil)
	}
	if serviceDependencies.WorkflowWriter == nil {
		serviceDependencies.WorkflowWriter = scaffold.NewWorkflowWriter(nil)
	}
	if serviceDependencies.ReadmeUpdater == nil {
		serviceDependencies.ReadmeUpdater = scaffold.NewReadmeUpdater(nil, nil)
	}
	if serviceDependencies.PathResolver == nil {
		serviceDependencies.PathResolver = pathutils.NewHomeExpander()
	}
	if serviceDependencies.Output == nil {
		serviceDependencies.Output = io.Discard
	}
	if serviceDependencies.ErrorOutput == nil {
		serviceDependencies.ErrorOutput = io.Discard
	}
	return &Service{dependencies: serviceDependencies}, nil
}

// Run executes github-setup and prints the summary on success.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	logger := service.dependencies.Logger

	projectPath, pathError := service.dependencies.PathResolver.ResolveProjectDirectory(options.WorkingDirectory, options.ProjectPath)
	if pathError != nil {
		return Result{}, pathError
	}
	logger.Info(setupStartedLogMessage, zap.String(projectPathFieldConstant, projectPath))

	projectCredentials, credentialsError := service.dependencies.CredentialsLoader.Load(projectPath)
	if credentialsError != nil {
		return Result{}, fmt.Errorf(credentialsLoadErrorTemplate, credentialsError)
	}
	if missingError := projectCredentials.Require(requiredVariableNames...); missingError != nil {
		_, _ = io.WriteString(service.dependencies.ErrorOutput, missingCredentialsHintConstant)
		return Result{}, missingError
	}
	logger.Info(credentialsLoadedLogMessage)

	gitHubRemote := gitrepo.GitHubRemote{
		Username:   projectCredentials.GitHubUsername,
		Token:      projectCredentials.GitHubToken,
		Repository: projectCredentials.ProjectName,
	}
	result := Result{
		ProjectPath:         projectPath,
		Repository:          gitHubRemote,
		HuggingFaceUsername: projectCredentials.HuggingFaceUsername,
		HuggingFaceSpace:    projectCredentials.HuggingFaceSpace,
		PushRequested:       options.Push,
	}

	if options.CreateRepository {
		outcome, createError := service.createRepository(executionContext, projectCredentials)
		if createError != nil {
			return result, createError
		}
		result.RepositoryCreation = outcome.String()
	}

	if setupError := service.setupLocalRepository(executionContext, projectPath, options.Branch, gitHubRemote, &result); setupError != nil {
		return result, setupError
	}

	if scaffoldError := service.writeProjectFiles(projectPath, options.Branch, projectCredentials, gitHubRemote, &result); scaffoldError != nil {
		return result, scaffoldError
	}

	if options.Push {
		if pushError := service.commitAndPush(executionContext, projectPath, options, &result); pushError != nil {
			return result, pushError
		}
	}

	if options.SetSecret {
		secretStored, secretError := service.storeHuggingFaceSecret(executionContext, projectCredentials, gitHubRemote)
		if secretError != nil {
			return result, secretError
		}
		result.HuggingFaceSecretStored = secretStored
	}

	if renderError := renderSummary(service.dependencies.Output, result); renderError != nil {
		return result, renderError
	}
	return result, nil
}

func (service *Service) createRepository(executionContext context.Context, projectCredentials credentials.Credentials) (githubapi.CreateOutcome, error) {
	creator, creatorError := service.dependencies.RepositoryCreatorFactory(executionContext, projectCredentials.GitHubToken)
	if creatorError != nil {
		return githubapi.RepositoryCreated, fmt.Errorf(repositoryCreationErrorTemplate, projectCredentials.ProjectName, creatorError)
	}
	outcome, createError := creator.CreateRepository(executionContext, githubapi.RepositoryRequest{
		Name:        projectCredentials.ProjectName,
		Description: projectCredentials.ProjectDescription,
	})
	if createError != nil {
		return outcome, fmt.Errorf(repositoryCreationErrorTemplate, projectCredentials.ProjectName, createError)
	}
	return outcome, nil
}

func (service *Service) setupLocalRepository(executionContext context.Context, projectPath string, branch string, gitHubRemote gitrepo.GitHubRemote, result *Result) error {
	logger := service.dependencies.Logger
	gitManager := service.dependencies.GitManager

	isRepository, inspectError := gitManager.IsRepository(executionContext, projectPath)
	if inspectError != nil {
		return inspectError
	}
	if isRepository {
		logger.Info(repositoryExistingMessage, zap.String(pathFieldConstant, projectPath))
	} else {
		if initializeError := gitManager.Initialize(executionContext, projectPath, branch); initializeError != nil {
			return initializeError
		}
		result.RepositoryInitialized = true
		logger.Info(repositoryInitializedMessage, zap.String(pathFieldConstant, projectPath))
	}

	userEmail := fmt.Sprintf(gitHubNoReplyEmailTemplateConstant, gitHubRemote.Username)
	if identityError := gitManager.ConfigureIdentity(executionContext, projectPath, gitHubRemote.Username, userEmail); identityError != nil {
		return identityError
	}

	authenticatedURL, urlError := gitHubRemote.AuthenticatedURL()
	if urlError != nil {
		return urlError
	}
	remoteCreated, upsertError := gitManager.UpsertRemote(executionContext, projectPath, gitrepo.OriginRemoteName, authenticatedURL)
	if upsertError != nil {
		return upsertError
	}
	result.RemoteCreated = remoteCreated
	if remoteCreated {
		logger.Info(remoteAddedLogMessage, zap.String(remoteFieldConstant, gitrepo.OriginRemoteName))
	} else {
		logger.Info(remoteUpdatedLogMessage, zap.String(remoteFieldConstant, gitrepo.OriginRemoteName))
	}
	return nil
}

func (service *Service) writeProjectFiles(projectPath string, branch string, projectCredentials credentials.Credentials, gitHubRemote gitrepo.GitHubRemote, result *Result) error {
	logger := service.dependencies.Logger

	environmentResult, environmentError := service.dependencies.EnvironmentWriter.Write(projectPath)
	if environmentError != nil {
		return environmentError
	}
	result.EnvironmentExample = environmentResult
	logger.Info(environmentExampleLogMessage, zap.String(pathFieldConstant, environmentResult.ExamplePath))

	if projectCredentials.HasHuggingFaceSpace() {
		workflowPath, workflowError := service.dependencies.WorkflowWriter.Write(projectPath, scaffold.HuggingFaceTarget{
			Username: projectCredentials.HuggingFaceUsername,
			Space:    projectCredentials.HuggingFaceSpace,
			Branch:   branch,
		})
		if workflowError != nil {
			return workflowError
		}
		result.WorkflowPath = workflowPath
		logger.Info(workflowWrittenLogMessage, zap.String(pathFieldConstant, workflowPath))
	} else {
		logger.Info(workflowSkippedLogMessage)
	}

	readmeOutcome, readmeError := service.dependencies.ReadmeUpdater.Update(projectPath, scaffold.ReadmeDetails{
		ProjectName:        projectCredentials.ProjectName,
		ProjectDescription: projectCredentials.ProjectDescription,
		RepositoryURL:      gitHubRemote.PublicURL(),
		CloneURL:           gitHubRemote.CloneURL(),
		Branch:             branch,
	})
	if readmeError != nil {
		return readmeError
	}
	result.Readme = readmeOutcome
	logger.Info(readmeUpdatedLogMessage, zap.String(pathFieldConstant, readmeOutcome.Path))
	return nil
}

func (service *Service) commitAndPush(executionContext context.Context, projectPath string, options Options, result *Result) error {
	logger := service.dependencies.Logger
	gitManager := service.dependencies.GitManager

	if stageError := gitManager.StageAll(executionContext, projectPath); stageError != nil {
		return stageError
	}

	commitOutcome, commitError := gitManager.Commit(executionContext, projectPath, options.CommitMessage)
	if commitError != nil {
		return fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	result.CommitStatus = commitStatus(commitOutcome)
	if commitOutcome == gitrepo.CommitNothingToCommit {
		logger.Info(nothingToCommitLogMessage)
		return nil
	}
	logger.Info(committedLogMessage, zap.String(messageFieldConstant, options.CommitMessage))

	pushOptions := gitrepo.PushOptions{Remote: gitrepo.OriginRemoteName, Branch: options.Branch}
	pushError := gitManager.Push(executionContext, projectPath, pushOptions)
	if pushError == nil {
		result.PushStatus = pushStatusPushed
		logger.Info(pushedLogMessage, zap.String(branchFieldConstant, options.Branch))
		return nil
	}

	var rejectedError gitrepo.PushRejectedError
	if !errors.As(pushError, &rejectedError) {
		return fmt.Errorf(pushErrorTemplateConstant, pushError)
	}
	logger.Warn(pushRejectedLogMessage, zap.String(remoteFieldConstant, pushOptions.Remote), zap.String(branchFieldConstant, pushOptions.Branch))

	if !options.AssumeYes && !service.confirmForcePush() {
		return PushAbortedError{Remote: pushOptions.Remote, Branch: pushOptions.Branch}
	}

	pushOptions.Force = true
	if forceError := gitManager.Push(executionContext, projectPath, pushOptions); forceError != nil {
		return fmt.Errorf(forcePushErrorTemplateConstant, forceError)
	}
	result.PushStatus = pushStatusForcePushed
	logger.Info(forcePushedLogMessage, zap.String(branchFieldConstant, options.Branch))
	return nil
}

// storeHuggingFaceSecret returns false without error when the Space credentials are incomplete.
func (service *Service) storeHuggingFaceSecret(executionContext context.Context, projectCredentials credentials.Credentials, gitHubRemote gitrepo.GitHubRemote) (bool, error) {
	logger := service.dependencies.Logger
	if !projectCredentials.HasHuggingFaceSpace() || len(projectCredentials.HuggingFaceToken) == 0 {
		logger.Info(secretSkippedLogMessage)
		return false, nil
	}
	if service.dependencies.SecretWriter == nil {
		return false, ErrSecretWriterNotConfigured
	}

	secretError := service.dependencies.SecretWriter.SetRepositorySecret(executionContext, githubcli.SecretRequest{
		Repository: fmt.Sprintf(repositoryIdentifierTemplate, gitHubRemote.Username, gitHubRemote.Repository),
		Name:       huggingFaceSecretNameConstant,
		Value:      projectCredentials.HuggingFaceToken,
		Token:      gitHubRemote.Token,
	})
	if secretError != nil {
		return false, fmt.Errorf(secretErrorTemplateConstant, huggingFaceSecretNameConstant, secretError)
	}
	logger.Info(secretStoredLogMessage, zap.String(remoteFieldConstant, gitHubRemote.PublicURL()))
	return true, nil
}

// Missing input or a read failure counts as a refusal.
func (service *Service) confirmForcePush() bool {
	if service.dependencies.Prompter == nil {
		return false
	}
	confirmed, confirmError := service.dependencies.Prompter.Confirm(forcePushPromptConstant)
	if confirmError != nil {
		service.dependencies.Logger.Warn(confirmationFailedLogMessage, zap.Error(confirmError))
		return false
	}
	return confirmed
}
