package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/textgen/internal/execshell"
)

const (
	gitDirectoryNameConstant             = ".git"
	gitInitSubcommandConstant            = "init"
	gitInitialBranchFlagTemplateConstant = "--initial-branch=%s"
	gitConfigSubcommandConstant          = "config"
	gitUserNameKeyConstant               = "user.name"
	gitUserEmailKeyConstant              = "user.email"
	gitRevParseSubcommandConstant        = "rev-parse"
	gitWorkTreeFlagConstant              = "--is-inside-work-tree"
	gitRemoteSubcommandConstant          = "remote"
	gitRemoteAddSubcommandConstant       = "add"
	gitRemoteGetURLSubcommandConstant    = "get-url"
	gitRemoteSetURLSubcommandConstant    = "set-url"
	gitAddSubcommandConstant             = "add"
	gitAddAllPathspecConstant            = "."
	gitAddAllFlagConstant                = "--all"
	gitCommitSubcommandConstant          = "commit"
	gitMessageFlagConstant               = "-m"
	gitPushSubcommandConstant            = "push"
	gitForceFlagConstant                 = "--force"
	gitSetUpstreamFlagConstant           = "-u"
	gitTerminalPromptVariableConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant    = "0"
	trueLiteralConstant                  = "true"
	nothingToCommitMarkerConstant        = "nothing to commit"
	pushRejectedRefMarkerConstant        = "[rejected]"
	pushRejectedHintMarkerConstant       = "Updates were rejected"
	gitLocaleVariableConstant            = "LC_ALL"
	gitLocaleValueConstant               = "C"
	requiredValueMessageConstant         = "value required"
	executorNotConfiguredMessageConstant = "git executor not configured"
	repositoryPathFieldNameConstant      = "repository path"
	remoteNameFieldNameConstant          = "remote name"
	remoteURLFieldNameConstant           = "remote URL"
	branchNameFieldNameConstant          = "branch name"
	commitMessageFieldNameConstant       = "commit message"
	invalidInputErrorTemplateConstant    = "%s: %s"
	pushRejectedErrorTemplateConstant    = "push to %s %s rejected: remote contains commits that are not present locally"
	repositoryInspectionErrorConstant    = "unable to inspect %s: %w"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InvalidInputError reports a missing argument to a repository operation.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// CommitOutcome describes what a commit attempt produced.
type CommitOutcome int

// Commit outcomes.
const (
	CommitCreated CommitOutcome = iota
	CommitNothingToCommit
)

// PushOptions configures a push.
type PushOptions struct {
	Remote      string
	Branch      string
	Force       bool
	SetUpstream bool
}

// PushRejectedError reports a non-fast-forward rejection from the remote.
type PushRejectedError struct {
	Remote string
	Branch string
	Cause  error
}

// Error describes the rejection.
func (rejectedError PushRejectedError) Error() string {
	return fmt.Sprintf(pushRejectedErrorTemplateConstant, rejectedError.Remote, rejectedError.Branch)
}

// Unwrap exposes the failed git invocation.
func (rejectedError PushRejectedError) Unwrap() error {
	return rejectedError.Cause
}

// RepositoryManager runs git porcelain commands against a working tree.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsRepository reports whether repositoryPath itself holds a git working tree.
// Directories nested inside another repository do not count.
func (manager *RepositoryManager) IsRepository(executionContext context.Context, repositoryPath string) (bool, error) {
	if validationError := requireValue(repositoryPathFieldNameConstant, repositoryPath); validationError != nil {
		return false, validationError
	}

	if _, statError := os.Stat(filepath.Join(repositoryPath, gitDirectoryNameConstant)); statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(repositoryInspectionErrorConstant, repositoryPath, statError)
	}

	result, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(result.StandardOutput) == trueLiteralConstant, nil
}

// Initialize creates a repository whose first branch is initialBranch.
func (manager *RepositoryManager) Initialize(executionContext context.Context, repositoryPath string, initialBranch string) error {
	if validationError := requireValue(repositoryPathFieldNameConstant, repositoryPath); validationError != nil {
		return validationError
	}
	arguments := []string{gitInitSubcommandConstant}
	if trimmedBranch := strings.TrimSpace(initialBranch); len(trimmedBranch) > 0 {
		arguments = append(arguments, fmt.Sprintf(gitInitialBranchFlagTemplateConstant, trimmedBranch))
	}
	_, executionError := manager.executeGit(executionContext, repositoryPath, arguments...)
	return executionError
}

// ConfigureIdentity sets the repository-local author name and email.
func (manager *RepositoryManager) ConfigureIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error {
	if _, executionError := manager.executeGit(executionContext, repositoryPath, gitConfigSubcommandConstant, gitUserNameKeyConstant, userName); executionError != nil {
		return executionError
	}
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitConfigSubcommandConstant, gitUserEmailKeyConstant, userEmail)
	return executionError
}

// GetRemoteURL returns the URL configured for remoteName.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if validationError := requireValue(remoteNameFieldNameConstant, remoteName); validationError != nil {
		return "", validationError
	}
	result, executionError := manager.executeGit(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// RemoteExists reports whether remoteName is configured.
func (manager *RepositoryManager) RemoteExists(executionContext context.Context, repositoryPath string, remoteName string) (bool, error) {
	_, lookupError := manager.GetRemoteURL(executionContext, repositoryPath, remoteName)
	if lookupError == nil {
		return true, nil
	}
	var failedError execshell.CommandFailedError
	if errors.As(lookupError, &failedError) {
		return false, nil
	}
	return false, lookupError
}

// AddRemote registers a new remote.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	return manager.changeRemote(executionContext, repositoryPath, gitRemoteAddSubcommandConstant, remoteName, remoteURL)
}

// SetRemoteURL replaces the URL of an existing remote.
func (manager *RepositoryManager) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	return manager.changeRemote(executionContext, repositoryPath, gitRemoteSetURLSubcommandConstant, remoteName, remoteURL)
}

// UpsertRemote updates remoteName when it exists and adds it otherwise. It reports whether the remote was created.
func (manager *RepositoryManager) UpsertRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) (bool, error) {
	remoteExists, lookupError := manager.RemoteExists(executionContext, repositoryPath, remoteName)
	if lookupError != nil {
		return false, lookupError
	}
	if remoteExists {
		return false, manager.SetRemoteURL(executionContext, repositoryPath, remoteName, remoteURL)
	}
	return true, manager.AddRemote(executionContext, repositoryPath, remoteName, remoteURL)
}

// StageAll stages every change, including deletions, in the working tree.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitAddSubcommandConstant, gitAddAllFlagConstant, gitAddAllPathspecConstant)
	return executionError
}

// Commit records staged changes. A clean tree yields CommitNothingToCommit rather than an error.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) (CommitOutcome, error) {
	if validationError := requireValue(commitMessageFieldNameConstant, message); validationError != nil {
		return CommitCreated, validationError
	}
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitCommitSubcommandConstant, gitMessageFlagConstant, message)
	if executionError == nil {
		return CommitCreated, nil
	}
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) && strings.Contains(failedError.Result.CombinedOutput(), nothingToCommitMarkerConstant) {
		return CommitNothingToCommit, nil
	}
	return CommitCreated, executionError
}

// Push sends options.Branch to options.Remote. Rejected refs (non-fast-forward or fetch first) surface as PushRejectedError.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, options PushOptions) error {
	if validationError := requireValue(remoteNameFieldNameConstant, options.Remote); validationError != nil {
		return validationError
	}
	if validationError := requireValue(branchNameFieldNameConstant, options.Branch); validationError != nil {
		return validationError
	}

	arguments := []string{gitPushSubcommandConstant}
	if options.SetUpstream {
		arguments = append(arguments, gitSetUpstreamFlagConstant)
	}
	arguments = append(arguments, options.Remote, options.Branch)
	if options.Force {
		arguments = append(arguments, gitForceFlagConstant)
	}

	_, executionError := manager.executeGit(executionContext, repositoryPath, arguments...)
	if executionError == nil {
		return nil
	}
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		combinedOutput := failedError.Result.CombinedOutput()
		if strings.Contains(combinedOutput, pushRejectedRefMarkerConstant) || strings.Contains(combinedOutput, pushRejectedHintMarkerConstant) {
			return PushRejectedError{Remote: options.Remote, Branch: options.Branch, Cause: executionError}
		}
	}
	return executionError
}

func (manager *RepositoryManager) changeRemote(executionContext context.Context, repositoryPath string, subcommand string, remoteName string, remoteURL string) error {
	if validationError := requireValue(remoteNameFieldNameConstant, remoteName); validationError != nil {
		return validationError
	}
	if validationError := requireValue(remoteURLFieldNameConstant, remoteURL); validationError != nil {
		return validationError
	}
	_, executionError := manager.executeGit(executionContext, repositoryPath, gitRemoteSubcommandConstant, subcommand, remoteName, remoteURL)
	return executionError
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		// Output is matched against English markers, so the locale is pinned.
		EnvironmentVariables: map[string]string{
			gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant,
			gitLocaleVariableConstant:         gitLocaleValueConstant,
		},
	})
}

func requireValue(fieldName string, value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
	}
	return nil
}
