package dependencies

import (
	"context"

	"github.com/temirov/textgen/internal/credentials"
	"github.com/temirov/textgen/internal/githubapi"
	"github.com/temirov/textgen/internal/githubcli"
	"github.com/temirov/textgen/internal/gitrepo"
)

// GitRepositoryManager exposes the repository-level git operations used by the publishing commands.
type GitRepositoryManager interface {
	IsRepository(executionContext context.Context, repositoryPath string) (bool, error)
	Initialize(executionContext context.Context, repositoryPath string, initialBranch string) error
	ConfigureIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error
	RemoteExists(executionContext context.Context, repositoryPath string, remoteName string) (bool, error)
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	UpsertRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) (bool, error)
	StageAll(executionContext context.Context, repositoryPath string) error
	Commit(executionContext context.Context, repositoryPath string, message string) (gitrepo.CommitOutcome, error)
	Push(executionContext context.Context, repositoryPath string, options gitrepo.PushOptions) error
}

// CredentialsLoader resolves hosting credentials for a project directory.
type CredentialsLoader interface {
	Load(projectPath string) (credentials.Credentials, error)
}

// Prompter asks the operator for confirmations and missing values.
type Prompter interface {
	Confirm(prompt string) (bool, error)
	PromptValue(label string) (string, error)
}

// RepositoryCreator creates GitHub repositories.
type RepositoryCreator interface {
	CreateRepository(executionContext context.Context, request githubapi.RepositoryRequest) (githubapi.CreateOutcome, error)
}

// RepositoryCreatorFactory builds a RepositoryCreator authenticated with token.
type RepositoryCreatorFactory func(executionContext context.Context, token string) (RepositoryCreator, error)

// SecretWriter stores GitHub Actions secrets.
type SecretWriter interface {
	SetRepositorySecret(executionContext context.Context, request githubcli.SecretRequest) error
}
