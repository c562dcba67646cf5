package dependencies

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/credentials"
	"github.com/temirov/textgen/internal/execshell"
	"github.com/temirov/textgen/internal/githubapi"
	"github.com/temirov/textgen/internal/githubcli"
	"github.com/temirov/textgen/internal/gitrepo"
	"github.com/temirov/textgen/internal/prompt"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default
// that forwards command events to observer.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveGitRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveGitRepositoryManager(existing GitRepositoryManager, executor gitrepo.GitExecutor) (GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveCredentialsLoader returns the provided loader or one that reads .env from workingDirectory.
func ResolveCredentialsLoader(existing CredentialsLoader, workingDirectory string) CredentialsLoader {
	if existing != nil {
		return existing
	}
	return credentials.NewLoader(workingDirectory)
}

// ResolvePrompter returns the provided prompter or one reading from input and writing to output.
func ResolvePrompter(existing Prompter, input io.Reader, output io.Writer) Prompter {
	if existing != nil {
		return existing
	}
	return prompt.NewIOPrompter(input, output)
}

// ResolveRepositoryCreatorFactory returns the provided factory or one backed by the GitHub REST API.
func ResolveRepositoryCreatorFactory(existing RepositoryCreatorFactory, baseURL string, logger *zap.Logger) RepositoryCreatorFactory {
	if existing != nil {
		return existing
	}
	return func(executionContext context.Context, token string) (RepositoryCreator, error) {
		client, clientError := githubapi.NewClient(executionContext, token, githubapi.ClientOptions{BaseURL: baseURL, Logger: logger})
		if clientError != nil {
			return nil, clientError
		}
		return client, nil
	}
}

// ResolveSecretWriter returns the provided writer or a GitHub CLI client that runs gh through
// a shell executor forwarding command events to observer.
func ResolveSecretWriter(existing SecretWriter, logger *zap.Logger, observer execshell.CommandEventObserver) (SecretWriter, error) {
	if existing != nil {
		return existing, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	client, clientError := githubcli.NewClient(shellExecutor)
	if clientError != nil {
		return nil, clientError
	}
	return client, nil
}
