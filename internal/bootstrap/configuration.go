package bootstrap

import "strings"

const (
	defaultProjectPathConstant   = "."
	defaultCommitMessageConstant = "Initial commit"
	defaultBranchNameConstant    = "main"
)

// Configuration captures persistent settings for github-setup.
type Configuration struct {
	Path             string `mapstructure:"path"`
	Message          string `mapstructure:"message"`
	Branch           string `mapstructure:"branch"`
	CreateRepository bool   `mapstructure:"create_repo"`
	Push             bool   `mapstructure:"push"`
	AssumeYes        bool   `mapstructure:"yes"`
	SetSecret        bool   `mapstructure:"set_hf_secret"`
	GitHubAPIBaseURL string `mapstructure:"github_api_base_url"`
}

// DefaultConfiguration returns baseline values for github-setup.
func DefaultConfiguration() Configuration {
	return Configuration{
		Path:    defaultProjectPathConstant,
		Message: defaultCommitMessageConstant,
		Branch:  defaultBranchNameConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as flat keys for the configuration loader.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		"path":                defaults.Path,
		"message":             defaults.Message,
		"branch":              defaults.Branch,
		"create_repo":         defaults.CreateRepository,
		"push":                defaults.Push,
		"yes":                 defaults.AssumeYes,
		"set_hf_secret":       defaults.SetSecret,
		"github_api_base_url": defaults.GitHubAPIBaseURL,
	}
}

// Sanitize trims configured values and restores defaults for empty ones.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Path = selectNonEmpty(configuration.Path, defaultProjectPathConstant)
	sanitized.Message = selectNonEmpty(configuration.Message, defaultCommitMessageConstant)
	sanitized.Branch = selectNonEmpty(configuration.Branch, defaultBranchNameConstant)
	sanitized.GitHubAPIBaseURL = strings.TrimSpace(configuration.GitHubAPIBaseURL)
	return sanitized
}

func selectNonEmpty(candidate string, fallback string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return fallback
	}
	return trimmedCandidate
}
