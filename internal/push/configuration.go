package push

import "strings"

const (
	defaultProjectPathConstant   = "."
	defaultBranchNameConstant    = "main"
	defaultCommitMessageConstant = "Update"
)

// Configuration captures persistent settings for the push command.
type Configuration struct {
	Path    string `mapstructure:"path"`
	Branch  string `mapstructure:"branch"`
	Message string `mapstructure:"message"`
}

// DefaultConfiguration returns baseline values for the push command.
func DefaultConfiguration() Configuration {
	return Configuration{
		Path:    defaultProjectPathConstant,
		Branch:  defaultBranchNameConstant,
		Message: defaultCommitMessageConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as flat keys for the configuration loader.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		"path":    defaults.Path,
		"branch":  defaults.Branch,
		"message": defaults.Message,
	}
}

// Sanitize trims configured values and restores defaults for empty ones.
func (configuration Configuration) Sanitize() Configuration {
	return Configuration{
		Path:    selectNonEmpty(configuration.Path, defaultProjectPathConstant),
		Branch:  selectNonEmpty(configuration.Branch, defaultBranchNameConstant),
		Message: selectNonEmpty(configuration.Message, defaultCommitMessageConstant),
	}
}

func selectNonEmpty(candidate string, fallback string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return fallback
	}
	return trimmedCandidate
}
