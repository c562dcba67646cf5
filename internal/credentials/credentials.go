package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
)

// Environment variable names read by textgen's publishing commands.
const (
	EnvGitHubUsername     = "GITHUB_USERNAME"
	EnvGitHubToken        = "GITHUB_TOKEN"
	EnvProjectName        = "PROJECT_NAME"
	EnvProjectDescription = "PROJECT_DESCRIPTION"
	EnvHuggingFaceUser    = "HF_USERNAME"
	EnvHuggingFaceSpace   = "HF_SPACE_NAME"
	EnvHuggingFaceToken   = "HF_TOKEN"
	EnvRepositoryName     = "REPO_NAME"
)

const (
	// DefaultProjectDescription is used when PROJECT_DESCRIPTION is unset.
	DefaultProjectDescription = "FastAPI text generation API with FLAN-T5"

	environmentFileNameConstant         = ".env"
	mapstructureTagNameConstant         = "mapstructure"
	missingVariablesErrorTemplate       = "missing required environment variables: %s"
	missingVariablesSeparatorConstant   = ", "
	environmentFileReadErrorTemplate    = "unable to read %s: %w"
	credentialsDecodeErrorTemplate      = "unable to decode credentials: %w"
	environmentFileInspectErrorTemplate = "unable to inspect %s: %w"
)

// Credentials holds hosting account settings. Values come from the process
// environment first and from .env files second.
type Credentials struct {
	GitHubUsername      string `mapstructure:"GITHUB_USERNAME"`
	GitHubToken         string `mapstructure:"GITHUB_TOKEN"`
	ProjectName         string `mapstructure:"PROJECT_NAME"`
	ProjectDescription  string `mapstructure:"PROJECT_DESCRIPTION"`
	HuggingFaceUsername string `mapstructure:"HF_USERNAME"`
	HuggingFaceSpace    string `mapstructure:"HF_SPACE_NAME"`
	HuggingFaceToken    string `mapstructure:"HF_TOKEN"`
	RepositoryName      string `mapstructure:"REPO_NAME"`

	values map[string]string
}

// Value returns the trimmed value of an environment variable name.
func (credentials Credentials) Value(name string) string {
	return strings.TrimSpace(credentials.values[name])
}

// Missing returns the names among requiredNames whose values are empty, preserving order.
func (credentials Credentials) Missing(requiredNames ...string) []string {
	missingNames := make([]string, 0, len(requiredNames))
	for _, requiredName := range requiredNames {
		if len(credentials.Value(requiredName)) == 0 {
			missingNames = append(missingNames, requiredName)
		}
	}
	return missingNames
}

// Require returns a MissingConfigurationError naming every empty variable, or nil.
func (credentials Credentials) Require(requiredNames ...string) error {
	missingNames := credentials.Missing(requiredNames...)
	if len(missingNames) == 0 {
		return nil
	}
	return MissingConfigurationError{Names: missingNames}
}

// HasHuggingFaceSpace reports whether both the Hugging Face username and Space name are set.
func (credentials Credentials) HasHuggingFaceSpace() bool {
	return len(credentials.Missing(EnvHuggingFaceUser, EnvHuggingFaceSpace)) == 0
}

// MissingConfigurationError lists required environment variables that are not set.
type MissingConfigurationError struct {
	Names []string
}

// Error lists the missing variable names.
func (missingError MissingConfigurationError) Error() string {
	return fmt.Sprintf(missingVariablesErrorTemplate, strings.Join(missingError.Names, missingVariablesSeparatorConstant))
}

// EnvironmentLookup resolves a variable from the process environment.
type EnvironmentLookup func(name string) (string, bool)

// Loader reads credentials from .env files and the process environment.
type Loader struct {
	lookupEnvironment EnvironmentLookup
	searchDirectories []string
}

// NewLoader constructs a Loader over the real process environment. .env files in
// searchDirectories are read in order, later directories overriding earlier ones.
func NewLoader(searchDirectories ...string) *Loader {
	return NewLoaderWithLookup(os.LookupEnv, searchDirectories...)
}

// NewLoaderWithLookup constructs a Loader over a custom environment lookup.
func NewLoaderWithLookup(lookupEnvironment EnvironmentLookup, searchDirectories ...string) *Loader {
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}
	return &Loader{lookupEnvironment: lookupEnvironment, searchDirectories: append([]string{}, searchDirectories...)}
}

// Load resolves credentials for the project at projectPath. The project's .env is read last among files.
// Process environment values always win over file values.
func (loader *Loader) Load(projectPath string) (Credentials, error) {
	fileValues, readError := loader.readEnvironmentFiles(append(append([]string{}, loader.searchDirectories...), projectPath))
	if readError != nil {
		return Credentials{}, readError
	}

	resolvedValues := make(map[string]string, len(knownVariableNames))
	for _, variableName := range knownVariableNames {
		if environmentValue, present := loader.lookupEnvironment(variableName); present && len(strings.TrimSpace(environmentValue)) > 0 {
			resolvedValues[variableName] = strings.TrimSpace(environmentValue)
			continue
		}
		if fileValue := strings.TrimSpace(fileValues[variableName]); len(fileValue) > 0 {
			resolvedValues[variableName] = fileValue
		}
	}
	if len(resolvedValues[EnvProjectDescription]) == 0 {
		resolvedValues[EnvProjectDescription] = DefaultProjectDescription
	}

	credentials := Credentials{}
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: mapstructureTagNameConstant,
		Result:  &credentials,
	})
	if decoderError != nil {
		return Credentials{}, fmt.Errorf(credentialsDecodeErrorTemplate, decoderError)
	}
	if decodeError := decoder.Decode(resolvedValues); decodeError != nil {
		return Credentials{}, fmt.Errorf(credentialsDecodeErrorTemplate, decodeError)
	}
	credentials.values = resolvedValues
	return credentials, nil
}

func (loader *Loader) readEnvironmentFiles(directories []string) (map[string]string, error) {
	existingFiles := make([]string, 0, len(directories))
	seenFiles := make(map[string]struct{}, len(directories))
	for _, directory := range directories {
		if len(strings.TrimSpace(directory)) == 0 {
			continue
		}
		environmentFilePath := filepath.Join(directory, environmentFileNameConstant)
		if _, seen := seenFiles[environmentFilePath]; seen {
			continue
		}
		if _, statError := os.Stat(environmentFilePath); statError != nil {
			if errors.Is(statError, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf(environmentFileInspectErrorTemplate, environmentFilePath, statError)
		}
		seenFiles[environmentFilePath] = struct{}{}
		existingFiles = append(existingFiles, environmentFilePath)
	}
	if len(existingFiles) == 0 {
		return map[string]string{}, nil
	}

	fileValues, readError := godotenv.Read(existingFiles...)
	if readError != nil {
		return nil, fmt.Errorf(environmentFileReadErrorTemplate, strings.Join(existingFiles, missingVariablesSeparatorConstant), readError)
	}
	return fileValues, nil
}

var knownVariableNames = []string{
	EnvGitHubUsername,
	EnvGitHubToken,
	EnvProjectName,
	EnvProjectDescription,
	EnvHuggingFaceUser,
	EnvHuggingFaceSpace,
	EnvHuggingFaceToken,
	EnvRepositoryName,
}
