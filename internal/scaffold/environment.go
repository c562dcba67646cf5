package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// EnvironmentExampleFileName is the template of variables users copy into .env.
	EnvironmentExampleFileName = ".env.example"
	// GitIgnoreFileName is the ignore file that must exclude .env.
	GitIgnoreFileName = ".gitignore"

	environmentFileEntryConstant       = ".env"
	gitIgnoreSectionConstant           = "# Environment variables\n.env\n"
	gitIgnoreAppendPrefixConstant      = "\n"
	writeFileErrorTemplateConstant     = "unable to write %s: %w"
	readFileErrorTemplateConstant      = "unable to read %s: %w"
	inspectFileErrorTemplateConstant   = "unable to inspect %s: %w"
	environmentExampleContentsConstant = `# GitHub Configuration
GITHUB_USERNAME=your_github_username
GITHUB_TOKEN=your_github_personal_access_token

# Project Configuration
PROJECT_NAME=your_project_name
PROJECT_DESCRIPTION=your_project_description

# Hugging Face Configuration (Optional, for GitHub Actions sync)
HF_USERNAME=your_huggingface_username
HF_SPACE_NAME=your_space_name
`
)

// GitIgnoreChange describes what happened to .gitignore.
type GitIgnoreChange int

// GitIgnore changes.
const (
	GitIgnoreUnchanged GitIgnoreChange = iota
	GitIgnoreCreated
	GitIgnoreAppended
)

// EnvironmentExampleResult reports the files touched by WriteEnvironmentExample.
type EnvironmentExampleResult struct {
	ExamplePath     string
	GitIgnorePath   string
	GitIgnoreChange GitIgnoreChange
}

// EnvironmentExampleWriter writes .env.example and keeps .env out of version control.
type EnvironmentExampleWriter struct {
	fileSystem FileSystem
}

// NewEnvironmentExampleWriter constructs a writer; a nil fileSystem uses the OS.
func NewEnvironmentExampleWriter(fileSystem FileSystem) *EnvironmentExampleWriter {
	return &EnvironmentExampleWriter{fileSystem: resolveFileSystem(fileSystem)}
}

// Write overwrites .env.example and makes sure .gitignore mentions .env.
func (writer *EnvironmentExampleWriter) Write(projectPath string) (EnvironmentExampleResult, error) {
	examplePath := filepath.Join(projectPath, EnvironmentExampleFileName)
	if writeError := writer.fileSystem.WriteFile(examplePath, []byte(environmentExampleContentsConstant), filePermissionConstant); writeError != nil {
		return EnvironmentExampleResult{}, fmt.Errorf(writeFileErrorTemplateConstant, examplePath, writeError)
	}

	gitIgnorePath := filepath.Join(projectPath, GitIgnoreFileName)
	change, gitIgnoreError := writer.ensureGitIgnoreEntry(gitIgnorePath)
	if gitIgnoreError != nil {
		return EnvironmentExampleResult{}, gitIgnoreError
	}
	return EnvironmentExampleResult{ExamplePath: examplePath, GitIgnorePath: gitIgnorePath, GitIgnoreChange: change}, nil
}

func (writer *EnvironmentExampleWriter) ensureGitIgnoreEntry(gitIgnorePath string) (GitIgnoreChange, error) {
	exists, inspectError := fileExists(writer.fileSystem, gitIgnorePath)
	if inspectError != nil {
		return GitIgnoreUnchanged, fmt.Errorf(inspectFileErrorTemplateConstant, gitIgnorePath, inspectError)
	}
	if !exists {
		if writeError := writer.fileSystem.WriteFile(gitIgnorePath, []byte(gitIgnoreSectionConstant), filePermissionConstant); writeError != nil {
			return GitIgnoreUnchanged, fmt.Errorf(writeFileErrorTemplateConstant, gitIgnorePath, writeError)
		}
		return GitIgnoreCreated, nil
	}

	existingContents, readError := writer.fileSystem.ReadFile(gitIgnorePath)
	if readError != nil {
		return GitIgnoreUnchanged, fmt.Errorf(readFileErrorTemplateConstant, gitIgnorePath, readError)
	}
	if ignoresEnvironmentFile(string(existingContents)) {
		return GitIgnoreUnchanged, nil
	}

	updatedContents := string(existingContents) + gitIgnoreAppendPrefixConstant + gitIgnoreSectionConstant
	if writeError := writer.fileSystem.WriteFile(gitIgnorePath, []byte(updatedContents), filePermissionConstant); writeError != nil {
		return GitIgnoreUnchanged, fmt.Errorf(writeFileErrorTemplateConstant, gitIgnorePath, writeError)
	}
	return GitIgnoreAppended, nil
}

// ignoresEnvironmentFile reports whether a whole line ignores .env, either bare or anchored to the root.
func ignoresEnvironmentFile(gitIgnoreContents string) bool {
	for _, line := range strings.Split(gitIgnoreContents, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == environmentFileEntryConstant || trimmedLine == "/"+environmentFileEntryConstant {
			return true
		}
	}
	return false
}
