package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                  = "~"
	tildeForwardSlashPrefixConstant      = "~/"
	projectPathResolutionErrorTemplate   = "unable to resolve project path %s: %w"
	projectPathInspectionErrorTemplate   = "unable to inspect project path %s: %w"
	defaultProjectPathConstant           = "."
	projectPathDoesNotExistErrorTemplate = "project path %s does not exist"
)

// ErrProjectPathNotDirectory indicates the resolved project path is a regular file.
var ErrProjectPathNotDirectory = errors.New("project path is not a directory")

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts to absolute paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves "~" and "~/..." prefixes to the user's home directory.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil || len(expander.homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildeSymbolConstant {
		return expander.homeDirectory
	}
	for _, prefix := range []string{tildeForwardSlashPrefixConstant, tildeSymbolConstant + string(os.PathSeparator)} {
		if strings.HasPrefix(candidatePath, prefix) {
			return filepath.Join(expander.homeDirectory, strings.TrimPrefix(candidatePath, prefix))
		}
	}
	return candidatePath
}

// ResolveProjectDirectory expands, absolutizes, and verifies that candidatePath names an existing directory.
// Relative paths resolve against baseDirectory when it is set.
func (expander *HomeExpander) ResolveProjectDirectory(baseDirectory string, candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		trimmedPath = defaultProjectPathConstant
	}
	expandedPath := expander.Expand(trimmedPath)
	if !filepath.IsAbs(expandedPath) && len(baseDirectory) > 0 {
		expandedPath = filepath.Join(baseDirectory, expandedPath)
	}

	absolutePath, absoluteError := filepath.Abs(expandedPath)
	if absoluteError != nil {
		return "", fmt.Errorf(projectPathResolutionErrorTemplate, candidatePath, absoluteError)
	}

	pathInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return "", fmt.Errorf(projectPathDoesNotExistErrorTemplate, absolutePath)
		}
		return "", fmt.Errorf(projectPathInspectionErrorTemplate, absolutePath, statError)
	}
	if !pathInfo.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrProjectPathNotDirectory, absolutePath)
	}
	return absolutePath, nil
}
