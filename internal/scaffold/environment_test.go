package scaffold_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/textgen/internal/scaffold"
)

func TestEnvironmentExampleWriterWrite(testInstance *testing.T) {
	testCases := []struct {
		name              string
		existingGitIgnore *string
		expectedGitIgnore string
		expectedChange    scaffold.GitIgnoreChange
	}{
		{
			name:              "creates_gitignore",
			expectedGitIgnore: "# Environment variables\n.env\n",
			expectedChange:    scaffold.GitIgnoreCreated,
		},
		{
			name:              "appends_missing_entry",
			existingGitIgnore: stringPointer("bin/\n"),
			expectedGitIgnore: "bin/\n\n# Environment variables\n.env\n",
			expectedChange:    scaffold.GitIgnoreAppended,
		},
		{
			name:              "keeps_existing_entry",
			existingGitIgnore: stringPointer("bin/\n.env\n"),
			expectedGitIgnore: "bin/\n.env\n",
			expectedChange:    scaffold.GitIgnoreUnchanged,
		},
		{
			name:              "keeps_root_anchored_entry",
			existingGitIgnore: stringPointer("/.env\r\n"),
			expectedGitIgnore: "/.env\r\n",
			expectedChange:    scaffold.GitIgnoreUnchanged,
		},
		{
			name:              "similar_names_do_not_cover_env",
			existingGitIgnore: stringPointer(".env.example\n.envrc\n"),
			expectedGitIgnore: ".env.example\n.envrc\n\n# Environment variables\n.env\n",
			expectedChange:    scaffold.GitIgnoreAppended,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			projectPath := testInstance.TempDir()
			if testCase.existingGitIgnore != nil {
				require.NoError(testInstance, os.WriteFile(filepath.Join(projectPath, scaffold.GitIgnoreFileName), []byte(*testCase.existingGitIgnore), 0o644))
			}

			writer := scaffold.NewEnvironmentExampleWriter(nil)
			result, writeError := writer.Write(projectPath)
			require.NoError(testInstance, writeError)
			require.Equal(testInstance, testCase.expectedChange, result.GitIgnoreChange)

			gitIgnoreContents, readError := os.ReadFile(result.GitIgnorePath)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectedGitIgnore, string(gitIgnoreContents))

			exampleContents, exampleError := os.ReadFile(result.ExamplePath)
			require.NoError(testInstance, exampleError)
			require.Contains(testInstance, string(exampleContents), "# GitHub Configuration\nGITHUB_USERNAME=your_github_username\nGITHUB_TOKEN=your_github_personal_access_token\n")
			require.Contains(testInstance, string(exampleContents), "PROJECT_DESCRIPTION=your_project_description\n")
			require.Contains(testInstance, string(exampleContents), "# Hugging Face Configuration (Optional, for GitHub Actions sync)\nHF_USERNAME=your_huggingface_username\nHF_SPACE_NAME=your_space_name\n")
		})
	}
}

func TestEnvironmentExampleWriterIsIdempotent(testInstance *testing.T) {
	projectPath := testInstance.TempDir()
	writer := scaffold.NewEnvironmentExampleWriter(scaffold.OSFileSystem{})

	_, firstError := writer.Write(projectPath)
	require.NoError(testInstance, firstError)
	secondResult, secondError := writer.Write(projectPath)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, scaffold.GitIgnoreUnchanged, secondResult.GitIgnoreChange)
}

func stringPointer(value string) *string {
	return &value
}
