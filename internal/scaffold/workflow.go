package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const (
	// WorkflowRelativePath locates the Hugging Face sync workflow inside a project.
	WorkflowRelativePath = ".github/workflows/sync-to-huggingface.yml"

	defaultWorkflowBranchConstant       = "main"
	workflowTemplateNameConstant        = "sync-to-huggingface"
	workflowLeftDelimiterConstant       = "<%"
	workflowRightDelimiterConstant      = "%>"
	workflowJobsKeyConstant             = "jobs"
	workflowRenderErrorTemplateConstant = "unable to render workflow: %w"
	workflowParseErrorTemplateConstant  = "rendered workflow is not valid YAML: %w"
	workflowDirectoryErrorTemplate      = "unable to create %s: %w"
	huggingFaceTargetIncompleteConstant = "Hugging Face username and Space name are required"
	workflowMissingJobsMessageConstant  = "rendered workflow has no jobs"
	workflowTemplateContentsConstant    = `name: Sync to Hugging Face Space

on:
  push:
    branches: [<% .Branch %>]
  workflow_dispatch:

jobs:
  sync-to-hub:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3
        with:
          fetch-depth: 0
          lfs: true

      - name: Push to Hugging Face Space
        env:
          HF_TOKEN: ${{ secrets.HF_TOKEN }}
        run: |
          git config --global user.email "github-actions[bot]@users.noreply.github.com"
          git config --global user.name "GitHub Actions"
          git push https://<% .Username %>:${{ secrets.HF_TOKEN }}@huggingface.co/spaces/<% .Username %>/<% .Space %> <% .Branch %>:main
`
)

var (
	// ErrHuggingFaceTargetIncomplete indicates the workflow cannot be rendered without a Space.
	ErrHuggingFaceTargetIncomplete = errors.New(huggingFaceTargetIncompleteConstant)
	// ErrWorkflowMissingJobs indicates the rendered workflow lost its jobs section.
	ErrWorkflowMissingJobs = errors.New(workflowMissingJobsMessageConstant)

	workflowTemplate = template.Must(template.New(workflowTemplateNameConstant).
		Delims(workflowLeftDelimiterConstant, workflowRightDelimiterConstant).
		Parse(workflowTemplateContentsConstant))
)

// HuggingFaceTarget names the Space the workflow pushes to. The token is never
// rendered; the workflow reads it from the HF_TOKEN repository secret.
type HuggingFaceTarget struct {
	Username string
	Space    string
	Branch   string
}

// WorkflowWriter renders the GitHub Actions workflow that mirrors a branch to a Hugging Face Space.
type WorkflowWriter struct {
	fileSystem FileSystem
}

// NewWorkflowWriter constructs a writer; a nil fileSystem uses the OS.
func NewWorkflowWriter(fileSystem FileSystem) *WorkflowWriter {
	return &WorkflowWriter{fileSystem: resolveFileSystem(fileSystem)}
}

// Render produces the workflow text and checks it parses as YAML with a jobs section.
func (writer *WorkflowWriter) Render(target HuggingFaceTarget) (string, error) {
	if len(strings.TrimSpace(target.Username)) == 0 || len(strings.TrimSpace(target.Space)) == 0 {
		return "", ErrHuggingFaceTargetIncomplete
	}
	if len(strings.TrimSpace(target.Branch)) == 0 {
		target.Branch = defaultWorkflowBranchConstant
	}

	var renderedWorkflow bytes.Buffer
	if renderError := workflowTemplate.Execute(&renderedWorkflow, target); renderError != nil {
		return "", fmt.Errorf(workflowRenderErrorTemplateConstant, renderError)
	}

	var parsedWorkflow map[string]any
	if parseError := yaml.Unmarshal(renderedWorkflow.Bytes(), &parsedWorkflow); parseError != nil {
		return "", fmt.Errorf(workflowParseErrorTemplateConstant, parseError)
	}
	if _, hasJobs := parsedWorkflow[workflowJobsKeyConstant]; !hasJobs {
		return "", ErrWorkflowMissingJobs
	}
	return renderedWorkflow.String(), nil
}

// Write renders the workflow and stores it under WorkflowRelativePath, returning the absolute file path.
func (writer *WorkflowWriter) Write(projectPath string, target HuggingFaceTarget) (string, error) {
	workflowContents, renderError := writer.Render(target)
	if renderError != nil {
		return "", renderError
	}

	workflowPath := filepath.Join(projectPath, filepath.FromSlash(WorkflowRelativePath))
	workflowDirectory := filepath.Dir(workflowPath)
	if mkdirError := writer.fileSystem.MkdirAll(workflowDirectory, directoryPermissionConstant); mkdirError != nil {
		return "", fmt.Errorf(workflowDirectoryErrorTemplate, workflowDirectory, mkdirError)
	}
	if writeError := writer.fileSystem.WriteFile(workflowPath, []byte(workflowContents), filePermissionConstant); writeError != nil {
		return "", fmt.Errorf(writeFileErrorTemplateConstant, workflowPath, writeError)
	}
	return workflowPath, nil
}
