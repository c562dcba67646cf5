package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/temirov/textgen/internal/gitrepo"
	"github.com/temirov/textgen/internal/scaffold"
)

const (
	statusSkippedConstant          = "skipped"
	statusCreatedConstant          = "created"
	statusInitializedConstant      = "initialized"
	statusExistingConstant         = "existing"
	statusAddedConstant            = "added"
	statusUpdatedConstant          = "updated"
	statusAppendedConstant         = "appended .env"
	statusUnchangedConstant        = "unchanged"
	statusNothingToCommitConstant  = "nothing to commit"
	statusStoredConstant           = "stored"
	pushStatusPushed               = "pushed"
	pushStatusForcePushed          = "force pushed"
	summaryHeaderStepConstant      = "Step"
	summaryHeaderStatusConstant    = "Status"
	summaryCompletedLineConstant   = "GitHub setup completed successfully!\n"
	summaryRepositoryLineTemplate  = "GitHub Repository: %s\n"
	summaryRenderErrorTemplate     = "unable to print summary: %w"
	huggingFaceSecretInstructions  = "\nTo enable automatic sync to Hugging Face Space:\n1. Add the HF_TOKEN secret to your GitHub repository\n   - Go to %s\n   - Add a new repository secret with name 'HF_TOKEN' and your Hugging Face token as the value\n"
	huggingFaceSecretStoredLine    = "\nHF_TOKEN secret stored; pushes to GitHub will sync to the Hugging Face Space.\n"
	huggingFaceMissingInstructions = "\nTo enable automatic sync to Hugging Face Space, add the following to your .env file:\nHF_USERNAME=your_huggingface_username\nHF_SPACE_NAME=your_space_name\nThen run github-setup again with the --push flag\n"
	nextStepsHeaderConstant        = "\nNext steps:\n"
	nextStepManualPushConstant     = "1. Commit and push your changes manually, or rerun github-setup with --push\n"
	nextStepCloneTemplateConstant  = "2. Clone your repository on other machines: git clone %s\n"
)

// Result records what github-setup did, step by step.
type Result struct {
	ProjectPath             string
	Repository              gitrepo.GitHubRemote
	RepositoryCreation      string
	RepositoryInitialized   bool
	RemoteCreated           bool
	EnvironmentExample      scaffold.EnvironmentExampleResult
	WorkflowPath            string
	Readme                  scaffold.ReadmeOutcome
	PushRequested           bool
	CommitStatus            string
	PushStatus              string
	HuggingFaceUsername     string
	HuggingFaceSpace        string
	// HuggingFaceSecretStored reports that HF_TOKEN was saved as an Actions secret.
	HuggingFaceSecretStored bool
}

// HasHuggingFaceSpace reports whether the Space sync workflow applies.
func (result Result) HasHuggingFaceSpace() bool {
	return len(strings.TrimSpace(result.HuggingFaceUsername)) > 0 && len(strings.TrimSpace(result.HuggingFaceSpace)) > 0
}

// SummaryRows lists the step and status pairs shown in the summary table.
func (result Result) SummaryRows() [][2]string {
	return [][2]string{
		{"Project path", result.ProjectPath},
		{"GitHub repository", orDefault(result.RepositoryCreation, statusSkippedConstant)},
		{"Local repository", selectStatus(result.RepositoryInitialized, statusInitializedConstant, statusExistingConstant)},
		{"Remote " + gitrepo.OriginRemoteName, selectStatus(result.RemoteCreated, statusAddedConstant, statusUpdatedConstant)},
		{scaffold.EnvironmentExampleFileName, statusCreatedConstant},
		{scaffold.GitIgnoreFileName, gitIgnoreStatus(result.EnvironmentExample.GitIgnoreChange)},
		{"Workflow", orDefault(result.WorkflowPath, statusSkippedConstant)},
		{scaffold.ReadmeFileName, readmeStatus(result.Readme)},
		{"Commit", orDefault(result.CommitStatus, statusSkippedConstant)},
		{"Push", orDefault(result.PushStatus, statusSkippedConstant)},
		{"HF_TOKEN secret", selectStatus(result.HuggingFaceSecretStored, statusStoredConstant, statusSkippedConstant)},
	}
}

func renderSummary(output io.Writer, result Result) error {
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(output)
	summaryTable.SetStyle(table.StyleLight)
	summaryTable.AppendHeader(table.Row{summaryHeaderStepConstant, summaryHeaderStatusConstant})
	for _, row := range result.SummaryRows() {
		summaryTable.AppendRow(table.Row{row[0], row[1]})
	}
	summaryTable.Render()

	var instructions strings.Builder
	instructions.WriteString(summaryCompletedLineConstant)
	instructions.WriteString(fmt.Sprintf(summaryRepositoryLineTemplate, result.Repository.PublicURL()))
	switch {
	case result.HuggingFaceSecretStored:
		instructions.WriteString(huggingFaceSecretStoredLine)
	case result.HasHuggingFaceSpace():
		instructions.WriteString(fmt.Sprintf(huggingFaceSecretInstructions, result.Repository.SecretsSettingsURL()))
	default:
		instructions.WriteString(huggingFaceMissingInstructions)
	}
	instructions.WriteString(nextStepsHeaderConstant)
	if !result.PushRequested {
		instructions.WriteString(nextStepManualPushConstant)
	}
	instructions.WriteString(fmt.Sprintf(nextStepCloneTemplateConstant, result.Repository.CloneURL()))

	if _, writeError := io.WriteString(output, instructions.String()); writeError != nil {
		return fmt.Errorf(summaryRenderErrorTemplate, writeError)
	}
	return nil
}

func commitStatus(outcome gitrepo.CommitOutcome) string {
	if outcome == gitrepo.CommitNothingToCommit {
		return statusNothingToCommitConstant
	}
	return statusCreatedConstant
}

func gitIgnoreStatus(change scaffold.GitIgnoreChange) string {
	switch change {
	case scaffold.GitIgnoreCreated:
		return statusCreatedConstant
	case scaffold.GitIgnoreAppended:
		return statusAppendedConstant
	default:
		return statusUnchangedConstant
	}
}

func readmeStatus(outcome scaffold.ReadmeOutcome) string {
	switch {
	case outcome.Created:
		return statusCreatedConstant
	case outcome.SectionAdded:
		return statusUpdatedConstant
	default:
		return statusUnchangedConstant
	}
}

func selectStatus(condition bool, whenTrue string, whenFalse string) string {
	if condition {
		return whenTrue
	}
	return whenFalse
}

func orDefault(value string, fallback string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallback
	}
	return value
}
