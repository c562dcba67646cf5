package scaffold

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	// ReadmeFileName is the project README updated with repository details.
	ReadmeFileName = "README.md"
	// ReadmeRepositoryHeading marks the section appended by ReadmeUpdater.
	ReadmeRepositoryHeading = "## GitHub Repository"

	readmeTimestampLayoutConstant    = "2006-01-02 15:04:05"
	readmeInitialContentsTemplate    = "# %s\n\n%s\n"
	readmeSectionTemplateName        = "readme-repository-section"
	readmeSectionRenderErrorTemplate = "unable to render README section: %w"
	readmeSectionTemplateContents    = `
## GitHub Repository

This project is hosted on GitHub:

- Repository: [{{ .RepositoryURL }}]({{ .RepositoryURL }})

### Development

1. Clone the repository:
   ` + "```bash" + `
   git clone {{ .CloneURL }}
   cd {{ .ProjectName }}
   ` + "```" + `

2. Build the service:
   ` + "```bash" + `
   go build -o textgen .
   ` + "```" + `

3. Run the API locally:
   ` + "```bash" + `
   ./textgen serve
   ` + "```" + `

4. Make your changes and push them to GitHub:
   ` + "```bash" + `
   git add .
   git commit -m "Your commit message"
   git push origin {{ .Branch }}
   ` + "```" + `

Last updated: {{ .UpdatedAt }}
`
)

var readmeSectionTemplate = template.Must(template.New(readmeSectionTemplateName).Parse(readmeSectionTemplateContents))

// ReadmeDetails describes the project and its GitHub home.
type ReadmeDetails struct {
	ProjectName        string
	ProjectDescription string
	RepositoryURL      string
	CloneURL           string
	Branch             string
}

// ReadmeOutcome reports what Update did to README.md.
type ReadmeOutcome struct {
	Path         string
	Created      bool
	SectionAdded bool
}

type readmeSectionData struct {
	ReadmeDetails
	UpdatedAt string
}

// ReadmeUpdater appends the GitHub repository section to a project's README once.
type ReadmeUpdater struct {
	fileSystem FileSystem
	clock      Clock
}

// NewReadmeUpdater constructs an updater; nil collaborators fall back to the OS and system clock.
func NewReadmeUpdater(fileSystem FileSystem, clock Clock) *ReadmeUpdater {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReadmeUpdater{fileSystem: resolveFileSystem(fileSystem), clock: clock}
}

// Update creates README.md when absent and appends the repository section unless the heading already exists.
func (updater *ReadmeUpdater) Update(projectPath string, details ReadmeDetails) (ReadmeOutcome, error) {
	readmePath := filepath.Join(projectPath, ReadmeFileName)
	outcome := ReadmeOutcome{Path: readmePath}

	exists, inspectError := fileExists(updater.fileSystem, readmePath)
	if inspectError != nil {
		return ReadmeOutcome{}, fmt.Errorf(inspectFileErrorTemplateConstant, readmePath, inspectError)
	}

	var readmeContents string
	if exists {
		existingContents, readError := updater.fileSystem.ReadFile(readmePath)
		if readError != nil {
			return ReadmeOutcome{}, fmt.Errorf(readFileErrorTemplateConstant, readmePath, readError)
		}
		readmeContents = string(existingContents)
	} else {
		readmeContents = fmt.Sprintf(readmeInitialContentsTemplate, details.ProjectName, details.ProjectDescription)
		outcome.Created = true
	}

	if !strings.Contains(readmeContents, ReadmeRepositoryHeading) {
		if len(strings.TrimSpace(details.Branch)) == 0 {
			details.Branch = defaultWorkflowBranchConstant
		}
		var renderedSection bytes.Buffer
		sectionData := readmeSectionData{ReadmeDetails: details, UpdatedAt: updater.clock.Now().Format(readmeTimestampLayoutConstant)}
		if renderError := readmeSectionTemplate.Execute(&renderedSection, sectionData); renderError != nil {
			return ReadmeOutcome{}, fmt.Errorf(readmeSectionRenderErrorTemplate, renderError)
		}
		readmeContents += renderedSection.String()
		outcome.SectionAdded = true
	}

	if !outcome.Created && !outcome.SectionAdded {
		return outcome, nil
	}
	if writeError := updater.fileSystem.WriteFile(readmePath, []byte(readmeContents), filePermissionConstant); writeError != nil {
		return ReadmeOutcome{}, fmt.Errorf(writeFileErrorTemplateConstant, readmePath, writeError)
	}
	return outcome, nil
}
