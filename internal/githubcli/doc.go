// Package githubcli wraps the GitHub CLI for repository settings that the REST
// client does not cover without extra encryption dependencies, such as Actions
// secrets. Calls go through execshell so tests can stub the gh binary.
package githubcli
