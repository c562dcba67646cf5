// Package githubapi wraps the GitHub REST API operations textgen needs to
// publish a project, authenticating with a personal access token.
package githubapi
