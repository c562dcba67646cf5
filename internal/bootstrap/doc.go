// Package bootstrap implements github-setup: it registers a GitHub repository,
// prepares the local git repository and origin remote, scaffolds the
// auxiliary project files and optionally commits and pushes.
package bootstrap
