// Package gitrepo drives a local git working tree and builds the authenticated
// HTTPS remote URLs used to push it to GitHub and Hugging Face Spaces.
package gitrepo
