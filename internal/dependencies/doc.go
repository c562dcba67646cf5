// Package dependencies resolves the collaborators shared by the publishing
// commands, falling back to production implementations when none are injected.
package dependencies
