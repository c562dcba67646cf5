// Package execshell runs external tools such as git on behalf of textgen.
//
// ShellExecutor logs every command at start and completion, forwards lifecycle
// events to an optional observer, and masks credentials embedded in remote
// URLs before they reach logs or error messages.
package execshell
