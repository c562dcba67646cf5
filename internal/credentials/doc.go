// Package credentials resolves hosting account settings such as GITHUB_TOKEN
// from the process environment and from .env files.
package credentials
