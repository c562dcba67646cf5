// Package push implements the push command: stage everything, commit, and push
// to the GitHub origin or the Hugging Face Space remote.
package push
