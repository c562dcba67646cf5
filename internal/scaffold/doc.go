// Package scaffold writes the auxiliary project files produced during GitHub
// setup: .env.example, the .gitignore entry for .env, the Hugging Face sync
// workflow and the repository section of README.md.
package scaffold
