// Package cli constructs the textgen command-line interface. It wires the
// serve, github-setup and push subcommands to the layered configuration
// loader and the zap loggers, and exposes Execute for the main package.
package cli
