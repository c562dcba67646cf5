// Package prompt reads interactive answers from the terminal.
package prompt
