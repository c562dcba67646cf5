// Package ui renders command activity for people watching the terminal.
package ui
