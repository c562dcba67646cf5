// Package utils holds the configuration and logging plumbing shared by every textgen command.
package utils
