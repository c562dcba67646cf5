// Package server implements the text generation HTTP API and the serve command.
package server
