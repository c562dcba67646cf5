package inference

import (
	"context"
	"errors"
	"fmt"
)

const (
	emptyGenerationMessageConstant  = "model returned no generated text"
	generationErrorTemplateConstant = "model request failed with status %d: %s"
	generationCauseErrorTemplate    = "model request failed: %v"
)

// ErrEmptyGeneration indicates the model responded successfully but without output.
var ErrEmptyGeneration = errors.New(emptyGenerationMessageConstant)

// Generator produces text from an input prompt.
type Generator interface {
	Generate(executionContext context.Context, text string) (string, error)
}

// GenerationError reports a failed request to the model backend.
type GenerationError struct {
	StatusCode int
	Message    string
	Cause      error
}

// Error describes the failure.
func (generationError GenerationError) Error() string {
	if generationError.StatusCode == 0 {
		return fmt.Sprintf(generationCauseErrorTemplate, generationError.Cause)
	}
	return fmt.Sprintf(generationErrorTemplateConstant, generationError.StatusCode, generationError.Message)
}

// Unwrap exposes the transport error, when present.
func (generationError GenerationError) Unwrap() error {
	return generationError.Cause
}
