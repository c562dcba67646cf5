package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	confirmationYesShortConstant = "y"
	confirmationYesLongConstant  = "yes"
	valuePromptTemplateConstant  = "%s: "
	promptWriteErrorTemplate     = "unable to write prompt: %w"
	promptReadErrorTemplate      = "unable to read response: %w"
)

// ErrInputUnavailable indicates the prompter has no input stream.
var ErrInputUnavailable = errors.New("prompt input unavailable")

// IOPrompter asks questions on an output stream and reads answers line by line from an input stream.
// One IOPrompter must be shared per input stream so buffered input is not lost between questions.
type IOPrompter struct {
	reader *bufio.Reader
	output io.Writer
}

// NewIOPrompter constructs a prompter over the provided streams.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	prompter := &IOPrompter{output: output}
	if input != nil {
		prompter.reader = bufio.NewReader(input)
	}
	if prompter.output == nil {
		prompter.output = io.Discard
	}
	return prompter
}

// Confirm prints the prompt verbatim and accepts "y" or "yes" in any case. Anything else, including EOF, declines.
func (prompter *IOPrompter) Confirm(prompt string) (bool, error) {
	response, readError := prompter.ask(prompt)
	if readError != nil {
		return false, readError
	}
	normalizedResponse := strings.ToLower(response)
	return normalizedResponse == confirmationYesShortConstant || normalizedResponse == confirmationYesLongConstant, nil
}

// PromptValue prints "label: " and returns the trimmed answer.
func (prompter *IOPrompter) PromptValue(label string) (string, error) {
	return prompter.ask(fmt.Sprintf(valuePromptTemplateConstant, label))
}

func (prompter *IOPrompter) ask(prompt string) (string, error) {
	if prompter == nil || prompter.reader == nil {
		return "", ErrInputUnavailable
	}
	if _, writeError := io.WriteString(prompter.output, prompt); writeError != nil {
		return "", fmt.Errorf(promptWriteErrorTemplate, writeError)
	}

	line, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", fmt.Errorf(promptReadErrorTemplate, readError)
	}
	return strings.TrimSpace(line), nil
}
