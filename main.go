// Command textgen serves a small text generation API and manages its GitHub and Hugging Face deployment.
package main

import (
	"fmt"
	"os"

	"github.com/temirov/textgen/cmd/cli"
)

const (
	exitCodeFailureConstant = 1
	failureMessageTemplate  = "textgen: %v\n"
)

func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, failureMessageTemplate, executionError)
		os.Exit(exitCodeFailureConstant)
	}
}
