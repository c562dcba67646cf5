package execshell

import "regexp"

const redactedSecretReplacementConstant = "${1}${2}:***@"

var credentialURLPattern = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)([^/\s:@]+):[^/\s@]+@`)

// RedactCredentials masks passwords and tokens embedded in URL userinfo sections.
func RedactCredentials(text string) string {
	return credentialURLPattern.ReplaceAllString(text, redactedSecretReplacementConstant)
}

// RedactArguments returns a copy of the arguments with embedded credentials masked.
func RedactArguments(arguments []string) []string {
	redactedArguments := make([]string, len(arguments))
	for argumentIndex, argument := range arguments {
		redactedArguments[argumentIndex] = RedactCredentials(argument)
	}
	return redactedArguments
}
