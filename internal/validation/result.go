// Package validation implements the GPS Lab form and credential
// validation engine: pure functions over user-entered strings and file
// metadata that return structured results with locale-aware messages.
// Nothing in this package panics on malformed input and nothing retains
// state between calls.
package validation

// Result is the uniform outcome of a validator call. Error holds the
// first failure message; Errors holds every failure when a validator
// collects more than one.
type Result struct {
	IsValid bool     `json:"isValid"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Valid returns a passing result.
func Valid() Result {
	return Result{IsValid: true}
}

// Invalid returns a failing result with a single message.
func Invalid(message string) Result {
	return Result{
		IsValid: false,
		Error:   message,
		Errors:  []string{message},
	}
}

// invalidAll builds a failing result from a non-empty message list.
func invalidAll(messages []string) Result {
	return Result{
		IsValid: false,
		Error:   messages[0],
		Errors:  messages,
	}
}
