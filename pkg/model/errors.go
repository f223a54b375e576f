package model

import "fmt"

// ErrorReport collects translation and parsing messages per instance identifier
type ErrorReport map[string][]string

// Add records a message against an identifier
func (r ErrorReport) Add(identifier, message string) {
	r[identifier] = append(r[identifier], message)
}

// Merge appends all messages of other to r
func (r ErrorReport) Merge(other ErrorReport) {
	for id, msgs := range other {
		r[id] = append(r[id], msgs...)
	}
}

// Identifiers returns the number of instances having at least one message
func (r ErrorReport) Identifiers() int {
	return len(r)
}

// TranslationError is a failure attributable to one source instance
type TranslationError struct {
	Identifier string
	Message    string
}

// NewTranslationError creates a translation error for an instance
func NewTranslationError(identifier, format string, args ...interface{}) *TranslationError {
	return &TranslationError{Identifier: identifier, Message: fmt.Sprintf(format, args...)}
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation of %s failed: %s", e.Identifier, e.Message)
}
