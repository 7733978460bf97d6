package domain

import "fmt"

// ErrorCode classifies a validation finding
type ErrorCode string

const (
	CodeSyntax                 ErrorCode = "syntax"
	CodeInvalidWorkspace       ErrorCode = "invalid-workspace"
	CodeDuplicateIdentifier    ErrorCode = "duplicate-identifier"
	CodeUndefinedReference     ErrorCode = "undefined-reference"
	CodeUndefinedViewReference ErrorCode = "undefined-view-reference"
	CodeUndefinedStepReference ErrorCode = "undefined-step-reference"
	CodeMissingRelationship    ErrorCode = "missing-relationship"
	CodeMissingName            ErrorCode = "missing-name"
	CodeMissingDescription     ErrorCode = "missing-description"
)

// ParseError is a single validation finding with an optional source location
type ParseError struct {
	Code     ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Message  string    `json:"message" yaml:"message"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Error implements the error interface
func (e ParseError) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("%s (%s)", e.Message, e.Location)
	}
	return e.Message
}

// ValidationResult is the outcome of validating a workspace
type ValidationResult struct {
	IsValid  bool         `json:"isValid" yaml:"isValid"`
	Errors   []ParseError `json:"errors" yaml:"errors"`
	Warnings []ParseError `json:"warnings" yaml:"warnings"`
}

// NewValidationResult builds a result whose validity is derived from the
// error list. Nil lists are normalised to empty ones.
func NewValidationResult(errs, warnings []ParseError) ValidationResult {
	if errs == nil {
		errs = make([]ParseError, 0)
	}
	if warnings == nil {
		warnings = make([]ParseError, 0)
	}
	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
