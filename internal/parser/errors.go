package parser

import (
	"fmt"

	"c4dsl/internal/domain"
)

// SyntaxError reports source text that does not match the grammar
type SyntaxError struct {
	Message  string
	Location *domain.Location
}

func newSyntaxError(line, col int, msg string) *SyntaxError {
	return &SyntaxError{Message: msg, Location: domain.NewLocation(line, col)}
}

func (e *SyntaxError) Error() string {
	if e.Location == nil {
		return e.Message
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Location)
}

// ParseError converts the syntax error into the uniform finding shape
func (e *SyntaxError) ParseError() domain.ParseError {
	return domain.ParseError{
		Code:     domain.CodeSyntax,
		Message:  e.Message,
		Location: e.Location,
	}
}
