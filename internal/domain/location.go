package domain

import "fmt"

// Location is a 1-based line/column position in DSL source
type Location struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// NewLocation creates a new location
func NewLocation(line, column int) *Location {
	return &Location{Line: line, Column: column}
}

// String returns the location as "line L, column C"
func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}
