package domain

import "fmt"

// Relationship is a directed edge between two element identifiers
type Relationship struct {
	Source      string    `json:"source" yaml:"source"`
	Destination string    `json:"destination" yaml:"destination"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Technology  string    `json:"technology,omitempty" yaml:"technology,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Location    *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewRelationship creates a new relationship
func NewRelationship(source, destination, description string) *Relationship {
	return &Relationship{
		Source:      source,
		Destination: destination,
		Description: description,
	}
}

// String returns "source -> destination"
func (r Relationship) String() string {
	return fmt.Sprintf("%s -> %s", r.Source, r.Destination)
}
