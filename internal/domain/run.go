package domain

import "time"

// Run is a recorded validation of one source
type Run struct {
	ID        string       `json:"id"`
	Digest    string       `json:"digest"`
	Source    string       `json:"source,omitempty"`
	IsValid   bool         `json:"isValid"`
	Errors    []ParseError `json:"errors"`
	Warnings  []ParseError `json:"warnings"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Result returns the validation result stored in the run
func (r *Run) Result() ValidationResult {
	return NewValidationResult(r.Errors, r.Warnings)
}

// RunFilter narrows a run listing. Zero values do not filter.
type RunFilter struct {
	Digest string
	Source string
	Valid  *bool
	Limit  int
}
