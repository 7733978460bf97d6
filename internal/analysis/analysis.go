// Package analysis computes model statistics and improvement suggestions.
package analysis

import (
	"fmt"

	"c4dsl/internal/domain"
	"c4dsl/internal/validator"
)

// Complexity buckets a model by size
type Complexity string

const (
	ComplexitySimple   Complexity = "Simple"
	ComplexityModerate Complexity = "Moderate"
	ComplexityComplex  Complexity = "Complex"
)

// Result summarises a workspace
type Result struct {
	WorkspaceName     string                     `json:"workspaceName,omitempty"`
	ElementCounts     map[domain.ElementKind]int `json:"elementCounts"`
	RelationshipCount int                        `json:"relationshipCount"`
	ViewCounts        map[domain.ViewKind]int    `json:"viewCounts"`
	Depth             int                        `json:"depth"`
	Complexity        Complexity                 `json:"complexity"`
	Suggestions       []string                   `json:"suggestions"`
	Elements          []domain.Element           `json:"elements"`
	Relationships     []domain.Relationship      `json:"relationships"`
}

// TotalElements returns the number of elements of every kind
func (r *Result) TotalElements() int {
	total := 0
	for _, n := range r.ElementCounts {
		total += n
	}
	return total
}

// TotalViews returns the number of views of every kind
func (r *Result) TotalViews() int {
	total := 0
	for _, n := range r.ViewCounts {
		total += n
	}
	return total
}

// Analyze walks ws and returns its statistics. Nested elements are listed
// without their children.
func Analyze(ws *domain.Workspace) *Result {
	r := &Result{
		ElementCounts: make(map[domain.ElementKind]int),
		ViewCounts:    make(map[domain.ViewKind]int),
		Suggestions:   make([]string, 0),
		Elements:      make([]domain.Element, 0),
	}
	if ws == nil {
		r.Complexity = ComplexitySimple
		r.Relationships = make([]domain.Relationship, 0)
		return r
	}
	r.WorkspaceName = ws.Name

	if ws.Model != nil {
		r.Depth = 1
		ws.Model.WalkElements(func(e *domain.Element, depth int) {
			r.ElementCounts[e.Kind]++
			flat := *e
			flat.Children = nil
			r.Elements = append(r.Elements, flat)
			if depth > r.Depth {
				r.Depth = depth
			}
		})
	}
	r.Relationships = validator.FlattenRelationships(ws.Model)
	if r.Relationships == nil {
		r.Relationships = make([]domain.Relationship, 0)
	}
	r.RelationshipCount = len(r.Relationships)

	if ws.Views != nil {
		for _, v := range ws.Views.Views {
			r.ViewCounts[v.Kind]++
		}
	}

	r.Complexity = classify(r.TotalElements(), r.RelationshipCount)
	r.Suggestions = suggest(ws, r)
	return r
}

func classify(elements, relationships int) Complexity {
	switch {
	case elements <= 5 && relationships <= 5:
		return ComplexitySimple
	case elements <= 15 && relationships <= 20:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

func suggest(ws *domain.Workspace, r *Result) []string {
	out := make([]string, 0)
	add := func(s string) { out = append(out, s) }

	if ws.Name == "" {
		add("Consider adding a name to your workspace for better documentation")
	}
	if ws.Description == "" {
		add("Consider adding a description to your workspace for better context")
	}

	total := r.TotalElements()
	if total == 0 {
		add("Your model has no elements. Add some people, software systems, containers, or components")
	}
	if r.ElementCounts[domain.ElementKindPerson] == 0 {
		add("Consider adding person elements to show who uses your system")
	}
	if r.ElementCounts[domain.ElementKindSoftwareSystem] == 0 {
		add("Consider adding software system elements as the main building blocks")
	}

	if r.RelationshipCount == 0 && total > 1 {
		add("Add relationships between your elements to show how they interact")
	}
	if r.RelationshipCount > 0 && (total == 0 || float64(r.RelationshipCount)/float64(total) > 3) {
		add("Your model has many relationships per element. Consider grouping related elements or splitting into multiple views")
	}

	if r.TotalViews() == 0 {
		add("Add views to visualize your architecture. Start with a system context view")
	}
	if r.ElementCounts[domain.ElementKindSoftwareSystem] > 0 && r.ViewCounts[domain.ViewKindSystemContext] == 0 {
		add("Consider adding system context views for your software systems")
	}
	if r.ElementCounts[domain.ElementKindContainer] > 0 && r.ViewCounts[domain.ViewKindContainer] == 0 {
		add("Consider adding container views to show the internal structure of your software systems")
	}
	if r.ElementCounts[domain.ElementKindComponent] > 0 && r.ViewCounts[domain.ViewKindComponent] == 0 {
		add("Consider adding component views to show the internal structure of your containers")
	}

	if r.ElementCounts[domain.ElementKindSoftwareSystem] > 5 {
		add("You have many software systems. Consider creating a system landscape view to show the big picture")
	}
	if r.Depth == 1 && total > 3 {
		add("Consider breaking down your software systems into containers and components for more detail")
	}

	missing := 0
	for _, e := range r.Elements {
		if e.Description == "" {
			missing++
		}
	}
	if missing > 0 {
		add(fmt.Sprintf("%d element(s) are missing descriptions. Add descriptions for better documentation", missing))
	}

	missing = 0
	for _, rel := range r.Relationships {
		if rel.Description == "" {
			missing++
		}
	}
	if missing > 0 {
		add(fmt.Sprintf("%d relationship(s) are missing descriptions. Add descriptions to clarify interactions", missing))
	}
	return out
}
