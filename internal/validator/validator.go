package validator

import (
	"fmt"
	"strings"
	"unicode"

	"c4dsl/internal/domain"
)

// Option configures a Validator
type Option func(*Validator)

// WithBestPractices toggles the advisory warning pass
func WithBestPractices(enabled bool) Option {
	return func(v *Validator) {
		v.bestPractices = enabled
	}
}

// Validator runs semantic checks over a workspace
type Validator struct {
	bestPractices bool
}

// New creates a validator. Best-practice warnings are on by default.
func New(opts ...Option) *Validator {
	v := &Validator{bestPractices: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks ws with the default options
func Validate(ws *domain.Workspace) domain.ValidationResult {
	return New().Validate(ws)
}

// session holds the working sets of a single Validate call
type session struct {
	ids           *Index
	relationships []domain.Relationship
	edges         map[string]map[string]struct{}
	errors        []domain.ParseError
	warnings      []domain.ParseError
}

func (s *session) fail(code domain.ErrorCode, loc *domain.Location, format string, args ...any) {
	s.errors = append(s.errors, domain.ParseError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

func (s *session) warn(code domain.ErrorCode, loc *domain.Location, format string, args ...any) {
	s.warnings = append(s.warnings, domain.ParseError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// Validate runs all checks and returns the accumulated findings. Only a
// root that is not a workspace stops validation early.
func (v *Validator) Validate(ws *domain.Workspace) domain.ValidationResult {
	s := &session{}

	if !ws.IsWorkspace() {
		var loc *domain.Location
		if ws != nil {
			loc = ws.Location
		}
		s.fail(domain.CodeInvalidWorkspace, loc, "Invalid workspace structure")
		return domain.NewValidationResult(s.errors, s.warnings)
	}

	var dups []Duplicate
	s.ids, dups = BuildIndex(ws)
	for _, d := range dups {
		s.fail(domain.CodeDuplicateIdentifier, d.Duplicate,
			"Duplicate identifier '%s'. First defined at %s", d.ID, firstDefined(d.First))
	}

	s.relationships = FlattenRelationships(ws.Model)
	s.edges = indexEdges(s.relationships)

	s.checkRelationships()
	if ws.Views != nil {
		for i := range ws.Views.Views {
			s.checkView(&ws.Views.Views[i])
		}
	}

	if v.bestPractices {
		s.checkBestPractices(ws)
	}
	return domain.NewValidationResult(s.errors, s.warnings)
}

func firstDefined(loc *domain.Location) string {
	if loc == nil {
		return "an unknown location"
	}
	return fmt.Sprintf("line %d", loc.Line)
}

func indexEdges(rels []domain.Relationship) map[string]map[string]struct{} {
	edges := make(map[string]map[string]struct{})
	for _, r := range rels {
		dsts, ok := edges[r.Source]
		if !ok {
			dsts = make(map[string]struct{})
			edges[r.Source] = dsts
		}
		dsts[r.Destination] = struct{}{}
	}
	return edges
}

func (s *session) checkRelationships() {
	for _, r := range s.relationships {
		if !s.ids.Has(r.Source) {
			s.fail(domain.CodeUndefinedReference, r.Location,
				"Relationship source '%s' references undefined element", r.Source)
		}
		if !s.ids.Has(r.Destination) {
			s.fail(domain.CodeUndefinedReference, r.Location,
				"Relationship destination '%s' references undefined element", r.Destination)
		}
	}
}

func (s *session) checkView(view *domain.View) {
	if view.SoftwareSystemID != "" && !s.ids.Has(view.SoftwareSystemID) {
		s.fail(domain.CodeUndefinedViewReference, view.Location,
			"View references undefined software system '%s'", view.SoftwareSystemID)
	}
	if view.ContainerID != "" && !s.ids.Has(view.ContainerID) {
		s.fail(domain.CodeUndefinedViewReference, view.Location,
			"View references undefined container '%s'", view.ContainerID)
	}
	s.checkViewRefs(view, "include", view.Include)
	s.checkViewRefs(view, "exclude", view.Exclude)

	if view.Kind == domain.ViewKindDynamic {
		for _, step := range view.Steps {
			s.checkStep(step)
		}
	}
}

func (s *session) checkViewRefs(view *domain.View, list string, refs []string) {
	for _, ref := range refs {
		if ref == domain.Wildcard || s.ids.Has(ref) {
			continue
		}
		s.fail(domain.CodeUndefinedViewReference, view.Location,
			"View %s references undefined element '%s'", list, ref)
	}
}

func (s *session) checkStep(step domain.DynamicStep) {
	if !s.ids.Has(step.Source) {
		s.fail(domain.CodeUndefinedStepReference, step.Location,
			"Dynamic step references undefined source element '%s'", step.Source)
		return
	}
	if !s.ids.Has(step.Destination) {
		s.fail(domain.CodeUndefinedStepReference, step.Location,
			"Dynamic step references undefined destination element '%s'", step.Destination)
		return
	}
	if !s.hasValidRelationshipPath(step.Source, step.Destination) {
		s.fail(domain.CodeMissingRelationship, step.Location,
			"A relationship between %s and %s does not exist in model",
			displayName(step.Source), displayName(step.Destination))
	}
}

// hasValidRelationshipPath reports whether a relationship from source to
// destination was declared. Only exact-direction edges match.
func (s *session) hasValidRelationshipPath(source, destination string) bool {
	_, ok := s.edges[source][destination]
	return ok
}

// displayName turns an identifier such as "webApp" into "Web App"
func displayName(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsUpper(r) {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
	}
	out := []rune(sb.String())
	if len(out) > 0 {
		out[0] = unicode.ToUpper(out[0])
	}
	return strings.TrimSpace(string(out))
}

func (s *session) checkBestPractices(ws *domain.Workspace) {
	if ws.Name == "" {
		s.warn(domain.CodeMissingName, ws.Location,
			"Consider adding a name to your workspace for better documentation")
	}
	if ws.Description == "" {
		s.warn(domain.CodeMissingDescription, ws.Location,
			"Consider adding a description to your workspace for better documentation")
	}

	ws.Model.WalkElements(func(e *domain.Element, _ int) {
		if e.Description == "" {
			s.warn(domain.CodeMissingDescription, e.Location,
				"Consider adding a description to %s '%s'", e.Kind, e.ID)
		}
	})

	for _, r := range s.relationships {
		if r.Description == "" {
			s.warn(domain.CodeMissingDescription, r.Location,
				"Consider adding a description to relationship '%s'", r)
		}
	}
}
