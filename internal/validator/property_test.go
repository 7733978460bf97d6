package validator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"c4dsl/internal/domain"
)

// buildTree creates a workspace whose i-th element has id "e<i>". parents[i]
// selects the parent: 0 places the element at model level, any other value
// nests it under one of the elements created before it.
func buildTree(parents []int) *domain.Workspace {
	children := make(map[int][]int)
	var roots []int
	for i, p := range parents {
		choice := p % (i + 1)
		if choice == 0 {
			roots = append(roots, i)
		} else {
			children[choice-1] = append(children[choice-1], i)
		}
	}

	var build func(i int) domain.Element
	build = func(i int) domain.Element {
		el := domain.NewElement(fmt.Sprintf("e%d", i), domain.ElementKindSoftwareSystem, "E")
		el.Location = domain.NewLocation(i+1, 1)
		for _, c := range children[i] {
			el.AddChild(build(c))
		}
		return *el
	}

	ws := domain.NewWorkspace("W", "D")
	for _, r := range roots {
		ws.Model.AddElement(build(r))
	}
	return ws
}

// nestRelationship attaches rel to the element with the given id, or to the
// model when no element matches
func nestRelationship(ws *domain.Workspace, id string, rel domain.Relationship) {
	placed := false
	ws.Model.WalkElements(func(e *domain.Element, _ int) {
		if !placed && e.ID == id {
			e.AddRelationship(rel)
			placed = true
		}
	})
	if !placed {
		ws.Model.AddRelationship(rel)
	}
}

func countCode(errs []domain.ParseError, code domain.ErrorCode) int {
	n := 0
	for _, e := range errs {
		if e.Code == code {
			n++
		}
	}
	return n
}

func TestValidatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	parentsGen := gen.SliceOf(gen.IntRange(0, 1000))

	properties.Property("unique ids yield a full index and no duplicates", prop.ForAll(
		func(parents []int) bool {
			idx, dups := BuildIndex(buildTree(parents))
			return len(dups) == 0 && idx.Len() == len(parents)
		},
		parentsGen,
	))

	properties.Property("a repeated id is reported exactly once with its first location", prop.ForAll(
		func(parents []int, target, host int) bool {
			ws := buildTree(parents)
			n := len(parents)
			id := fmt.Sprintf("e%d", target%n)

			dup := domain.NewElement(id, domain.ElementKindContainer, "Copy")
			dup.Location = domain.NewLocation(10000, 1)
			if host%2 == 0 {
				ws.Model.AddElement(*dup)
			} else {
				findElement(ws, fmt.Sprintf("e%d", host%n)).AddChild(*dup)
			}

			var first *domain.Location
			ws.Model.WalkElements(func(e *domain.Element, _ int) {
				if e.ID == id && first == nil {
					first = e.Location
				}
			})

			res := Validate(ws)
			if len(res.Errors) != 1 || res.Errors[0].Code != domain.CodeDuplicateIdentifier {
				return false
			}
			want := fmt.Sprintf("Duplicate identifier '%s'. First defined at line %d", id, first.Line)
			return res.Errors[0].Message == want
		},
		gen.SliceOf(gen.IntRange(0, 1000)).SuchThat(func(p []int) bool { return len(p) > 0 }),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("every undefined endpoint is reported and defined ones are not", prop.ForAll(
		func(parents []int, endpoints []int) bool {
			ws := buildTree(parents)
			n := len(parents)
			resolve := func(v int) string {
				if n > 0 && v%2 == 0 {
					return fmt.Sprintf("e%d", (v/2)%n)
				}
				return fmt.Sprintf("undefined%d", v)
			}

			bad := 0
			for i := 0; i+1 < len(endpoints); i += 2 {
				src, dst := resolve(endpoints[i]), resolve(endpoints[i+1])
				if strings.HasPrefix(src, "undefined") {
					bad++
				}
				if strings.HasPrefix(dst, "undefined") {
					bad++
				}
				nestRelationship(ws, src, *domain.NewRelationship(src, dst, "r"))
			}

			res := Validate(ws)
			return countCode(res.Errors, domain.CodeUndefinedReference) == bad &&
				len(res.Errors) == bad
		},
		parentsGen,
		gen.SliceOf(gen.IntRange(0, 200)),
	))

	properties.Property("a step never matches a reverse-direction relationship", prop.ForAll(
		func(parents []int, a, b int) bool {
			n := len(parents)
			a, b = a%n, b%n
			if a == b {
				return true
			}
			ws := buildTree(parents)
			src, dst := fmt.Sprintf("e%d", a), fmt.Sprintf("e%d", b)
			nestRelationship(ws, dst, *domain.NewRelationship(dst, src, "reverse"))
			ws.Views.AddView(domain.View{
				Kind:  domain.ViewKindDynamic,
				Steps: []domain.DynamicStep{{Source: src, Destination: dst}},
			})

			res := Validate(ws)
			return len(res.Errors) == 1 && res.Errors[0].Code == domain.CodeMissingRelationship
		},
		gen.SliceOf(gen.IntRange(0, 1000)).SuchThat(func(p []int) bool { return len(p) > 1 }),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("validity holds exactly when there are no errors", prop.ForAll(
		func(parents []int, endpoints []int, withStep bool) bool {
			ws := buildTree(parents)
			n := len(parents) + 1
			for i := 0; i+1 < len(endpoints); i += 2 {
				src := fmt.Sprintf("e%d", endpoints[i]%n)
				dst := fmt.Sprintf("e%d", endpoints[i+1]%n)
				ws.Model.AddRelationship(*domain.NewRelationship(src, dst, ""))
				if withStep {
					ws.Views.AddView(domain.View{
						Kind:  domain.ViewKindDynamic,
						Steps: []domain.DynamicStep{{Source: dst, Destination: src}},
					})
				}
			}
			res := Validate(ws)
			return res.IsValid == (len(res.Errors) == 0)
		},
		parentsGen,
		gen.SliceOf(gen.IntRange(0, 50)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func findElement(ws *domain.Workspace, id string) *domain.Element {
	var found *domain.Element
	ws.Model.WalkElements(func(e *domain.Element, _ int) {
		if found == nil && e.ID == id {
			found = e
		}
	})
	return found
}
