package validator

import "c4dsl/internal/domain"

// Duplicate records an identifier declared more than once
type Duplicate struct {
	ID        string
	First     *domain.Location
	Duplicate *domain.Location
}

// Index is the set of identifiers declared anywhere in a model, with the
// location of each first declaration
type Index struct {
	ids   map[string]*domain.Location
	order []string
}

// Has reports whether id was declared
func (idx *Index) Has(id string) bool {
	_, ok := idx.ids[id]
	return ok
}

// Len returns the number of distinct identifiers
func (idx *Index) Len() int {
	return len(idx.order)
}

// IDs returns the identifiers in declaration order
func (idx *Index) IDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Location returns where id was first declared
func (idx *Index) Location(id string) *domain.Location {
	return idx.ids[id]
}

// BuildIndex walks every element of the workspace in pre-order and collects
// identifiers. Later declarations of an already seen id are reported as
// duplicates and do not replace the first one.
func BuildIndex(ws *domain.Workspace) (*Index, []Duplicate) {
	idx := &Index{ids: make(map[string]*domain.Location)}
	var dups []Duplicate
	if ws == nil {
		return idx, dups
	}

	ws.Model.WalkElements(func(e *domain.Element, _ int) {
		if first, seen := idx.ids[e.ID]; seen {
			dups = append(dups, Duplicate{ID: e.ID, First: first, Duplicate: e.Location})
			return
		}
		idx.ids[e.ID] = e.Location
		idx.order = append(idx.order, e.ID)
	})
	return idx, dups
}

// FlattenRelationships returns every relationship in the model: model-level
// ones first, then nested ones in element pre-order.
func FlattenRelationships(model *domain.Model) []domain.Relationship {
	if model == nil {
		return nil
	}
	out := make([]domain.Relationship, 0, len(model.Relationships))
	out = append(out, model.Relationships...)
	model.WalkElements(func(e *domain.Element, _ int) {
		if e.Children != nil {
			out = append(out, e.Children.Relationships...)
		}
	})
	return out
}
