package domain

// ElementKind represents the kind of a model element
type ElementKind string

const (
	ElementKindPerson         ElementKind = "person"
	ElementKindSoftwareSystem ElementKind = "softwareSystem"
	ElementKindContainer      ElementKind = "container"
	ElementKindComponent      ElementKind = "component"
)

// ElementKinds lists every element kind in declaration order
var ElementKinds = []ElementKind{
	ElementKindPerson,
	ElementKindSoftwareSystem,
	ElementKindContainer,
	ElementKindComponent,
}

// Valid reports whether k is one of the known element kinds
func (k ElementKind) Valid() bool {
	switch k {
	case ElementKindPerson, ElementKindSoftwareSystem, ElementKindContainer, ElementKindComponent:
		return true
	}
	return false
}

// HasTechnology reports whether elements of this kind declare a technology
func (k ElementKind) HasTechnology() bool {
	switch k {
	case ElementKindContainer, ElementKindComponent:
		return true
	}
	return false
}

// Element represents a person, software system, container, or component
type Element struct {
	ID          string      `json:"id" yaml:"id"`
	Kind        ElementKind `json:"type" yaml:"type"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Technology  string      `json:"technology,omitempty" yaml:"technology,omitempty"`
	Tags        []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Children    *Children   `json:"children,omitempty" yaml:"children,omitempty"`
	Location    *Location   `json:"location,omitempty" yaml:"location,omitempty"`
}

// Children is the nested block of an element
type Children struct {
	Elements      []Element      `json:"elements" yaml:"elements"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// NewElement creates a new element without children
func NewElement(id string, kind ElementKind, name string) *Element {
	return &Element{
		ID:   id,
		Kind: kind,
		Name: name,
	}
}

// AddChild appends a nested element, creating the children block if needed
func (e *Element) AddChild(child Element) {
	if e.Children == nil {
		e.Children = &Children{}
	}
	e.Children.Elements = append(e.Children.Elements, child)
}

// AddRelationship appends a nested relationship, creating the children block if needed
func (e *Element) AddRelationship(rel Relationship) {
	if e.Children == nil {
		e.Children = &Children{}
	}
	e.Children.Relationships = append(e.Children.Relationships, rel)
}

// HasChildren reports whether the element has any nested elements or relationships
func (e *Element) HasChildren() bool {
	return e.Children != nil && (len(e.Children.Elements) > 0 || len(e.Children.Relationships) > 0)
}
