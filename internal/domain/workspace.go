package domain

// NodeType tags the root node of a parsed tree
type NodeType string

const (
	NodeTypeWorkspace NodeType = "workspace"
)

// Workspace is the root of an architecture description
type Workspace struct {
	Type        NodeType    `json:"type" yaml:"type"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Directives  []Directive `json:"directives,omitempty" yaml:"directives,omitempty"`
	Model       *Model      `json:"model,omitempty" yaml:"model,omitempty"`
	Views       *Views      `json:"views,omitempty" yaml:"views,omitempty"`
	Location    *Location   `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewWorkspace creates a workspace with an empty model and views block
func NewWorkspace(name, description string) *Workspace {
	return &Workspace{
		Type:        NodeTypeWorkspace,
		Name:        name,
		Description: description,
		Model:       NewModel(),
		Views:       NewViews(),
	}
}

// IsWorkspace reports whether the node is tagged as a workspace
func (w *Workspace) IsWorkspace() bool {
	return w != nil && w.Type == NodeTypeWorkspace
}

// Directive is a workspace-level "!name value" line
type Directive struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value,omitempty" yaml:"value,omitempty"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Model holds the top-level elements and relationships
type Model struct {
	Elements      []Element      `json:"elements" yaml:"elements"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Location      *Location      `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{
		Elements:      make([]Element, 0),
		Relationships: make([]Relationship, 0),
	}
}

// AddElement appends an element
func (m *Model) AddElement(e Element) {
	m.Elements = append(m.Elements, e)
}

// AddRelationship appends a relationship
func (m *Model) AddRelationship(r Relationship) {
	m.Relationships = append(m.Relationships, r)
}

// WalkElements visits every element of the model in pre-order: parents
// before children, siblings in declaration order. Depth is 1 for top-level
// elements. A nil model visits nothing.
func (m *Model) WalkElements(fn func(e *Element, depth int)) {
	if m == nil {
		return
	}
	walkElements(m.Elements, 1, fn)
}

func walkElements(elements []Element, depth int, fn func(e *Element, depth int)) {
	for i := range elements {
		el := &elements[i]
		fn(el, depth)
		if el.Children != nil {
			walkElements(el.Children.Elements, depth+1, fn)
		}
	}
}
