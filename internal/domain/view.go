package domain

// ViewKind represents the kind of a view
type ViewKind string

const (
	ViewKindSystemLandscape ViewKind = "systemLandscape"
	ViewKindSystemContext   ViewKind = "systemContext"
	ViewKindContainer       ViewKind = "container"
	ViewKindComponent       ViewKind = "component"
	ViewKindDynamic         ViewKind = "dynamic"
	ViewKindDeployment      ViewKind = "deployment"
)

// ViewKinds lists every view kind in declaration order
var ViewKinds = []ViewKind{
	ViewKindSystemLandscape,
	ViewKindSystemContext,
	ViewKindContainer,
	ViewKindComponent,
	ViewKindDynamic,
	ViewKindDeployment,
}

// Wildcard is the include/exclude entry matching every element
const Wildcard = "*"

// Valid reports whether k is one of the known view kinds
func (k ViewKind) Valid() bool {
	switch k {
	case ViewKindSystemLandscape, ViewKindSystemContext, ViewKindContainer,
		ViewKindComponent, ViewKindDynamic, ViewKindDeployment:
		return true
	}
	return false
}

// View is a named projection of the model
type View struct {
	Kind                ViewKind      `json:"type" yaml:"type"`
	Key                 string        `json:"key,omitempty" yaml:"key,omitempty"`
	SoftwareSystemID    string        `json:"softwareSystemId,omitempty" yaml:"softwareSystemId,omitempty"`
	ContainerID         string        `json:"containerId,omitempty" yaml:"containerId,omitempty"`
	Environment         string        `json:"environment,omitempty" yaml:"environment,omitempty"`
	Title               string        `json:"title,omitempty" yaml:"title,omitempty"`
	Description         string        `json:"description,omitempty" yaml:"description,omitempty"`
	Include             []string      `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude             []string      `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	AutoLayout          bool          `json:"autoLayout,omitempty" yaml:"autoLayout,omitempty"`
	AutoLayoutDirection string        `json:"autoLayoutDirection,omitempty" yaml:"autoLayoutDirection,omitempty"`
	Steps               []DynamicStep `json:"steps,omitempty" yaml:"steps,omitempty"`
	Location            *Location     `json:"location,omitempty" yaml:"location,omitempty"`
}

// DynamicStep is one hop in a dynamic view's interaction sequence
type DynamicStep struct {
	Source      string    `json:"source" yaml:"source"`
	Destination string    `json:"destination" yaml:"destination"`
	Description string    `json:"description" yaml:"description"`
	Location    *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Views holds the views plus opaque style and theme metadata
type Views struct {
	Views    []View    `json:"views" yaml:"views"`
	Styles   *Styles   `json:"styles,omitempty" yaml:"styles,omitempty"`
	Themes   *Themes   `json:"themes,omitempty" yaml:"themes,omitempty"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewViews creates an empty views block
func NewViews() *Views {
	return &Views{
		Views: make([]View, 0),
	}
}

// AddView appends a view
func (v *Views) AddView(view View) {
	v.Views = append(v.Views, view)
}

// StyleKind selects what a style rule applies to
type StyleKind string

const (
	StyleKindElement      StyleKind = "element"
	StyleKindRelationship StyleKind = "relationship"
)

// Styles is the styles block of the views section. It is carried through
// unvalidated.
type Styles struct {
	Rules    []StyleRule `json:"rules" yaml:"rules"`
	Location *Location   `json:"location,omitempty" yaml:"location,omitempty"`
}

// StyleRule applies a set of properties to elements or relationships with a tag
type StyleRule struct {
	Kind       StyleKind       `json:"type" yaml:"type"`
	Selector   string          `json:"selector" yaml:"selector"`
	Properties []StyleProperty `json:"properties" yaml:"properties"`
	Location   *Location       `json:"location,omitempty" yaml:"location,omitempty"`
}

// StyleProperty is a single "name value" line in a style rule
type StyleProperty struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value" yaml:"value"`
	Quoted   bool      `json:"quoted,omitempty" yaml:"quoted,omitempty"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Themes references an external theme definition
type Themes struct {
	Name     string    `json:"name" yaml:"name"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}
