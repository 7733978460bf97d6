// Package formatter renders a workspace tree back to canonical DSL text.
//
// Output uses two-space indentation and preserves declaration order. Format
// never resolves references, so it accepts trees that fail validation.
package formatter

import (
	"strings"

	"c4dsl/internal/domain"
)

const indentUnit = "  "

type printer struct {
	sb strings.Builder
}

func (p *printer) line(depth int, parts ...string) {
	p.sb.WriteString(strings.Repeat(indentUnit, depth))
	for _, part := range parts {
		p.sb.WriteString(part)
	}
	p.sb.WriteByte('\n')
}

func (p *printer) blank() {
	p.sb.WriteByte('\n')
}

// Format renders ws as DSL source
func Format(ws *domain.Workspace) string {
	p := &printer{}
	p.workspace(ws)
	return p.sb.String()
}

func (p *printer) workspace(ws *domain.Workspace) {
	if ws == nil {
		return
	}
	header := "workspace"
	if ws.Name != "" {
		header += " " + Quote(ws.Name)
	}
	if ws.Description != "" {
		header += " " + Quote(ws.Description)
	}
	p.line(0, header, " {")

	for _, d := range ws.Directives {
		if d.Value != "" {
			p.line(1, "!", d.Name, " ", d.Value)
		} else {
			p.line(1, "!", d.Name)
		}
	}

	if ws.Model != nil {
		p.line(1, "model {")
		p.body(2, ws.Model.Elements, ws.Model.Relationships)
		p.line(1, "}")
	}

	if ws.Views != nil {
		p.blank()
		p.views(1, ws.Views)
	}
	p.line(0, "}")
}

// body renders elements, then a blank line if any were written, then
// relationships
func (p *printer) body(depth int, elements []domain.Element, relationships []domain.Relationship) {
	for i := range elements {
		p.element(depth, &elements[i])
	}
	if len(relationships) > 0 && len(elements) > 0 {
		p.blank()
	}
	for i := range relationships {
		p.relationship(depth, &relationships[i])
	}
}

func (p *printer) element(depth int, el *domain.Element) {
	var sb strings.Builder
	sb.WriteString(el.ID)
	sb.WriteString(" = ")
	sb.WriteString(string(el.Kind))
	sb.WriteString(" ")
	sb.WriteString(Quote(el.Name))
	technology := el.Technology
	if !el.Kind.HasTechnology() {
		technology = ""
	}
	writeFields(&sb, el.Description, technology, el.Tags)

	if !el.HasChildren() {
		p.line(depth, sb.String())
		return
	}
	p.line(depth, sb.String(), " {")
	p.body(depth+1, el.Children.Elements, el.Children.Relationships)
	p.line(depth, "}")
}

func (p *printer) relationship(depth int, rel *domain.Relationship) {
	var sb strings.Builder
	sb.WriteString(rel.Source)
	sb.WriteString(" -> ")
	sb.WriteString(rel.Destination)
	writeFields(&sb, rel.Description, rel.Technology, rel.Tags)
	p.line(depth, sb.String())
}

func writeFields(sb *strings.Builder, description, technology string, tags []string) {
	if description != "" {
		sb.WriteString(" ")
		sb.WriteString(Quote(description))
	}
	if technology != "" {
		sb.WriteString(" ")
		sb.WriteString(Quote(technology))
	}
	if len(tags) > 0 {
		quoted := make([]string, len(tags))
		for i, t := range tags {
			quoted[i] = Quote(t)
		}
		sb.WriteString(" [")
		sb.WriteString(strings.Join(quoted, ", "))
		sb.WriteString("]")
	}
}

func (p *printer) views(depth int, views *domain.Views) {
	p.line(depth, "views {")
	for i := range views.Views {
		if i > 0 {
			p.blank()
		}
		p.view(depth+1, &views.Views[i])
	}

	if views.Styles != nil || views.Themes != nil {
		if len(views.Views) > 0 {
			p.blank()
		}
		if views.Styles != nil {
			p.styles(depth+1, views.Styles)
		}
		if views.Themes != nil && views.Themes.Name != "" {
			names := strings.Fields(views.Themes.Name)
			for i, n := range names {
				names[i] = Quote(n)
			}
			p.line(depth+1, "themes ", strings.Join(names, " "))
		}
	}
	p.line(depth, "}")
}

func (p *printer) view(depth int, v *domain.View) {
	var sb strings.Builder
	sb.WriteString(string(v.Kind))
	scope := v.SoftwareSystemID
	if scope == "" && v.Kind == domain.ViewKindDeployment && v.Environment != "" {
		scope = domain.Wildcard
	}
	if scope != "" {
		sb.WriteString(" ")
		sb.WriteString(scope)
	}
	if v.ContainerID != "" {
		sb.WriteString(" ")
		sb.WriteString(v.ContainerID)
	}
	if v.Environment != "" {
		sb.WriteString(" ")
		sb.WriteString(Quote(v.Environment))
	}
	if v.Key != "" {
		sb.WriteString(" ")
		sb.WriteString(Quote(v.Key))
	}
	if v.Description != "" {
		if v.Key == "" {
			sb.WriteString(` ""`)
		}
		sb.WriteString(" ")
		sb.WriteString(Quote(v.Description))
	}
	p.line(depth, sb.String(), " {")

	inner := depth + 1
	if len(v.Include) > 0 {
		p.line(inner, "include ", identifierList(v.Include))
	}
	if len(v.Exclude) > 0 {
		p.line(inner, "exclude ", identifierList(v.Exclude))
	}
	for _, step := range v.Steps {
		if step.Description != "" {
			p.line(inner, step.Source, " -> ", step.Destination, " ", Quote(step.Description))
		} else {
			p.line(inner, step.Source, " -> ", step.Destination)
		}
	}
	if v.AutoLayout {
		if v.AutoLayoutDirection != "" {
			p.line(inner, "autoLayout ", v.AutoLayoutDirection)
		} else {
			p.line(inner, "autoLayout")
		}
	}
	if v.Title != "" {
		p.line(inner, "title ", Quote(v.Title))
	}
	p.line(depth, "}")
}

func (p *printer) styles(depth int, styles *domain.Styles) {
	p.line(depth, "styles {")
	for _, rule := range styles.Rules {
		p.line(depth+1, string(rule.Kind), " ", Quote(rule.Selector), " {")
		for _, prop := range rule.Properties {
			value := prop.Value
			if prop.Quoted {
				value = Quote(value)
			}
			p.line(depth+2, prop.Name, " ", value)
		}
		p.line(depth+1, "}")
	}
	p.line(depth, "}")
}

func identifierList(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if isBareWord(id) {
			out[i] = id
		} else {
			out[i] = Quote(id)
		}
	}
	return strings.Join(out, ", ")
}

func isBareWord(s string) bool {
	if s == "" || strings.Contains(s, "->") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/*") || strings.HasPrefix(s, "!") {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n\f{}[],=\"")
}

// Quote wraps s in double quotes, escaping quotes, backslashes, newlines,
// and tabs
func Quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
