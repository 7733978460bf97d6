package parser

import (
	"fmt"
	"strings"

	"c4dsl/internal/domain"
)

type parser struct {
	tokens []Token
	pos    int
}

// Parse parses DSL source into a workspace tree. On failure the returned
// error is a *SyntaxError.
func Parse(src string) (*domain.Workspace, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	ws, err := p.parseWorkspace()
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (p *parser) peek() Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) skipNewlines() {
	for p.peek().Kind == TokenNewline {
		p.pos++
	}
}

func (p *parser) errorAt(tok Token, format string, args ...any) error {
	return newSyntaxError(tok.Line, tok.Column, fmt.Sprintf(format, args...))
}

func (p *parser) unexpected(tok Token, want string) error {
	return p.errorAt(tok, "Expected %s but found %s", want, tok.describe())
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, kind.String())
	}
	return p.next(), nil
}

// endStatement consumes the newline ending a statement. A closing brace or
// end of input also ends it but is left for the enclosing block.
func (p *parser) endStatement() error {
	tok := p.peek()
	switch tok.Kind {
	case TokenNewline:
		p.next()
		return nil
	case TokenRBrace, TokenEOF:
		return nil
	}
	return p.unexpected(tok, "end of line")
}

func (p *parser) atStatementEnd() bool {
	switch p.peek().Kind {
	case TokenNewline, TokenRBrace, TokenEOF:
		return true
	}
	return false
}

// readStrings consumes up to max consecutive string tokens
func (p *parser) readStrings(max int) []string {
	var out []string
	for len(out) < max && p.peek().Kind == TokenString {
		out = append(out, p.next().Text)
	}
	return out
}

// readRest renders the remaining tokens of a statement as text, quoting strings
func (p *parser) readRest() ([]Token, error) {
	var parts []Token
	for !p.atStatementEnd() {
		tok := p.peek()
		switch tok.Kind {
		case TokenWord, TokenString:
			parts = append(parts, p.next())
		default:
			return nil, p.unexpected(tok, "value")
		}
	}
	return parts, nil
}

func renderTokens(parts []Token) string {
	texts := make([]string, len(parts))
	for i, tok := range parts {
		if tok.Kind == TokenString {
			texts[i] = quote(tok.Text)
		} else {
			texts[i] = tok.Text
		}
	}
	return strings.Join(texts, " ")
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

func location(tok Token) *domain.Location {
	return domain.NewLocation(tok.Line, tok.Column)
}

func (p *parser) parseWorkspace() (*domain.Workspace, error) {
	p.skipNewlines()
	tok := p.peek()
	if tok.Kind != TokenWord || tok.Text != "workspace" {
		return nil, p.unexpected(tok, "'workspace'")
	}
	p.next()

	ws := domain.NewWorkspace("", "")
	ws.Location = location(tok)
	header := p.readStrings(2)
	if len(header) > 0 {
		ws.Name = header[0]
	}
	if len(header) > 1 {
		ws.Description = header[1]
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	seenModel, seenViews := false, false
	for {
		p.skipNewlines()
		tok := p.peek()
		switch {
		case tok.Kind == TokenRBrace:
			p.next()
			if err := p.endStatement(); err != nil {
				return nil, err
			}
			p.skipNewlines()
			if end := p.peek(); end.Kind != TokenEOF {
				return nil, p.unexpected(end, "end of input")
			}
			return ws, nil
		case tok.Kind == TokenEOF:
			return nil, p.errorAt(tok, "Expected '}' to close workspace")
		case tok.Kind == TokenDirective:
			d, err := p.parseDirective()
			if err != nil {
				return nil, err
			}
			ws.Directives = append(ws.Directives, d)
		case tok.Kind == TokenWord && tok.Text == "model":
			if seenModel {
				return nil, p.errorAt(tok, "Duplicate model block")
			}
			seenModel = true
			model, err := p.parseModel()
			if err != nil {
				return nil, err
			}
			ws.Model = model
		case tok.Kind == TokenWord && tok.Text == "views":
			if seenViews {
				return nil, p.errorAt(tok, "Duplicate views block")
			}
			seenViews = true
			views, err := p.parseViews()
			if err != nil {
				return nil, err
			}
			ws.Views = views
		case tok.Kind == TokenWord && (tok.Text == "name" || tok.Text == "description"):
			p.next()
			s, err := p.expect(TokenString)
			if err != nil {
				return nil, err
			}
			if tok.Text == "name" {
				ws.Name = s.Text
			} else {
				ws.Description = s.Text
			}
			if err := p.endStatement(); err != nil {
				return nil, err
			}
		default:
			return nil, p.unexpected(tok, "'model', 'views', or a directive")
		}
	}
}

func (p *parser) parseDirective() (domain.Directive, error) {
	tok := p.next()
	parts, err := p.readRest()
	if err != nil {
		return domain.Directive{}, err
	}
	d := domain.Directive{
		Name:     tok.Text,
		Value:    renderTokens(parts),
		Location: location(tok),
	}
	return d, p.endStatement()
}

func (p *parser) parseModel() (*domain.Model, error) {
	tok := p.next()
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	model := domain.NewModel()
	model.Location = location(tok)

	elements, relationships, err := p.parseModelBody(nil)
	if err != nil {
		return nil, err
	}
	model.Elements = elements
	model.Relationships = relationships
	return model, p.endStatement()
}

// parseModelBody parses statements up to and including the closing brace.
// parent is the enclosing element, or nil at model level.
func (p *parser) parseModelBody(parent *domain.Element) ([]domain.Element, []domain.Relationship, error) {
	elements := make([]domain.Element, 0)
	relationships := make([]domain.Relationship, 0)

	for {
		p.skipNewlines()
		tok := p.peek()
		switch tok.Kind {
		case TokenRBrace:
			p.next()
			return elements, relationships, nil
		case TokenEOF:
			return nil, nil, p.errorAt(tok, "Expected '}' to close block")
		case TokenArrow:
			if parent == nil {
				return nil, nil, p.errorAt(tok, "Relationship is missing a source element")
			}
			p.next()
			rel, err := p.parseRelationship(parent.ID, tok)
			if err != nil {
				return nil, nil, err
			}
			relationships = append(relationships, rel)
		case TokenWord:
			switch next := p.peekAt(1); {
			case next.Kind == TokenEquals:
				el, err := p.parseElement()
				if err != nil {
					return nil, nil, err
				}
				elements = append(elements, el)
			case next.Kind == TokenArrow:
				p.next()
				p.next()
				rel, err := p.parseRelationship(tok.Text, tok)
				if err != nil {
					return nil, nil, err
				}
				relationships = append(relationships, rel)
			case parent != nil:
				if err := p.parseElementProperty(parent); err != nil {
					return nil, nil, err
				}
			default:
				return nil, nil, p.unexpected(tok, "element or relationship")
			}
		default:
			return nil, nil, p.unexpected(tok, "element or relationship")
		}
	}
}

func (p *parser) parseElement() (domain.Element, error) {
	idTok := p.next()
	p.next()
	kindTok := p.next()
	if kindTok.Kind != TokenWord {
		return domain.Element{}, p.unexpected(kindTok, "element type")
	}
	kind := domain.ElementKind(kindTok.Text)
	if !kind.Valid() {
		return domain.Element{}, p.errorAt(kindTok, "Unknown element type '%s'", kindTok.Text)
	}

	el := domain.NewElement(idTok.Text, kind, "")
	el.Location = location(idTok)

	var args []string
	for {
		tok := p.peek()
		if tok.Kind == TokenString {
			args = append(args, p.next().Text)
			continue
		}
		if tok.Kind == TokenLBracket {
			tags, err := p.parseTagList()
			if err != nil {
				return domain.Element{}, err
			}
			el.Tags = append(el.Tags, tags...)
			continue
		}
		break
	}

	if len(args) == 0 {
		return domain.Element{}, p.errorAt(p.peek(), "Expected name for element '%s'", el.ID)
	}
	fields := []*string{&el.Name, &el.Description}
	if kind.HasTechnology() {
		fields = append(fields, &el.Technology)
	}
	if len(args) > len(fields)+1 {
		return domain.Element{}, p.errorAt(idTok, "Too many arguments for %s '%s'", kind, el.ID)
	}
	for i, arg := range args {
		if i < len(fields) {
			*fields[i] = arg
			continue
		}
		el.Tags = append(splitTags(arg), el.Tags...)
	}

	if p.peek().Kind == TokenLBrace {
		p.next()
		children, relationships, err := p.parseModelBody(el)
		if err != nil {
			return domain.Element{}, err
		}
		if len(children) > 0 || len(relationships) > 0 {
			el.Children = &domain.Children{Elements: children, Relationships: relationships}
		}
	}
	return *el, p.endStatement()
}

// parseElementProperty handles description, technology, and tags statements
// inside an element block
func (p *parser) parseElementProperty(el *domain.Element) error {
	tok := p.next()
	switch tok.Text {
	case "description", "technology":
		if tok.Text == "technology" && !el.Kind.HasTechnology() {
			return p.errorAt(tok, "Technology is not supported for %s '%s'", el.Kind, el.ID)
		}
		s, err := p.expect(TokenString)
		if err != nil {
			return err
		}
		if tok.Text == "description" {
			el.Description = s.Text
		} else {
			el.Technology = s.Text
		}
	case "tags":
		values := p.readStrings(64)
		if len(values) == 0 {
			return p.unexpected(p.peek(), "string")
		}
		for _, v := range values {
			el.Tags = append(el.Tags, splitTags(v)...)
		}
	default:
		return p.unexpected(tok, "element, relationship, or property")
	}
	return p.endStatement()
}

func (p *parser) parseRelationship(source string, start Token) (domain.Relationship, error) {
	dst := p.peek()
	if dst.Kind != TokenWord {
		return domain.Relationship{}, p.unexpected(dst, "destination identifier")
	}
	p.next()

	rel := domain.NewRelationship(source, dst.Text, "")
	rel.Location = location(start)

	var args []string
	for {
		tok := p.peek()
		if tok.Kind == TokenString {
			args = append(args, p.next().Text)
			continue
		}
		if tok.Kind == TokenLBracket {
			tags, err := p.parseTagList()
			if err != nil {
				return domain.Relationship{}, err
			}
			rel.Tags = append(rel.Tags, tags...)
			continue
		}
		break
	}
	if len(args) > 3 {
		return domain.Relationship{}, p.errorAt(start, "Too many arguments for relationship '%s'", rel)
	}
	if len(args) > 0 {
		rel.Description = args[0]
	}
	if len(args) > 1 {
		rel.Technology = args[1]
	}
	if len(args) > 2 {
		rel.Tags = append(splitTags(args[2]), rel.Tags...)
	}
	return *rel, p.endStatement()
}

func (p *parser) parseTagList() ([]string, error) {
	p.next()
	tags := make([]string, 0)
	for {
		tok := p.next()
		switch tok.Kind {
		case TokenRBracket:
			return tags, nil
		case TokenString, TokenWord:
			tags = append(tags, tok.Text)
		case TokenComma, TokenNewline:
		default:
			return nil, p.unexpected(tok, "tag or ']'")
		}
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (p *parser) parseViews() (*domain.Views, error) {
	tok := p.next()
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	views := domain.NewViews()
	views.Location = location(tok)

	for {
		p.skipNewlines()
		tok := p.peek()
		switch {
		case tok.Kind == TokenRBrace:
			p.next()
			return views, p.endStatement()
		case tok.Kind == TokenEOF:
			return nil, p.errorAt(tok, "Expected '}' to close views")
		case tok.Kind == TokenWord && domain.ViewKind(tok.Text).Valid():
			v, err := p.parseView()
			if err != nil {
				return nil, err
			}
			views.AddView(v)
		case tok.Kind == TokenWord && tok.Text == "styles":
			styles, err := p.parseStyles()
			if err != nil {
				return nil, err
			}
			if views.Styles == nil {
				views.Styles = styles
			} else {
				views.Styles.Rules = append(views.Styles.Rules, styles.Rules...)
			}
		case tok.Kind == TokenWord && (tok.Text == "theme" || tok.Text == "themes"):
			p.next()
			parts, err := p.readRest()
			if err != nil {
				return nil, err
			}
			if len(parts) == 0 {
				return nil, p.unexpected(p.peek(), "theme")
			}
			names := make([]string, len(parts))
			for i, part := range parts {
				names[i] = part.Text
			}
			views.Themes = &domain.Themes{Name: strings.Join(names, " "), Location: location(tok)}
			if err := p.endStatement(); err != nil {
				return nil, err
			}
		default:
			return nil, p.unexpected(tok, "view, styles, or themes")
		}
	}
}

func (p *parser) parseView() (domain.View, error) {
	tok := p.next()
	v := domain.View{
		Kind:     domain.ViewKind(tok.Text),
		Location: location(tok),
	}

	switch v.Kind {
	case domain.ViewKindSystemContext, domain.ViewKindContainer:
		id := p.peek()
		if id.Kind != TokenWord {
			return v, p.unexpected(id, "software system identifier")
		}
		v.SoftwareSystemID = p.next().Text
	case domain.ViewKindComponent:
		id := p.peek()
		if id.Kind != TokenWord {
			return v, p.unexpected(id, "container identifier")
		}
		v.ContainerID = p.next().Text
	case domain.ViewKindDynamic, domain.ViewKindDeployment:
		if scope := p.peek(); scope.Kind == TokenWord {
			p.next()
			if scope.Text != domain.Wildcard {
				v.SoftwareSystemID = scope.Text
			}
		}
		if v.Kind == domain.ViewKindDeployment {
			env, err := p.expect(TokenString)
			if err != nil {
				return v, p.errorAt(env, "Expected deployment environment name but found %s", env.describe())
			}
			v.Environment = env.Text
		}
	}

	header := p.readStrings(2)
	if len(header) > 0 {
		v.Key = header[0]
	}
	if len(header) > 1 {
		v.Description = header[1]
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return v, err
	}

	for {
		p.skipNewlines()
		tok := p.peek()
		switch {
		case tok.Kind == TokenRBrace:
			p.next()
			return v, p.endStatement()
		case tok.Kind == TokenEOF:
			return v, p.errorAt(tok, "Expected '}' to close %s view", v.Kind)
		case tok.Kind != TokenWord:
			return v, p.unexpected(tok, "view statement")
		case v.Kind == domain.ViewKindDynamic && p.peekAt(1).Kind == TokenArrow:
			step, err := p.parseStep()
			if err != nil {
				return v, err
			}
			v.Steps = append(v.Steps, step)
		default:
			if err := p.parseViewStatement(&v); err != nil {
				return v, err
			}
		}
	}
}

func (p *parser) parseViewStatement(v *domain.View) error {
	tok := p.next()
	switch tok.Text {
	case "include", "exclude":
		ids, err := p.readIdentifierList()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return p.unexpected(p.peek(), "identifier")
		}
		if tok.Text == "include" {
			v.Include = append(v.Include, ids...)
		} else {
			v.Exclude = append(v.Exclude, ids...)
		}
	case "autoLayout", "autolayout":
		v.AutoLayout = true
		if dir := p.peek(); dir.Kind == TokenWord {
			v.AutoLayoutDirection = p.next().Text
		}
	case "title", "description":
		s, err := p.expect(TokenString)
		if err != nil {
			return err
		}
		if tok.Text == "title" {
			v.Title = s.Text
		} else {
			v.Description = s.Text
		}
	default:
		return p.unexpected(tok, "include, exclude, autoLayout, title, or description")
	}
	return p.endStatement()
}

// readIdentifierList reads space or comma separated identifiers
func (p *parser) readIdentifierList() ([]string, error) {
	var ids []string
	for !p.atStatementEnd() {
		tok := p.next()
		switch tok.Kind {
		case TokenWord, TokenString:
			ids = append(ids, tok.Text)
		case TokenComma:
		default:
			return nil, p.unexpected(tok, "identifier")
		}
	}
	return ids, nil
}

func (p *parser) parseStep() (domain.DynamicStep, error) {
	src := p.next()
	p.next()
	dst := p.peek()
	if dst.Kind != TokenWord {
		return domain.DynamicStep{}, p.unexpected(dst, "destination identifier")
	}
	p.next()

	step := domain.DynamicStep{
		Source:      src.Text,
		Destination: dst.Text,
		Location:    location(src),
	}
	if args := p.readStrings(1); len(args) > 0 {
		step.Description = args[0]
	}
	return step, p.endStatement()
}

func (p *parser) parseStyles() (*domain.Styles, error) {
	tok := p.next()
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	styles := &domain.Styles{Rules: make([]domain.StyleRule, 0), Location: location(tok)}

	for {
		p.skipNewlines()
		tok := p.peek()
		switch {
		case tok.Kind == TokenRBrace:
			p.next()
			return styles, p.endStatement()
		case tok.Kind == TokenEOF:
			return nil, p.errorAt(tok, "Expected '}' to close styles")
		case tok.Kind == TokenWord && (tok.Text == string(domain.StyleKindElement) || tok.Text == string(domain.StyleKindRelationship)):
			rule, err := p.parseStyleRule()
			if err != nil {
				return nil, err
			}
			styles.Rules = append(styles.Rules, rule)
		default:
			return nil, p.unexpected(tok, "'element' or 'relationship'")
		}
	}
}

func (p *parser) parseStyleRule() (domain.StyleRule, error) {
	tok := p.next()
	rule := domain.StyleRule{
		Kind:       domain.StyleKind(tok.Text),
		Properties: make([]domain.StyleProperty, 0),
		Location:   location(tok),
	}
	sel := p.next()
	if sel.Kind != TokenString && sel.Kind != TokenWord {
		return rule, p.unexpected(sel, "style selector")
	}
	rule.Selector = sel.Text
	if _, err := p.expect(TokenLBrace); err != nil {
		return rule, err
	}

	for {
		p.skipNewlines()
		tok := p.peek()
		switch tok.Kind {
		case TokenRBrace:
			p.next()
			return rule, p.endStatement()
		case TokenEOF:
			return rule, p.errorAt(tok, "Expected '}' to close %s style", rule.Kind)
		case TokenWord:
			p.next()
			parts, err := p.readRest()
			if err != nil {
				return rule, err
			}
			if len(parts) == 0 {
				return rule, p.errorAt(tok, "Expected value for style property '%s'", tok.Text)
			}
			prop := domain.StyleProperty{Name: tok.Text, Location: location(tok)}
			if len(parts) == 1 && parts[0].Kind == TokenString {
				prop.Value = parts[0].Text
				prop.Quoted = true
			} else {
				prop.Value = renderTokens(parts)
			}
			rule.Properties = append(rule.Properties, prop)
			if err := p.endStatement(); err != nil {
				return rule, err
			}
		default:
			return rule, p.unexpected(tok, "style property")
		}
	}
}
