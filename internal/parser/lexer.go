package parser

import (
	"fmt"
	"strings"
)

// TokenKind identifies the lexical class of a token
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenWord
	TokenString
	TokenDirective
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenEquals
	TokenArrow
)

var tokenNames = map[TokenKind]string{
	TokenEOF:       "end of input",
	TokenNewline:   "end of line",
	TokenWord:      "identifier",
	TokenString:    "string",
	TokenDirective: "directive",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
	TokenLBracket:  "'['",
	TokenRBracket:  "']'",
	TokenComma:     "','",
	TokenEquals:    "'='",
	TokenArrow:     "'->'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a lexical unit with its 1-based source position
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

func (t Token) describe() string {
	switch t.Kind {
	case TokenWord, TokenDirective:
		return fmt.Sprintf("'%s'", t.Text)
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	}
	return t.Kind.String()
}

type lexer struct {
	src       []rune
	pos       int
	line      int
	col       int
	lineStart bool
	tokens    []Token
}

// tokenize splits src into tokens, ending with a single TokenEOF
func tokenize(src string) ([]Token, error) {
	lx := &lexer{
		src:       []rune(src),
		line:      1,
		col:       1,
		lineStart: true,
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) peek(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.pos]
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) emit(kind TokenKind, text string, line, col int) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Line: line, Column: col})
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		r := lx.peek(0)
		line, col := lx.line, lx.col

		switch {
		case r == '\n':
			lx.advance()
			lx.emit(TokenNewline, "", line, col)
			lx.lineStart = true
			continue
		case r == ' ' || r == '\t' || r == '\r' || r == '\f':
			lx.advance()
			continue
		case r == '/' && lx.peek(1) == '/':
			lx.skipLine()
			continue
		case r == '#' && lx.lineStart:
			lx.skipLine()
			continue
		case r == '/' && lx.peek(1) == '*':
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
			continue
		}

		lx.lineStart = false

		switch {
		case r == '{':
			lx.advance()
			lx.emit(TokenLBrace, "{", line, col)
		case r == '}':
			lx.advance()
			lx.emit(TokenRBrace, "}", line, col)
		case r == '[':
			lx.advance()
			lx.emit(TokenLBracket, "[", line, col)
		case r == ']':
			lx.advance()
			lx.emit(TokenRBracket, "]", line, col)
		case r == ',':
			lx.advance()
			lx.emit(TokenComma, ",", line, col)
		case r == '=':
			lx.advance()
			lx.emit(TokenEquals, "=", line, col)
		case r == '-' && lx.peek(1) == '>':
			lx.advance()
			lx.advance()
			lx.emit(TokenArrow, "->", line, col)
		case r == '"':
			s, err := lx.readString()
			if err != nil {
				return err
			}
			lx.emit(TokenString, s, line, col)
		case r == '!':
			lx.advance()
			word := lx.readWord()
			if word == "" {
				return newSyntaxError(line, col, "Expected directive name after '!'")
			}
			lx.emit(TokenDirective, word, line, col)
		default:
			word := lx.readWord()
			if word == "" {
				return newSyntaxError(line, col, fmt.Sprintf("Unexpected character '%c'", r))
			}
			lx.emit(TokenWord, word, line, col)
		}
	}
	lx.emit(TokenEOF, "", lx.line, lx.col)
	return nil
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.peek(0) != '\n' {
		lx.advance()
	}
}

func (lx *lexer) skipBlockComment() error {
	line, col := lx.line, lx.col
	lx.advance()
	lx.advance()
	for lx.pos < len(lx.src) {
		if lx.peek(0) == '*' && lx.peek(1) == '/' {
			lx.advance()
			lx.advance()
			return nil
		}
		lx.advance()
	}
	return newSyntaxError(line, col, "Unterminated block comment")
}

func (lx *lexer) readString() (string, error) {
	line, col := lx.line, lx.col
	lx.advance()
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		r := lx.advance()
		switch r {
		case '"':
			return sb.String(), nil
		case '\n':
			return "", newSyntaxError(line, col, "Unterminated string")
		case '\\':
			if lx.pos >= len(lx.src) {
				return "", newSyntaxError(line, col, "Unterminated string")
			}
			next := lx.advance()
			switch next {
			case '"', '\\':
				sb.WriteRune(next)
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return "", newSyntaxError(line, col, "Unterminated string")
}

// readWord consumes a bare word. Words end at whitespace, punctuation,
// quotes, or an arrow.
func (lx *lexer) readWord() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r := lx.peek(0)
		if isWordBreak(r) || (r == '-' && lx.peek(1) == '>') {
			break
		}
		lx.advance()
	}
	return string(lx.src[start:lx.pos])
}

func isWordBreak(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\f', '{', '}', '[', ']', ',', '=', '"':
		return true
	}
	return false
}
