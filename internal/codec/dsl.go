package codec

import (
	"fmt"
	"io"

	"c4dsl/internal/domain"
	"c4dsl/internal/formatter"
	"c4dsl/internal/parser"
)

// DSLCodec reads DSL source and writes canonical DSL
type DSLCodec struct{}

// NewDSLCodec creates a new DSL codec
func NewDSLCodec() *DSLCodec {
	return &DSLCodec{}
}

// Format returns the codec format identifier
func (c *DSLCodec) Format() string {
	return "dsl"
}

// Parse reads DSL source. Syntax failures are returned unwrapped so callers
// can match *parser.SyntaxError.
func (c *DSLCodec) Parse(r io.Reader) (*domain.Workspace, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read DSL: %w", err)
	}
	return parser.Parse(string(src))
}

// Export writes the workspace as canonical DSL
func (c *DSLCodec) Export(ws *domain.Workspace, w io.Writer) error {
	if _, err := io.WriteString(w, formatter.Format(ws)); err != nil {
		return fmt.Errorf("failed to write DSL: %w", err)
	}
	return nil
}
