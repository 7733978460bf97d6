// Package codec converts workspaces to and from their serialized forms:
// DSL source, JSON, and YAML.
package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"c4dsl/internal/domain"
)

// Importer interface for reading a workspace from a serialized form
type Importer interface {
	Parse(r io.Reader) (*domain.Workspace, error)
	Format() string
}

// Exporter interface for writing a workspace to a serialized form
type Exporter interface {
	Export(ws *domain.Workspace, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ErrUnsupportedFormat is returned by Lookup for unknown format names
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrDecode matches every DecodeError
var ErrDecode = errors.New("decode failed")

// DecodeError reports input that could not be read as a workspace
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

var codecs = map[string]Codec{
	"dsl":  NewDSLCodec(),
	"json": NewJSONCodec(),
	"yaml": NewYAMLCodec(),
}

// Lookup returns the codec for a format name. "yml" is accepted for yaml.
func Lookup(format string) (Codec, error) {
	if format == "yml" {
		format = "yaml"
	}
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %v)", ErrUnsupportedFormat, format, Formats())
	}
	return c, nil
}

// Formats lists the supported format names
func Formats() []string {
	out := make([]string, 0, len(codecs))
	for name := range codecs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// normalize gives decoded trees the same non-nil collections the DSL
// parser produces
func normalize(ws *domain.Workspace) *domain.Workspace {
	if ws.Model == nil {
		ws.Model = domain.NewModel()
	}
	if ws.Model.Elements == nil {
		ws.Model.Elements = make([]domain.Element, 0)
	}
	if ws.Model.Relationships == nil {
		ws.Model.Relationships = make([]domain.Relationship, 0)
	}
	if ws.Views == nil {
		ws.Views = domain.NewViews()
	}
	if ws.Views.Views == nil {
		ws.Views.Views = make([]domain.View, 0)
	}
	return ws
}
