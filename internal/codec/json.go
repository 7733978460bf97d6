package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"c4dsl/internal/domain"
)

// JSONCodec reads and writes the workspace tree as JSON. Unknown fields
// are rejected so misspelled keys do not silently drop data.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes a single workspace document
func (c *JSONCodec) Parse(r io.Reader) (*domain.Workspace, error) {
	var ws domain.Workspace
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&ws); err != nil {
		return nil, &DecodeError{Format: "JSON", Err: err}
	}
	if decoder.More() {
		return nil, &DecodeError{Format: "JSON", Err: errors.New("trailing data after workspace")}
	}

	return normalize(&ws), nil
}

// Export writes the tree as indented JSON
func (c *JSONCodec) Export(ws *domain.Workspace, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(ws); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
