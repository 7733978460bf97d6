package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"c4dsl/internal/domain"
)

// YAMLCodec reads and writes the workspace tree as YAML, with the same
// field names as the JSON form
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes the first YAML document
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Workspace, error) {
	var ws domain.Workspace
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&ws); err != nil {
		if err == io.EOF {
			return nil, &DecodeError{Format: "YAML", Err: errors.New("empty document")}
		}
		return nil, &DecodeError{Format: "YAML", Err: err}
	}

	return normalize(&ws), nil
}

// Export writes the tree with two-space indentation
func (c *YAMLCodec) Export(ws *domain.Workspace, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(ws); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
