package resources

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c4dsl/internal/parser"
	"c4dsl/internal/validator"
)

func TestExamplesAreValid(t *testing.T) {
	ws, err := parser.Parse(Examples.Text)
	require.NoError(t, err)

	res := validator.Validate(ws)
	assert.True(t, res.IsValid, "%v", res.Errors)
}

func TestLookup(t *testing.T) {
	r, ok := Lookup(SchemaURI)
	require.True(t, ok)
	assert.Equal(t, "text/markdown", r.MIMEType)
	assert.True(t, strings.HasPrefix(r.Text, "# C4 Structurizr DSL Schema"))

	_, ok = Lookup("c4://nope")
	assert.False(t, ok)
}

func TestPrompts(t *testing.T) {
	assert.Contains(t, CreateModelPrompt("", ""), `simple C4 architecture model for "My System"`)
	assert.Contains(t, CreateModelPrompt("microservices", "Shop"), `microservices C4 architecture model for "Shop"`)

	_, err := ImproveArchitecturePrompt("", "")
	assert.Error(t, err)

	text, err := ImproveArchitecturePrompt("workspace {}", "")
	require.NoError(t, err)
	assert.Contains(t, text, "focusing on overall quality")
	assert.Contains(t, text, "```\nworkspace {}\n```")
}
