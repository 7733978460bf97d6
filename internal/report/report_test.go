package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"c4dsl/internal/analysis"
	"c4dsl/internal/domain"
)

func TestValidationMarkdown(t *testing.T) {
	t.Run("valid with warnings", func(t *testing.T) {
		res := domain.NewValidationResult(nil, []domain.ParseError{
			{Message: "Consider adding a description to person 'a'", Location: domain.NewLocation(3, 5)},
		})

		got := ValidationMarkdown(res)

		assert.True(t, strings.HasPrefix(got, "✅ **DSL Validation Successful**"))
		assert.Contains(t, got, "⚠️ **Warnings:**\n\n- Consider adding a description to person 'a' (line 3, column 5)\n")
	})

	t.Run("invalid lists numbered errors and fixes", func(t *testing.T) {
		res := domain.NewValidationResult([]domain.ParseError{
			{Message: "Relationship destination 'q' references undefined element", Location: domain.NewLocation(4, 5)},
			{Message: "Invalid workspace structure"},
		}, nil)

		got := ValidationMarkdown(res)

		assert.Contains(t, got, "Found 2 error(s):")
		assert.Contains(t, got, "**Error 1:** Relationship destination 'q' references undefined element (line 4, column 5)\n\n")
		assert.Contains(t, got, "**Error 2:** Invalid workspace structure\n\n")
		assert.Contains(t, got, "**Common Fixes:**")
		assert.NotContains(t, got, "Additional Warnings")
	})
}

func TestFormatMarkdown(t *testing.T) {
	assert.Equal(t, "✅ **DSL Formatted Successfully**\n\n```\nworkspace {\n}\n\n```", FormatMarkdown("workspace {\n}\n"))
	assert.Contains(t, FormatFailedMarkdown(errors.New("boom")), "Please fix syntax errors first:\n\nboom")
}

func TestAnalysisMarkdown(t *testing.T) {
	ws := domain.NewWorkspace("", "")
	el := domain.NewElement("api", domain.ElementKindContainer, "API")
	el.Technology = "Go"
	el.Tags = []string{"Backend", "Internal"}
	ws.Model.AddElement(*el)
	ws.Model.AddRelationship(domain.Relationship{Source: "api", Destination: "api", Description: "Retries", Technology: "HTTP"})

	got := AnalysisMarkdown(analysis.Analyze(ws))

	assert.Contains(t, got, "- **Workspace**: Unnamed\n")
	assert.Contains(t, got, "- **Containers**: 1\n")
	assert.Contains(t, got, "- **Relationships**: 1\n")
	assert.Contains(t, got, "- No views defined\n")
	assert.Contains(t, got, "### Container: API\n- **ID**: `api`\n- **Technology**: Go\n- **Tags**: Backend, Internal\n")
	assert.Contains(t, got, "- **api** → **api**: Retries (HTTP)\n")
	assert.Contains(t, got, "## 💡 Suggestions\n")
}

func TestValidationTerminal(t *testing.T) {
	res := domain.NewValidationResult([]domain.ParseError{
		{Message: "Duplicate identifier 'x'. First defined at line 1", Location: domain.NewLocation(2, 3)},
	}, nil)

	got := ValidationTerminal("model.dsl", res)

	assert.Contains(t, got, "model.dsl")
	assert.Contains(t, got, "1 error(s)")
	assert.Contains(t, got, "Duplicate identifier 'x'")
	assert.Contains(t, got, "model.dsl:2:3")
}

func TestAnalysisTerminal(t *testing.T) {
	got := AnalysisTerminal(analysis.Analyze(domain.NewWorkspace("Estate", "")))
	assert.Contains(t, got, "Estate")
	assert.Contains(t, got, "Complexity: Simple")
}
