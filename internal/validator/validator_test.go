package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c4dsl/internal/domain"
	"c4dsl/internal/parser"
)

func mustParse(t *testing.T, src string) *domain.Workspace {
	t.Helper()
	ws, err := parser.Parse(src)
	require.NoError(t, err)
	return ws
}

func messages(errs []domain.ParseError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func TestValidateMinimalValidModel(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    a = person "A"
    b = softwareSystem "B"
    a -> b
  }
}`)

	res := Validate(ws)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{
		"Consider adding a name to your workspace for better documentation",
		"Consider adding a description to your workspace for better documentation",
		"Consider adding a description to person 'a'",
		"Consider adding a description to softwareSystem 'b'",
		"Consider adding a description to relationship 'a -> b'",
	}, messages(res.Warnings))
	assert.Equal(t, domain.CodeMissingName, res.Warnings[0].Code)
	assert.Equal(t, 3, res.Warnings[2].Location.Line)
}

func TestValidateDuplicateAcrossDepth(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    x = person "X"
    s = softwareSystem "S" {
      c = container "C" {
        x = component "Nested X"
      }
    }
  }
}`)

	res := Validate(ws)

	require.Len(t, res.Errors, 1)
	assert.False(t, res.IsValid)
	assert.Equal(t, domain.CodeDuplicateIdentifier, res.Errors[0].Code)
	assert.Equal(t, "Duplicate identifier 'x'. First defined at line 3", res.Errors[0].Message)
	assert.Equal(t, &domain.Location{Line: 6, Column: 9}, res.Errors[0].Location)
}

func TestValidateUndefinedDestination(t *testing.T) {
	ws := mustParse(t, `workspace "W" "D" {
  model {
    p = person "P" "desc"
    p -> q "uses"
  }
}`)

	res := Validate(ws)

	assert.Equal(t, []string{"Relationship destination 'q' references undefined element"}, messages(res.Errors))
	assert.Equal(t, domain.CodeUndefinedReference, res.Errors[0].Code)
	assert.Empty(t, res.Warnings)
}

func TestValidateBothEndpointsUndefined(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    s = softwareSystem "S" {
      -> nowhere
    }
    ghost -> phantom
  }
}`)

	res := Validate(ws)

	assert.Equal(t, []string{
		"Relationship source 'ghost' references undefined element",
		"Relationship destination 'phantom' references undefined element",
		"Relationship destination 'nowhere' references undefined element",
	}, messages(res.Errors))
}

func TestValidateDynamicStepIsDirectional(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    a = person "A"
    b = softwareSystem "B"
    b -> a "notifies"
  }
  views {
    dynamic * "flow" {
      a -> b "requests"
    }
  }
}`)

	res := Validate(ws)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeMissingRelationship, res.Errors[0].Code)
	assert.Equal(t, "A relationship between A and B does not exist in model", res.Errors[0].Message)
	assert.Equal(t, 9, res.Errors[0].Location.Line)
}

func TestValidateDynamicStepsSkipAfterFirstFailure(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    webApp = softwareSystem "Web"
    apiGateway = softwareSystem "API"
    webApp -> apiGateway
  }
  views {
    dynamic webApp {
      ghost -> phantom
      webApp -> phantom
      webApp -> apiGateway
      apiGateway -> webApp
    }
  }
}`)

	res := Validate(ws)

	assert.Equal(t, []string{
		"Dynamic step references undefined source element 'ghost'",
		"Dynamic step references undefined destination element 'phantom'",
		"A relationship between Api Gateway and Web App does not exist in model",
	}, messages(res.Errors))
}

func TestValidateNestedRelationshipSatisfiesStep(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    s = softwareSystem "S" {
      web = container "Web" {
        ui = component "UI" {
          -> api "calls"
        }
      }
      api = container "API"
    }
  }
  views {
    dynamic s {
      ui -> api
    }
  }
}`)

	res := Validate(ws)

	assert.True(t, res.IsValid, "errors: %v", messages(res.Errors))
}

func TestValidateViewReferences(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    s = softwareSystem "S"
  }
  views {
    systemContext missing "ctx" {
      include *, s, nope
      exclude gone
    }
    component noContainer {
    }
  }
}`)

	res := Validate(ws)

	assert.Equal(t, []string{
		"View references undefined software system 'missing'",
		"View include references undefined element 'nope'",
		"View exclude references undefined element 'gone'",
		"View references undefined container 'noContainer'",
	}, messages(res.Errors))
	for _, e := range res.Errors {
		assert.Equal(t, domain.CodeUndefinedViewReference, e.Code)
	}
}

func TestValidateInvalidStructure(t *testing.T) {
	t.Run("nil workspace", func(t *testing.T) {
		res := Validate(nil)
		assert.False(t, res.IsValid)
		assert.Equal(t, []string{"Invalid workspace structure"}, messages(res.Errors))
		assert.Empty(t, res.Warnings)
	})

	t.Run("wrong node type stops further checks", func(t *testing.T) {
		ws := &domain.Workspace{
			Type:     "model",
			Location: domain.NewLocation(1, 1),
			Model: &domain.Model{Relationships: []domain.Relationship{
				{Source: "a", Destination: "b"},
			}},
		}
		res := Validate(ws)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, domain.CodeInvalidWorkspace, res.Errors[0].Code)
		assert.Equal(t, ws.Location, res.Errors[0].Location)
		assert.Empty(t, res.Warnings)
	})
}

func TestValidateWithoutBestPractices(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    a = person "A"
  }
}`)

	res := New(WithBestPractices(false)).Validate(ws)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Warnings)
}

func TestValidateTreeWithoutModel(t *testing.T) {
	ws := &domain.Workspace{Type: domain.NodeTypeWorkspace, Name: "W", Description: "D"}

	res := Validate(ws)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Warnings)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"webApp":     "Web App",
		"a":          "A",
		"API":        "A P I",
		"Customer":   "Customer",
		"":           "",
		"backend_db": "Backend_db",
	}
	for in, want := range tests {
		assert.Equal(t, want, displayName(in), "displayName(%q)", in)
	}
}

func TestBuildIndexNoModel(t *testing.T) {
	idx, dups := BuildIndex(&domain.Workspace{Type: domain.NodeTypeWorkspace})
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, dups)

	idx, dups = BuildIndex(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, dups)
}

func TestFlattenRelationshipsOrder(t *testing.T) {
	ws := mustParse(t, `workspace {
  model {
    s = softwareSystem "S" {
      c = container "C" {
        k = component "K" {
          -> s "deep"
        }
        -> s "mid"
      }
      -> c "top"
    }
    s -> c "model"
  }
}`)

	rels := FlattenRelationships(ws.Model)

	descs := make([]string, len(rels))
	for i, r := range rels {
		descs[i] = r.Description
	}
	assert.Equal(t, []string{"model", "top", "mid", "deep"}, descs)
	assert.Nil(t, FlattenRelationships(nil))
}
