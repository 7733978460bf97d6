package domain

import (
	"testing"
)

func TestNewWorkspace(t *testing.T) {
	t.Run("creates workspace with empty model and views", func(t *testing.T) {
		ws := NewWorkspace("Bank", "Internet banking")

		if ws.Type != NodeTypeWorkspace {
			t.Errorf("expected type %s, got %s", NodeTypeWorkspace, ws.Type)
		}
		if ws.Name != "Bank" {
			t.Errorf("expected name 'Bank', got %s", ws.Name)
		}
		if ws.Model == nil || ws.Model.Elements == nil || ws.Model.Relationships == nil {
			t.Fatal("expected model collections to be initialized")
		}
		if ws.Views == nil || ws.Views.Views == nil {
			t.Fatal("expected views to be initialized")
		}
	})
}

func TestWorkspaceIsWorkspace(t *testing.T) {
	t.Run("nil workspace is not a workspace", func(t *testing.T) {
		var ws *Workspace
		if ws.IsWorkspace() {
			t.Error("expected nil workspace to report false")
		}
	})

	t.Run("untagged workspace is not a workspace", func(t *testing.T) {
		ws := &Workspace{Type: "model"}
		if ws.IsWorkspace() {
			t.Error("expected untagged workspace to report false")
		}
	})

	t.Run("tagged workspace is a workspace", func(t *testing.T) {
		if !NewWorkspace("", "").IsWorkspace() {
			t.Error("expected tagged workspace to report true")
		}
	})
}

func TestModelWalkElements(t *testing.T) {
	t.Run("visits in pre-order with depth", func(t *testing.T) {
		model := NewModel()
		sys := NewElement("sys", ElementKindSoftwareSystem, "System")
		api := NewElement("api", ElementKindContainer, "API")
		api.AddChild(*NewElement("ctrl", ElementKindComponent, "Controller"))
		sys.AddChild(*api)
		sys.AddChild(*NewElement("db", ElementKindContainer, "Database"))
		model.AddElement(*NewElement("user", ElementKindPerson, "User"))
		model.AddElement(*sys)

		var ids []string
		var depths []int
		model.WalkElements(func(e *Element, depth int) {
			ids = append(ids, e.ID)
			depths = append(depths, depth)
		})

		wantIDs := []string{"user", "sys", "api", "ctrl", "db"}
		wantDepths := []int{1, 1, 2, 3, 2}
		if len(ids) != len(wantIDs) {
			t.Fatalf("expected %d visits, got %d", len(wantIDs), len(ids))
		}
		for i := range wantIDs {
			if ids[i] != wantIDs[i] {
				t.Errorf("visit %d: expected %s, got %s", i, wantIDs[i], ids[i])
			}
			if depths[i] != wantDepths[i] {
				t.Errorf("visit %d: expected depth %d, got %d", i, wantDepths[i], depths[i])
			}
		}
	})

	t.Run("nil model visits nothing", func(t *testing.T) {
		var model *Model
		called := false
		model.WalkElements(func(*Element, int) { called = true })
		if called {
			t.Error("expected no visits")
		}
	})
}

func TestElementHasChildren(t *testing.T) {
	el := NewElement("sys", ElementKindSoftwareSystem, "System")
	if el.HasChildren() {
		t.Error("expected new element to have no children")
	}

	el.AddRelationship(*NewRelationship("sys", "other", "Uses"))
	if !el.HasChildren() {
		t.Error("expected element with nested relationship to have children")
	}
}

func TestKinds(t *testing.T) {
	for _, k := range ElementKinds {
		if !k.Valid() {
			t.Errorf("expected %s to be valid", k)
		}
	}
	if ElementKind("deploymentNode").Valid() {
		t.Error("expected unknown element kind to be invalid")
	}
	if !ElementKindContainer.HasTechnology() || ElementKindPerson.HasTechnology() {
		t.Error("expected only containers and components to carry technology")
	}

	for _, k := range ViewKinds {
		if !k.Valid() {
			t.Errorf("expected %s to be valid", k)
		}
	}
	if ViewKind("filtered").Valid() {
		t.Error("expected unknown view kind to be invalid")
	}
}

func TestNewValidationResult(t *testing.T) {
	t.Run("no errors is valid", func(t *testing.T) {
		res := NewValidationResult(nil, []ParseError{{Message: "warn"}})
		if !res.IsValid {
			t.Error("expected result to be valid")
		}
		if res.Errors == nil {
			t.Error("expected Errors to be initialized")
		}
		if len(res.Warnings) != 1 {
			t.Errorf("expected 1 warning, got %d", len(res.Warnings))
		}
	})

	t.Run("any error is invalid", func(t *testing.T) {
		res := NewValidationResult([]ParseError{{Message: "bad"}}, nil)
		if res.IsValid {
			t.Error("expected result to be invalid")
		}
		if res.Warnings == nil {
			t.Error("expected Warnings to be initialized")
		}
	})
}

func TestParseErrorError(t *testing.T) {
	err := ParseError{Message: "Unexpected token", Location: NewLocation(3, 7)}
	if got := err.Error(); got != "Unexpected token (line 3, column 7)" {
		t.Errorf("unexpected error text %q", got)
	}

	err = ParseError{Message: "Invalid workspace structure"}
	if got := err.Error(); got != "Invalid workspace structure" {
		t.Errorf("unexpected error text %q", got)
	}
}
