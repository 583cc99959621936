package provenance

import (
	"testing"

	"github.com/graphmemory/kgstore/internal/database"
	"github.com/graphmemory/kgstore/internal/testutil"
)

func TestValidate_ThoughtMissingDerivedFrom(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{{Name: "idea", NodeType: string(database.NodeThought)}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := Validate(db, "idea")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got.Valid {
		t.Error("expected invalid for a Thought with no DERIVED_FROM edge")
	}
	if len(got.Issues) != 1 {
		t.Errorf("expected exactly one issue, got %v", got.Issues)
	}
}

func TestValidate_ThoughtWithDerivedFrom(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{
		{Name: "idea", NodeType: string(database.NodeThought)},
		{Name: "source", NodeType: string(database.NodeSource)},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]database.EdgeInput{{From: "idea", To: "source", RelationType: "DERIVED_FROM"}}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := Validate(db, "idea")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !got.Valid {
		t.Errorf("expected valid once a DERIVED_FROM edge exists, got issues: %v", got.Issues)
	}
}

func TestValidate_CamelCaseDerivedFromAccepted(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{
		{Name: "idea", NodeType: string(database.NodeThought)},
		{Name: "source", NodeType: string(database.NodeSource)},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]database.EdgeInput{{From: "idea", To: "source", RelationType: "derivedFrom"}}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := Validate(db, "idea")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !got.Valid {
		t.Errorf("expected camelCase derivedFrom spelling accepted, got issues: %v", got.Issues)
	}
}

func TestValidate_UnregisteredKindAlwaysValid(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{{Name: "rock", NodeType: string(database.NodeEntity)}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := Validate(db, "rock")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !got.Valid {
		t.Error("expected node kinds with no registered rule to always validate")
	}
}

func TestValidate_NodeNotFound(t *testing.T) {
	db := testutil.OpenDatabase(t)

	got, err := Validate(db, "nobody")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got.Valid {
		t.Error("expected invalid for an unknown node")
	}
}
