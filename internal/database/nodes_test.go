package database

import (
	"errors"
	"testing"
)

func TestCreateNodes_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	conf := 0.8
	created, err := db.CreateNodes([]NodeInput{{
		Name:        "socrates",
		NodeType:    string(NodeEntity),
		Description: "a philosopher",
		Confidence:  &conf,
		Properties:  map[string]any{"era": "ancient"},
		Observations: []string{"taught Plato"},
	}})
	if err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 created node, got %d", len(created))
	}

	got, err := db.GetNodeByName("socrates")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected node to be found")
	}
	if got.Description != "a philosopher" {
		t.Errorf("expected description round trip, got %q", got.Description)
	}
	if got.Properties["era"] != "ancient" {
		t.Errorf("expected properties round trip, got %v", got.Properties)
	}
	if len(got.Observations) != 1 || got.Observations[0].Content != "taught Plato" {
		t.Errorf("expected 1 observation, got %v", got.Observations)
	}
	if got.Status != StatusActive {
		t.Errorf("expected status active, got %q", got.Status)
	}
}

func TestCreateNodes_InvalidType(t *testing.T) {
	db := newTestDB(t)

	_, err := db.CreateNodes([]NodeInput{{Name: "x", NodeType: "NotAKind"}})
	if err == nil {
		t.Fatal("expected error for invalid node type")
	}
}

func TestCreateNodes_UpsertReplacesProperties(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateNodes([]NodeInput{{
		Name:       "plato",
		NodeType:   string(NodeEntity),
		Properties: map[string]any{"era": "ancient", "school": "academy"},
	}}); err != nil {
		t.Fatalf("first CreateNodes failed: %v", err)
	}

	if _, err := db.CreateNodes([]NodeInput{{
		Name:       "plato",
		NodeType:   string(NodeEntity),
		Properties: map[string]any{"era": "classical"},
	}}); err != nil {
		t.Fatalf("second CreateNodes failed: %v", err)
	}

	got, err := db.GetNodeByName("plato")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if got.Properties["era"] != "classical" {
		t.Errorf("expected incoming property to win, got %v", got.Properties["era"])
	}
	if school, ok := got.Properties["school"]; ok {
		t.Errorf("expected properties blob to be replaced, got school=%v", school)
	}
}

func TestCreateNodes_LowConfidenceIsCandidate(t *testing.T) {
	db := newTestDB(t)

	conf := 0.1
	if _, err := db.CreateNodes([]NodeInput{{Name: "hunch", NodeType: string(NodeThought), Confidence: &conf}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := db.GetNodeByName("hunch")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if got.Status != StatusCandidate {
		t.Errorf("expected candidate status for low confidence, got %q", got.Status)
	}
}

func TestDeleteNodes_CascadesEdgesAndObservations(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateNodes([]NodeInput{
		{Name: "a", NodeType: string(NodeEntity), Observations: []string{"obs"}},
		{Name: "b", NodeType: string(NodeEntity)},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]EdgeInput{{From: "a", To: "b", RelationType: "related_to"}}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	if err := db.DeleteNodes([]string{"a"}); err != nil {
		t.Fatalf("DeleteNodes failed: %v", err)
	}

	n, err := db.GetNodeByName("a")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if n != nil {
		t.Error("expected node a to be gone")
	}

	edges, err := db.EdgesAmong([]string{"a", "b"})
	if err != nil {
		t.Fatalf("EdgesAmong failed: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("expected cascaded edge deletion, got %d edges", len(edges))
	}
}

func TestGetNodeByName_AliasFallback(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateNodes([]NodeInput{{
		Name:     "united states",
		NodeType: string(NodeLocation),
		Aliases:  []AliasInput{{Alias: "usa"}},
	}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := db.GetNodeByName("usa")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected alias lookup to resolve")
	}
	if got.Name != "united states" {
		t.Errorf("expected canonical name, got %q", got.Name)
	}
}

func TestGetNodeByName_AliasLookupIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateNodes([]NodeInput{{
		Name:     "united states",
		NodeType: string(NodeLocation),
		Aliases:  []AliasInput{{Alias: "USA"}},
	}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := db.GetNodeByName("UsA")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if got == nil || got.Name != "united states" {
		t.Errorf("expected case-insensitive alias lookup to resolve, got %v", got)
	}
}

func TestAddObservations_UnknownNodeReturnsErrNodeNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.AddObservations([]ObservationBatch{{NodeName: "nobody", Contents: []string{"x"}}})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestGetNodeByName_NotFound(t *testing.T) {
	db := newTestDB(t)

	got, err := db.GetNodeByName("nobody")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestAddObservations_Appends(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateNodes([]NodeInput{{Name: "a", NodeType: string(NodeEntity)}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.AddObservations([]ObservationBatch{{NodeName: "a", Contents: []string{"one", "two"}}}); err != nil {
		t.Fatalf("AddObservations failed: %v", err)
	}

	got, err := db.GetNodeByName("a")
	if err != nil {
		t.Fatalf("GetNodeByName failed: %v", err)
	}
	if len(got.Observations) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(got.Observations))
	}
	if got.Observations[0].Content != "one" || got.Observations[1].Content != "two" {
		t.Errorf("expected insertion order preserved, got %v", got.Observations)
	}
}
