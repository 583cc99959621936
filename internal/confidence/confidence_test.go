package confidence

import (
	"testing"

	"github.com/graphmemory/kgstore/internal/database"
	"github.com/graphmemory/kgstore/internal/testutil"
)

func TestDetectConflicts_DedupesBidirectionalAndFoldsCase(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{
		{Name: "claim-a", NodeType: string(database.NodeProposition)},
		{Name: "claim-b", NodeType: string(database.NodeProposition)},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]database.EdgeInput{
		{From: "claim-a", To: "claim-b", RelationType: "Contradicts"},
		{From: "claim-b", To: "claim-a", RelationType: "CONTRADICTS"},
	}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := DetectConflicts(db, nil)
	if err != nil {
		t.Fatalf("DetectConflicts failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got))
	}
}

func TestDetectConflicts_ScopeFilter(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{
		{Name: "a", NodeType: string(database.NodeProposition)},
		{Name: "b", NodeType: string(database.NodeProposition)},
		{Name: "c", NodeType: string(database.NodeProposition)},
		{Name: "d", NodeType: string(database.NodeProposition)},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]database.EdgeInput{
		{From: "a", To: "b", RelationType: "contradicts"},
		{From: "c", To: "d", RelationType: "contradicts"},
	}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := DetectConflicts(db, []string{"a"})
	if err != nil {
		t.Fatalf("DetectConflicts failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the scoped conflict, got %d", len(got))
	}
	if got[0].NodeA.Name != "a" && got[0].NodeB.Name != "a" {
		t.Errorf("expected conflict to involve a, got %+v", got[0])
	}
}

func TestComputeEffectiveConfidence_NoSources(t *testing.T) {
	db := testutil.OpenDatabase(t)

	conf := 0.8
	if _, err := db.CreateNodes([]database.NodeInput{{Name: "claim", NodeType: string(database.NodeProposition), Confidence: &conf}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := ComputeEffectiveConfidence(db, "claim")
	if err != nil {
		t.Fatalf("ComputeEffectiveConfidence failed: %v", err)
	}
	if got.Effective != 0.8 {
		t.Errorf("expected effective confidence to equal stored confidence with no sources, got %v", got.Effective)
	}
}

func TestComputeEffectiveConfidence_WithSources(t *testing.T) {
	db := testutil.OpenDatabase(t)

	conf := 0.8
	if _, err := db.CreateNodes([]database.NodeInput{
		{Name: "claim", NodeType: string(database.NodeProposition), Confidence: &conf},
		{Name: "source-a", NodeType: string(database.NodeSource), Properties: map[string]any{"reliability": 0.5}},
		{Name: "source-b", NodeType: string(database.NodeSource), Properties: map[string]any{"reliability": 1.0}},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]database.EdgeInput{
		{From: "claim", To: "source-a", RelationType: "CITES"},
		{From: "claim", To: "source-b", RelationType: "cites"},
	}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := ComputeEffectiveConfidence(db, "claim")
	if err != nil {
		t.Fatalf("ComputeEffectiveConfidence failed: %v", err)
	}
	// 0.8 * mean(0.5, 1.0) = 0.8 * 0.75 = 0.6
	if got.Effective < 0.59 || got.Effective > 0.61 {
		t.Errorf("expected effective confidence ~0.6, got %v", got.Effective)
	}
	if len(got.Sources) != 2 {
		t.Errorf("expected 2 sources, got %v", got.Sources)
	}
}

func TestComputeEffectiveConfidence_DefaultsToOneWhenUnset(t *testing.T) {
	db := testutil.OpenDatabase(t)

	if _, err := db.CreateNodes([]database.NodeInput{{Name: "claim", NodeType: string(database.NodeProposition)}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := ComputeEffectiveConfidence(db, "claim")
	if err != nil {
		t.Fatalf("ComputeEffectiveConfidence failed: %v", err)
	}
	if got.Effective != 1.0 {
		t.Errorf("expected default stored confidence of 1.0, got %v", got.Effective)
	}
}

func TestAssessClaims_ExplicitNames(t *testing.T) {
	db := testutil.OpenDatabase(t)

	lowConf := 0.2
	if _, err := db.CreateNodes([]database.NodeInput{
		{Name: "claim-a", NodeType: string(database.NodeProposition), Confidence: &lowConf},
		{Name: "claim-b", NodeType: string(database.NodeProposition)},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateRelations([]database.EdgeInput{
		{From: "claim-a", To: "claim-b", RelationType: "contradicts"},
	}); err != nil {
		t.Fatalf("CreateRelations failed: %v", err)
	}

	got, err := AssessClaims(db, "", []string{"claim-a", "claim-b"})
	if err != nil {
		t.Fatalf("AssessClaims failed: %v", err)
	}
	if len(got.Claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(got.Claims))
	}
	for _, c := range got.Claims {
		if c.Node.Name == "claim-a" && len(c.Conflicts) != 1 {
			t.Errorf("expected claim-a to carry its conflict, got %v", c.Conflicts)
		}
	}
	if got.Summary == "" {
		t.Error("expected a non-empty summary")
	}
}

func TestAssessClaims_NoMatches(t *testing.T) {
	db := testutil.OpenDatabase(t)

	got, err := AssessClaims(db, "", []string{"nobody"})
	if err != nil {
		t.Fatalf("AssessClaims failed: %v", err)
	}
	if len(got.Claims) != 0 {
		t.Errorf("expected no claims, got %d", len(got.Claims))
	}
	if got.Summary != "No matching claims found." {
		t.Errorf("expected no-match summary, got %q", got.Summary)
	}
}
