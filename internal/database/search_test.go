package database

import "testing"

func requireFTS(t *testing.T, db *Database) {
	t.Helper()
	exists, err := db.TableExists("nodes_fts")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if !exists {
		t.Skip("nodes_fts not available in this build (sqlite_fts5 build tag not set)")
	}
}

func TestSearchFTS_MatchesByName(t *testing.T) {
	db := newTestDB(t)
	requireFTS(t, db)

	seedNodes(t, db, "aristotle", "plato")

	got, err := db.SearchFTS(`"aristotle"`, nil, 0)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "aristotle" {
		t.Errorf("expected single match on aristotle, got %v", got)
	}
}

func TestSearchFTS_FilteredByNodeType(t *testing.T) {
	db := newTestDB(t)
	requireFTS(t, db)

	if _, err := db.CreateNodes([]NodeInput{
		{Name: "gravity", NodeType: string(NodeConcept), Description: "physics"},
		{Name: "gravity event", NodeType: string(NodeEvent), Description: "physics"},
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := db.SearchFTS(`"physics"`, []string{string(NodeConcept)}, 0)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "gravity" {
		t.Errorf("expected node type filter to exclude the event, got %v", got)
	}
}

func TestSearchFTS_Limit(t *testing.T) {
	db := newTestDB(t)
	requireFTS(t, db)

	seedWithDescription := func(name string) NodeInput {
		return NodeInput{Name: name, NodeType: string(NodeEntity), Description: "shared term"}
	}
	if _, err := db.CreateNodes([]NodeInput{
		seedWithDescription("one"), seedWithDescription("two"), seedWithDescription("three"),
	}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	got, err := db.SearchFTS(`"shared"`, nil, 2)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit of 2 results, got %d", len(got))
	}
}

func TestSearchFTS_SyncedOnUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	requireFTS(t, db)

	if _, err := db.CreateNodes([]NodeInput{{Name: "node-x", NodeType: string(NodeEntity), Description: "original term"}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}
	if _, err := db.CreateNodes([]NodeInput{{Name: "node-x", NodeType: string(NodeEntity), Description: "updated term"}}); err != nil {
		t.Fatalf("update CreateNodes failed: %v", err)
	}

	got, err := db.SearchFTS(`"original"`, nil, 0)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected stale search_text to be gone after update, got %v", got)
	}

	got, err = db.SearchFTS(`"updated"`, nil, 0)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected new search_text to be indexed, got %v", got)
	}

	if err := db.DeleteNodes([]string{"node-x"}); err != nil {
		t.Fatalf("DeleteNodes failed: %v", err)
	}
	got, err = db.SearchFTS(`"updated"`, nil, 0)
	if err != nil {
		t.Fatalf("SearchFTS failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected FTS row removed after node delete, got %v", got)
	}
}
