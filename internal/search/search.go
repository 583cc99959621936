package search

import (
	"github.com/graphmemory/kgstore/internal/database"
)

// DefaultLimit is applied when SearchOptions.Limit is unset.
const DefaultLimit = 20

// Options configures SearchNodes.
type Options struct {
	NodeTypes []string
	Limit     int
}

// SearchNodes builds a safe FTS5 match expression from query, runs it
// against the index (ranked by bm25, optionally filtered by node type and
// limited), hydrates the matched nodes with their observations, and
// attaches every edge whose endpoints both lie inside the result set.
func SearchNodes(db *database.Database, query string, opts Options) (database.Graph, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	expr := BuildMatchExpression(query)
	if IsEmptyMatchExpression(expr) {
		return database.Graph{}, nil
	}

	matches, err := db.SearchFTS(expr, opts.NodeTypes, limit)
	if err != nil {
		return database.Graph{}, err
	}
	if len(matches) == 0 {
		return database.Graph{}, nil
	}

	names := make([]string, len(matches))
	for i, n := range matches {
		names[i] = n.Name
	}

	// Re-fetch through GetNodesByNames so observations are attached; the
	// bm25 ranking order from matches is preserved by reordering.
	hydrated, err := db.GetNodesByNames(names)
	if err != nil {
		return database.Graph{}, err
	}
	byName := make(map[string]database.Node, len(hydrated))
	for _, n := range hydrated {
		byName[n.Name] = n
	}

	entities := make([]database.Node, 0, len(names))
	for _, name := range names {
		if n, ok := byName[name]; ok {
			entities = append(entities, n)
		}
	}

	relations, err := db.EdgesAmong(names)
	if err != nil {
		return database.Graph{}, err
	}

	return database.Graph{Entities: entities, Relations: relations}, nil
}

// GetNodeByName looks up a node by exact name, falling back to alias
// resolution, and returns it with its observations attached.
func GetNodeByName(db *database.Database, name string) (*database.Node, error) {
	return db.GetNodeByName(name)
}

// GetNodesByNames bulk-fetches nodes by primary key, attaching observations.
func GetNodesByNames(db *database.Database, names []string) ([]database.Node, error) {
	return db.GetNodesByNames(names)
}

// ResolveAlias returns the canonical name for an alias, or "" if unregistered.
func ResolveAlias(db *database.Database, alias string) (string, error) {
	return db.ResolveAlias(alias)
}
