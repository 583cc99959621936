package database

// SchemaVersion is the current on-disk schema version.
const SchemaVersion = 1

// CoreSchema contains the main table definitions: nodes, edges, observations
// and aliases, plus their secondary indices. Every statement is idempotent so
// InitSchema can run unconditionally on every Open.
const CoreSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- =============================================================================
-- NODES TABLE
-- Keyed by name (caller-supplied, case-sensitive). Kind-specific fields live
-- in the properties blob; search_text is the denormalized FTS source column.
-- =============================================================================
CREATE TABLE IF NOT EXISTS nodes (
	name        TEXT PRIMARY KEY,
	node_type   TEXT NOT NULL,
	sub_type    TEXT,
	status      TEXT NOT NULL DEFAULT 'active',
	description TEXT,
	statement   TEXT,
	content     TEXT,
	confidence  REAL,
	properties  TEXT NOT NULL DEFAULT '{}',
	search_text TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(node_type);
CREATE INDEX IF NOT EXISTS idx_nodes_type_subtype ON nodes(node_type, sub_type);
CREATE INDEX IF NOT EXISTS idx_nodes_status ON nodes(status);

-- =============================================================================
-- EDGES TABLE
-- Directed, weighted, uniquely keyed by (from, to, relation_type).
-- =============================================================================
CREATE TABLE IF NOT EXISTS edges (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	from_name     TEXT NOT NULL,
	to_name       TEXT NOT NULL,
	relation_type TEXT NOT NULL,
	confidence    REAL,
	weight        REAL NOT NULL DEFAULT 0.5,
	context       TEXT,
	properties    TEXT NOT NULL DEFAULT '{}',
	created_at    DATETIME NOT NULL,
	UNIQUE (from_name, to_name, relation_type),
	FOREIGN KEY (from_name) REFERENCES nodes(name) ON DELETE CASCADE,
	FOREIGN KEY (to_name) REFERENCES nodes(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_name);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_name);
CREATE INDEX IF NOT EXISTS idx_edges_relation_type ON edges(relation_type);

-- =============================================================================
-- OBSERVATIONS TABLE
-- Append-only; ordered by insertion, id column is the tiebreak.
-- =============================================================================
CREATE TABLE IF NOT EXISTS observations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	node_name  TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (node_name) REFERENCES nodes(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_observations_node ON observations(node_name);

-- =============================================================================
-- ALIASES TABLE
-- Alias is stored lowercased; canonical_name preserves original casing.
-- =============================================================================
CREATE TABLE IF NOT EXISTS aliases (
	alias          TEXT NOT NULL,
	canonical_name TEXT NOT NULL,
	match_score    REAL NOT NULL DEFAULT 1.0,
	PRIMARY KEY (alias, canonical_name),
	FOREIGN KEY (canonical_name) REFERENCES nodes(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_aliases_alias ON aliases(alias);
`

// FTS5Schema contains the full-text search virtual table and its
// synchronization triggers. Standalone (non-external-content) FTS5 is used,
// matching the nodes table's text primary key: keying the FTS row by rowid
// would require an integer alias for "name", which the data model doesn't
// have, so the trigger set below tombstones and re-inserts by name instead.
//
// Build with: go build -tags "sqlite_fts5" (or any mattn/go-sqlite3 build
// that compiles in the FTS5 extension).
const FTS5Schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
	name UNINDEXED,
	search_text
);

CREATE TRIGGER IF NOT EXISTS nodes_fts_insert AFTER INSERT ON nodes BEGIN
	INSERT INTO nodes_fts(name, search_text) VALUES (new.name, new.search_text);
END;

CREATE TRIGGER IF NOT EXISTS nodes_fts_delete AFTER DELETE ON nodes BEGIN
	DELETE FROM nodes_fts WHERE name = old.name;
END;

CREATE TRIGGER IF NOT EXISTS nodes_fts_update AFTER UPDATE ON nodes BEGIN
	DELETE FROM nodes_fts WHERE name = old.name;
	INSERT INTO nodes_fts(name, search_text) VALUES (new.name, new.search_text);
END;
`

// TemporalRelationTypes is the fixed set of relation types recognized by
// getTemporalSequence, matched case-insensitively.
var TemporalRelationTypes = []string{
	"follows", "causes", "next", "after", "before", "previous", "causedby",
}

// IsTemporalRelationType reports whether relationType is one of the
// recognized temporal relation types, case-insensitively and ignoring the
// underscore in "caused_by"/"causedBy" spellings.
func IsTemporalRelationType(relationType string) bool {
	folded := foldRelationType(relationType)
	for _, rt := range TemporalRelationTypes {
		if folded == rt {
			return true
		}
	}
	return false
}

func foldRelationType(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		out = append(out, c)
	}
	return string(out)
}
