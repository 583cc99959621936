// Package database provides the SQLite-backed storage layer for the graph:
// schema management, an advisory file lock for single-writer safety, and
// CRUD access to nodes, edges, aliases, and observations.
//
// Full-text search over each node's search_text (name, description,
// statement, content and a few content-like properties) is layered on top
// via a standalone FTS5 virtual table kept in sync by triggers; see
// search.go.
package database
