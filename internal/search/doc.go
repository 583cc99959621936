// Package search builds FTS5 match expressions from free-text queries and
// runs bm25-ranked node search against the database, rehydrating results
// into a database.Graph alongside the edges among the matched nodes.
package search
