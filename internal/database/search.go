package database

import (
	"database/sql"
	"fmt"
)

// SearchFTS runs a raw FTS5 match expression against nodes_fts joined back
// to nodes, ranked by bm25 ascending (best match first), optionally
// filtered by node_type, with limit applied. Higher-level query
// normalization (tokenizing, escaping, the empty-query sentinel) lives in
// internal/search; this is the bare SQL execution step.
func (d *Database) SearchFTS(matchExpr string, nodeTypes []string, limit int) ([]Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	args := []interface{}{matchExpr}
	query := `
		SELECT n.name, n.node_type, n.sub_type, n.status, n.description, n.statement,
		       n.content, n.confidence, n.properties, n.created_at, n.updated_at
		FROM nodes_fts f
		JOIN nodes n ON n.name = f.name
		WHERE f.nodes_fts MATCH ?
	`

	if len(nodeTypes) > 0 {
		placeholders, typeArgs := inClause(nodeTypes)
		query += fmt.Sprintf(" AND n.node_type IN (%s)", placeholders)
		args = append(args, typeArgs...)
	}

	query += " ORDER BY bm25(f.nodes_fts) ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run FTS search: %w", err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		n, err := scanFTSNodeRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanFTSNodeRow(rows *sql.Rows) (Node, error) {
	var n Node
	var subType, description, statement, content sql.NullString
	var confidence sql.NullFloat64
	var propsJSON string

	if err := rows.Scan(
		&n.Name, &n.NodeType, &subType, &n.Status, &description, &statement,
		&content, &confidence, &propsJSON, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return Node{}, fmt.Errorf("failed to scan FTS row: %w", err)
	}

	n.SubType = subType.String
	n.Description = description.String
	n.Statement = statement.String
	n.Content = content.String
	if confidence.Valid {
		v := confidence.Float64
		n.Confidence = &v
	}
	props, err := decodeProperties(propsJSON)
	if err != nil {
		return Node{}, err
	}
	n.Properties = props
	return n, nil
}
