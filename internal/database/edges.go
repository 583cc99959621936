package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateRelations upserts a batch of edges inside a single transaction.
func (d *Database) CreateRelations(inputs []EdgeInput) ([]Edge, error) {
	batchID := uuid.New().String()
	log.Info("creating relations", "batch_id", batchID, "count", len(inputs))

	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	out := make([]Edge, 0, len(inputs))

	for _, in := range inputs {
		edge, err := upsertEdgeTx(tx, in, now)
		if err != nil {
			log.Error("failed to create relation", "batch_id", batchID, "from", in.From, "to", in.To, "error", err)
			return nil, fmt.Errorf("failed to create relation %s-[%s]->%s: %w", in.From, in.RelationType, in.To, err)
		}
		out = append(out, edge)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit relation batch: %w", err)
	}

	log.Info("relations created", "batch_id", batchID, "count", len(out))
	return out, nil
}

func upsertEdgeTx(tx *sql.Tx, in EdgeInput, now time.Time) (Edge, error) {
	if in.From == "" || in.To == "" || in.RelationType == "" {
		return Edge{}, fmt.Errorf("from, to, and relationType are required")
	}

	weight := DefaultEdgeWeight
	if in.Weight != nil {
		weight = *in.Weight
	}

	propsJSON, err := encodeEdgeProperties(in.Properties)
	if err != nil {
		return Edge{}, err
	}

	res, err := tx.Exec(`
		INSERT INTO edges (from_name, to_name, relation_type, confidence, weight, context, properties, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(from_name, to_name, relation_type) DO UPDATE SET
			confidence = excluded.confidence,
			weight     = excluded.weight,
			context    = excluded.context,
			properties = excluded.properties
	`, in.From, in.To, in.RelationType, in.Confidence, weight, nullString(in.Context), propsJSON, now)
	if err != nil {
		return Edge{}, fmt.Errorf("failed to upsert edge: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		// ON CONFLICT UPDATE doesn't report a rowid via LastInsertId on all
		// drivers; look the row up directly in that case.
		var existingID int64
		qerr := tx.QueryRow(`
			SELECT id FROM edges WHERE from_name = ? AND to_name = ? AND relation_type = ?
		`, in.From, in.To, in.RelationType).Scan(&existingID)
		if qerr != nil {
			return Edge{}, fmt.Errorf("failed to read upserted edge id: %w", qerr)
		}
		id = existingID
	}

	return Edge{
		ID:           id,
		From:         in.From,
		To:           in.To,
		RelationType: in.RelationType,
		Confidence:   in.Confidence,
		Weight:       weight,
		Context:      in.Context,
		Properties:   in.Properties,
		CreatedAt:    now,
	}, nil
}

// DeleteRelations removes edges matching the given keys.
func (d *Database) DeleteRelations(keys []EdgeKey) error {
	log.Info("deleting relations", "count", len(keys))

	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		_, err := tx.Exec(`
			DELETE FROM edges WHERE from_name = ? AND to_name = ? AND relation_type = ?
		`, k.From, k.To, k.RelationType)
		if err != nil {
			return fmt.Errorf("failed to delete relation %s-[%s]->%s: %w", k.From, k.RelationType, k.To, err)
		}
	}

	return tx.Commit()
}

func scanEdgeRow(rows *sql.Rows) (Edge, error) {
	var e Edge
	var confidence sql.NullFloat64
	var context sql.NullString
	var propsJSON string

	if err := rows.Scan(&e.ID, &e.From, &e.To, &e.RelationType, &confidence, &e.Weight, &context, &propsJSON, &e.CreatedAt); err != nil {
		return Edge{}, err
	}
	if confidence.Valid {
		v := confidence.Float64
		e.Confidence = &v
	}
	e.Context = context.String
	props, err := decodeProperties(propsJSON)
	if err != nil {
		return Edge{}, err
	}
	e.Properties = props
	return e, nil
}

const edgeColumns = `id, from_name, to_name, relation_type, confidence, weight, context, properties, created_at`

// EdgesAmong returns every edge whose endpoints are both in names. This is
// the shared hydration step used to build a Graph result from a node set.
func (d *Database) EdgesAmong(names []string) ([]Edge, error) {
	if len(names) == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	placeholders, args := inClause(names)
	query := fmt.Sprintf(`
		SELECT %s FROM edges
		WHERE from_name IN (%s) AND to_name IN (%s)
	`, edgeColumns, placeholders, placeholders)
	rows, err := d.db.Query(query, append(append([]interface{}{}, args...), args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		e, err := scanEdgeRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EdgesFrom returns outgoing edges from name, optionally filtered by
// relation type (case-insensitive, empty string means no filter).
func (d *Database) EdgesFrom(name string, relationType string) ([]Edge, error) {
	return d.edgesDirection(name, relationType, "from_name")
}

// EdgesTo returns incoming edges to name, optionally filtered by relation
// type (case-insensitive, empty string means no filter).
func (d *Database) EdgesTo(name string, relationType string) ([]Edge, error) {
	return d.edgesDirection(name, relationType, "to_name")
}

func (d *Database) edgesDirection(name, relationType, column string) ([]Edge, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := fmt.Sprintf(`SELECT %s FROM edges WHERE %s = ?`, edgeColumns, column)
	rows, err := d.db.Query(query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		e, err := scanEdgeRow(rows)
		if err != nil {
			return nil, err
		}
		if relationType != "" && foldRelationType(e.RelationType) != foldRelationType(relationType) {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EdgesByRelationTypeFold scans every edge and returns those whose
// relation_type folds (case-insensitive, underscore-insensitive) to
// folded. Used for whole-graph scans like contradiction detection where no
// node-scoped seed set is available.
func (d *Database) EdgesByRelationTypeFold(folded string) ([]Edge, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := fmt.Sprintf(`SELECT %s FROM edges`, edgeColumns)
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		e, err := scanEdgeRow(rows)
		if err != nil {
			return nil, err
		}
		if foldRelationType(e.RelationType) == folded {
			out = append(out, e)
		}
	}
	return out, rows.Err()
}

// inClause builds a "?,?,?" placeholder string and the matching arg slice.
func inClause(values []string) (string, []interface{}) {
	placeholders := ""
	args := make([]interface{}, len(values))
	for i, v := range values {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args[i] = v
	}
	return placeholders, args
}
