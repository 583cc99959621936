package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateNodes upserts a batch of nodes inside a single transaction. Every
// call is tagged with a batch id so related log lines can be correlated.
func (d *Database) CreateNodes(inputs []NodeInput) ([]Node, error) {
	batchID := uuid.New().String()
	log.Info("creating nodes", "batch_id", batchID, "count", len(inputs))

	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	out := make([]Node, 0, len(inputs))

	for _, in := range inputs {
		node, err := upsertNodeTx(tx, in, now)
		if err != nil {
			log.Error("failed to create node", "batch_id", batchID, "name", in.Name, "error", err)
			return nil, fmt.Errorf("failed to create node %q: %w", in.Name, err)
		}
		for _, alias := range in.Aliases {
			if err := upsertAliasTx(tx, alias, in.Name); err != nil {
				return nil, fmt.Errorf("failed to attach alias %q to %q: %w", alias.Alias, in.Name, err)
			}
		}
		for _, content := range in.Observations {
			if _, err := insertObservationTx(tx, in.Name, content, now); err != nil {
				return nil, fmt.Errorf("failed to add observation for %q: %w", in.Name, err)
			}
		}
		out = append(out, node)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit node batch: %w", err)
	}

	log.Info("nodes created", "batch_id", batchID, "count", len(out))
	return out, nil
}

// upsertNodeTx inserts a node or, if one already exists by name, replaces its
// fixed columns and its properties blob, keeping the original created_at.
func upsertNodeTx(tx *sql.Tx, in NodeInput, now time.Time) (Node, error) {
	if in.Name == "" {
		return Node{}, fmt.Errorf("node name is required")
	}
	if !IsValidNodeType(in.NodeType) {
		return Node{}, fmt.Errorf("invalid node type %q", in.NodeType)
	}

	_, createdAt, exists, err := existingNodeProps(tx, in.Name)
	if err != nil {
		return Node{}, err
	}

	enc, err := encodeNode(in)
	if err != nil {
		return Node{}, err
	}

	created := now
	if exists {
		created = createdAt
	}

	_, err = tx.Exec(`
		INSERT INTO nodes (
			name, node_type, sub_type, status, description, statement, content,
			confidence, properties, search_text, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			node_type   = excluded.node_type,
			sub_type    = excluded.sub_type,
			status      = excluded.status,
			description = excluded.description,
			statement   = excluded.statement,
			content     = excluded.content,
			confidence  = excluded.confidence,
			properties  = excluded.properties,
			search_text = excluded.search_text,
			updated_at  = excluded.updated_at
	`,
		in.Name, in.NodeType, nullString(in.SubType), enc.status,
		nullString(in.Description), nullString(in.Statement), nullString(enc.content),
		enc.confidence, enc.properties, enc.searchText, created, now,
	)
	if err != nil {
		return Node{}, fmt.Errorf("failed to upsert node: %w", err)
	}

	return Node{
		Name:        in.Name,
		NodeType:    in.NodeType,
		SubType:     in.SubType,
		Status:      enc.status,
		Description: in.Description,
		Statement:   in.Statement,
		Content:     enc.content,
		Confidence:  enc.confidence,
		Properties:  in.Properties,
		CreatedAt:   created,
		UpdatedAt:   now,
	}, nil
}

func existingNodeProps(tx *sql.Tx, name string) (map[string]any, time.Time, bool, error) {
	var propsJSON string
	var createdAt time.Time
	err := tx.QueryRow("SELECT properties, created_at FROM nodes WHERE name = ?", name).Scan(&propsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read existing node: %w", err)
	}
	props, err := decodeProperties(propsJSON)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return props, createdAt, true, nil
}

// mergeProperties layers incoming properties over the existing ones; keys
// absent from incoming are preserved.
func mergeProperties(existing, incoming map[string]any) map[string]any {
	merged := map[string]any{}
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

// upsertAliasTx attaches a lowercased alias to a canonical node name.
// Aliases are always stored lowercased; the canonical name is not. A repeat
// alias/name pair is left untouched rather than overwriting its match_score.
func upsertAliasTx(tx *sql.Tx, alias AliasInput, canonicalName string) error {
	score := 1.0
	if alias.MatchScore != nil {
		score = *alias.MatchScore
	}
	_, err := tx.Exec(`
		INSERT OR IGNORE INTO aliases (alias, canonical_name, match_score)
		VALUES (?, ?, ?)
	`, strings.ToLower(alias.Alias), canonicalName, score)
	return err
}

func insertObservationTx(tx *sql.Tx, nodeName, content string, now time.Time) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO observations (node_name, content, created_at) VALUES (?, ?, ?)
	`, nodeName, content, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert observation: %w", err)
	}
	return res.LastInsertId()
}

// AddObservations appends observation content to existing nodes, one batch
// per node, inside a single transaction.
func (d *Database) AddObservations(batches []ObservationBatch) ([]Observation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var out []Observation

	for _, batch := range batches {
		if _, _, exists, err := existingNodeProps(tx, batch.NodeName); err != nil {
			return nil, err
		} else if !exists {
			return nil, fmt.Errorf("cannot add observation for %q: %w", batch.NodeName, ErrNodeNotFound)
		}
		for _, content := range batch.Contents {
			id, err := insertObservationTx(tx, batch.NodeName, content, now)
			if err != nil {
				return nil, fmt.Errorf("failed to add observation for %q: %w", batch.NodeName, err)
			}
			out = append(out, Observation{ID: id, NodeName: batch.NodeName, Content: content, CreatedAt: now})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit observations: %w", err)
	}
	return out, nil
}

// DeleteNodes removes nodes by name. Edges, observations, and aliases that
// reference them cascade via the foreign key constraints.
func (d *Database) DeleteNodes(names []string) error {
	log.Info("deleting nodes", "count", len(names))

	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.Exec("DELETE FROM nodes WHERE name = ?", name); err != nil {
			return fmt.Errorf("failed to delete node %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// GetNodeByName retrieves a node by its canonical name, falling back to
// alias resolution when no direct match exists.
func (d *Database) GetNodeByName(name string) (*Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	node, err := d.scanNodeByName(name)
	if err != nil {
		return nil, err
	}
	if node != nil {
		return node, nil
	}

	canonical, err := d.resolveAliasLocked(name)
	if err != nil {
		return nil, err
	}
	if canonical == "" {
		return nil, nil
	}
	return d.scanNodeByName(canonical)
}

func (d *Database) scanNodeByName(name string) (*Node, error) {
	var n Node
	var subType, description, statement, content sql.NullString
	var confidence sql.NullFloat64
	var propsJSON string

	err := d.db.QueryRow(`
		SELECT name, node_type, sub_type, status, description, statement, content,
		       confidence, properties, created_at, updated_at
		FROM nodes WHERE name = ?
	`, name).Scan(
		&n.Name, &n.NodeType, &subType, &n.Status, &description, &statement, &content,
		&confidence, &propsJSON, &n.CreatedAt, &n.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
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
		return nil, err
	}
	n.Properties = props

	obs, err := d.observationsForNode(name)
	if err != nil {
		return nil, err
	}
	n.Observations = obs

	return &n, nil
}

func (d *Database) observationsForNode(name string) ([]Observation, error) {
	rows, err := d.db.Query(`
		SELECT id, node_name, content, created_at FROM observations
		WHERE node_name = ? ORDER BY id ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get observations: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.ID, &o.NodeName, &o.Content, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetNodesByNames retrieves multiple nodes, skipping any that don't exist
// (by name or alias).
func (d *Database) GetNodesByNames(names []string) ([]Node, error) {
	var out []Node
	for _, name := range names {
		n, err := d.GetNodeByName(name)
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

// ResolveAlias returns the canonical node name for an alias, or "" if name
// isn't a registered alias.
func (d *Database) ResolveAlias(name string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.resolveAliasLocked(name)
}

func (d *Database) resolveAliasLocked(name string) (string, error) {
	var canonical string
	err := d.db.QueryRow(`
		SELECT canonical_name FROM aliases
		WHERE alias = ? ORDER BY match_score DESC LIMIT 1
	`, strings.ToLower(name)).Scan(&canonical)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve alias: %w", err)
	}
	return canonical, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
