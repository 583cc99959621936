// Package provenance implements structural validation of required
// provenance edges, per node kind.
package provenance

import (
	"fmt"

	"github.com/graphmemory/kgstore/internal/database"
)

// Result is the outcome of validating one node.
type Result struct {
	Valid  bool
	Issues []string
}

// rule checks one node kind's provenance requirement, appending an issue
// string (and returning false) when unmet. Adding a new per-kind rule is a
// one-line addition to rules below, not a rewrite of Validate.
type rule func(db *database.Database, node database.Node) (bool, string, error)

var rules = map[database.NodeType]rule{
	database.NodeThought: requireDerivedFrom,
}

// derivedFromRelationTypes are the accepted spellings for a DERIVED_FROM edge.
var derivedFromRelationTypes = []string{"DERIVED_FROM", "derivedFrom"}

func requireDerivedFrom(db *database.Database, node database.Node) (bool, string, error) {
	for _, rt := range derivedFromRelationTypes {
		edges, err := db.EdgesFrom(node.Name, rt)
		if err != nil {
			return false, "", err
		}
		if len(edges) > 0 {
			return true, "", nil
		}
	}
	return false, fmt.Sprintf("missing required DERIVED_FROM edge for %s node %q", node.NodeType, node.Name), nil
}

// Validate checks node name against the provenance rule for its kind. Kinds
// with no registered rule are always valid.
func Validate(db *database.Database, name string) (Result, error) {
	node, err := db.GetNodeByName(name)
	if err != nil {
		return Result{}, err
	}
	if node == nil {
		return Result{Valid: false, Issues: []string{fmt.Sprintf("node %q not found", name)}}, nil
	}

	check, ok := rules[database.NodeType(node.NodeType)]
	if !ok {
		return Result{Valid: true}, nil
	}

	valid, issue, err := check(db, *node)
	if err != nil {
		return Result{}, err
	}
	if valid {
		return Result{Valid: true}, nil
	}
	return Result{Valid: false, Issues: []string{issue}}, nil
}
