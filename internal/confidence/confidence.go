// Package confidence implements contradiction detection, effective
// confidence computation, and claim assessment over the stored graph.
package confidence

import (
	"fmt"
	"sort"

	"github.com/graphmemory/kgstore/internal/database"
	"github.com/graphmemory/kgstore/internal/search"
)

// Conflict is one detected contradiction between two nodes.
type Conflict struct {
	NodeA  database.Node
	NodeB  database.Node
	Type   string
	Reason string
}

var contradictsRelationType = "contradicts"

// DetectConflicts finds every edge whose relation_type matches "contradicts"
// case-insensitively, canonicalizes the unordered pair lexicographically,
// dedupes bidirectional duplicates, and optionally restricts to pairs
// touching scope.
func DetectConflicts(db *database.Database, scope []string) ([]Conflict, error) {
	inScope := map[string]bool{}
	for _, s := range scope {
		inScope[s] = true
	}

	edges, err := db.EdgesByRelationTypeFold(contradictsRelationType)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []Conflict

	for _, e := range edges {
		a, b := e.From, e.To
		if a > b {
			a, b = b, a
		}
		key := a + "\x00" + b
		if seen[key] {
			continue
		}
		if len(scope) > 0 && !inScope[e.From] && !inScope[e.To] {
			continue
		}
		seen[key] = true

		nodeA, err := db.GetNodeByName(a)
		if err != nil {
			return nil, err
		}
		nodeB, err := db.GetNodeByName(b)
		if err != nil {
			return nil, err
		}
		if nodeA == nil || nodeB == nil {
			continue
		}

		out = append(out, Conflict{
			NodeA:  *nodeA,
			NodeB:  *nodeB,
			Type:   "explicit",
			Reason: fmt.Sprintf("%s contradicts %s", e.From, e.To),
		})
	}

	return out, nil
}

// sourceRelationTypes are the accepted spellings of a source-citing edge.
var sourceRelationTypes = []string{"DERIVED_FROM", "derivedFrom", "CITES", "cites"}

const defaultConfidence = 1.0

// ConfidenceResult is the outcome of computing a node's effective confidence.
type ConfidenceResult struct {
	Effective float64
	Sources   []string
}

// ComputeEffectiveConfidence multiplies the node's stored confidence by the
// mean reliability of its cited Source nodes (defaulting both to 1.0 when
// absent).
func ComputeEffectiveConfidence(db *database.Database, name string) (ConfidenceResult, error) {
	node, err := db.GetNodeByName(name)
	if err != nil {
		return ConfidenceResult{}, err
	}
	if node == nil {
		return ConfidenceResult{Effective: 0, Sources: nil}, nil
	}

	stored := defaultConfidence
	if node.Confidence != nil {
		stored = *node.Confidence
	}

	var reliabilities []float64
	var sources []string
	// EdgesFrom matches relation types case- and underscore-insensitively, so
	// several spellings return the same edge; count each edge once.
	seenEdges := map[int64]bool{}
	for _, rt := range sourceRelationTypes {
		edges, err := db.EdgesFrom(name, rt)
		if err != nil {
			return ConfidenceResult{}, err
		}
		for _, e := range edges {
			if seenEdges[e.ID] {
				continue
			}
			seenEdges[e.ID] = true
			target, err := db.GetNodeByName(e.To)
			if err != nil {
				return ConfidenceResult{}, err
			}
			if target == nil || target.NodeType != string(database.NodeSource) {
				continue
			}
			reliabilities = append(reliabilities, reliabilityOf(*target))
			sources = append(sources, target.Name)
		}
	}

	if len(reliabilities) == 0 {
		return ConfidenceResult{Effective: stored, Sources: sources}, nil
	}

	sum := 0.0
	for _, r := range reliabilities {
		sum += r
	}
	mean := sum / float64(len(reliabilities))

	return ConfidenceResult{Effective: stored * mean, Sources: sources}, nil
}

func reliabilityOf(source database.Node) float64 {
	if v, ok := source.Properties["reliability"]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return defaultConfidence
}

// ClaimAssessment is the per-query output of AssessClaims.
type ClaimAssessment struct {
	Claims  []ClaimResult
	Summary string
}

// ClaimResult is one assessed node.
type ClaimResult struct {
	Node                database.Node
	StoredConfidence    *float64
	EffectiveConfidence float64
	Sources             []string
	Conflicts           []Conflict
}

var claimNodeTypes = []string{
	string(database.NodeProposition),
	string(database.NodeScientificInsight),
	string(database.NodeThought),
}

const lowConfidenceThreshold = 0.5

// AssessClaims fetches the target node set (explicit names, or an FTS
// search restricted to claim-bearing kinds), computes effective confidence
// and scoped conflicts for each, and produces a prose summary.
func AssessClaims(db *database.Database, query string, names []string) (ClaimAssessment, error) {
	var nodes []database.Node
	var err error

	if len(names) > 0 {
		nodes, err = db.GetNodesByNames(names)
	} else {
		var g database.Graph
		g, err = search.SearchNodes(db, query, search.Options{NodeTypes: claimNodeTypes})
		nodes = g.Entities
	}
	if err != nil {
		return ClaimAssessment{}, err
	}

	if len(nodes) == 0 {
		return ClaimAssessment{Claims: nil, Summary: "No matching claims found."}, nil
	}

	scope := make([]string, len(nodes))
	for i, n := range nodes {
		scope[i] = n.Name
	}

	conflicts, err := DetectConflicts(db, scope)
	if err != nil {
		return ClaimAssessment{}, err
	}

	conflictsByNode := map[string][]Conflict{}
	for _, c := range conflicts {
		conflictsByNode[c.NodeA.Name] = append(conflictsByNode[c.NodeA.Name], c)
		conflictsByNode[c.NodeB.Name] = append(conflictsByNode[c.NodeB.Name], c)
	}

	claims := make([]ClaimResult, 0, len(nodes))
	lowConfidenceCount := 0
	conflictCount := 0

	for _, n := range nodes {
		result, err := ComputeEffectiveConfidence(db, n.Name)
		if err != nil {
			return ClaimAssessment{}, err
		}
		nodeConflicts := conflictsByNode[n.Name]
		if len(nodeConflicts) > 0 {
			conflictCount++
		}
		if result.Effective < lowConfidenceThreshold {
			lowConfidenceCount++
		}
		claims = append(claims, ClaimResult{
			Node:                n,
			StoredConfidence:    n.Confidence,
			EffectiveConfidence: result.Effective,
			Sources:             result.Sources,
			Conflicts:           nodeConflicts,
		})
	}

	sort.Slice(claims, func(i, j int) bool { return claims[i].Node.Name < claims[j].Node.Name })

	summary := fmt.Sprintf(
		"Assessed %d claim(s): %d with detected conflicts, %d with low effective confidence (< %.1f).",
		len(claims), conflictCount, lowConfidenceCount, lowConfidenceThreshold,
	)

	return ClaimAssessment{Claims: claims, Summary: summary}, nil
}
