// Package engine is the public façade over kgstore's internal packages: it
// owns the database handle and dispatches every operation in the public
// surface to the internal component that implements it.
package engine

import (
	"github.com/graphmemory/kgstore/internal/confidence"
	"github.com/graphmemory/kgstore/internal/database"
	"github.com/graphmemory/kgstore/internal/logging"
	"github.com/graphmemory/kgstore/internal/provenance"
	"github.com/graphmemory/kgstore/internal/reasoning"
	"github.com/graphmemory/kgstore/internal/search"
	"github.com/graphmemory/kgstore/internal/traversal"
)

var log = logging.GetLogger("engine")

// Engine is the single entry point consumers embed: one exclusive database
// handle, owned for the Engine's lifetime.
type Engine struct {
	db *database.Database
}

// Option configures Open.
type Option func(*options)

type options struct{}

// Open opens (creating if needed) the graph store at path, acquiring its
// advisory lock and bootstrapping the schema.
func Open(path string, opts ...Option) (*Engine, error) {
	var o options
	for _, apply := range opts {
		apply(&o)
	}

	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	log.Info("engine opened", "path", path)
	return &Engine{db: db}, nil
}

// Close releases the database handle and its advisory lock.
func (e *Engine) Close() error {
	log.Info("engine closing")
	return e.db.Close()
}

// CreateNodes upserts a batch of nodes.
func (e *Engine) CreateNodes(nodes []database.NodeInput) ([]database.Node, error) {
	return e.db.CreateNodes(nodes)
}

// CreateRelations upserts a batch of edges.
func (e *Engine) CreateRelations(relations []database.EdgeInput) ([]database.Edge, error) {
	return e.db.CreateRelations(relations)
}

// AddObservations appends observation content to existing nodes.
func (e *Engine) AddObservations(batch []database.ObservationBatch) ([]database.Observation, error) {
	return e.db.AddObservations(batch)
}

// DeleteNodes removes nodes by name, cascading to their edges, observations,
// and aliases.
func (e *Engine) DeleteNodes(names []string) error {
	return e.db.DeleteNodes(names)
}

// DeleteRelations removes edges matching the given keys.
func (e *Engine) DeleteRelations(keys []database.EdgeKey) error {
	return e.db.DeleteRelations(keys)
}

// GetNodeByName retrieves a node by exact name, falling back to alias
// resolution.
func (e *Engine) GetNodeByName(name string) (*database.Node, error) {
	return e.db.GetNodeByName(name)
}

// GetNodesByNames bulk-fetches nodes by primary key.
func (e *Engine) GetNodesByNames(names []string) ([]database.Node, error) {
	return e.db.GetNodesByNames(names)
}

// ResolveAlias returns the canonical name for an alias, and whether it was
// registered.
func (e *Engine) ResolveAlias(alias string) (string, bool, error) {
	canonical, err := e.db.ResolveAlias(alias)
	if err != nil {
		return "", false, err
	}
	return canonical, canonical != "", nil
}

// SearchNodes runs a full-text search over node content.
func (e *Engine) SearchNodes(query string, opts search.Options) (database.Graph, error) {
	return search.SearchNodes(e.db, query, opts)
}

// ExploreContext performs a weighted, depth-bounded neighborhood expansion
// from the given seed nodes.
func (e *Engine) ExploreContext(seeds []string, opts traversal.ExploreOptions) (database.Graph, error) {
	return traversal.ExploreContext(e.db, seeds, opts)
}

// GetTemporalSequence walks temporal relation edges from start.
func (e *Engine) GetTemporalSequence(start string, opts traversal.TemporalOptions) (database.Graph, error) {
	return traversal.GetTemporalSequence(e.db, start, opts)
}

// FindShortestPath finds the shortest (fewest-hop) path between two nodes.
func (e *Engine) FindShortestPath(from, to string, maxDepth int) (database.Graph, error) {
	return traversal.FindShortestPath(e.db, from, to, maxDepth)
}

// CreateReasoningChain constructs a chain node, its ordered steps, and the
// edges linking them.
func (e *Engine) CreateReasoningChain(chain reasoning.ChainInput, steps []reasoning.StepInput) (database.Node, error) {
	return reasoning.CreateReasoningChain(e.db, chain, steps)
}

// GetReasoningChain returns a chain's subgraph: the chain node, its ordered
// steps, and the edges among them.
func (e *Engine) GetReasoningChain(name string) (database.Graph, error) {
	return reasoning.GetReasoningChain(e.db, name)
}

// FindReasoningChains searches for chains matching topics and assembles
// each hit's subgraph.
func (e *Engine) FindReasoningChains(topics []string, limit int) (database.Graph, error) {
	return reasoning.FindReasoningChains(e.db, topics, limit)
}

// ValidateProvenance checks a node against the provenance rule for its kind.
func (e *Engine) ValidateProvenance(name string) (provenance.Result, error) {
	return provenance.Validate(e.db, name)
}

// DetectConflicts finds contradicts edges, optionally scoped to a node set.
func (e *Engine) DetectConflicts(scope []string) ([]confidence.Conflict, error) {
	return confidence.DetectConflicts(e.db, scope)
}

// ComputeEffectiveConfidence computes a node's confidence after weighting by
// its cited sources' reliability.
func (e *Engine) ComputeEffectiveConfidence(name string) (confidence.ConfidenceResult, error) {
	return confidence.ComputeEffectiveConfidence(e.db, name)
}

// AssessClaims assesses a set of claim-bearing nodes for conflicts and
// confidence.
func (e *Engine) AssessClaims(query string, names []string) (confidence.ClaimAssessment, error) {
	return confidence.AssessClaims(e.db, query, names)
}

// Stats returns lifecycle/diagnostic statistics, used by the CLI's doctor
// command.
func (e *Engine) Stats() (*database.Stats, error) {
	return e.db.GetStats()
}
