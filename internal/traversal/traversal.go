// Package traversal implements graph expansion over the stored node/edge
// set: weighted neighborhoods, temporal chains, and shortest paths.
package traversal

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/graphmemory/kgstore/internal/database"
	"github.com/graphmemory/kgstore/internal/logging"
)

var log = logging.GetLogger("traversal")

// ExploreOptions configures ExploreContext.
type ExploreOptions struct {
	MaxDepth     int
	MinWeight    float64
	IncludeTypes []string
}

const defaultMaxDepth = 2

// ExploreContext performs a breadth-first, weight-pruned expansion from the
// seed nodes, treating edges as undirected. Grounded on the teacher's
// GetGraph BFS loop, generalized with a weight predicate and depth bound.
func ExploreContext(db *database.Database, seeds []string, opts ExploreOptions) (database.Graph, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	visited := make(map[string]int, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := visited[s]; !ok {
			visited[s] = 0
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		depth := visited[current]
		if depth >= maxDepth {
			continue
		}

		edges, err := neighborEdges(db, current)
		if err != nil {
			return database.Graph{}, err
		}

		for _, e := range edges {
			if coalesceWeight(e.Weight) < opts.MinWeight {
				continue
			}
			other := e.To
			if e.To == current {
				other = e.From
			}
			if _, seen := visited[other]; !seen {
				visited[other] = depth + 1
				queue = append(queue, other)
			}
		}
	}

	names := make([]string, 0, len(visited))
	for name := range visited {
		names = append(names, name)
	}

	nodes, err := db.GetNodesByNames(names)
	if err != nil {
		return database.Graph{}, err
	}
	nodes = filterByType(nodes, opts.IncludeTypes)

	keptNames := make([]string, len(nodes))
	for i, n := range nodes {
		keptNames[i] = n.Name
	}

	relations, err := db.EdgesAmong(keptNames)
	if err != nil {
		return database.Graph{}, err
	}

	log.Debug("explored context", "seeds", len(seeds), "reached", len(nodes), "max_depth", maxDepth)
	return database.Graph{Entities: nodes, Relations: relations}, nil
}

// neighborEdges returns every edge touching name, in either direction.
func neighborEdges(db *database.Database, name string) ([]database.Edge, error) {
	outgoing, err := db.EdgesFrom(name, "")
	if err != nil {
		return nil, err
	}
	incoming, err := db.EdgesTo(name, "")
	if err != nil {
		return nil, err
	}
	return append(outgoing, incoming...), nil
}

// coalesceWeight returns the stored weight as-is: the weight column is NOT
// NULL and an unspecified weight is already stored as DefaultEdgeWeight at
// write time, so an explicit 0 stays 0.
func coalesceWeight(w float64) float64 {
	return w
}

func filterByType(nodes []database.Node, types []string) []database.Node {
	if len(types) == 0 {
		return nodes
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	out := make([]database.Node, 0, len(nodes))
	for _, n := range nodes {
		if allowed[n.NodeType] {
			out = append(out, n)
		}
	}
	return out
}

// TemporalOptions configures GetTemporalSequence.
type TemporalOptions struct {
	Direction string // "forward", "backward", or "both" (default)
	MaxEvents int
}

const defaultMaxEvents = 10

// GetTemporalSequence walks temporal relation edges from start: forward
// follows from->to, backward follows to->from, both merges forward first
// then backward (forward wins on name conflict).
func GetTemporalSequence(db *database.Database, start string, opts TemporalOptions) (database.Graph, error) {
	maxEvents := opts.MaxEvents
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	direction := opts.Direction
	if direction == "" {
		direction = "both"
	}

	reached := map[string]bool{start: true}
	order := []string{start}

	if direction == "forward" || direction == "both" {
		walkTemporal(db, start, true, maxEvents, reached, &order)
	}
	if direction == "backward" || direction == "both" {
		walkTemporal(db, start, false, maxEvents, reached, &order)
	}

	nodes, err := db.GetNodesByNames(order)
	if err != nil {
		return database.Graph{}, err
	}
	relations, err := db.EdgesAmong(order)
	if err != nil {
		return database.Graph{}, err
	}

	return database.Graph{Entities: nodes, Relations: relations}, nil
}

func walkTemporal(db *database.Database, start string, forward bool, maxEvents int, reached map[string]bool, order *[]string) {
	current := start
	for i := 0; i < maxEvents; i++ {
		var edges []database.Edge
		var err error
		if forward {
			edges, err = db.EdgesFrom(current, "")
		} else {
			edges, err = db.EdgesTo(current, "")
		}
		if err != nil {
			log.Warn("failed to walk temporal edges", "error", err, "node", current)
			return
		}

		var next string
		for _, e := range edges {
			if !database.IsTemporalRelationType(e.RelationType) {
				continue
			}
			candidate := e.To
			if !forward {
				candidate = e.From
			}
			if !reached[candidate] {
				next = candidate
				break
			}
		}
		if next == "" {
			return
		}
		reached[next] = true
		*order = append(*order, next)
		current = next
	}
}

const defaultShortestPathDepth = 6

// FindShortestPath materializes the candidate node/edge set reachable
// within maxDepth hops into a transient dominikbraun/graph graph (every
// edge inserted in both directions, uniform weight 1) and asks it for the
// shortest path, so hop count - not stored edge weight - is minimized.
func FindShortestPath(db *database.Database, from, to string, maxDepth int) (database.Graph, error) {
	if maxDepth <= 0 {
		maxDepth = defaultShortestPathDepth
	}

	names, edges, err := collectReachable(db, from, maxDepth)
	if err != nil {
		return database.Graph{}, err
	}
	if !names[to] {
		return database.Graph{}, nil
	}

	g := graph.New(graph.StringHash, graph.Directed())
	for name := range names {
		if err := g.AddVertex(name); err != nil && err != graph.ErrVertexAlreadyExists {
			return database.Graph{}, fmt.Errorf("failed to add vertex %q: %w", name, err)
		}
	}
	seen := map[string]bool{}
	for _, e := range edges {
		for _, pair := range [][2]string{{e.From, e.To}, {e.To, e.From}} {
			key := pair[0] + "\x00" + pair[1]
			if seen[key] {
				continue
			}
			seen[key] = true
			if err := g.AddEdge(pair[0], pair[1], graph.EdgeWeight(1)); err != nil && err != graph.ErrEdgeAlreadyExists {
				return database.Graph{}, fmt.Errorf("failed to add edge %s->%s: %w", pair[0], pair[1], err)
			}
		}
	}

	path, err := graph.ShortestPath(g, from, to)
	if err != nil {
		log.Debug("no shortest path found", "from", from, "to", to, "error", err)
		return database.Graph{}, nil
	}

	nodes, err := db.GetNodesByNames(path)
	if err != nil {
		return database.Graph{}, err
	}
	relations, err := db.EdgesAmong(path)
	if err != nil {
		return database.Graph{}, err
	}

	log.Debug("found shortest path", "from", from, "to", to, "hops", len(path)-1)
	return database.Graph{Entities: nodes, Relations: relations}, nil
}

// collectReachable does a plain undirected BFS from `from`, bounded by
// maxDepth, recording every node name reached and every edge seen, pruning
// any path that would revisit a name already visited.
func collectReachable(db *database.Database, from string, maxDepth int) (map[string]bool, []database.Edge, error) {
	visited := map[string]bool{from: true}
	queue := []string{from}
	depth := map[string]int{from: 0}
	var edges []database.Edge
	edgeKeys := map[string]bool{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if depth[current] >= maxDepth {
			continue
		}

		touching, err := neighborEdges(db, current)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range touching {
			key := strings.Join([]string{e.From, e.To, e.RelationType}, "\x00")
			if !edgeKeys[key] {
				edgeKeys[key] = true
				edges = append(edges, e)
			}
			other := e.To
			if e.To == current {
				other = e.From
			}
			if !visited[other] {
				visited[other] = true
				depth[other] = depth[current] + 1
				queue = append(queue, other)
			}
		}
	}

	return visited, edges, nil
}
