// Package reasoning assembles and retrieves reasoning-chain subgraphs:
// a ReasoningChain node, its ordered ReasoningStep nodes, and the edges
// linking them together.
package reasoning

import (
	"fmt"

	"github.com/graphmemory/kgstore/internal/database"
	"github.com/graphmemory/kgstore/internal/logging"
	"github.com/graphmemory/kgstore/internal/search"
)

var log = logging.GetLogger("reasoning")

// StepType enumerates the recognized reasoning step roles.
type StepType string

const (
	StepPremise        StepType = "premise"
	StepInference      StepType = "inference"
	StepEvidence       StepType = "evidence"
	StepCounterargument StepType = "counterargument"
	StepRebuttal       StepType = "rebuttal"
	StepConclusion     StepType = "conclusion"
)

// ChainInput is the caller-supplied shape for a reasoning chain's own node.
type ChainInput struct {
	Name                             string
	Description                      string
	Conclusion                       string
	ConfidenceScore                  *float64
	Methodology                      string
	Domain                           string
	Tags                             []string
	SourceThought                    string
}

// StepInput is the caller-supplied shape for one reasoning step.
type StepInput struct {
	Content                 string
	StepType                StepType
	StepNumber              int
	Confidence              *float64
	EvidenceType            string
	SupportingReferences    []string
	Alternatives            []string
	Counterarguments        []string
	Assumptions             []string
	FormalNotation          string
}

const defaultMethodology = "mixed"

// stepName derives the deterministic, idempotent node name for a step of a
// chain: re-running CreateReasoningChain with the same name/step count
// upserts the same step nodes rather than accumulating orphans.
func stepName(chainName string, stepNumber int) string {
	return fmt.Sprintf("%s::step::%d", chainName, stepNumber)
}

// CreateReasoningChain upserts the chain node, one step node per input, and
// the HAS_STEP / NEXT / DERIVED_FROM edges linking them.
func CreateReasoningChain(db *database.Database, chain ChainInput, steps []StepInput) (database.Node, error) {
	methodology := chain.Methodology
	if methodology == "" {
		methodology = defaultMethodology
	}

	chainProps := map[string]any{
		"conclusion":   chain.Conclusion,
		"methodology":  methodology,
		"domain":       chain.Domain,
		"tags":         chain.Tags,
		"numberOfSteps": len(steps),
	}
	if chain.SourceThought != "" {
		chainProps["sourceThought"] = chain.SourceThought
	}
	if chain.ConfidenceScore != nil {
		chainProps["confidenceScore"] = *chain.ConfidenceScore
	}

	nodes := []database.NodeInput{{
		Name:        chain.Name,
		NodeType:    string(database.NodeReasoningChain),
		Description: chain.Description,
		Confidence:  chain.ConfidenceScore,
		Properties:  chainProps,
	}}

	for _, s := range steps {
		nodes = append(nodes, database.NodeInput{
			Name:       stepName(chain.Name, s.StepNumber),
			NodeType:   string(database.NodeReasoningStep),
			Content:    s.Content,
			Confidence: s.Confidence,
			Properties: map[string]any{
				"stepType":             string(s.StepType),
				"stepNumber":           s.StepNumber,
				"evidenceType":         s.EvidenceType,
				"supportingReferences": s.SupportingReferences,
				"alternatives":         s.Alternatives,
				"counterarguments":     s.Counterarguments,
				"assumptions":          s.Assumptions,
				"formalNotation":       s.FormalNotation,
				"chainName":            chain.Name,
			},
		})
	}

	created, err := db.CreateNodes(nodes)
	if err != nil {
		return database.Node{}, fmt.Errorf("failed to create reasoning chain nodes: %w", err)
	}

	var edges []database.EdgeInput
	for _, s := range steps {
		hasStepWeight := 1.0
		edges = append(edges, database.EdgeInput{
			From: chain.Name, To: stepName(chain.Name, s.StepNumber),
			RelationType: "HAS_STEP", Weight: &hasStepWeight,
		})
	}
	for i := 0; i+1 < len(steps); i++ {
		nextWeight := 0.8
		edges = append(edges, database.EdgeInput{
			From: stepName(chain.Name, steps[i].StepNumber),
			To:   stepName(chain.Name, steps[i+1].StepNumber),
			RelationType: "NEXT", Weight: &nextWeight,
		})
	}
	if chain.SourceThought != "" {
		derivedWeight := 0.9
		edges = append(edges, database.EdgeInput{
			From: chain.Name, To: chain.SourceThought,
			RelationType: "DERIVED_FROM", Weight: &derivedWeight,
		})
	}

	if len(edges) > 0 {
		if _, err := db.CreateRelations(edges); err != nil {
			return database.Node{}, fmt.Errorf("failed to link reasoning chain: %w", err)
		}
	}

	log.Info("created reasoning chain", "name", chain.Name, "steps", len(steps))

	for _, n := range created {
		if n.Name == chain.Name {
			return n, nil
		}
	}
	return created[0], nil
}

// GetReasoningChain returns the chain node, its steps ordered by
// stepNumber, and every edge among those nodes.
func GetReasoningChain(db *database.Database, name string) (database.Graph, error) {
	chain, err := db.GetNodeByName(name)
	if err != nil {
		return database.Graph{}, err
	}
	if chain == nil {
		return database.Graph{}, nil
	}

	outgoing, err := db.EdgesFrom(name, "HAS_STEP")
	if err != nil {
		return database.Graph{}, err
	}

	stepNames := make([]string, 0, len(outgoing))
	for _, e := range outgoing {
		stepNames = append(stepNames, e.To)
	}

	steps, err := db.GetNodesByNames(stepNames)
	if err != nil {
		return database.Graph{}, err
	}
	sortStepsByNumber(steps)

	allNames := append([]string{name}, stepNames...)
	relations, err := db.EdgesAmong(allNames)
	if err != nil {
		return database.Graph{}, err
	}

	entities := append([]database.Node{*chain}, steps...)
	return database.Graph{Entities: entities, Relations: relations}, nil
}

func sortStepsByNumber(steps []database.Node) {
	for i := 1; i < len(steps); i++ {
		for j := i; j > 0 && stepNumberOf(steps[j-1]) > stepNumberOf(steps[j]); j-- {
			steps[j-1], steps[j] = steps[j], steps[j-1]
		}
	}
}

func stepNumberOf(n database.Node) int {
	if v, ok := n.Properties["stepNumber"]; ok {
		switch t := v.(type) {
		case float64:
			return int(t)
		case int:
			return t
		}
	}
	return 0
}

const defaultChainSearchLimit = 3

// FindReasoningChains runs an FTS search restricted to ReasoningChain nodes
// over the joined topic string, assembling each hit's full chain and
// deduplicating entities by name and relations by key.
func FindReasoningChains(db *database.Database, topics []string, limit int) (database.Graph, error) {
	if limit <= 0 {
		limit = defaultChainSearchLimit
	}

	query := ""
	for i, t := range topics {
		if i > 0 {
			query += " "
		}
		query += t
	}

	matches, err := search.SearchNodes(db, query, search.Options{
		NodeTypes: []string{string(database.NodeReasoningChain)},
		Limit:     limit,
	})
	if err != nil {
		return database.Graph{}, err
	}

	seenNodes := map[string]database.Node{}
	seenEdges := map[string]database.Edge{}

	for _, chainNode := range matches.Entities {
		g, err := GetReasoningChain(db, chainNode.Name)
		if err != nil {
			return database.Graph{}, err
		}
		for _, n := range g.Entities {
			seenNodes[n.Name] = n
		}
		for _, e := range g.Relations {
			seenEdges[e.From+"\x00"+e.To+"\x00"+e.RelationType] = e
		}
	}

	entities := make([]database.Node, 0, len(seenNodes))
	for _, n := range seenNodes {
		entities = append(entities, n)
	}
	relations := make([]database.Edge, 0, len(seenEdges))
	for _, e := range seenEdges {
		relations = append(relations, e)
	}

	return database.Graph{Entities: entities, Relations: relations}, nil
}
