package database

import (
	"encoding/json"
	"fmt"
	"strings"
)

// encodedNode is the set of fixed-column values plus the serialized
// properties/search_text blobs that encodeNode produces from a NodeInput.
type encodedNode struct {
	content     string
	confidence  *float64
	status      string
	properties  string
	searchText  string
}

// encodeNode splits a typed node input into fixed columns and a structured
// properties blob, synthesizing search_text along the way. This is the sole
// place fallback semantics (content/thoughtContent, confidence/confidenceScore)
// are applied.
func encodeNode(in NodeInput) (encodedNode, error) {
	content := in.Content
	if content == "" {
		if v, ok := stringProp(in.Properties, "thoughtContent"); ok {
			content = v
		}
	}

	confidence := in.Confidence
	if confidence == nil {
		if v, ok := floatProp(in.Properties, "confidenceScore"); ok {
			confidence = &v
		}
	}

	props := in.Properties
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return encodedNode{}, fmt.Errorf("failed to encode node properties: %w", err)
	}

	parts := []string{in.Name, in.Description, in.Statement, content}
	for _, key := range []string{"thoughtContent", "definition", "hypothesis", "conclusion"} {
		if v, ok := stringProp(props, key); ok {
			parts = append(parts, v)
		}
	}
	searchText := strings.Join(filterNonEmpty(parts), " ")

	return encodedNode{
		content:    content,
		confidence: confidence,
		status:     StatusForConfidence(confidence),
		properties: string(propsJSON),
		searchText: searchText,
	}, nil
}

// decodeProperties parses a stored properties blob back into a map.
func decodeProperties(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("failed to decode node properties: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// encodeEdgeProperties serializes an edge's structured properties blob.
func encodeEdgeProperties(props map[string]any) (string, error) {
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to encode edge properties: %w", err)
	}
	return string(raw), nil
}

func stringProp(props map[string]any, key string) (string, bool) {
	v, ok := props[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func floatProp(props map[string]any, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func filterNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
