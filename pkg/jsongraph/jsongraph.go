// Package jsongraph parses every embedded JSON-LD block on a page exactly
// once and indexes the resulting schema nodes by declared @type. Downstream
// consumers read only from this index and never re-parse script bodies.
package jsongraph

import (
	"encoding/json"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

// Node is one discrete typed object from a structured-data block.
type Node map[string]any

// Graph maps a declared @type name to the nodes carrying that type.
// A node declaring multiple types is indexed under every one of them.
type Graph map[string][]Node

// Parse collects all application/ld+json scripts from doc in a single
// traversal. Malformed blocks are skipped per-block: one bad script never
// discards the rest of the page. Parsing the same document twice yields
// the same index.
func Parse(doc *goquery.Document, logger *slog.Logger) Graph {
	graph := Graph{}
	var total, skipped int

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		raw := s.Text()
		if raw == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			skipped++
			logger.Debug("skipping malformed structured-data block",
				"reason", "json_decode_error", "block_index", i)
			return
		}

		for _, node := range flatten(data) {
			total++
			for _, t := range nodeTypes(node) {
				graph[t] = append(graph[t], node)
			}
		}
	})

	if total > 0 {
		typeCounts := make(map[string]int, len(graph))
		for t, nodes := range graph {
			typeCounts[t] = len(nodes)
		}
		logger.Debug("structured-data graph built",
			"total_nodes", total, "types_found", typeCounts, "blocks_skipped", skipped)
	}

	return graph
}

// flatten unwraps @graph containers and arrays into individual schema nodes.
// A dict carrying both @graph and its own @type contributes both.
func flatten(data any) []Node {
	var nodes []Node

	switch v := data.(type) {
	case map[string]any:
		if members, ok := v["@graph"].([]any); ok {
			for _, m := range members {
				nodes = append(nodes, flatten(m)...)
			}
		}
		if _, ok := v["@type"]; ok {
			nodes = append(nodes, Node(v))
		}
	case []any:
		for _, item := range v {
			nodes = append(nodes, flatten(item)...)
		}
	}

	return nodes
}

// nodeTypes returns every type name a node declares.
func nodeTypes(node Node) []string {
	switch t := node["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Nodes returns the nodes indexed under typeName.
func (g Graph) Nodes(typeName string) []Node {
	return g[typeName]
}

// HasType reports whether any node of typeName was found.
func (g Graph) HasType(typeName string) bool {
	return len(g[typeName]) > 0
}

// String returns a node field as a trimmed string if it is one.
func (n Node) String(key string) string {
	if s, ok := n[key].(string); ok {
		return s
	}
	return ""
}
