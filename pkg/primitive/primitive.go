// Package primitive holds the node/edge arena a parsed chart's geometry
// is built from: an append-only store keyed by primitive identifier, with
// its own warning buffer so geometry assembly can be exercised in
// isolation from a full parse.
package primitive

import (
	"fmt"

	"github.com/oceanic-charts/s57/pkg/warning"
)

// Node is a point primitive. X is longitude, Y is latitude, already
// divided by the chart's COMF.
type Node struct {
	ID int64
	X  float64
	Y  float64
}

// Edge is an ordered node sequence primitive.
type Edge struct {
	ID    int64
	Nodes []Node
}

// IsDegenerate reports whether the edge has fewer than two nodes and so
// contributes no geometry on its own.
func (e Edge) IsDegenerate() bool {
	return len(e.Nodes) < 2
}

// Store is the primitive arena for one parsed dataset: two id-keyed
// mappings plus an isolated warning buffer.
type Store struct {
	nodes    map[int64]Node
	edges    map[int64]Edge
	warnings *warning.Collector
}

// NewStore builds an empty Store with its own warning collector.
func NewStore() *Store {
	return &Store{
		nodes:    map[int64]Node{},
		edges:    map[int64]Edge{},
		warnings: warning.NewCollector(),
	}
}

// Warnings returns the store's isolated warning collector. The parser
// merges this into its main collector at end-of-parse.
func (s *Store) Warnings() *warning.Collector {
	return s.warnings
}

// AddNode registers a node by id. A duplicate id is overwritten
// (last write wins) and emits a warning.
func (s *Store) AddNode(n Node) {
	if _, exists := s.nodes[n.ID]; exists {
		id := n.ID
		_ = s.warnings.Warn(warning.CodeDuplicatePrimitive, warning.SeverityWarning,
			fmt.Sprintf("duplicate node id %d overwritten", n.ID), &id, nil)
	}
	s.nodes[n.ID] = n
}

// AddEdge registers an edge by id. A duplicate id is overwritten
// (last write wins) and emits a warning.
func (s *Store) AddEdge(e Edge) {
	if _, exists := s.edges[e.ID]; exists {
		id := e.ID
		_ = s.warnings.Warn(warning.CodeDuplicatePrimitive, warning.SeverityWarning,
			fmt.Sprintf("duplicate edge id %d overwritten", e.ID), &id, nil)
	}
	s.edges[e.ID] = e
}

// Node looks up a node by id.
func (s *Store) Node(id int64) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Edge looks up an edge by id.
func (s *Store) Edge(id int64) (Edge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// NodeCount returns the number of registered nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of registered edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// DeleteNode removes a node by id, reporting whether it was present.
func (s *Store) DeleteNode(id int64) bool {
	_, ok := s.nodes[id]
	delete(s.nodes, id)
	return ok
}

// DeleteEdge removes an edge by id, reporting whether it was present.
func (s *Store) DeleteEdge(id int64) bool {
	_, ok := s.edges[id]
	delete(s.edges, id)
	return ok
}

// Clone returns an independent copy of the store's node and edge
// mappings, sharing no backing map with the original. Used by the
// update processor so applying updates never mutates a prior parse's
// store.
func (s *Store) Clone() *Store {
	clone := &Store{
		nodes:    make(map[int64]Node, len(s.nodes)),
		edges:    make(map[int64]Edge, len(s.edges)),
		warnings: warning.NewCollector(),
	}
	for id, n := range s.nodes {
		clone.nodes[id] = n
	}
	for id, e := range s.edges {
		clone.edges[id] = e
	}
	return clone
}
