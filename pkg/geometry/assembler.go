package geometry

import (
	"fmt"

	"github.com/oceanic-charts/s57/pkg/primitive"
	"github.com/oceanic-charts/s57/pkg/warning"
)

// Assembler resolves spatial pointers into Geometry through a primitive
// store, emitting warnings for missing or degenerate primitives rather
// than failing.
type Assembler struct {
	store    *primitive.Store
	warnings *warning.Collector
}

// NewAssembler builds an Assembler over the given primitive store,
// routing defects to warnings.
func NewAssembler(store *primitive.Store, warnings *warning.Collector) *Assembler {
	return &Assembler{store: store, warnings: warnings}
}

// BuildGeometry implements the traversal described in 4.F: empty pointer
// lists and unresolvable single nodes fall back to a synthetic point at
// the origin; edges are walked in order, reversed when requested, with
// shared endpoints between consecutive edges de-duplicated; the result's
// type is inferred from the final coordinate count and closure.
func (a *Assembler) BuildGeometry(pointers []SpatialPointer, featureID *int64) Geometry {
	if len(pointers) == 0 {
		a.warn(warning.CodeEmptySpatialPointer, "Empty spatial pointer list", featureID)
		return pointGeometry(0, 0)
	}

	if len(pointers) == 1 && !pointers[0].IsEdge {
		node, ok := a.store.Node(pointers[0].RefID)
		if !ok {
			a.warn(warning.CodeMissingNode, fmt.Sprintf("Missing node %d", pointers[0].RefID), featureID)
			return pointGeometry(0, 0)
		}
		return pointGeometry(node.X, node.Y)
	}

	var coords []Coordinate
	for _, p := range pointers {
		if !p.IsEdge {
			node, ok := a.store.Node(p.RefID)
			if !ok {
				a.warn(warning.CodeMissingNode, fmt.Sprintf("Missing node %d", p.RefID), featureID)
				continue
			}
			appendDeduped(&coords, Coordinate{X: node.X, Y: node.Y})
			continue
		}

		edge, ok := a.store.Edge(p.RefID)
		if !ok {
			a.warn(warning.CodeMissingEdge, fmt.Sprintf("Missing edge %d", p.RefID), featureID)
			continue
		}
		if edge.IsDegenerate() {
			a.warn(warning.CodeDegenerateEdge, fmt.Sprintf("Degenerate edge %d with %d nodes", p.RefID, len(edge.Nodes)), featureID)
			continue
		}
		nodes := edge.Nodes
		if p.Reverse {
			nodes = reversedNodes(nodes)
		}
		for _, n := range nodes {
			appendDeduped(&coords, Coordinate{X: n.X, Y: n.Y})
		}
	}

	switch len(coords) {
	case 0:
		if c, ok := a.firstResolvableCoordinate(pointers); ok {
			return pointGeometry(c.X, c.Y)
		}
		return pointGeometry(0, 0)
	case 1:
		return pointGeometry(coords[0].X, coords[0].Y)
	default:
		if coords[0] == coords[len(coords)-1] {
			return Geometry{Type: Area, Rings: [][]Coordinate{coords}}
		}
		return Geometry{Type: Line, Rings: [][]Coordinate{coords}}
	}
}

// firstResolvableCoordinate is the fallback source when every pointer in
// the list failed to resolve any coordinate: the first non-degenerate
// edge's first node, or the first resolvable bare node.
func (a *Assembler) firstResolvableCoordinate(pointers []SpatialPointer) (Coordinate, bool) {
	for _, p := range pointers {
		if p.IsEdge {
			if e, ok := a.store.Edge(p.RefID); ok && !e.IsDegenerate() {
				return Coordinate{X: e.Nodes[0].X, Y: e.Nodes[0].Y}, true
			}
			continue
		}
		if n, ok := a.store.Node(p.RefID); ok {
			return Coordinate{X: n.X, Y: n.Y}, true
		}
	}
	return Coordinate{}, false
}

func appendDeduped(coords *[]Coordinate, c Coordinate) {
	if n := len(*coords); n > 0 && (*coords)[n-1] == c {
		return
	}
	*coords = append(*coords, c)
}

func reversedNodes(nodes []primitive.Node) []primitive.Node {
	out := make([]primitive.Node, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}

func pointGeometry(x, y float64) Geometry {
	return Geometry{Type: Point, Rings: [][]Coordinate{{{X: x, Y: y}}}}
}

func (a *Assembler) warn(code, message string, featureID *int64) {
	if a.warnings == nil {
		return
	}
	_ = a.warnings.Warn(code, warning.SeverityWarning, message, nil, featureID)
}
