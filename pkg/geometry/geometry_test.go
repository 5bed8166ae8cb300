package geometry

import (
	"testing"

	"github.com/oceanic-charts/s57/pkg/primitive"
	"github.com/oceanic-charts/s57/pkg/warning"
)

func TestBuildGeometryEmptyPointerList(t *testing.T) {
	w := warning.NewCollector()
	a := NewAssembler(primitive.NewStore(), w)
	g := a.BuildGeometry(nil, nil)
	if g.Type != Point || len(g.Rings) != 1 || g.Rings[0][0] != (Coordinate{0, 0}) {
		t.Fatalf("expected synthetic origin point, got %+v", g)
	}
	if len(w.FilterByCode(warning.CodeEmptySpatialPointer)) != 1 {
		t.Fatal("expected empty spatial pointer warning")
	}
}

func TestBuildGeometrySingleMissingNode(t *testing.T) {
	w := warning.NewCollector()
	a := NewAssembler(primitive.NewStore(), w)
	g := a.BuildGeometry([]SpatialPointer{{RefID: 5, IsEdge: false}}, nil)
	if g.Type != Point || g.Rings[0][0] != (Coordinate{0, 0}) {
		t.Fatalf("expected synthetic origin point for missing node, got %+v", g)
	}
	if len(w.FilterByCode(warning.CodeMissingNode)) != 1 {
		t.Fatal("expected missing node warning")
	}
}

func TestBuildGeometryDegenerateEdgeFallsBackToLine(t *testing.T) {
	store := primitive.NewStore()
	store.AddEdge(primitive.Edge{ID: 1, Nodes: []primitive.Node{{ID: 10, X: 0, Y: 0}, {ID: 11, X: 10, Y: 0}}})
	store.AddEdge(primitive.Edge{ID: 999}) // degenerate: zero nodes

	w := warning.NewCollector()
	a := NewAssembler(store, w)
	g := a.BuildGeometry([]SpatialPointer{{RefID: 999, IsEdge: true}, {RefID: 1, IsEdge: true}}, nil)

	if g.Type != Line {
		t.Fatalf("expected line geometry, got %v", g.Type)
	}
	want := []Coordinate{{0, 0}, {10, 0}}
	if len(g.Rings) != 1 || len(g.Rings[0]) != 2 || g.Rings[0][0] != want[0] || g.Rings[0][1] != want[1] {
		t.Fatalf("expected coords %v, got %v", want, g.Rings)
	}
	degenerate := w.FilterByCode(warning.CodeDegenerateEdge)
	if len(degenerate) != 1 {
		t.Fatalf("expected one degenerate edge warning, got %d", len(degenerate))
	}
}

func TestBuildGeometryEdgeTraversalDedupesSharedEndpoint(t *testing.T) {
	store := primitive.NewStore()
	store.AddEdge(primitive.Edge{ID: 1, Nodes: []primitive.Node{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1, Y: 0}}})
	store.AddEdge(primitive.Edge{ID: 2, Nodes: []primitive.Node{{ID: 2, X: 1, Y: 0}, {ID: 3, X: 1, Y: 1}}})

	a := NewAssembler(store, warning.NewCollector())
	g := a.BuildGeometry([]SpatialPointer{{RefID: 1, IsEdge: true}, {RefID: 2, IsEdge: true}}, nil)

	if len(g.Rings[0]) != 3 {
		t.Fatalf("expected shared endpoint de-duplicated to 3 coords, got %d: %v", len(g.Rings[0]), g.Rings[0])
	}
}

func TestBuildGeometryClosedRingIsArea(t *testing.T) {
	store := primitive.NewStore()
	store.AddEdge(primitive.Edge{ID: 1, Nodes: []primitive.Node{
		{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1, Y: 0}, {ID: 3, X: 1, Y: 1}, {ID: 4, X: 0, Y: 1}, {ID: 5, X: 0, Y: 0},
	}})
	a := NewAssembler(store, warning.NewCollector())
	g := a.BuildGeometry([]SpatialPointer{{RefID: 1, IsEdge: true}}, nil)
	if g.Type != Area {
		t.Fatalf("expected area geometry for closed ring, got %v", g.Type)
	}
}

func TestDetectSelfIntersectionBowTie(t *testing.T) {
	ring := []Coordinate{{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0}}
	if !DetectSelfIntersection(ring) {
		t.Fatal("expected bow-tie polygon to self-intersect")
	}
}

func TestDetectSelfIntersectionSimpleSquare(t *testing.T) {
	ring := []Coordinate{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	if DetectSelfIntersection(ring) {
		t.Fatal("expected simple square to not self-intersect")
	}
}

func TestDetectSelfIntersectionCollinearVertices(t *testing.T) {
	ring := []Coordinate{{0, 0}, {0.5, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	if DetectSelfIntersection(ring) {
		t.Fatal("expected collinear vertices to not count as self-intersection")
	}
}

func TestValidatorEmitsWarningPerRing(t *testing.T) {
	w := warning.NewCollector()
	v := NewValidator(w)
	g := Geometry{Type: Area, Rings: [][]Coordinate{{{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0}}}}
	result := v.Validate(g, true, nil)
	if len(result.SelfIntersectingRings) != 1 || result.SelfIntersectingRings[0] != 0 {
		t.Fatalf("expected ring 0 flagged, got %v", result.SelfIntersectingRings)
	}
	if len(w.FilterByCode(warning.CodeSelfIntersection)) != 1 {
		t.Fatal("expected one self_intersection warning")
	}
}
