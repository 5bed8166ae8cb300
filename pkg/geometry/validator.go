package geometry

import (
	"fmt"

	"github.com/oceanic-charts/s57/pkg/warning"
)

// ValidationResult reports which rings (by index) were found to
// self-intersect.
type ValidationResult struct {
	SelfIntersectingRings []int
}

// Validator checks assembled geometry for defects beyond what the
// assembler itself can detect, currently limited to self-intersection.
type Validator struct {
	warnings *warning.Collector
}

// NewValidator builds a Validator routing defects to warnings.
func NewValidator(warnings *warning.Collector) *Validator {
	return &Validator{warnings: warnings}
}

// Validate checks g for self-intersection when checkSelfIntersection is
// true. One warning is emitted per offending ring, carrying the ring
// index in its message.
func (v *Validator) Validate(g Geometry, checkSelfIntersection bool, featureID *int64) ValidationResult {
	var result ValidationResult
	if !checkSelfIntersection {
		return result
	}
	for ringIdx, ring := range g.Rings {
		if DetectSelfIntersection(ring) {
			result.SelfIntersectingRings = append(result.SelfIntersectingRings, ringIdx)
			if v.warnings != nil {
				_ = v.warnings.Warn(warning.CodeSelfIntersection, warning.SeverityWarning,
					fmt.Sprintf("self-intersecting ring %d", ringIdx), nil, featureID)
			}
		}
	}
	return result
}

// DetectSelfIntersection reports whether any two non-adjacent segments of
// the ring properly cross. Adjacent segments (sharing an endpoint) and
// collinear overlaps without a crossing are not intersections.
func DetectSelfIntersection(ring []Coordinate) bool {
	n := len(ring)
	if n < 4 {
		return false
	}
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n-1; j++ {
			if adjacent(i, j, n) {
				continue
			}
			if segmentsProperlyIntersect(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

func adjacent(i, j, n int) bool {
	if j == i+1 {
		return true
	}
	// Wraparound: the last edge (n-2 -> n-1, which duplicates point 0 for
	// a closed ring) is adjacent to the first edge (0 -> 1).
	if i == 0 && j == n-2 {
		return true
	}
	return false
}

func segmentsProperlyIntersect(p1, p2, p3, p4 Coordinate) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func direction(a, b, c Coordinate) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (b.X-a.X)*(c.Y-a.Y)
}
