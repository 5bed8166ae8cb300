package s57

import (
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"
)

// minRectDimension keeps point features from collapsing rtreego's
// bounding rectangles to zero area, which it rejects.
const minRectDimension = 0.0001

// indexedFeature adapts a *Feature to rtreego.Spatial for indexing.
type indexedFeature struct {
	feature *Feature
	bounds  Bounds
}

func (i *indexedFeature) Bounds() rtreego.Rect {
	width := i.bounds.East - i.bounds.West
	height := i.bounds.North - i.bounds.South
	if width < minRectDimension {
		width = minRectDimension
	}
	if height < minRectDimension {
		height = minRectDimension
	}
	point := rtreego.Point{i.bounds.West, i.bounds.South}
	rect, err := rtreego.NewRect(point, []float64{width, height})
	if err != nil {
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0}, []float64{minRectDimension, minRectDimension})
	}
	return rect
}

// spatialIndex wraps an rtreego.Rtree of indexed features, built once per
// ParsedData and never mutated afterward. Queries resolve individual
// features within one parsed cell.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

func buildSpatialIndex(features []*Feature) *spatialIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, f := range features {
		b, ok := boundsOf(f.Coordinates)
		if !ok {
			continue
		}
		tree.Insert(&indexedFeature{feature: f, bounds: b})
	}
	return &spatialIndex{rtree: tree}
}

// queryBounds returns features with at least one coordinate inside b.
func (idx *spatialIndex) queryBounds(b Bounds) []*Feature {
	width := b.East - b.West
	height := b.North - b.South
	if width < minRectDimension {
		width = minRectDimension
	}
	if height < minRectDimension {
		height = minRectDimension
	}
	point := rtreego.Point{b.West, b.South}
	rect, err := rtreego.NewRect(point, []float64{width, height})
	if err != nil {
		return nil
	}
	hits := idx.rtree.SearchIntersect(rect)
	out := make([]*Feature, 0, len(hits))
	for _, h := range hits {
		feat := h.(*indexedFeature).feature
		if featureContainsBounds(feat, b) {
			out = append(out, feat)
		}
	}
	return out
}

// FindFilters parameterizes FindFeatures: missing/empty Types applies no
// type filter; Bounds, when non-nil, requires at least one coordinate
// inside it; TextQuery, when non-empty, is a case-insensitive substring
// match against the OBJNAM attribute. Limit is applied after all other
// filters.
type FindFilters struct {
	Types     []string
	Bounds    *Bounds
	TextQuery string
	Limit     int
}

// FindFeatures returns features matching all supplied filters, ordered
// deterministically by ascending RecordID.
func (p *ParsedData) FindFeatures(filters FindFilters) []*Feature {
	candidates := p.features
	if filters.Bounds != nil {
		candidates = p.index.queryBounds(*filters.Bounds)
	}

	typeSet := map[string]bool{}
	for _, t := range filters.Types {
		typeSet[strings.ToUpper(t)] = true
	}

	matched := lo.Filter(candidates, func(f *Feature, _ int) bool {
		if len(typeSet) > 0 && !typeSet[strings.ToUpper(f.FeatureType.Acronym)] {
			return false
		}
		if filters.TextQuery != "" {
			objnam, ok := f.Attributes["OBJNAM"]
			if !ok {
				return false
			}
			if !strings.Contains(strings.ToLower(objnam.Str), strings.ToLower(filters.TextQuery)) {
				return false
			}
		}
		return true
	})

	sort.Slice(matched, func(i, j int) bool { return matched[i].RecordID < matched[j].RecordID })

	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}
	return matched
}
