// Package s57 parses IHO S-57 Electronic Navigational Chart cells: ISO
// 8211 records carrying DSID/DSPM metadata, VRID vector primitives, and
// FRID feature records, resolved through a catalog into typed features
// with assembled geometry.
package s57

import (
	"github.com/oceanic-charts/s57/pkg/primitive"
	"github.com/oceanic-charts/s57/pkg/warning"
)

// ParsedData is the result of Parse: the dataset's metadata, its
// features, the primitive store they were built from, and every warning
// recorded along the way.
type ParsedData struct {
	metadata Metadata
	features []*Feature
	store    *primitive.Store
	warnings *warning.Collector
	index    *spatialIndex
}

// Metadata returns the dataset's DSID/DSPM-derived metadata.
func (p *ParsedData) Metadata() Metadata { return p.metadata }

// Features returns every parsed feature, in record order.
func (p *ParsedData) Features() []*Feature { return p.features }

// FeatureCount returns the number of parsed features.
func (p *ParsedData) FeatureCount() int { return len(p.features) }

// Store returns the primitive store the dataset's geometry was built
// from, for callers that need direct node/edge access.
func (p *ParsedData) Store() *primitive.Store { return p.store }

// Warnings returns the collector holding every warning recorded during
// parsing, merged from both the parser and the primitive store.
func (p *ParsedData) Warnings() *warning.Collector { return p.warnings }

// Bounds returns the minimum bounding box containing every feature
// coordinate. The second return is false when the dataset has no
// coordinates at all.
func (p *ParsedData) Bounds() (Bounds, bool) {
	var all []LatLon
	for _, f := range p.features {
		all = append(all, f.Coordinates...)
	}
	return boundsOf(all)
}
