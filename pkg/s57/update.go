package s57

import (
	"fmt"

	"github.com/oceanic-charts/s57/internal/iso8211"
	"github.com/oceanic-charts/s57/pkg/catalog"
	"github.com/oceanic-charts/s57/pkg/geometry"
	"github.com/oceanic-charts/s57/pkg/warning"
	"github.com/pkg/errors"
)

// Record update instructions, per the glossary: 1 insert, 2 modify, 3
// delete.
const (
	ruinInsert = 1
	ruinModify = 2
	ruinDelete = 3
)

// State is a step in the update processor's state machine:
// Idle -> Validating -> Applying(k) -> Done | Failed.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateApplying
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UpdateFile is one numbered update to apply, its Sequence being the
// numeric suffix of its originating filename (1 for ".001", 2 for
// ".002", and so on). Discovering update files on disk and deriving
// their sequence numbers is the caller's responsibility; this package
// takes already-loaded buffers.
type UpdateFile struct {
	Sequence int
	Data     []byte
}

// Summary reports how many update records were applied, broken down by
// record-update instruction.
type Summary struct {
	Applied  int
	Inserted int
	Modified int
	Deleted  int
}

// ApplySequentialUpdates applies a sorted, contiguity-validated sequence
// of update files to base, returning a new ParsedData reflecting every
// successfully applied record. base is never mutated; per the lifecycle
// invariant a parse step's output is immutable once produced.
func ApplySequentialUpdates(cellName string, base *ParsedData, updateFiles []UpdateFile, cat *catalog.Catalog, opts ...ParseOption) (*ParsedData, Summary, State, error) {
	if len(updateFiles) == 0 {
		return base, Summary{}, StateDone, nil
	}

	sorted := append([]UpdateFile{}, updateFiles...)
	sortUpdateFiles(sorted)

	expected := sorted[0].Sequence
	for _, uf := range sorted {
		if uf.Sequence != expected {
			return nil, Summary{}, StateFailed, errors.Errorf(
				"Gap in update sequence for cell %s: expected .%03d, found .%03d", cellName, expected, uf.Sequence)
		}
		expected++
	}

	cfg := defaultParseConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	nextWarnings := warning.NewCollector()
	nextWarnings.Merge(base.warnings)

	next := &ParsedData{
		metadata: base.metadata,
		features: append([]*Feature{}, base.features...),
		store:    base.store.Clone(),
		warnings: nextWarnings,
	}

	var summary Summary
	for _, uf := range sorted {
		reader := iso8211.NewReader(uf.Data, next.warnings)
		records, err := reader.ReadAll()
		if err != nil {
			return nil, summary, StateFailed, errors.Wrapf(err, "applying update .%03d to cell %s", uf.Sequence, cellName)
		}

		applyUpdateRecords(next, records, cat, cfg, &summary)
	}

	next.index = buildSpatialIndex(next.features)
	return next, summary, StateDone, nil
}

func sortUpdateFiles(files []UpdateFile) {
	for i := 1; i < len(files); i++ {
		for j := i; j > 0 && files[j-1].Sequence > files[j].Sequence; j-- {
			files[j-1], files[j] = files[j], files[j-1]
		}
	}
}

func applyUpdateRecords(data *ParsedData, records []*iso8211.Record, cat *catalog.Catalog, cfg parseConfig, summary *Summary) {
	for _, rec := range records {
		if vridData, ok := rec.Field("VRID"); ok {
			applyVRIDUpdate(data, vridData, rec, summary)
			continue
		}
		if fridData, ok := rec.Field("FRID"); ok {
			applyFRIDUpdate(data, fridData, rec, cat, cfg, summary)
		}
	}
}

func applyVRIDUpdate(data *ParsedData, vridData []byte, rec *iso8211.Record, summary *Summary) {
	v, ok := parseVRID(vridData)
	if !ok {
		return
	}

	switch v.Ruin {
	case ruinInsert, ruinModify:
		if v.Ruin == ruinModify {
			var present bool
			if v.RCNM == rcnmEdge {
				_, present = data.store.Edge(v.RCID)
			} else {
				_, present = data.store.Node(v.RCID)
			}
			if !present {
				_ = data.warnings.Warn(warning.CodeMissingNode, warning.SeverityWarning,
					fmt.Sprintf("modify: primitive %d not found", v.RCID), &v.RCID, nil)
				return
			}
		}
		applyVRID(data.store, vridData, rec, data.metadata.COMF, data.warnings)
		if v.Ruin == ruinInsert {
			summary.Inserted++
		} else {
			summary.Modified++
		}
		summary.Applied++
	case ruinDelete:
		var removed bool
		if v.RCNM == rcnmEdge {
			removed = data.store.DeleteEdge(v.RCID)
		} else {
			removed = data.store.DeleteNode(v.RCID)
		}
		if !removed {
			_ = data.warnings.Warn(warning.CodeMissingNode, warning.SeverityWarning,
				fmt.Sprintf("delete: primitive %d not found", v.RCID), &v.RCID, nil)
			return
		}
		summary.Deleted++
		summary.Applied++
	}
}

func applyFRIDUpdate(data *ParsedData, fridData []byte, rec *iso8211.Record, cat *catalog.Catalog, cfg parseConfig, summary *Summary) {
	parsedFRID, ok := parseFRID(fridData)
	if !ok {
		return
	}

	idx := -1
	for i, f := range data.features {
		if f.RecordID == parsedFRID.RCID {
			idx = i
			break
		}
	}

	switch parsedFRID.Ruin {
	case ruinDelete:
		if idx < 0 {
			rid := parsedFRID.RCID
			_ = data.warnings.Warn(warning.CodeMissingNode, warning.SeverityWarning,
				fmt.Sprintf("delete: feature %d not found", rid), &rid, nil)
			return
		}
		data.features = append(data.features[:idx], data.features[idx+1:]...)
		summary.Deleted++
		summary.Applied++
	case ruinModify:
		if idx < 0 {
			rid := parsedFRID.RCID
			_ = data.warnings.Warn(warning.CodeMissingNode, warning.SeverityWarning,
				fmt.Sprintf("modify: feature %d not found", rid), &rid, nil)
			return
		}
		f := buildUpdatedFeature(data, fridData, rec, cat, cfg)
		if f == nil {
			return
		}
		data.features[idx] = f
		summary.Modified++
		summary.Applied++
	case ruinInsert:
		f := buildUpdatedFeature(data, fridData, rec, cat, cfg)
		if f == nil {
			return
		}
		if idx >= 0 {
			data.features[idx] = f
		} else {
			data.features = append(data.features, f)
		}
		summary.Inserted++
		summary.Applied++
	}
}

// buildUpdatedFeature decodes one inserted or modified FRID record into a
// Feature, applying the same geometry assembly, validation, and
// object-class filtering an initial parse would. A filtered-out object
// class yields a nil Feature so the caller leaves the update unapplied.
func buildUpdatedFeature(data *ParsedData, fridData []byte, rec *iso8211.Record, cat *catalog.Catalog, cfg parseConfig) *Feature {
	rf, ok := decodeRawFeature(fridData, rec, cat, data.metadata.COMF, data.warnings)
	if !ok || !objectClassPasses(cfg, rf.objectClass.Acronym) {
		return nil
	}

	var geom geometry.Geometry
	if len(rf.inlineCoords) > 0 {
		geom = geometry.Geometry{Type: inferType(rf.inlineCoords), Rings: [][]geometry.Coordinate{rf.inlineCoords}}
	} else {
		assembler := geometry.NewAssembler(data.store, data.warnings)
		featureID := rf.recordID
		geom = assembler.BuildGeometry(rf.pointers, &featureID)
	}

	if cfg.validateGeometry {
		validator := geometry.NewValidator(data.warnings)
		featureID := rf.recordID
		validator.Validate(geom, cfg.checkSelfIntersection, &featureID)
	}

	return &Feature{
		RecordID:    rf.recordID,
		FeatureType: rf.objectClass,
		Attributes:  rf.attributes,
		Geometry:    geom,
		Coordinates: latLonFromCoordinates(flattenRings(geom)),
	}
}
