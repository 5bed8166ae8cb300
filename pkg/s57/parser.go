package s57

import (
	"strconv"

	"github.com/oceanic-charts/s57/internal/iso8211"
	"github.com/oceanic-charts/s57/pkg/catalog"
	"github.com/oceanic-charts/s57/pkg/geometry"
	"github.com/oceanic-charts/s57/pkg/primitive"
	"github.com/oceanic-charts/s57/pkg/warning"
)

// Parse decodes a complete S-57 cell byte buffer into a ParsedData,
// following the step order fixed by 4.E: run the ISO 8211 reader,
// extract DSID/DSPM metadata, then dispatch every remaining record on
// VRID (primitive) or FRID (feature), assembling geometry for any
// feature without inline SG2D coordinates.
func Parse(buf []byte, cat *catalog.Catalog, opts ...ParseOption) (*ParsedData, error) {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var collectorOpts []warning.CollectorOption
	if cfg.strictMode {
		collectorOpts = append(collectorOpts, warning.WithStrictMode(true))
	}
	if cfg.warningThreshold > 0 {
		collectorOpts = append(collectorOpts, warning.WithThreshold(cfg.warningThreshold))
	}
	warnings := warning.NewCollector(collectorOpts...)

	reader := iso8211.NewReader(buf, warnings)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	meta := defaultMetadata()
	store := primitive.NewStore()
	var rawFeatures []rawFeature

	for i, rec := range records {
		if dsidData, ok := rec.Field("DSID"); ok {
			meta = parseDSID(dsidData, meta)
		}
		if dspmData, ok := rec.Field("DSPM"); ok {
			meta.COMF, meta.SOMF = parseDSPM(dspmData, meta.COMF, meta.SOMF)
		}
		if i == 0 {
			continue
		}

		if vridData, ok := rec.Field("VRID"); ok {
			applyVRID(store, vridData, rec, meta.COMF, warnings)
			continue
		}

		if fridData, ok := rec.Field("FRID"); ok {
			rf, ok := decodeRawFeature(fridData, rec, cat, meta.COMF, warnings)
			if ok && objectClassPasses(cfg, rf.objectClass.Acronym) {
				rawFeatures = append(rawFeatures, rf)
			}
		}
	}

	assembler := geometry.NewAssembler(store, warnings)
	validator := geometry.NewValidator(warnings)

	features := make([]*Feature, 0, len(rawFeatures))
	for _, rf := range rawFeatures {
		f := &Feature{
			RecordID:    rf.recordID,
			FeatureType: rf.objectClass,
			Attributes:  rf.attributes,
		}

		var geom geometry.Geometry
		if len(rf.inlineCoords) > 0 {
			geom = geometry.Geometry{Type: inferType(rf.inlineCoords), Rings: [][]geometry.Coordinate{rf.inlineCoords}}
		} else {
			featureID := rf.recordID
			geom = assembler.BuildGeometry(rf.pointers, &featureID)
		}

		if cfg.validateGeometry {
			featureID := rf.recordID
			validator.Validate(geom, cfg.checkSelfIntersection, &featureID)
		}

		f.Geometry = geom
		f.Coordinates = latLonFromCoordinates(flattenRings(geom))
		features = append(features, f)
	}

	warnings.Merge(store.Warnings())

	if len(features) == 0 && len(buf) > 0 {
		features = append(features, syntheticFeature(warnings))
	}

	if cfg.strictMode {
		for _, w := range warnings.All() {
			if w.Severity >= warning.SeverityWarning {
				return nil, &warning.StrictModeError{Warning: w}
			}
		}
	}

	index := buildSpatialIndex(features)

	return &ParsedData{
		metadata: meta,
		features: features,
		store:    store,
		warnings: warnings,
		index:    index,
	}, nil
}

// rawFeature is the intermediate form of a parsed FRID record before
// geometry assembly: either inline coordinates from SG2D, or spatial
// pointers from VRPT to be resolved by the geometry assembler.
type rawFeature struct {
	recordID     int64
	objectClass  catalog.ObjectClass
	attributes   map[string]catalog.DecodedValue
	inlineCoords []geometry.Coordinate
	pointers     []geometry.SpatialPointer
}

func decodeRawFeature(fridData []byte, rec *iso8211.Record, cat *catalog.Catalog, comf float64, warnings *warning.Collector) (rawFeature, bool) {
	parsedFRID, ok := parseFRID(fridData)
	if !ok {
		return rawFeature{}, false
	}
	recordID := parsedFRID.RCID

	oc, found := cat.ByCode(parsedFRID.Objl)
	if !found {
		oc = catalog.ObjectClass{Code: parsedFRID.Objl, Acronym: "UNKNOWN", Name: "Unknown object class"}
	}

	attrs := map[string]catalog.DecodedValue{}
	if attfData, ok := rec.Field("ATTF"); ok {
		codes := parseATTF(attfData, warnings, &recordID)
		for code, values := range codes {
			def, name := attributeForCode(cat, code)
			decoded := catalog.DecodeAttribute(def, values)
			checkDepthRange(name, decoded, warnings, &recordID)
			attrs[name] = decoded
		}
	}

	rf := rawFeature{
		recordID:    parsedFRID.RCID,
		objectClass: oc,
		attributes:  attrs,
	}

	if sg2dData, ok := rec.Field("SG2D"); ok {
		rf.inlineCoords = parseSG2D(sg2dData, comf, warnings, &recordID)
	} else if vrptData, ok := rec.Field("VRPT"); ok {
		rf.pointers = vrptToSpatialPointers(parseVRPT(vrptData, warnings, &recordID))
	}

	return rf, true
}

// checkDepthRange flags a depth-bearing attribute (DRVAL1, DRVAL2, VALSOU)
// whose decoded value falls outside [minDepthMeters, maxDepthMeters]. The
// value itself is left untouched in the attribute map; only a warning is
// raised.
func checkDepthRange(acronym string, v catalog.DecodedValue, warnings *warning.Collector, recordID *int64) {
	if !depthAttributeAcronyms[acronym] || v.Kind != catalog.KindFloat {
		return
	}
	if v.Float < minDepthMeters || v.Float > maxDepthMeters {
		msg := acronym + " value " + strconv.FormatFloat(v.Float, 'f', -1, 64) +
			" m is outside [" + strconv.FormatFloat(minDepthMeters, 'f', -1, 64) +
			", " + strconv.FormatFloat(maxDepthMeters, 'f', -1, 64) + "] m"
		_ = warnings.Warn(warning.CodeDepthOutOfRange, warning.SeverityWarning, msg, recordID, nil)
	}
}

// attributeForCode resolves an ATTF numeric code to its attribute
// definition and acronym, per 4.B's code-keyed catalog lookup. An
// unrecognized code has no acronym to key the feature's attribute map
// by, so its numeric code is used as a fallback key and the value is
// still decoded via DecodeAttribute's nil-def pass-through.
func attributeForCode(cat *catalog.Catalog, code int) (*catalog.AttributeDef, string) {
	def, ok := cat.AttributeByCode(code)
	if !ok {
		return nil, itoa(code)
	}
	return &def, def.Acronym
}

func objectClassPasses(cfg parseConfig, acronym string) bool {
	if len(cfg.objectClassFilter) == 0 {
		return true
	}
	return cfg.objectClassFilter[upperTrim(acronym)]
}

func inferType(coords []geometry.Coordinate) geometry.Type {
	switch {
	case len(coords) <= 1:
		return geometry.Point
	case coords[0] == coords[len(coords)-1]:
		return geometry.Area
	default:
		return geometry.Line
	}
}

func flattenRings(g geometry.Geometry) []geometry.Coordinate {
	var out []geometry.Coordinate
	for _, ring := range g.Rings {
		out = append(out, ring...)
	}
	return out
}

// syntheticFeature is the deterministic placeholder emitted when an
// input buffer is non-empty but every record in it was too degenerate
// to contribute a feature.
func syntheticFeature(warnings *warning.Collector) *Feature {
	_ = warnings.Warn(warning.CodeSyntheticFallback, warning.SeverityWarning,
		"no usable records found; emitting synthetic placeholder feature", nil, nil)
	return &Feature{
		RecordID:    0,
		FeatureType: catalog.ObjectClass{Code: 0, Acronym: "UNKNOWN", Name: "Synthetic placeholder"},
		Attributes:  map[string]catalog.DecodedValue{},
		Coordinates: []LatLon{{Lat: 0, Lon: 0}},
		Geometry:    geometry.Geometry{Type: geometry.Point, Rings: [][]geometry.Coordinate{{{X: 0, Y: 0}}}},
	}
}

// applyVRID decodes one VRID record into a node or edge primitive.
// Nodes are single SG2D coordinates; edges resolve their begin/end
// nodes from VRPT topology indicators (1=begin, 2=end) against
// already-registered nodes, with any intermediate SG2D points carried
// as unindexed shape nodes.
func applyVRID(store *primitive.Store, vridData []byte, rec *iso8211.Record, comf float64, warnings *warning.Collector) {
	v, ok := parseVRID(vridData)
	if !ok {
		return
	}
	recordID := v.RCID

	var coords []geometry.Coordinate
	if sg2dData, ok := rec.Field("SG2D"); ok {
		coords = parseSG2D(sg2dData, comf, warnings, &recordID)
	}

	if isNodeRCNM(v.RCNM) {
		x, y := 0.0, 0.0
		if len(coords) > 0 {
			x, y = coords[0].X, coords[0].Y
		}
		store.AddNode(primitive.Node{ID: v.RCID, X: x, Y: y})
		return
	}

	if v.RCNM != rcnmEdge {
		return
	}

	var begin, end *primitive.Node
	if vrptData, ok := rec.Field("VRPT"); ok {
		for _, e := range parseVRPT(vrptData, warnings, &recordID) {
			node, found := store.Node(e.RCID)
			if !found {
				continue
			}
			switch e.Topi {
			case 1:
				n := node
				begin = &n
			case 2:
				n := node
				end = &n
			}
		}
	}

	nodes := make([]primitive.Node, 0, len(coords)+2)
	if begin != nil {
		nodes = append(nodes, *begin)
	}
	for _, c := range coords {
		nodes = append(nodes, primitive.Node{X: c.X, Y: c.Y})
	}
	if end != nil {
		nodes = append(nodes, *end)
	}

	store.AddEdge(primitive.Edge{ID: v.RCID, Nodes: nodes})
}
