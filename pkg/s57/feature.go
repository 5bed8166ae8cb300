package s57

import (
	"encoding/binary"

	"github.com/oceanic-charts/s57/internal/iso8211"
	"github.com/oceanic-charts/s57/pkg/catalog"
	"github.com/oceanic-charts/s57/pkg/geometry"
	"github.com/oceanic-charts/s57/pkg/warning"
)

// depthAttributeAcronyms are the S-57 attributes that carry a depth in
// meters and so are range-checked against [minDepthMeters, maxDepthMeters].
var depthAttributeAcronyms = map[string]bool{
	"DRVAL1": true,
	"DRVAL2": true,
	"VALSOU": true,
}

const (
	minDepthMeters = -50.0
	maxDepthMeters = 12000.0
)

// LatLon is a feature-level coordinate in (lat, lon) order, distinct from
// geometry.Coordinate's (x=lon, y=lat) order used by the primitive store
// and geometry assembler.
type LatLon struct {
	Lat float64
	Lon float64
}

// Feature is a parsed S-57 feature record.
type Feature struct {
	RecordID    int64
	FeatureType catalog.ObjectClass
	Attributes  map[string]catalog.DecodedValue
	Coordinates []LatLon
	Geometry    geometry.Geometry
}

// frid is the decoded FRID subfield set (RCNM, RCID, PRIM, GRUP, OBJL,
// RVER, RUIN), per the fixed binary layout ISO 8211 lays these out in.
type frid struct {
	RCNM int
	RCID int64
	Prim int
	Objl int
	Ruin int
}

func parseFRID(data []byte) (frid, bool) {
	if len(data) < 12 {
		return frid{}, false
	}
	return frid{
		RCNM: int(data[0]),
		RCID: int64(binary.LittleEndian.Uint32(data[1:5])),
		Prim: int(data[5]),
		Objl: int(binary.LittleEndian.Uint16(data[7:9])),
		Ruin: int(data[11]),
	}, true
}

// parseATTF decodes ATTF's repeating (code uint16LE, value ASCII until
// 0x1F) groups into code -> raw value strings. A single attribute code
// may repeat (multi-valued attributes); values are accumulated in order.
// Each group's value run ends exactly where iso8211.SplitSubfields would
// split the field, so the whole buffer is handed to it and the 2-byte
// code is peeled off the front of every resulting subfield. A subfield
// too short to carry a code emits SUBFIELD_PARSE and is skipped.
func parseATTF(data []byte, warnings *warning.Collector, recordID *int64) map[int][]string {
	out := map[int][]string{}
	for _, sub := range iso8211.SplitSubfields(data) {
		if len(sub) < 2 {
			_ = warnings.Warn(warning.CodeSubfieldParse, warning.SeverityWarning,
				"ATTF subfield too short to carry an attribute code", recordID, nil)
			continue
		}
		code := int(binary.LittleEndian.Uint16(sub[0:2]))
		out[code] = append(out[code], string(sub[2:]))
	}
	return out
}

// parseSG2D decodes repeating (X int32LE, Y int32LE) coordinate pairs,
// dividing by comf to yield (lon, lat) decimal degrees. Leftover bytes
// that don't fill a complete 8-byte pair are a malformed subfield.
func parseSG2D(data []byte, comf float64, warnings *warning.Collector, recordID *int64) []geometry.Coordinate {
	var out []geometry.Coordinate
	i := 0
	for ; i+8 <= len(data); i += 8 {
		x := int32(binary.LittleEndian.Uint32(data[i : i+4]))
		y := int32(binary.LittleEndian.Uint32(data[i+4 : i+8]))
		out = append(out, geometry.Coordinate{X: float64(x) / comf, Y: float64(y) / comf})
	}
	if i != len(data) {
		_ = warnings.Warn(warning.CodeSubfieldParse, warning.SeverityWarning,
			"SG2D data length is not a multiple of the 8-byte coordinate pair", recordID, nil)
	}
	return out
}

// vrptEntry is one decoded VRPT pointer entry: 9 bytes of RCNM, RCID
// (uint32LE), ORNT, USAG, TOPI, MASK.
type vrptEntry struct {
	RCNM int
	RCID int64
	Ornt int
	Usag int
	Topi int
	Mask int
}

func parseVRPT(data []byte, warnings *warning.Collector, recordID *int64) []vrptEntry {
	const stride = 9
	var out []vrptEntry
	i := 0
	for ; i+stride <= len(data); i += stride {
		out = append(out, vrptEntry{
			RCNM: int(data[i]),
			RCID: int64(binary.LittleEndian.Uint32(data[i+1 : i+5])),
			Ornt: int(data[i+5]),
			Usag: int(data[i+6]),
			Topi: int(data[i+7]),
			Mask: int(data[i+8]),
		})
	}
	if i != len(data) {
		_ = warnings.Warn(warning.CodeSubfieldParse, warning.SeverityWarning,
			"VRPT data length is not a multiple of the 9-byte pointer entry", recordID, nil)
	}
	return out
}

// rcnmEdge and rcnmIsolatedNode/rcnmConnectedNode are the S-57 RCNM
// (record name) codes this core distinguishes between: a spatial record
// is either an edge or a node (isolated or connected collapse to the
// same Node primitive here, since the data model carries no distinct
// isolated/connected kind).
const (
	rcnmIsolatedNode = 110
	rcnmConnectedNode = 120
	rcnmEdge          = 130
)

func vrptToSpatialPointers(entries []vrptEntry) []geometry.SpatialPointer {
	out := make([]geometry.SpatialPointer, 0, len(entries))
	for _, e := range entries {
		out = append(out, geometry.SpatialPointer{
			RefID:   e.RCID,
			IsEdge:  e.RCNM == rcnmEdge,
			Reverse: e.Ornt == 2,
		})
	}
	return out
}

func latLonFromCoordinates(coords []geometry.Coordinate) []LatLon {
	out := make([]LatLon, len(coords))
	for i, c := range coords {
		out[i] = LatLon{Lat: c.Y, Lon: c.X}
	}
	return out
}
