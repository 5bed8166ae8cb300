package s57

import (
	"encoding/binary"
	"testing"

	"github.com/oceanic-charts/s57/pkg/warning"
)

func buildFRID(rcid uint32, prim byte, objl uint16, ruin byte) []byte {
	b := make([]byte, 12)
	b[0] = 1 // RCNM
	binary.LittleEndian.PutUint32(b[1:5], rcid)
	b[5] = prim
	binary.LittleEndian.PutUint16(b[7:9], objl)
	b[11] = ruin
	return b
}

func TestParseFRID(t *testing.T) {
	data := buildFRID(42, 1, 300, 1)
	f, ok := parseFRID(data)
	if !ok {
		t.Fatal("expected parseFRID to succeed")
	}
	if f.RCID != 42 || f.Prim != 1 || f.Objl != 300 || f.Ruin != 1 {
		t.Fatalf("parseFRID = %+v, want RCID=42 Prim=1 Objl=300 Ruin=1", f)
	}
}

func TestParseFRIDTooShort(t *testing.T) {
	if _, ok := parseFRID(make([]byte, 4)); ok {
		t.Fatal("expected parseFRID to reject a short buffer")
	}
}

func buildATTFEntry(code uint16, value string) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, code)
	b = append(b, []byte(value)...)
	b = append(b, 0x1F)
	return b
}

func TestParseATTFSingleAndMultiValued(t *testing.T) {
	var data []byte
	data = append(data, buildATTFEntry(87, "12.5")...)
	data = append(data, buildATTFEntry(116, "Test Name")...)
	data = append(data, buildATTFEntry(87, "9.0")...)

	out := parseATTF(data, warning.NewCollector(), nil)
	if len(out[87]) != 2 || out[87][0] != "12.5" || out[87][1] != "9.0" {
		t.Fatalf("expected code 87 to accumulate two values, got %v", out[87])
	}
	if len(out[116]) != 1 || out[116][0] != "Test Name" {
		t.Fatalf("expected code 116 = [Test Name], got %v", out[116])
	}
}

func TestParseATTFShortSubfieldWarns(t *testing.T) {
	data := append(buildATTFEntry(87, "1.0"), byte('A'))
	collector := warning.NewCollector()
	parseATTF(data, collector, nil)
	if len(collector.FilterByCode(warning.CodeSubfieldParse)) != 1 {
		t.Fatal("expected a SUBFIELD_PARSE warning for the trailing short subfield")
	}
}

func TestParseSG2DScalesByCOMF(t *testing.T) {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:4], uint32(int32(1234567)))
	binary.LittleEndian.PutUint32(b[4:8], uint32(int32(-7654321)))
	binary.LittleEndian.PutUint32(b[8:12], uint32(int32(2000000)))
	binary.LittleEndian.PutUint32(b[12:16], uint32(int32(3000000)))

	coords := parseSG2D(b, 1000.0, warning.NewCollector(), nil)
	if len(coords) != 2 {
		t.Fatalf("expected 2 coordinates, got %d", len(coords))
	}
	if coords[0].X != 1234.567 || coords[0].Y != -7654.321 {
		t.Fatalf("unexpected first coordinate: %+v", coords[0])
	}
	if coords[1].X != 2000.0 || coords[1].Y != 3000.0 {
		t.Fatalf("unexpected second coordinate: %+v", coords[1])
	}
}

func TestParseSG2DTruncatedPairWarns(t *testing.T) {
	b := make([]byte, 12) // one full pair plus 4 leftover bytes
	collector := warning.NewCollector()
	parseSG2D(b, 1000.0, collector, nil)
	if len(collector.FilterByCode(warning.CodeSubfieldParse)) != 1 {
		t.Fatal("expected a SUBFIELD_PARSE warning for the truncated coordinate pair")
	}
}

func buildVRPTEntry(rcnm byte, rcid uint32, ornt, usag, topi, mask byte) []byte {
	b := make([]byte, 9)
	b[0] = rcnm
	binary.LittleEndian.PutUint32(b[1:5], rcid)
	b[5] = ornt
	b[6] = usag
	b[7] = topi
	b[8] = mask
	return b
}

func TestParseVRPTAndSpatialPointerConversion(t *testing.T) {
	var data []byte
	data = append(data, buildVRPTEntry(rcnmEdge, 7, 2, 1, 1, 1)...)
	data = append(data, buildVRPTEntry(rcnmIsolatedNode, 9, 1, 1, 1, 1)...)

	entries := parseVRPT(data, warning.NewCollector(), nil)
	if len(entries) != 2 {
		t.Fatalf("expected 2 VRPT entries, got %d", len(entries))
	}

	pointers := vrptToSpatialPointers(entries)
	if !pointers[0].IsEdge || !pointers[0].Reverse || pointers[0].RefID != 7 {
		t.Fatalf("unexpected first pointer: %+v", pointers[0])
	}
	if pointers[1].IsEdge || pointers[1].Reverse || pointers[1].RefID != 9 {
		t.Fatalf("unexpected second pointer: %+v", pointers[1])
	}
}

func TestParseVRPTTruncatedEntryWarns(t *testing.T) {
	data := append(buildVRPTEntry(rcnmEdge, 7, 2, 1, 1, 1), byte(0))
	collector := warning.NewCollector()
	parseVRPT(data, collector, nil)
	if len(collector.FilterByCode(warning.CodeSubfieldParse)) != 1 {
		t.Fatal("expected a SUBFIELD_PARSE warning for the truncated pointer entry")
	}
}
