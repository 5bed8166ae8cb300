package s57

import (
	"encoding/binary"
	"strings"
)

// defaultCOMF and defaultSOMF are the coordinate/sounding multiplication
// factors used when a cell's DSPM field is absent or unreadable.
const (
	defaultCOMF = 10_000_000.0
	defaultSOMF = 10.0
)

// Metadata describes the parsed dataset as a whole.
type Metadata struct {
	Producer      string
	Version       string
	CreationDate  string
	EditionNumber string
	UpdateNumber  string
	CellID        string
	UsageBand     int
	COMF          float64
	SOMF          float64
}

func defaultMetadata() Metadata {
	return Metadata{COMF: defaultCOMF, SOMF: defaultSOMF}
}

// parseDSID fills in dataset identification fields from a DSID field's
// raw bytes, leaving any subfield it cannot read at its default. The
// layout mixes fixed binary positions with 0x1F-delimited ASCII runs, per
// the S-57 DSID subfield sequence: RCNM, RCID, EXPP, INTU, DSNM, EDTN,
// UPDN, UADT, ISDT, STED, PRSP, PSDN, PRED, PROF, AGEN, COMT.
func parseDSID(data []byte, base Metadata) Metadata {
	m := base

	// RCNM(1) + RCID(4) + EXPP(1) + INTU(1) = 7 bytes of fixed binary
	// header before the ASCII runs begin. INTU doubles as the cell's
	// usage band.
	pos := 7
	if len(data) < pos {
		return m
	}
	m.UsageBand = int(data[6])

	dsnm, next := readDelimitedASCII(data, pos)
	pos = next
	edtn, next := readDelimitedASCII(data, pos)
	pos = next
	updn, next := readDelimitedASCII(data, pos)
	pos = next

	// UADT(8) ISDT(8) STED(4): fixed-width ASCII, not delimited.
	uadt := readFixedASCII(data, pos, 8)
	pos += 8
	_ = readFixedASCII(data, pos, 8) // ISDT: parsed but not surfaced on Metadata
	pos += 8
	sted := readFixedASCII(data, pos, 4) // edition of S-57 used
	pos += 4

	if pos < len(data) {
		pos++ // PRSP(1)
	}
	_, next = readDelimitedASCII(data, pos) // PSDN: product specification, not surfaced
	pos = next
	_, next = readDelimitedASCII(data, pos) // PRED
	pos = next

	if pos < len(data) {
		pos++ // PROF(1)
	}

	var agen uint16
	if pos+2 <= len(data) {
		agen = binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
	}

	if dsnm != "" {
		m.CellID = dsnm
	}
	if edtn != "" {
		m.EditionNumber = edtn
	}
	if updn != "" {
		m.UpdateNumber = updn
	}
	if uadt != "" {
		m.CreationDate = uadt
	}
	if sted != "" {
		m.Version = sted
	}
	if agen != 0 {
		m.Producer = agencyName(agen)
	}
	return m
}

// agencyName renders a producing-agency code (AGEN) as a human-readable
// producer identifier. Lacking an agency code registry, the numeric code
// itself is surfaced.
func agencyName(agen uint16) string {
	return "agency-" + itoa(int(agen))
}

// parseDSPM extracts COMF/SOMF from a DSPM field's raw bytes, falling
// back to the passed-in defaults on a short or zero/negative value.
func parseDSPM(data []byte, comf, somf float64) (float64, float64) {
	// RCNM(1) RCID(4) HDAT(1) VDAT(1) SDAT(1) CSCL(4) DUNI(1) HUNI(1)
	// PUNI(1) COUN(1) COMF(4) SOMF(4): all fixed binary.
	const minLen = 1 + 4 + 1 + 1 + 1 + 4 + 1 + 1 + 1 + 1 + 4 + 4
	if len(data) < minLen {
		return comf, somf
	}
	pos := 1 + 4 + 1 + 1 + 1 + 4 + 1 + 1 + 1 + 1 // up to COMF
	rawCOMF := int32(binary.LittleEndian.Uint32(data[pos : pos+4]))
	rawSOMF := int32(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
	if rawCOMF > 0 {
		comf = float64(rawCOMF)
	}
	if rawSOMF > 0 {
		somf = float64(rawSOMF)
	}
	return comf, somf
}

// readDelimitedASCII reads an ASCII run starting at pos up to the next
// unit terminator (0x1F), returning the trimmed string and the offset
// just past the terminator.
func readDelimitedASCII(data []byte, pos int) (string, int) {
	if pos >= len(data) {
		return "", pos
	}
	end := pos
	for end < len(data) && data[end] != 0x1F && data[end] != 0x1E {
		end++
	}
	s := strings.TrimRight(string(data[pos:end]), " \x00")
	next := end
	if next < len(data) {
		next++ // consume the terminator
	}
	return s, next
}

func readFixedASCII(data []byte, pos, width int) string {
	if pos >= len(data) {
		return ""
	}
	end := pos + width
	if end > len(data) {
		end = len(data)
	}
	return strings.Trim(string(data[pos:end]), " \x00")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
