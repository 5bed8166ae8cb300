package iso8211

// LeaderSize is the fixed byte length of an ISO/IEC 8211 record leader.
const LeaderSize = 24

const leaderSize = LeaderSize

// Leader is the 24-byte header at the front of every ISO 8211 record.
type Leader struct {
	RecordLength         int
	InterchangeLevel     byte
	LeaderID              byte
	InlineCodeExtension  byte
	Version              byte
	ApplicationIndicator byte
	FieldControlLength   int
	BaseAddress          int
	ExtendedCharSet      [3]byte
	FieldLengthSize      int
	FieldPositionSize    int
	Reserved             int
	FieldTagSize         int
}

// parseLeader decodes a 24-byte leader. ok is false when any of the
// numeric positions are not decimal digits, which means the leader itself
// cannot be trusted even though enough bytes were present.
func parseLeader(buf []byte) (Leader, bool) {
	if len(buf) < leaderSize {
		return Leader{}, false
	}

	recordLength, ok := atoiDigits(buf[0:5])
	if !ok {
		return Leader{}, false
	}
	fieldControlLength, ok := atoiDigits(buf[10:12])
	if !ok {
		return Leader{}, false
	}
	baseAddress, ok := atoiDigits(buf[12:17])
	if !ok {
		return Leader{}, false
	}
	fieldLengthSize, ok := atoiDigits(buf[20:21])
	if !ok {
		return Leader{}, false
	}
	fieldPositionSize, ok := atoiDigits(buf[21:22])
	if !ok {
		return Leader{}, false
	}
	reserved, ok := atoiDigits(buf[22:23])
	if !ok {
		return Leader{}, false
	}
	fieldTagSize, ok := atoiDigits(buf[23:24])
	if !ok {
		return Leader{}, false
	}

	var charset [3]byte
	copy(charset[:], buf[17:20])

	return Leader{
		RecordLength:         recordLength,
		InterchangeLevel:     buf[5],
		LeaderID:             buf[6],
		InlineCodeExtension:  buf[7],
		Version:              buf[8],
		ApplicationIndicator: buf[9],
		FieldControlLength:   fieldControlLength,
		BaseAddress:          baseAddress,
		ExtendedCharSet:      charset,
		FieldLengthSize:      fieldLengthSize,
		FieldPositionSize:    fieldPositionSize,
		Reserved:             reserved,
		FieldTagSize:         fieldTagSize,
	}, true
}

// atoiDigits parses an ASCII decimal run with no sign handling; ISO 8211
// leader/directory numeric fields are always unsigned fixed-width digit
// runs, space-padding included as an error (that padding belongs to text
// subfields, never to the leader or directory).
func atoiDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
