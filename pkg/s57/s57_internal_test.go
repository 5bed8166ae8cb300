package s57

import "github.com/oceanic-charts/s57/internal/iso8211"

// testField and buildTestRecord assemble synthetic ISO 8211 records for
// tests in this package, mirroring the byte layout internal/iso8211's own
// buildRecord test helper produces (4/4/4 tag/length/position sizes).
type testField struct {
	tag  string
	data []byte
}

func buildTestRecord(fields []testField) []byte {
	const tagSize = 4
	const lengthSize = 4
	const positionSize = 4

	var fieldArea []byte
	type dirEnt struct {
		tag      string
		length   int
		position int
	}
	var entries []dirEnt
	for _, f := range fields {
		entries = append(entries, dirEnt{tag: f.tag, length: len(f.data), position: len(fieldArea)})
		fieldArea = append(fieldArea, f.data...)
	}

	var dir []byte
	for _, e := range entries {
		dir = append(dir, padTestTag(e.tag, tagSize)...)
		dir = append(dir, padTestNum(e.length, lengthSize)...)
		dir = append(dir, padTestNum(e.position, positionSize)...)
	}
	dir = append(dir, 0x1E)

	baseAddress := iso8211.LeaderSize + len(dir)
	recordLength := baseAddress + len(fieldArea)

	leader := make([]byte, iso8211.LeaderSize)
	copy(leader[0:5], padTestNum(recordLength, 5))
	leader[5] = '3'
	leader[6] = 'L'
	leader[7] = 'E'
	leader[8] = '1'
	leader[9] = ' '
	copy(leader[10:12], padTestNum(0, 2))
	copy(leader[12:17], padTestNum(baseAddress, 5))
	copy(leader[17:20], []byte(" ! "))
	leader[20] = byte('0' + lengthSize)
	leader[21] = byte('0' + positionSize)
	leader[22] = '0'
	leader[23] = byte('0' + tagSize)

	out := append([]byte{}, leader...)
	out = append(out, dir...)
	out = append(out, fieldArea...)
	return out
}

func padTestNum(n, width int) []byte {
	var digits []byte
	for n > 0 || len(digits) == 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	for len(digits) < width {
		digits = append([]byte{'0'}, digits...)
	}
	if len(digits) > width {
		digits = digits[len(digits)-width:]
	}
	return digits
}

func padTestTag(tag string, width int) []byte {
	b := []byte(tag)
	for len(b) < width {
		b = append(b, ' ')
	}
	return b[:width]
}
