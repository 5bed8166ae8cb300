// Package iso8211 implements a byte-buffer reader for the ISO/IEC 8211
// general-purpose record exchange format: a leader, a directory of field
// locations, and a field data area, repeated record after record. It is
// the wire-level substrate S-57 charts are carried on.
package iso8211

import (
	"fmt"

	"github.com/oceanic-charts/s57/pkg/warning"
	"github.com/pkg/errors"
)

// Field is one tagged span of a record's field data area. Data includes
// any trailing unit/field terminators exactly as laid out on the wire;
// use SplitSubfields to decode it.
type Field struct {
	Tag  string
	Data []byte
}

// Record is one decoded ISO 8211 record: its leader plus the fields that
// survived directory/bounds validation.
type Record struct {
	Leader Leader
	Fields []Field
}

// Field returns the data of the first field with the given tag.
func (r *Record) Field(tag string) ([]byte, bool) {
	for _, f := range r.Fields {
		if f.Tag == tag {
			return f.Data, true
		}
	}
	return nil, false
}

// Reader yields Records lazily from a held byte buffer. It performs no
// I/O of its own; the buffer must already be fully in memory.
type Reader struct {
	buf      []byte
	pos      int
	warnings *warning.Collector
}

// NewReader builds a Reader over buf, routing record-level defects to
// warnings.
func NewReader(buf []byte, warnings *warning.Collector) *Reader {
	return &Reader{buf: buf, warnings: warnings}
}

// Next returns the next record. ok is false once the buffer is exhausted
// (not an error: this is the normal end of the sequence). A non-nil error
// is always fatal and terminates the sequence.
func (r *Reader) Next() (*Record, bool, error) {
	for {
		if r.pos >= len(r.buf) {
			return nil, false, nil
		}

		remaining := len(r.buf) - r.pos
		if remaining < leaderSize {
			return nil, false, errors.Wrapf(ErrTruncatedBuffer, "need %d leader bytes, %d remain at offset %d", leaderSize, remaining, r.pos)
		}

		leader, ok := parseLeader(r.buf[r.pos : r.pos+leaderSize])
		if !ok {
			if err := r.warn(warning.CodeLeaderLenMismatch, "malformed leader at offset %d: non-numeric length fields", r.pos); err != nil {
				return nil, false, err
			}
			// The declared length cannot be trusted, so there is no safe
			// way to locate the next record; abandon the rest of the buffer.
			r.pos = len(r.buf)
			continue
		}

		recordLength := leader.RecordLength
		if recordLength < leaderSize || recordLength > remaining {
			if err := r.warn(warning.CodeLeaderLenMismatch, "leader declares record length %d but %d bytes remain at offset %d", recordLength, remaining, r.pos); err != nil {
				return nil, false, err
			}
			r.pos = len(r.buf)
			continue
		}

		if leader.BaseAddress < leaderSize || leader.BaseAddress > recordLength {
			if err := r.warn(warning.CodeBadBaseAddr, "base address %d out of range for record length %d at offset %d", leader.BaseAddress, recordLength, r.pos); err != nil {
				return nil, false, err
			}
			r.pos += recordLength
			continue
		}

		dirStart := r.pos + leaderSize
		dirEnd := r.pos + leader.BaseAddress
		entries, ok := parseDirectory(r.buf[dirStart:dirEnd], leader.FieldTagSize, leader.FieldLengthSize, leader.FieldPositionSize)
		if !ok {
			if err := r.warn(warning.CodeDirTruncated, "directory terminator missing before base address in record at offset %d", r.pos); err != nil {
				return nil, false, err
			}
			r.pos += recordLength
			continue
		}

		fieldAreaStart := r.pos + leader.BaseAddress
		fieldAreaEnd := r.pos + recordLength
		fields := make([]Field, 0, len(entries))
		for _, e := range entries {
			start := fieldAreaStart + e.Position
			end := start + e.Length
			if e.Position < 0 || e.Length < 0 || start < fieldAreaStart || end > fieldAreaEnd {
				if err := r.warn(warning.CodeFieldBounds, "field %q at position %d length %d exceeds record bounds", e.Tag, e.Position, e.Length); err != nil {
					return nil, false, err
				}
				continue
			}
			fields = append(fields, Field{Tag: e.Tag, Data: r.buf[start:end]})
		}

		rec := &Record{Leader: leader, Fields: fields}
		r.pos += recordLength
		return rec, true, nil
	}
}

// ReadAll materializes the full record sequence.
func (r *Reader) ReadAll() ([]*Record, error) {
	var out []*Record
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rec)
	}
}

func (r *Reader) warn(code, format string, args ...interface{}) error {
	if r.warnings == nil {
		return nil
	}
	return r.warnings.Warn(code, warning.SeverityWarning, fmt.Sprintf(format, args...), nil, nil)
}
