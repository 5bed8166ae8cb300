// Package warning collects structured parse defects instead of failing
// outright, the way a degraded chart cell is still usable.
package warning

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Severity ranks a Warning. Order matters: StrictMode aborts on anything
// at or above SeverityWarning.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Stable warning code vocabulary. Components are free to emit other
// codes, but these are relied on by callers and must not change shape.
const (
	CodeLeaderLenMismatch  = "LEADER_LEN_MISMATCH"
	CodeBadBaseAddr        = "BAD_BASE_ADDR"
	CodeDirTruncated       = "DIR_TRUNCATED"
	CodeFieldBounds        = "FIELD_BOUNDS"
	CodeSubfieldParse      = "SUBFIELD_PARSE"
	CodeUnknownObjCode     = "UNKNOWN_OBJ_CODE"
	CodeMissingRequiredAttr = "MISSING_REQUIRED_ATTR"
	CodeDepthOutOfRange    = "DEPTH_OUT_OF_RANGE"
	CodePolygonClosedAuto  = "POLYGON_CLOSED_AUTO"
	CodeDuplicatePrimitive  = "DUPLICATE_PRIMITIVE_ID"
	CodeSelfIntersection    = "self_intersection"
	CodeMissingNode         = "missing_node"
	CodeMissingEdge         = "missing_edge"
	CodeDegenerateEdge      = "degenerate_edge"
	CodeEmptySpatialPointer = "empty_spatial_pointer_list"
	CodeSyntheticFallback   = "SYNTHETIC_FALLBACK"
)

// Warning is one immutable parse defect.
type Warning struct {
	Code      string
	Severity  Severity
	Message   string
	RecordID  *int64
	FeatureID *int64
	Timestamp time.Time
}

// Equal compares everything but Timestamp, per the collector's equality
// contract.
func (w Warning) Equal(o Warning) bool {
	return w.Code == o.Code &&
		w.Severity == o.Severity &&
		w.Message == o.Message &&
		ptrEqual(w.RecordID, o.RecordID) &&
		ptrEqual(w.FeatureID, o.FeatureID)
}

func ptrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Summary is the report shape consumers poll after a parse.
type Summary struct {
	TotalWarnings       int
	HasErrors           bool
	StrictMode          bool
	IsThresholdExceeded bool
	WarningsBySeverity  map[Severity]int
	WarningsByCode      map[string]int
}

// StrictModeError is raised when StrictMode promotes a warning to fatal.
type StrictModeError struct {
	Warning Warning
}

func (e *StrictModeError) Error() string {
	return fmt.Sprintf("strict mode: %s warning %s: %s", e.Warning.Severity, e.Warning.Code, e.Warning.Message)
}

// CollectorOption configures a Collector at construction.
type CollectorOption func(*Collector)

// WithStrictMode promotes any warning of severity >= SeverityWarning into
// a fatal *StrictModeError.
func WithStrictMode(strict bool) CollectorOption {
	return func(c *Collector) { c.strict = strict }
}

// WithThreshold sets the warning count above which Summary.IsThresholdExceeded
// becomes true. Zero (the default) means unlimited.
func WithThreshold(threshold int) CollectorOption {
	return func(c *Collector) { c.threshold = threshold }
}

// Collector is thread-confined to a single parse, per the concurrency
// model: no locking is performed.
type Collector struct {
	warnings  []Warning
	strict    bool
	threshold int
}

// NewCollector builds an empty Collector.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Warn records a warning. It returns a non-nil *StrictModeError when
// strict mode is enabled and severity is at least SeverityWarning; the
// warning is still recorded before the error is returned.
func (c *Collector) Warn(code string, severity Severity, message string, recordID, featureID *int64) error {
	w := Warning{
		Code:      code,
		Severity:  severity,
		Message:   message,
		RecordID:  recordID,
		FeatureID: featureID,
		Timestamp: time.Now(),
	}
	c.warnings = append(c.warnings, w)
	if c.strict && severity >= SeverityWarning {
		return errors.WithStack(&StrictModeError{Warning: w})
	}
	return nil
}

// Warnf is a convenience wrapper around Warn using fmt.Sprintf for the
// message.
func (c *Collector) Warnf(code string, severity Severity, recordID, featureID *int64, format string, args ...interface{}) error {
	return c.Warn(code, severity, fmt.Sprintf(format, args...), recordID, featureID)
}

// All returns the insertion-ordered warning list. The returned slice is a
// fresh copy; callers may not mutate the collector through it.
func (c *Collector) All() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// FilterBySeverity returns warnings with the given severity, in insertion
// order.
func (c *Collector) FilterBySeverity(severity Severity) []Warning {
	var out []Warning
	for _, w := range c.warnings {
		if w.Severity == severity {
			out = append(out, w)
		}
	}
	return out
}

// FilterByCode returns warnings with the given code, in insertion order.
func (c *Collector) FilterByCode(code string) []Warning {
	var out []Warning
	for _, w := range c.warnings {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}

// Clear discards all recorded warnings.
func (c *Collector) Clear() {
	c.warnings = nil
}

// Merge appends another collector's warnings onto this one, preserving
// the order of each but placing other's warnings after c's own. Used to
// fold a Primitive Store's isolated warning buffer into the parser's main
// collector at end-of-parse.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.warnings = append(c.warnings, other.warnings...)
}

// Summary reports aggregate counts.
func (c *Collector) Summary() Summary {
	s := Summary{
		TotalWarnings:      len(c.warnings),
		StrictMode:         c.strict,
		WarningsBySeverity: map[Severity]int{},
		WarningsByCode:     map[string]int{},
	}
	for _, w := range c.warnings {
		s.WarningsBySeverity[w.Severity]++
		s.WarningsByCode[w.Code]++
		if w.Severity == SeverityError {
			s.HasErrors = true
		}
	}
	if c.threshold > 0 && s.TotalWarnings > c.threshold {
		s.IsThresholdExceeded = true
	}
	return s
}
