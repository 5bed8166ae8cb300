// Package catalog implements the S-57 object-class and attribute
// catalog: two JSON-loaded tables, indexed for O(1) lookup, plus the
// typed attribute decoder that turns raw ATTF subfield strings into
// Go values.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oceanic-charts/s57/pkg/warning"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// AttributeType is the decode discipline for an attribute definition.
type AttributeType string

const (
	TypeInt    AttributeType = "int"
	TypeFloat  AttributeType = "float"
	TypeString AttributeType = "string"
	TypeEnum   AttributeType = "enum"
)

// ObjectClass is an immutable (code, acronym, name) triple, keyed by code
// and case-insensitive acronym.
type ObjectClass struct {
	Code    int    `json:"code"`
	Acronym string `json:"acronym"`
	Name    string `json:"name"`
}

// AttributeDef is an immutable attribute definition, keyed by numeric
// ATTF code and by case-insensitive acronym.
type AttributeDef struct {
	Code    int               `json:"code"`
	Acronym string            `json:"acronym"`
	Type    AttributeType     `json:"type"`
	Name    string            `json:"name"`
	Domain  map[string]string `json:"domain,omitempty"`
}

// EnumValue is a decoded enum attribute: a domain code plus its label
// when the code is recognized.
type EnumValue struct {
	Code  string
	Label string
	// HasLabel distinguishes a present-but-empty label from "no label":
	// {code} vs {code, label}.
	HasLabel bool
}

// Catalog indexes object classes and attribute definitions for O(1)
// lookup and tracks unknown-key reporting so repeated misses stay quiet.
type Catalog struct {
	classesByCode    map[int]ObjectClass
	classesByAcronym map[string]ObjectClass
	attributes       map[string]AttributeDef
	attributesByCode map[int]AttributeDef

	warnings        *warning.Collector
	reportedUnknown map[string]bool
}

// New builds a Catalog from decoded object-class and attribute-definition
// arrays. warnings is used by ByCode/ByAcronym to report unknown lookups;
// it may be nil to suppress that reporting (useful in isolated tests of
// DecodeAttribute).
func New(classes []ObjectClass, attrs []AttributeDef, warnings *warning.Collector) (*Catalog, error) {
	for _, a := range attrs {
		switch a.Type {
		case TypeInt, TypeFloat, TypeString, TypeEnum:
		default:
			return nil, errors.Errorf("catalog: unknown attribute type %q for acronym %q", a.Type, a.Acronym)
		}
	}

	c := &Catalog{
		classesByCode: lo.SliceToMap(classes, func(o ObjectClass) (int, ObjectClass) {
			return o.Code, o
		}),
		classesByAcronym: lo.SliceToMap(classes, func(o ObjectClass) (string, ObjectClass) {
			return strings.ToUpper(o.Acronym), o
		}),
		attributes: lo.SliceToMap(attrs, func(a AttributeDef) (string, AttributeDef) {
			return strings.ToUpper(a.Acronym), a
		}),
		attributesByCode: lo.SliceToMap(attrs, func(a AttributeDef) (int, AttributeDef) {
			return a.Code, a
		}),
		warnings:        warnings,
		reportedUnknown: map[string]bool{},
	}
	return c, nil
}

// LoadJSON parses the two catalog JSON arrays described in the public
// interface: an object-class array and an attribute-definition array.
func LoadJSON(classesJSON, attributesJSON []byte, warnings *warning.Collector) (*Catalog, error) {
	var classes []ObjectClass
	if err := json.Unmarshal(classesJSON, &classes); err != nil {
		return nil, errors.Wrap(err, "catalog: malformed object class JSON")
	}
	var attrs []AttributeDef
	if err := json.Unmarshal(attributesJSON, &attrs); err != nil {
		return nil, errors.Wrap(err, "catalog: malformed attribute definition JSON")
	}
	return New(classes, attrs, warnings)
}

// ByCode looks up an object class by its numeric code. A miss emits
// UNKNOWN_OBJ_CODE once per distinct code; subsequent misses of the same
// code are silent.
func (c *Catalog) ByCode(code int) (ObjectClass, bool) {
	oc, ok := c.classesByCode[code]
	if ok {
		return oc, true
	}
	c.reportUnknown(fmt.Sprintf("code:%d", code), code)
	return ObjectClass{}, false
}

// ByAcronym looks up an object class by case-insensitive acronym.
func (c *Catalog) ByAcronym(acronym string) (ObjectClass, bool) {
	key := strings.ToUpper(acronym)
	oc, ok := c.classesByAcronym[key]
	if ok {
		return oc, true
	}
	c.reportUnknown("acronym:"+key, 0)
	return ObjectClass{}, false
}

// AttributeByAcronym looks up an attribute definition by case-insensitive
// acronym. It does not emit warnings on miss: missing attribute
// definitions fall through to DecodeAttribute's pass-through rule per
// 4.B, not to the unknown-object-class reporting path.
func (c *Catalog) AttributeByAcronym(acronym string) (AttributeDef, bool) {
	def, ok := c.attributes[strings.ToUpper(acronym)]
	return def, ok
}

// AttributeByCode looks up an attribute definition by its numeric ATTF
// code. Like AttributeByAcronym, a miss is not reported through the
// unknown-object-class warning path.
func (c *Catalog) AttributeByCode(code int) (AttributeDef, bool) {
	def, ok := c.attributesByCode[code]
	return def, ok
}

func (c *Catalog) reportUnknown(key string, code int) {
	if c.warnings == nil || c.reportedUnknown[key] {
		return
	}
	c.reportedUnknown[key] = true
	var recordID *int64
	if code != 0 {
		id := int64(code)
		recordID = &id
	}
	_ = c.warnings.Warn(warning.CodeUnknownObjCode, warning.SeverityWarning,
		fmt.Sprintf("unknown object class %s", key), recordID, nil)
}

// DecodedValue is the tagged-sum result of DecodeAttribute, per the
// "polymorphic attribute values" design note: exactly one of its fields
// other than Kind is meaningful.
type DecodedValue struct {
	Kind  AttributeKind
	Int   int64
	Float float64
	Str   string
	Enum  EnumValue
	Raw   []string
}

// AttributeKind tags which field of DecodedValue holds the value.
type AttributeKind int

const (
	KindNone AttributeKind = iota
	KindInt
	KindFloat
	KindString
	KindEnum
	KindRaw
)

// DecodeAttribute implements 4.B's decode table. def == nil means
// pass-through: the raw values are returned unchanged as KindRaw, always
// as a list (empty, one value, or many — callers needing "no value vs one
// value vs many" should inspect len(Raw) rather than looking for a
// separate scalar case, since a definition-less attribute never carries a
// declared type to collapse to).
func DecodeAttribute(def *AttributeDef, rawValues []string) DecodedValue {
	if def == nil {
		return DecodedValue{Kind: KindRaw, Raw: append([]string{}, rawValues...)}
	}
	if len(rawValues) == 0 {
		return DecodedValue{Kind: KindNone}
	}
	first := rawValues[0]

	switch def.Type {
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(first), 64)
		if err != nil {
			return DecodedValue{Kind: KindNone}
		}
		return DecodedValue{Kind: KindFloat, Float: f}
	case TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(first), 10, 64)
		if err != nil {
			return DecodedValue{Kind: KindNone}
		}
		return DecodedValue{Kind: KindInt, Int: n}
	case TypeString:
		return DecodedValue{Kind: KindString, Str: strings.TrimSpace(first)}
	case TypeEnum:
		code := strings.TrimSpace(first)
		label, ok := def.Domain[code]
		return DecodedValue{Kind: KindEnum, Enum: EnumValue{Code: code, Label: label, HasLabel: ok}}
	default:
		return DecodedValue{Kind: KindNone}
	}
}
