package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

type attrKind int

const (
	kindString attrKind = iota
	kindUint
	kindFloat
	kindBool
	kindPath
)

var (
	errEmptyPath   = errors.New("empty path")
	errNotFinite   = errors.New("not a finite number")
	errHexadecimal = errors.New("hexadecimal float")
)

func (k attrKind) convert(v string) (any, error) {
	switch k {
	case kindUint:
		return strconv.ParseUint(v, 10, 64)
	case kindFloat:
		return parseFloat(v)
	case kindBool:
		return strconv.ParseBool(v)
	case kindPath:
		if v == "" {
			return nil, errEmptyPath
		}
		return v, nil
	default:
		return v, nil
	}
}

// parseFloat accepts decimal notation only. Rates and complexity are finite,
// and NaN or Inf would later fail JSON encoding.
func parseFloat(v string) (float64, error) {
	digits := strings.TrimLeft(v, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, errHexadecimal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

type attrSpec struct {
	name     string
	kind     attrKind
	required bool
}

// attrSchema lists the attributes an element carries. Attributes not in the
// schema are ignored.
type attrSchema []attrSpec

var (
	coverageAttrs = attrSchema{
		{"line-rate", kindFloat, true},
		{"branch-rate", kindFloat, true},
		{"lines-covered", kindUint, true},
		{"lines-valid", kindUint, true},
		{"branches-covered", kindUint, true},
		{"branches-valid", kindUint, true},
		{"complexity", kindFloat, true},
		{"version", kindString, true},
		{"timestamp", kindUint, true},
	}
	packageAttrs = attrSchema{
		{"name", kindString, true},
		{"line-rate", kindFloat, true},
		{"branch-rate", kindFloat, true},
		{"complexity", kindFloat, true},
	}
	classAttrs = attrSchema{
		{"name", kindString, true},
		{"filename", kindPath, true},
		{"line-rate", kindFloat, true},
		{"branch-rate", kindFloat, true},
		{"complexity", kindFloat, true},
	}
	methodAttrs = attrSchema{
		{"name", kindString, true},
		{"signature", kindString, true},
		{"line-rate", kindFloat, true},
		{"branch-rate", kindFloat, true},
	}
	lineAttrs = attrSchema{
		{"number", kindUint, true},
		{"hits", kindUint, true},
		{"branch", kindBool, false},
		{"condition-coverage", kindString, false},
	}
	conditionAttrs = attrSchema{
		{"number", kindUint, false},
		{"type", kindString, true},
		{"coverage", kindString, true},
	}
)

func (s attrSchema) lookup(name string) bool {
	for _, spec := range s {
		if spec.name == name {
			return true
		}
	}
	return false
}

// extract converts the attributes named by s. The whole list is read before
// anything is reported, so the result does not depend on attribute order:
// duplicates first, then unconvertible values and finally missing required
// attributes, each in schema order.
func (s attrSchema) extract(attrs []Attr) (attrValues, error) {
	raw := make(map[string]string, len(s))
	for _, a := range attrs {
		if !s.lookup(a.Name) {
			continue
		}
		if _, dup := raw[a.Name]; dup {
			return nil, &FailedToParseAttributeError{Name: a.Name}
		}
		raw[a.Name] = a.Value
	}

	values := make(attrValues, len(raw))
	for _, spec := range s {
		v, ok := raw[spec.name]
		if !ok {
			continue
		}
		converted, err := spec.kind.convert(v)
		if err != nil {
			return nil, &InvalidValueError{Attribute: spec.name, Value: v, Err: err}
		}
		values[spec.name] = converted
	}

	for _, spec := range s {
		if _, ok := values[spec.name]; !ok && spec.required {
			return nil, &MissingAttributeError{Attribute: spec.name}
		}
	}
	return values, nil
}

// attrValues holds converted values by attribute name. Accessors return the
// zero value for absent optional attributes.
type attrValues map[string]any

func (v attrValues) str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v attrValues) optStr(name string) *string {
	s, ok := v[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v attrValues) u64(name string) uint64 {
	n, _ := v[name].(uint64)
	return n
}

func (v attrValues) f64(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

func (v attrValues) flag(name string) bool {
	b, _ := v[name].(bool)
	return b
}
