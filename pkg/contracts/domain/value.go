package domain

import (
	"strconv"
)

// ValueKind identifies what a cell Value holds
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindString
	KindNumber
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// Value is a single scalar cell: a string, a number or missing.
// The zero Value is missing.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// Missing returns the missing marker
func Missing() Value {
	return Value{}
}

// StringValue wraps s as a string cell
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue wraps f as a numeric cell
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Kind reports what the value holds
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsMissing reports whether the cell is empty
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Number returns the numeric payload and whether the value is a number
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String renders the value as text. Numbers use the shortest decimal
// representation, so 3 and 3.0 render identically. Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Interface returns the value as a plain Go value suitable for spreadsheet
// writers: string, float64 or nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	default:
		return nil
	}
}
