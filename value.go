package flowsync

import "strconv"

// ValueType tags the payload of a Value.
type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeText
	TypeInteger
	TypeBoolean
)

func (t ValueType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeBoolean:
		return "boolean"
	default:
		return "undefined"
	}
}

// Value is a typed widget or flow value. Values compare with ==, which gives
// string comparison for text, integer comparison for numbers and selections,
// and boolean comparison for states and flags.
type Value struct {
	Type ValueType
	Text string
	Int  int32
	Bool bool
}

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{Type: TypeText, Text: s} }

// IntValue returns an integer Value.
func IntValue(i int32) Value { return Value{Type: TypeInteger, Int: i} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{Type: TypeBoolean, Bool: b} }

func (v Value) String() string {
	switch v.Type {
	case TypeText:
		return strconv.Quote(v.Text)
	case TypeInteger:
		return strconv.FormatInt(int64(v.Int), 10)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return "undefined"
	}
}
