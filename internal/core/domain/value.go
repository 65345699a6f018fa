package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValueKind identifies the scalar held by a Value.
type ValueKind uint8

const (
	// KindNone marks the zero Value.
	KindNone ValueKind = iota
	// KindString marks a string Value.
	KindString
	// KindInt marks a signed integer Value.
	KindInt
	// KindFloat marks a floating point Value.
	KindFloat
	// KindBool marks a boolean Value.
	KindBool
)

// Value is a tagged scalar stored in an attribute map.
type Value struct {
	kind ValueKind
	s    string
	n    int64
	f    float64
	b    bool
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue returns an integer Value.
func IntValue(n int64) Value { return Value{kind: KindInt, n: n} }

// FloatValue returns a floating point Value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a decoded scalar into a Value.
// JSON numbers with no fractional part become integers.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case float32:
		return floatOrInt(float64(x))
	case float64:
		return floatOrInt(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return IntValue(n), nil
		}
		f, err := x.Float64()
		if err != nil || !finite(f) {
			return Value{}, Annotate(ErrInvalidFilter, "value", x.String())
		}
		return FloatValue(f), nil
	default:
		return Value{}, Annotate(ErrInvalidFilter, "type", typeName(v))
	}
}

// ParseValue infers the scalar type of raw text, preferring int, float, bool
// and falling back to string. Text becomes a number only when the number
// formats back to the same text, so "007" and "1.10" stay strings.
func ParseValue(raw string) Value {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && strconv.FormatInt(n, 10) == raw {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && finite(f) && strconv.FormatFloat(f, 'f', -1, 64) == raw {
		return FloatValue(f)
	}
	switch raw {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(raw)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func floatOrInt(f float64) (Value, error) {
	if !finite(f) {
		return Value{}, Annotate(ErrInvalidFilter, "value", strconv.FormatFloat(f, 'g', -1, 64))
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return IntValue(int64(f)), nil
	}
	return FloatValue(f), nil
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}

// Kind returns the scalar kind.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload when v holds a string.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Equal reports whether v and other hold the same scalar.
// Integers and floats compare numerically.
func (v Value) Equal(other Value) bool {
	if v.isNumber() && other.isNumber() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.n == other.n
		}
		return v.float() == other.float()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.b == other.b
	default:
		return true
	}
}

func (v Value) isNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

func (v Value) float() float64 {
	if v.kind == KindInt {
		return float64(v.n)
	}
	return v.f
}

// Any returns the payload as a plain Go value.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.n
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// String renders the payload as text.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Attributes is a named scalar property map.
type Attributes map[string]Value

// Get returns the named value and whether it is present.
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}
