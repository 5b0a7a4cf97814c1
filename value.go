// FILE: spicex/value.go
package spicex

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindArray
	KindObject
)

// String returns the kind name used in diagnostics and conversion errors.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one configuration datum: a scalar, an array of Values, or an
// object mapping key segments to Values. The zero Value is null. Values are
// treated as immutable once they enter a layer; all mutation paths build new
// Values instead of editing in place.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	arr  []Value
	obj  map[string]Value
}

// NullValue returns the null Value. Equivalent to the zero Value.
func NullValue() Value { return Value{} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue wraps a 64-bit signed integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a 64-bit float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ArrayValue wraps an ordered sequence of Values.
func ArrayValue(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// ObjectValue wraps a map of key segments to Values. The map is used as-is;
// callers must not retain and mutate it afterwards.
func ObjectValue(fields map[string]Value) Value {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Value{kind: KindObject, obj: fields}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString coerces v to a string. Strings pass through; ints, floats and
// bools render as canonical decimal/boolean text. Arrays, objects and null
// yield no result.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// AsInt coerces v to an int64. Ints pass through, floats truncate, and
// numeric-looking strings parse (integer first, then float with truncation).
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return 0, false
		}
		return int64(v.f), true
	case KindString:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsFloat coerces v to a float64. Floats pass through, ints widen, and
// numeric-looking strings parse.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindString:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsBool coerces v to a bool. Bools pass through; strings match the usual
// truthy/falsy spellings case-insensitively; ints are true iff non-zero.
// Everything else yields no result.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		switch strings.ToLower(v.s) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		default:
			return false, false
		}
	case KindInt:
		return v.i != 0, true
	default:
		return false, false
	}
}

// AsArray returns the element slice when v is an array. The slice must not
// be mutated.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsObject returns the field map when v is an object. The map must not be
// mutated.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal reports deep equality between two value trees. Int and float values
// compare as distinct kinds even when numerically equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == other.s
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, lv := range v.obj {
			rv, ok := other.obj[k]
			if !ok || !lv.Equal(rv) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface exports v as a plain Go tree: nil, string, int64, float64, bool,
// []any, or map[string]any. Used by serializers and the struct decoder.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		m := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			m[k] = e.Interface()
		}
		return m
	default:
		return nil
	}
}

// String renders a compact diagnostic form of the value. Not a serialization
// format; use a Parser for that.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.obj[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindNull:
		return "null"
	default:
		s, _ := v.AsString()
		return s
	}
}

// fromGoValue converts a plain Go value (as produced by the parsers or
// supplied by callers of Set/SetDefault) into a Value tree. json.Number is
// resolved to int before float to preserve integer identity.
func fromGoValue(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case time.Duration:
		// Durations round-trip through their textual form so they stay
		// readable in serialized files and decode back via the duration hook.
		return StringValue(x.String()), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return uintValue(x)
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("unparseable number %q", x.String())
		}
		return FloatValue(f), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := fromGoValue(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return ArrayValue(elems...), nil
	case []string:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = StringValue(e)
		}
		return ArrayValue(elems...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := fromGoValue(e)
			if err != nil {
				return Value{}, err
			}
			fields[k] = ev
		}
		return ObjectValue(fields), nil
	case map[string]string:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			fields[k] = StringValue(e)
		}
		return ObjectValue(fields), nil
	}

	// Slices and maps of concrete element types fall through to reflection.
	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := fromGoValue(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return ArrayValue(elems...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := fromGoValue(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			fields[iter.Key().String()] = ev
		}
		return ObjectValue(fields), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil
	}

	return Value{}, fmt.Errorf("unsupported value type %T", in)
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("unsigned value %d overflows int64", u)
	}
	return IntValue(int64(u)), nil
}

// descend navigates a value tree along path. A numeric segment indexes into
// arrays; against objects it is treated as a literal key, so object keys that
// happen to be numeric strings still resolve. Navigation through a scalar or
// past an array bound yields absence, never an error.
func descend(v Value, path Path) (Value, bool) {
	for _, seg := range path {
		switch v.kind {
		case KindObject:
			child, ok := v.obj[seg.Literal]
			if !ok {
				return Value{}, false
			}
			v = child
		case KindArray:
			if seg.Index < 0 || seg.Index >= len(v.arr) {
				return Value{}, false
			}
			v = v.arr[seg.Index]
		default:
			return Value{}, false
		}
	}
	return v, true
}

// collectLeafPaths walks a value tree and returns the path of every leaf
// (non-object) value, in no particular order. Array elements count as part of
// the leaf above them; indices are not enumerated as addresses.
func collectLeafPaths(v Value) []Path {
	var out []Path
	var walk func(v Value, prefix Path)
	walk = func(v Value, prefix Path) {
		obj, ok := v.AsObject()
		if !ok || len(obj) == 0 {
			if len(prefix) > 0 {
				cp := make(Path, len(prefix))
				copy(cp, prefix)
				out = append(out, cp)
			}
			return
		}
		for k, child := range obj {
			walk(child, append(prefix, newSegment(k)))
		}
	}
	walk(v, nil)
	return out
}
