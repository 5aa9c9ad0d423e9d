package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the normalized representation of a submitted field value.
type ValueKind string

const (
	KindText ValueKind = "text"
	KindNum  ValueKind = "number"
	KindBool ValueKind = "boolean"
	KindDate ValueKind = "date"
)

// Value is the tagged union produced by Validate. Raw submissions are
// loosely typed; Validate is the single coercion boundary, so everything
// downstream of it works with Values only.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

func Text(s string) Value    { return Value{Kind: KindText, Str: s} }
func Num(f float64) Value    { return Value{Kind: KindNum, Num: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func DateVal(s string) Value { return Value{Kind: KindDate, Str: s} }

// Any returns the plain Go value for wire payloads.
func (v Value) Any() any {
	switch v.Kind {
	case KindNum:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNum:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// MarshalJSON emits the underlying scalar, not the union wrapper, so
// normalized data round-trips through the persistence API unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts a scalar and tags it by JSON type. Strings come back
// as text; re-validating against the owning schema restores date/enum kinds.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = Text(x)
	case float64:
		*v = Num(x)
	case bool:
		*v = Bool(x)
	case nil:
		*v = Text("")
	default:
		return fmt.Errorf("schema: unsupported value type %T", raw)
	}
	return nil
}

// AnyMap converts normalized data to the loose map shape the REST payloads use.
func AnyMap(data map[string]Value) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v.Any()
	}
	return out
}
