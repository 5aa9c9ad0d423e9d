package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"decana/internal/types"
)

// ViolationKind classifies a validation failure.
type ViolationKind string

const (
	MissingField     ViolationKind = "missing_field"
	UnknownField     ViolationKind = "unknown_field"
	TypeMismatch     ViolationKind = "type_mismatch"
	InvalidEnumValue ViolationKind = "invalid_enum_value"
)

// Violation is one recoverable validation failure, addressed to the field
// the caller should redisplay.
type Violation struct {
	Kind ViolationKind `json:"kind"`
	Key  string        `json:"key"`
	Msg  string        `json:"msg"`
}

func (v Violation) Error() string { return fmt.Sprintf("%s: %s", v.Key, v.Msg) }

// ValidationResult carries either normalized data or the full list of
// violations found. All violations are reported, not just the first, so a
// form round-trip can mark every offending field at once.
type ValidationResult struct {
	Data       map[string]Value
	Violations []Violation
}

// OK reports whether validation passed.
func (r ValidationResult) OK() bool { return len(r.Violations) == 0 }

// Err folds the violations into a single error, nil when validation passed.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		msgs = append(msgs, v.Error())
	}
	return fmt.Errorf("schema: invalid submission: %s", strings.Join(msgs, "; "))
}

// Validate checks a raw submission against the schema and normalizes it into
// tagged values. The check is strict: keys outside the schema are
// violations, not silently dropped (the UI only ever submits fields it
// rendered, so anything extra indicates a bug or a tampered payload).
//
// Empty strings and nils count as absent: a violation for required keys,
// skipped otherwise.
func Validate(s types.FormSchema, data map[string]any) ValidationResult {
	var out ValidationResult

	for _, key := range s.Required {
		if isAbsent(data[key]) {
			out.Violations = append(out.Violations, Violation{
				Kind: MissingField,
				Key:  key,
				Msg:  "required field is missing",
			})
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make(map[string]Value, len(data))
	for _, key := range keys {
		raw := data[key]
		prop, ok := s.Properties[key]
		if !ok {
			out.Violations = append(out.Violations, Violation{
				Kind: UnknownField,
				Key:  key,
				Msg:  "field is not part of the schema",
			})
			continue
		}
		if isAbsent(raw) {
			continue
		}
		val, viol := coerce(key, prop, raw)
		if viol != nil {
			out.Violations = append(out.Violations, *viol)
			continue
		}
		normalized[key] = val
	}

	if len(out.Violations) > 0 {
		return out
	}
	out.Data = normalized
	return out
}

// Defaults renders the submission a freshly displayed form would produce:
// booleans default to false, selects to their first option, everything else
// to the empty string (absent). Validating these defaults never yields a
// type or enum violation.
func Defaults(s types.FormSchema) map[string]any {
	out := make(map[string]any, len(s.Properties))
	for key, prop := range s.Properties {
		switch {
		case prop.Type == "boolean":
			out[key] = false
		case len(prop.Enum) > 0:
			out[key] = prop.Enum[0]
		}
	}
	return out
}

func isAbsent(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && s == ""
}

func coerce(key string, prop types.PropertySpec, raw any) (Value, *Violation) {
	switch prop.Type {
	case "number":
		n, ok := toNumber(raw)
		if !ok {
			return Value{}, &Violation{Kind: TypeMismatch, Key: key, Msg: "value is not a finite number"}
		}
		return Num(n), nil

	case "boolean":
		b, ok := toBool(raw)
		if !ok {
			return Value{}, &Violation{Kind: TypeMismatch, Key: key, Msg: "value is not a boolean"}
		}
		return Bool(b), nil

	default: // "string", including enum and date flavors
		str, ok := raw.(string)
		if !ok {
			return Value{}, &Violation{Kind: TypeMismatch, Key: key, Msg: "value is not a string"}
		}
		if len(prop.Enum) > 0 {
			if !containsString(prop.Enum, str) {
				return Value{}, &Violation{Kind: InvalidEnumValue, Key: key, Msg: fmt.Sprintf("%q is not an allowed option", str)}
			}
			return Text(str), nil
		}
		if prop.Format == "date" {
			if _, err := time.Parse("2006-01-02", str); err != nil {
				return Value{}, &Violation{Kind: TypeMismatch, Key: key, Msg: "value is not a date (YYYY-MM-DD)"}
			}
			return DateVal(str), nil
		}
		return Text(str), nil
	}
}

func toNumber(raw any) (float64, bool) {
	var n float64
	switch x := raw.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toBool(raw any) (bool, bool) {
	switch x := raw.(type) {
	case bool:
		return x, true
	case string:
		switch strings.TrimSpace(x) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
