package schema

import (
	"testing"

	"decana/internal/types"
)

func houseSchema() types.FormSchema {
	return GenerateSchema([]types.FieldDefinition{
		{Name: "Price", Type: types.FieldNumber, Required: true},
		{Name: "Has Garage", Type: types.FieldBoolean},
		{Name: "Available From", Type: types.FieldDate},
		{Name: "Region", Type: types.FieldSelect, Options: []types.FieldOption{
			{Value: "north", Label: "North"},
			{Value: "south", Label: "South"},
		}},
		{Name: "Notes", Type: types.FieldText},
	})
}

func TestValidate_Accepts(t *testing.T) {
	res := Validate(houseSchema(), map[string]any{
		"price":          420000.0,
		"has_garage":     true,
		"available_from": "2026-09-01",
		"region":         "north",
		"notes":          "quiet street",
	})
	if !res.OK() {
		t.Fatalf("unexpected violations: %v", res.Violations)
	}
	if got := res.Data["price"]; got.Kind != KindNum || got.Num != 420000 {
		t.Errorf("price = %+v", got)
	}
	if got := res.Data["has_garage"]; got.Kind != KindBool || !got.Bool {
		t.Errorf("has_garage = %+v", got)
	}
	if got := res.Data["available_from"]; got.Kind != KindDate || got.Str != "2026-09-01" {
		t.Errorf("available_from = %+v", got)
	}
}

func TestValidate_NumberCoercion(t *testing.T) {
	s := houseSchema()
	for _, raw := range []any{420000.0, float32(1000), 42, int64(7), " 12.5 "} {
		res := Validate(s, map[string]any{"price": raw})
		if !res.OK() {
			t.Errorf("number %v (%T) rejected: %v", raw, raw, res.Violations)
		}
	}
	for _, raw := range []any{"abc", []any{1}, map[string]any{}} {
		res := Validate(s, map[string]any{"price": raw})
		if res.OK() {
			t.Errorf("number %v (%T) accepted", raw, raw)
		}
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	res := Validate(houseSchema(), map[string]any{
		"has_garage": "maybe",
		"region":     "east",
		"mystery":    1,
	})
	if res.OK() {
		t.Fatal("expected violations")
	}
	kinds := map[ViolationKind]int{}
	for _, v := range res.Violations {
		kinds[v.Kind]++
	}
	if kinds[MissingField] != 1 {
		t.Errorf("missing price not reported: %v", res.Violations)
	}
	if kinds[TypeMismatch] != 1 {
		t.Errorf("has_garage mismatch not reported: %v", res.Violations)
	}
	if kinds[InvalidEnumValue] != 1 {
		t.Errorf("region enum violation not reported: %v", res.Violations)
	}
	if kinds[UnknownField] != 1 {
		t.Errorf("unknown key not reported: %v", res.Violations)
	}
	if res.Data != nil {
		t.Error("data must be nil when violations exist")
	}
	if res.Err() == nil {
		t.Error("Err() must be non-nil")
	}
}

func TestValidate_AbsentOptionalSkipped(t *testing.T) {
	res := Validate(houseSchema(), map[string]any{
		"price":  100.0,
		"notes":  "",
		"region": nil,
	})
	if !res.OK() {
		t.Fatalf("unexpected violations: %v", res.Violations)
	}
	if _, ok := res.Data["notes"]; ok {
		t.Error("empty optional string must be treated as absent")
	}
	if _, ok := res.Data["region"]; ok {
		t.Error("nil optional must be treated as absent")
	}
}

func TestValidate_RequiredEmptyStringMissing(t *testing.T) {
	res := Validate(houseSchema(), map[string]any{"price": ""})
	if res.OK() {
		t.Fatal("empty required value must be a violation")
	}
	if res.Violations[0].Kind != MissingField || res.Violations[0].Key != "price" {
		t.Errorf("violation = %+v", res.Violations[0])
	}
}

func TestValidate_BadDate(t *testing.T) {
	s := houseSchema()
	for _, raw := range []string{"2026-13-01", "not a date", "01-09-2026"} {
		res := Validate(s, map[string]any{"price": 1.0, "available_from": raw})
		if res.OK() {
			t.Errorf("date %q accepted", raw)
		}
	}
}

func TestDefaults_RoundTrip(t *testing.T) {
	s := GenerateSchema([]types.FieldDefinition{
		{Name: "Has Garage", Type: types.FieldBoolean},
		{Name: "Region", Type: types.FieldSelect, Options: []types.FieldOption{
			{Value: "north", Label: "North"},
		}},
		{Name: "Notes", Type: types.FieldText},
	})
	res := Validate(s, Defaults(s))
	if !res.OK() {
		t.Fatalf("defaults must validate cleanly: %v", res.Violations)
	}
	if got := res.Data["has_garage"]; got.Kind != KindBool || got.Bool {
		t.Errorf("has_garage default = %+v", got)
	}
	if got := res.Data["region"]; got.Str != "north" {
		t.Errorf("region default = %+v", got)
	}
}
