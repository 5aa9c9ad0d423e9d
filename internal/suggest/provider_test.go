package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"decana/internal/types"
)

// fakeLLM returns canned responses in sequence and records prompts.
type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return json.RawMessage(f.responses[i]), nil
	}
	return json.RawMessage(f.responses[len(f.responses)-1]), nil
}

func TestProvider_GenerateCriteria(t *testing.T) {
	llm := &fakeLLM{responses: []string{`{
		"must_have": [
			{"name": "In budget", "description": "Total cost fits."},
			{"name": "  ", "description": "unnamed, dropped"}
		],
		"want": [
			{"name": "Garden", "description": "Outdoor space.", "weight": 99},
			{"name": "Quiet", "weight": 0}
		]
	}`}}
	p := NewProvider(llm, ProviderOptions{})

	out, err := p.GenerateCriteria(context.Background(), "buy a house")
	if err != nil {
		t.Fatal(err)
	}
	if len(out.MustHave) != 1 || out.MustHave[0].Name != "In budget" {
		t.Fatalf("must_have = %+v", out.MustHave)
	}
	if len(out.Want) != 2 {
		t.Fatalf("want = %+v", out.Want)
	}
	if out.Want[0].Weight != types.MaxWeight {
		t.Errorf("weight 99 not clamped: %d", out.Want[0].Weight)
	}
	if out.Want[1].Weight != types.MinWeight {
		t.Errorf("weight 0 not clamped up: %d", out.Want[1].Weight)
	}
	for _, sec := range []string{"[PURPOSE]", "[BACKGROUND]", "[OUTPUT]", "[CONSTRAINTS]", "[RULES]", "[OUTPUT_FORMAT]"} {
		if !strings.Contains(llm.prompts[0], sec) {
			t.Errorf("prompt missing section %s", sec)
		}
	}
}

func TestProvider_EvaluateAlternative_ClampsScores(t *testing.T) {
	llm := &fakeLLM{responses: []string{`{
		"must_have_results": {"m1": true},
		"want_scores": {"w1": 9, "w2": -2, "w3": 4}
	}`}}
	p := NewProvider(llm, ProviderOptions{})

	out, err := p.EvaluateAlternative(context.Background(), map[string]any{"price": 1}, types.CriteriaSet{})
	if err != nil {
		t.Fatal(err)
	}
	if out.WantScores["w1"] != 5 || out.WantScores["w2"] != 0 || out.WantScores["w3"] != 4 {
		t.Fatalf("scores = %v", out.WantScores)
	}
	if !out.MustHaveResults["m1"] {
		t.Error("must-have result lost")
	}
}

func TestProvider_FencedJSONAccepted(t *testing.T) {
	llm := &fakeLLM{responses: []string{
		"```json\n{\"must_have_results\":{},\"want_scores\":{\"w1\":3}}\n```",
	}}
	p := NewProvider(llm, ProviderOptions{})

	out, err := p.PredictScores(context.Background(), nil, types.CriteriaSet{}, types.Evaluation{})
	if err != nil {
		t.Fatal(err)
	}
	if out.WantScores["w1"] != 3 {
		t.Fatalf("scores = %v", out.WantScores)
	}
}

func TestProvider_InvalidJSON(t *testing.T) {
	llm := &fakeLLM{responses: []string{"I cannot answer that."}}
	p := NewProvider(llm, ProviderOptions{})

	_, err := p.GenerateCriteria(context.Background(), "x")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("err = %v", err)
	}
}

func TestProvider_RetriesTransientErrors(t *testing.T) {
	llm := &fakeLLM{
		errs:      []error{errors.New("503"), errors.New("503")},
		responses: []string{"", "", `{"must_have":[],"want":[]}`},
	}
	p := NewProvider(llm, ProviderOptions{Retries: 2})

	if _, err := p.GenerateCriteria(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if llm.calls != 3 {
		t.Fatalf("calls = %d, want 3", llm.calls)
	}
}

func TestProvider_RetriesExhausted(t *testing.T) {
	boom := errors.New("boom")
	llm := &fakeLLM{errs: []error{boom, boom}, responses: []string{"", ""}}
	p := NewProvider(llm, ProviderOptions{Retries: 1})

	_, err := p.GenerateCriteria(context.Background(), "x")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if llm.calls != 2 {
		t.Fatalf("calls = %d, want 2", llm.calls)
	}
}

func TestProvider_CachesIdenticalRequests(t *testing.T) {
	llm := &fakeLLM{responses: []string{`{"must_have":[],"want":[{"name":"a","weight":3}]}`}}
	p := NewProvider(llm, ProviderOptions{CacheSize: 8, CacheTTL: time.Minute})

	if _, err := p.GenerateCriteria(context.Background(), "same"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.GenerateCriteria(context.Background(), "same"); err != nil {
		t.Fatal(err)
	}
	if llm.calls != 1 {
		t.Fatalf("calls = %d, want 1", llm.calls)
	}
	if _, err := p.GenerateCriteria(context.Background(), "different"); err != nil {
		t.Fatal(err)
	}
	if llm.calls != 2 {
		t.Fatalf("calls = %d, want 2", llm.calls)
	}
}
