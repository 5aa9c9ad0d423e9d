package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"decana/internal/cache/memory"
	"decana/internal/types"
	"decana/internal/util/jsonutil"
)

// ProviderOptions tune the direct model provider.
type ProviderOptions struct {
	Retries  int
	CacheTTL time.Duration
	// CacheSize is the number of distinct requests kept; 0 disables caching.
	CacheSize int
}

// Provider implements Service directly against a model backend, bypassing
// the backend's /ai endpoints. Identical requests within the TTL are served
// from cache; transient model errors are retried a bounded number of times.
type Provider struct {
	llm     LLMClient
	retries int
	cache   *memory.LRUTTL[string, json.RawMessage]
}

func NewProvider(llm LLMClient, opts ProviderOptions) *Provider {
	p := &Provider{llm: llm, retries: opts.Retries}
	if opts.CacheSize > 0 {
		p.cache = memory.NewLRUTTL[string, json.RawMessage](opts.CacheSize, opts.CacheTTL)
	}
	return p
}

// Close releases the underlying model client.
func (p *Provider) Close() error { return p.llm.Close() }

func (p *Provider) GenerateCriteria(ctx context.Context, concept string) (types.CriteriaSuggestion, error) {
	prompt := buildPrompt(promptSpec{
		Purpose: "Propose evaluation criteria for a multi-criteria decision.",
		Background: "The user is setting up a decision project. Must-have criteria are binary gates " +
			"(an alternative failing any of them is disqualified). Want criteria are weighted " +
			"attributes scored 0-5, with integer weights 1-10 reflecting importance.",
		OutputFields: []promptField{
			{Name: "must_have", Type: "array", Required: true, Description: "objects with name and description"},
			{Name: "want", Type: "array", Required: true, Description: "objects with name, description and integer weight 1-10"},
		},
		Rules: []string{
			"Propose 2-4 must-have criteria and 3-6 want criteria.",
			"Names are short noun phrases; descriptions one sentence.",
		},
		OutputFormat: `{"must_have":[{"name":"...","description":"..."}],"want":[{"name":"...","description":"...","weight":5}]}`,
	})

	var out types.CriteriaSuggestion
	if err := p.generate(ctx, prompt, map[string]any{"concept": concept}, &out); err != nil {
		return types.CriteriaSuggestion{}, err
	}
	return normalizeSuggestion(out), nil
}

func (p *Provider) EvaluateAlternative(ctx context.Context, alternative map[string]any, criteria types.CriteriaSet) (types.Evaluation, error) {
	prompt := buildPrompt(promptSpec{
		Purpose: "Evaluate one decision alternative against the project's criteria.",
		Background: "must_have criteria are binary gates; want criteria are scored 0-5. " +
			"Criteria are identified by their id fields; key every result by criterion id.",
		OutputFields: []promptField{
			{Name: "must_have_results", Type: "object", Required: true, Description: "criterion id -> boolean (true means satisfied)"},
			{Name: "want_scores", Type: "object", Required: true, Description: "criterion id -> integer score 0-5"},
		},
		Rules: []string{
			"Judge only from the alternative's data; do not assume unstated facts.",
			"When the data does not establish a must-have criterion, return false for it.",
		},
		OutputFormat: `{"must_have_results":{"<id>":true},"want_scores":{"<id>":3}}`,
	})

	input := map[string]any{"alternative": alternative, "criteria": criteria}
	var out types.Evaluation
	if err := p.generate(ctx, prompt, input, &out); err != nil {
		return types.Evaluation{}, err
	}
	return normalizeEvaluation(out), nil
}

func (p *Provider) PredictScores(ctx context.Context, alternative map[string]any, newCriteria types.CriteriaSet, existing types.Evaluation) (types.Evaluation, error) {
	prompt := buildPrompt(promptSpec{
		Purpose: "Predict results for criteria this alternative has not been scored on yet.",
		Background: "The alternative was already evaluated once; its existing evaluation is provided " +
			"as context for calibration. Only the new criteria need results.",
		OutputFields: []promptField{
			{Name: "must_have_results", Type: "object", Required: true, Description: "new must-have criterion id -> boolean"},
			{Name: "want_scores", Type: "object", Required: true, Description: "new want criterion id -> integer score 0-5"},
		},
		Rules: []string{
			"Return entries only for the new criteria.",
			"Stay consistent with the existing evaluation's judgment of the alternative.",
		},
		OutputFormat: `{"must_have_results":{"<id>":true},"want_scores":{"<id>":3}}`,
	})

	input := map[string]any{
		"alternative":         alternative,
		"new_criteria":        newCriteria,
		"existing_evaluation": existing,
	}
	var out types.Evaluation
	if err := p.generate(ctx, prompt, input, &out); err != nil {
		return types.Evaluation{}, err
	}
	return normalizeEvaluation(out), nil
}

// generate runs one model call with caching and bounded retries, decoding
// the response leniently (models occasionally wrap JSON in fences).
func (p *Provider) generate(ctx context.Context, prompt string, input any, out any) error {
	key := requestKey(prompt, input)
	if raw, ok := p.cache.Get(key); ok {
		return jsonutil.UnmarshalLoose(raw, out)
	}

	var raw json.RawMessage
	var err error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		raw, err = p.llm.GenerateJSON(ctx, prompt, input)
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("suggest: %s: %w", p.llm.Name(), err)
	}

	if err := jsonutil.UnmarshalLoose(raw, out); err != nil {
		return fmt.Errorf("suggest: %s: %w", p.llm.Name(), ErrInvalidJSON)
	}
	p.cache.Set(key, raw)
	return nil
}

func requestKey(prompt string, input any) string {
	in, _ := json.Marshal(input)
	sum := sha256.Sum256(append([]byte(prompt), in...))
	return hex.EncodeToString(sum[:])
}
