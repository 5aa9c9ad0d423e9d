package apiclient

import (
	"context"
	"net/http"

	"decana/internal/types"
)

type generateCriteriaReq struct {
	Concept string `json:"concept"`
}

// GenerateCriteria asks the backend's AI endpoint for criteria matching a
// free-text decision goal.
func (c *Client) GenerateCriteria(ctx context.Context, concept string) (types.CriteriaSuggestion, error) {
	var out types.CriteriaSuggestion
	err := c.do(ctx, http.MethodPost, "/ai/generate-criteria", generateCriteriaReq{Concept: concept}, &out)
	if err != nil {
		return types.CriteriaSuggestion{}, err
	}
	return out, nil
}

type evaluateAlternativeReq struct {
	Alternative map[string]any    `json:"alternative"`
	Criteria    types.CriteriaSet `json:"criteria"`
}

// EvaluateAlternative asks the backend's AI endpoint to judge an alternative
// against the project's criteria.
func (c *Client) EvaluateAlternative(ctx context.Context, alternative map[string]any, criteria types.CriteriaSet) (types.Evaluation, error) {
	var out types.Evaluation
	err := c.do(ctx, http.MethodPost, "/ai/evaluate-alternative",
		evaluateAlternativeReq{Alternative: alternative, Criteria: criteria}, &out)
	if err != nil {
		return types.Evaluation{}, err
	}
	return out, nil
}

type predictScoresReq struct {
	Alternative      map[string]any    `json:"alternative"`
	NewCriteria      types.CriteriaSet `json:"newCriteria"`
	ExistingCriteria types.Evaluation  `json:"existingCriteria"`
}

// PredictScores asks the backend's AI endpoint for scores on criteria added
// after the alternative was first evaluated.
func (c *Client) PredictScores(ctx context.Context, alternative map[string]any, newCriteria types.CriteriaSet, existing types.Evaluation) (types.Evaluation, error) {
	var out types.Evaluation
	err := c.do(ctx, http.MethodPost, "/ai/predict-scores",
		predictScoresReq{Alternative: alternative, NewCriteria: newCriteria, ExistingCriteria: existing}, &out)
	if err != nil {
		return types.Evaluation{}, err
	}
	return out, nil
}
