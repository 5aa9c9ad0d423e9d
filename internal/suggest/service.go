// Package suggest is the client side of the external AI suggestion service.
// It proposes criteria for a decision goal, judges alternatives against
// criteria, and predicts scores for criteria added after an alternative was
// evaluated. Its output is advisory: disqualification and totals are always
// recomputed by the scoring engine, never taken from a model.
package suggest

import (
	"context"
	"strings"

	"decana/internal/scoring"
	"decana/internal/types"
)

// Service is the AI collaborator's surface as the workflow consumes it.
type Service interface {
	// GenerateCriteria proposes must-have and want criteria for a
	// free-text decision goal.
	GenerateCriteria(ctx context.Context, concept string) (types.CriteriaSuggestion, error)
	// EvaluateAlternative judges one alternative against the criteria.
	EvaluateAlternative(ctx context.Context, alternative map[string]any, criteria types.CriteriaSet) (types.Evaluation, error)
	// PredictScores fills in results for criteria the alternative has not
	// been scored on yet, given its existing evaluation as context.
	PredictScores(ctx context.Context, alternative map[string]any, newCriteria types.CriteriaSet, existing types.Evaluation) (types.Evaluation, error)
}

// Remote delegates to the decision backend's /ai endpoints, the path the
// web client always took.
type Remote struct {
	API RemoteAPI
}

// RemoteAPI is the slice of the backend client the remote service needs.
type RemoteAPI interface {
	GenerateCriteria(ctx context.Context, concept string) (types.CriteriaSuggestion, error)
	EvaluateAlternative(ctx context.Context, alternative map[string]any, criteria types.CriteriaSet) (types.Evaluation, error)
	PredictScores(ctx context.Context, alternative map[string]any, newCriteria types.CriteriaSet, existing types.Evaluation) (types.Evaluation, error)
}

func NewRemote(api RemoteAPI) *Remote { return &Remote{API: api} }

func (r *Remote) GenerateCriteria(ctx context.Context, concept string) (types.CriteriaSuggestion, error) {
	out, err := r.API.GenerateCriteria(ctx, concept)
	if err != nil {
		return types.CriteriaSuggestion{}, err
	}
	return normalizeSuggestion(out), nil
}

func (r *Remote) EvaluateAlternative(ctx context.Context, alternative map[string]any, criteria types.CriteriaSet) (types.Evaluation, error) {
	out, err := r.API.EvaluateAlternative(ctx, alternative, criteria)
	if err != nil {
		return types.Evaluation{}, err
	}
	return normalizeEvaluation(out), nil
}

func (r *Remote) PredictScores(ctx context.Context, alternative map[string]any, newCriteria types.CriteriaSet, existing types.Evaluation) (types.Evaluation, error) {
	out, err := r.API.PredictScores(ctx, alternative, newCriteria, existing)
	if err != nil {
		return types.Evaluation{}, err
	}
	return normalizeEvaluation(out), nil
}

// normalizeSuggestion drops unnamed suggestions and forces want weights into
// the 1..10 range. The service's output is untrusted input here.
func normalizeSuggestion(s types.CriteriaSuggestion) types.CriteriaSuggestion {
	out := types.CriteriaSuggestion{}
	for _, m := range s.MustHave {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		m.Weight = 0
		out.MustHave = append(out.MustHave, m)
	}
	for _, w := range s.Want {
		if strings.TrimSpace(w.Name) == "" {
			continue
		}
		w.Weight = clampWeight(w.Weight)
		out.Want = append(out.Want, w)
	}
	return out
}

// normalizeEvaluation clamps predicted want scores onto the 0..5 scale.
func normalizeEvaluation(e types.Evaluation) types.Evaluation {
	out := e.Clone()
	for id, score := range out.WantScores {
		out.WantScores[id] = scoring.ClampWantScore(score)
	}
	return out
}

func clampWeight(w int) int {
	if w < types.MinWeight {
		return types.MinWeight
	}
	if w > types.MaxWeight {
		return types.MaxWeight
	}
	return w
}
