// Package scoring turns per-criterion results into disqualification and
// ranking outcomes. All functions are pure: they read their arguments and
// return new values, so they are safe to call from any goroutine.
package scoring

import (
	"decana/internal/types"
)

// Result is the derived outcome for one alternative.
type Result struct {
	Disqualified bool    `json:"disqualified"`
	TotalScore   float64 `json:"score"`
}

// Evaluate computes the derived outcome for an alternative's evaluation.
//
// A must-have criterion with a false or missing result disqualifies the
// alternative; missing means not satisfied, so incomplete evaluations never
// pass by default. A disqualified alternative scores 0 regardless of its
// want scores. Otherwise the score is the weight-normalized mean of the
// want scores, in [0, 5]; criteria without a recorded score count as 0, and
// an empty want list yields 0 rather than dividing by zero.
func Evaluate(eval types.Evaluation, mustHave, want []types.Criterion) Result {
	for _, c := range mustHave {
		if !eval.MustHaveResults[c.ID] {
			return Result{Disqualified: true, TotalScore: 0}
		}
	}

	totalWeight := 0
	weighted := 0.0
	for _, c := range want {
		totalWeight += c.Weight
		if score, ok := eval.WantScores[c.ID]; ok {
			weighted += float64(score) * float64(c.Weight)
		}
	}
	if totalWeight == 0 {
		return Result{}
	}
	return Result{TotalScore: weighted / float64(totalWeight)}
}

// Rescore recomputes the derived fields of an alternative in place against
// the current criteria set. Score entries for deleted criteria are simply
// not consulted; they stay in the record without affecting the outcome.
func Rescore(alt *types.AlternativeRecord, criteria types.CriteriaSet) {
	res := Evaluate(alt.Evaluation, criteria.MustHave, criteria.Want)
	alt.Disqualified = res.Disqualified
	alt.TotalScore = res.TotalScore
}

// MergePredictions folds newly predicted scores into an existing evaluation:
// mentioned criterion ids are overwritten, everything else is preserved, and
// ids with no matching criterion yet are stored for when one appears. The
// merge never touches derived fields; the caller re-runs Evaluate.
func MergePredictions(eval types.Evaluation, predicted types.Evaluation) types.Evaluation {
	out := eval.Clone()
	if len(predicted.MustHaveResults) > 0 && out.MustHaveResults == nil {
		out.MustHaveResults = make(map[string]bool, len(predicted.MustHaveResults))
	}
	for id, pass := range predicted.MustHaveResults {
		out.MustHaveResults[id] = pass
	}
	if len(predicted.WantScores) > 0 && out.WantScores == nil {
		out.WantScores = make(map[string]int, len(predicted.WantScores))
	}
	for id, score := range predicted.WantScores {
		out.WantScores[id] = score
	}
	return out
}

// ClampWantScore forces a score onto the 0..5 scale. Predictions from the
// AI collaborator pass through here before they are merged.
func ClampWantScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > types.MaxWantScore {
		return types.MaxWantScore
	}
	return score
}
