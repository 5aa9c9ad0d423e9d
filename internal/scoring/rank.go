package scoring

import (
	"sort"

	"decana/internal/types"
)

// Rank orders alternatives for display: qualified before disqualified, then
// total score descending. Ties keep their original relative order, so
// ranking is deterministic and idempotent for a fixed input.
func Rank(alternatives []types.AlternativeRecord) []types.AlternativeRecord {
	out := make([]types.AlternativeRecord, len(alternatives))
	copy(out, alternatives)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Disqualified != out[j].Disqualified {
			return !out[i].Disqualified
		}
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}
