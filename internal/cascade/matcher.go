package cascade

import (
	"strings"

	"github.com/esteham/eland-portal/internal/records/models"
)

// MatchOutcome classifies how a search query resolved.
type MatchOutcome string

const (
	MatchExact    MatchOutcome = "exact"
	MatchFallback MatchOutcome = "fallback"
	MatchNone     MatchOutcome = "none"
)

// MatchResult is the output of a leaf search. Candidates carries the
// substring-filtered set in original list order for incremental-search
// rendering; Picked is nil when nothing matched.
type MatchResult struct {
	Picked     *models.LeafRecord
	Candidates []models.LeafRecord
	Outcome    MatchOutcome
}

// Match resolves a free-text query against a leaf list. An exact
// case-insensitive match on the display key wins; otherwise the first entry
// of the case-insensitive substring filter is picked, preserving the order of
// the input list. An empty filter set leaves the current selection alone.
func Match(query string, leaves []models.LeafRecord) MatchResult {
	needle := strings.ToLower(strings.TrimSpace(query))

	var candidates []models.LeafRecord
	var exact *models.LeafRecord
	for i := range leaves {
		key := strings.ToLower(strings.TrimSpace(leaves[i].DisplayKey))
		if key == needle && exact == nil {
			exact = &leaves[i]
		}
		if strings.Contains(key, needle) {
			candidates = append(candidates, leaves[i])
		}
	}

	if exact != nil {
		picked := *exact
		return MatchResult{Picked: &picked, Candidates: candidates, Outcome: MatchExact}
	}
	if len(candidates) > 0 {
		picked := candidates[0]
		return MatchResult{Picked: &picked, Candidates: candidates, Outcome: MatchFallback}
	}
	return MatchResult{Outcome: MatchNone}
}
