package extract

import (
	"strings"

	"github.com/planora/planora/internal/model"
)

// MergeRules deduplicates rules by lower-cased statement text. The first
// occurrence in traversal order wins; later duplicates are dropped
// silently regardless of their type or confidence.
func MergeRules(ruleLists [][]model.Rule) []model.Rule {
	seen := make(map[string]bool)
	merged := []model.Rule{}

	for _, rules := range ruleLists {
		for _, r := range rules {
			key := strings.ToLower(r.Statement)
			if !seen[key] {
				seen[key] = true
				merged = append(merged, r)
			}
		}
	}

	return merged
}
