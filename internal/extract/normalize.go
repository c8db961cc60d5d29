package extract

import (
	"strings"

	"github.com/planora/planora/internal/model"
)

// NormalizeRule canonicalizes one raw rule into the plan taxonomy.
// Policy is permissive: missing fields degrade to defaults rather than
// erroring, so one malformed rule never aborts a document.
//
// Taxonomy mapping: constraint/requirement -> obligation,
// behavior -> permission, prohibition -> prohibition. Unrecognized types
// pass through lower-cased.
func NormalizeRule(r model.RawRule) model.Rule {
	t := strings.ToLower(strings.TrimSpace(r.Type))
	switch t {
	case "":
		t = "unknown"
	case "constraint", "requirement", "obligation":
		t = model.RuleObligation
	case "behavior", "permission":
		t = model.RulePermission
	case "prohibition":
		t = model.RuleProhibition
	}

	statement := strings.TrimRight(strings.TrimSpace(r.Statement), ".")

	confidence := strings.ToLower(strings.TrimSpace(r.Confidence))
	if confidence == "" {
		confidence = model.ConfidenceLow
	}

	return model.Rule{
		Type:       t,
		Statement:  statement,
		Confidence: confidence,
	}
}

// NormalizeAll flattens per-chunk raw rule lists into one normalized
// list, preserving chunk order then in-chunk order.
func NormalizeAll(ruleLists [][]model.RawRule) []model.Rule {
	var normalized []model.Rule
	for _, rules := range ruleLists {
		for _, r := range rules {
			normalized = append(normalized, NormalizeRule(r))
		}
	}
	return normalized
}
