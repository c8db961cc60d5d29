package extract

import (
	"fmt"
	"strings"

	"github.com/planora/planora/internal/model"
)

// DetectConflicts flags rules whose statement contains both an obligation
// marker ("must") and a negated-obligation marker ("must not"). This is a
// purely lexical check on single statements; conflicts spanning two rules
// are out of scope.
//
// Runs on assembled rules so the returned questions can reference rule
// ids instead of repeating statement text.
func DetectConflicts(rules []model.Rule) []model.OpenQuestion {
	var questions []model.OpenQuestion

	for _, r := range rules {
		s := strings.ToLower(r.Statement)
		if strings.Contains(s, "must") && strings.Contains(s, "must not") {
			q := model.OpenQuestion{
				RuleIDs: []string{},
				Reason:  fmt.Sprintf("statement contains both an obligation and a negated obligation: %q", r.Statement),
			}
			if r.ID != "" {
				q.RuleIDs = []string{r.ID}
			}
			questions = append(questions, q)
		}
	}

	return questions
}
