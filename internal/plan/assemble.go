// Package plan assembles merged rules and open questions into the
// terminal plan artifact.
package plan

import (
	"fmt"

	"github.com/planora/planora/internal/model"
)

// Assemble builds the final plan, assigning sequential RULE-NNN ids
// (1-based, zero-padded to 3 digits) to rules in their given order.
// Ids are stable only within one assembly call. Pure and total.
func Assemble(documentID, version string, rules []model.Rule, questions []model.OpenQuestion) model.Plan {
	assembled := make([]model.Rule, len(rules))
	for i, r := range rules {
		r.ID = fmt.Sprintf("RULE-%03d", i+1)
		assembled[i] = r
	}

	if questions == nil {
		questions = []model.OpenQuestion{}
	}

	return model.Plan{
		DocumentID:    documentID,
		Version:       version,
		Rules:         assembled,
		OpenQuestions: questions,
	}
}
