package extract

import (
	"strings"
	"testing"

	"github.com/planora/planora/internal/model"
)

func TestDetectConflicts_SelfContradiction(t *testing.T) {
	rules := []model.Rule{
		{ID: "RULE-001", Statement: "Users must authenticate but must not bypass login"},
	}

	questions := DetectConflicts(rules)

	if len(questions) != 1 {
		t.Fatalf("expected 1 open question, got %d", len(questions))
	}
	if len(questions[0].RuleIDs) != 1 || questions[0].RuleIDs[0] != "RULE-001" {
		t.Errorf("expected question to reference RULE-001, got %v", questions[0].RuleIDs)
	}
	if !strings.Contains(questions[0].Reason, "must not bypass login") {
		t.Errorf("expected reason to quote the statement, got %q", questions[0].Reason)
	}
}

func TestDetectConflicts_PlainObligationNotFlagged(t *testing.T) {
	rules := []model.Rule{
		{ID: "RULE-001", Statement: "Users must authenticate"},
		{ID: "RULE-002", Statement: "Sessions should expire"},
	}

	if questions := DetectConflicts(rules); len(questions) != 0 {
		t.Errorf("expected no open questions, got %d", len(questions))
	}
}

func TestDetectConflicts_CaseInsensitive(t *testing.T) {
	rules := []model.Rule{
		{ID: "RULE-001", Statement: "Admins MUST approve and MUST NOT self-approve"},
	}

	if questions := DetectConflicts(rules); len(questions) != 1 {
		t.Fatalf("expected case-insensitive match, got %d questions", len(questions))
	}
}

func TestDetectConflicts_NoIDFallsBackToEmptyList(t *testing.T) {
	rules := []model.Rule{
		{Statement: "X must do A and must not do A"},
	}

	questions := DetectConflicts(rules)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].RuleIDs == nil {
		t.Error("rule_ids must be an empty list, not nil, for unassembled rules")
	}
}

func TestDetectConflicts_CrossRuleOutOfScope(t *testing.T) {
	// Two rules that contradict each other are deliberately not flagged;
	// only single self-contradictory statements are in scope.
	rules := []model.Rule{
		{ID: "RULE-001", Statement: "Data must be retained for 7 years"},
		{ID: "RULE-002", Statement: "Data must not be retained beyond 1 year"},
	}

	questions := DetectConflicts(rules)

	// RULE-002 contains both markers by itself, so it is flagged alone;
	// no question references both rules.
	for _, q := range questions {
		if len(q.RuleIDs) > 1 {
			t.Errorf("cross-rule conflict flagged, which is out of scope: %v", q.RuleIDs)
		}
	}
}
