package plan

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/planora/planora/internal/model"
)

func TestAssemble_SequentialIDs(t *testing.T) {
	rules := []model.Rule{
		{Type: "obligation", Statement: "first", Confidence: "high"},
		{Type: "prohibition", Statement: "second", Confidence: "low"},
		{Type: "permission", Statement: "third", Confidence: "medium"},
	}

	p := Assemble("doc-1", "v1", rules, nil)

	if p.DocumentID != "doc-1" || p.Version != "v1" {
		t.Errorf("identity fields not carried: %+v", p)
	}
	want := []string{"RULE-001", "RULE-002", "RULE-003"}
	for i, id := range want {
		if p.Rules[i].ID != id {
			t.Errorf("rule %d: expected id %s, got %s", i, id, p.Rules[i].ID)
		}
	}
}

func TestAssemble_ZeroPadding(t *testing.T) {
	rules := make([]model.Rule, 12)
	p := Assemble("d", "v", rules, nil)

	if p.Rules[9].ID != "RULE-010" {
		t.Errorf("expected RULE-010, got %s", p.Rules[9].ID)
	}
	if p.Rules[11].ID != "RULE-012" {
		t.Errorf("expected RULE-012, got %s", p.Rules[11].ID)
	}
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	rules := []model.Rule{{Statement: "s"}}
	Assemble("d", "v", rules, nil)

	if rules[0].ID != "" {
		t.Errorf("input slice mutated: id set to %q", rules[0].ID)
	}
}

func TestAssemble_EmptyInputs(t *testing.T) {
	p := Assemble("d", "v", nil, nil)

	if p.Rules == nil {
		t.Error("rules must serialize as [], not null")
	}
	if p.OpenQuestions == nil {
		t.Error("open questions must serialize as [], not null")
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"rules":[]`) {
		t.Errorf("expected empty rules array in JSON, got %s", data)
	}
	if !strings.Contains(string(data), `"open_questions":[]`) {
		t.Errorf("expected empty open_questions array in JSON, got %s", data)
	}
}

func TestAssemble_PassesQuestionsThrough(t *testing.T) {
	questions := []model.OpenQuestion{
		{RuleIDs: []string{"RULE-001"}, Reason: "ambiguous retention period"},
	}

	p := Assemble("d", "v", nil, questions)

	if !reflect.DeepEqual(p.OpenQuestions, questions) {
		t.Errorf("questions not carried: %+v", p.OpenQuestions)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	rules := []model.Rule{{Statement: "a"}, {Statement: "b"}}

	p1 := Assemble("d", "v", rules, nil)
	p2 := Assemble("d", "v", rules, nil)

	if !reflect.DeepEqual(p1, p2) {
		t.Error("assembly is not deterministic for identical input")
	}
}
