package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/planora/planora/internal/llm"
	"github.com/planora/planora/internal/model"
	"github.com/planora/planora/internal/pipeline"
	"github.com/planora/planora/internal/store"
)

type stubProvider struct {
	text string
}

func (p *stubProvider) Name() string                         { return "stub" }
func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *stubProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return &llm.GenerateResponse{Text: p.text}, nil
}

func newTestServer(responseText string) *Server {
	cfg := model.DefaultConfig()
	cfg.LLM.MaxAttempts = 1
	cfg.Concurrency.RequestsPerSecond = 10_000
	cfg.Concurrency.Burst = 10_000

	p := pipeline.New(&stubProvider{text: responseText}, store.NewMemoryStore(0), cfg, nil)
	return New(p, nil)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[]}`)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestPlanEndpoint(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[{"type":"requirement","statement":"Keys must rotate","confidence":"high"}]}`)

	w := postJSON(t, s.Handler(), "/plan", `{"doc":"Keys must rotate.","name":"doc-1","version":"v2"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got model.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DocumentID != "doc-1" || got.Version != "v2" {
		t.Errorf("identity fields: %+v", got)
	}
	if len(got.Rules) != 1 || got.Rules[0].ID != "RULE-001" {
		t.Errorf("rules: %+v", got.Rules)
	}
}

func TestPlanEndpoint_EmptyBodyUsesFixture(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[]}`)

	w := postJSON(t, s.Handler(), "/plan", "")

	if w.Code != http.StatusOK {
		t.Fatalf("empty body must be accepted, status = %d, body = %s", w.Code, w.Body.String())
	}

	var got model.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DocumentID == "" {
		t.Error("expected a generated document id for fixture processing")
	}
	if got.Rules == nil || got.OpenQuestions == nil {
		t.Error("plan arrays must always be present")
	}
}

func TestPlanEndpoint_MalformedBody(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[]}`)

	w := postJSON(t, s.Handler(), "/plan", `{"doc": not json}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	// Even the error response is plan-shaped.
	var got struct {
		model.Plan
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("error response not plan-shaped: %v", err)
	}
	if got.Error == "" {
		t.Error("expected error field in response")
	}
	if got.Rules == nil {
		t.Error("rules must be an empty array, not null")
	}
}

func TestPlanRawEndpoint(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[{"type":"prohibition","statement":"Secrets must not be logged","confidence":"high"}]}`)

	w := postJSON(t, s.Handler(), "/plan/raw", `{"doc":"Secrets must not be logged.","name":"doc-raw"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got model.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Version != pipeline.DefaultVersion {
		t.Errorf("expected default version, got %q", got.Version)
	}
	if len(got.Rules) != 1 {
		t.Errorf("rules: %+v", got.Rules)
	}
}

func TestPlanEndpoint_ConflictSurfacesAsOpenQuestion(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[{"type":"requirement","statement":"Admins must approve and must not self-approve","confidence":"low"}]}`)

	w := postJSON(t, s.Handler(), "/plan", `{"doc":"x","name":"doc-c"}`)

	var got model.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.OpenQuestions) != 1 {
		t.Fatalf("expected 1 open question, got %d", len(got.OpenQuestions))
	}
	if len(got.OpenQuestions[0].RuleIDs) != 1 || got.OpenQuestions[0].RuleIDs[0] != "RULE-001" {
		t.Errorf("open question rule ids: %v", got.OpenQuestions[0].RuleIDs)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(`{"extracted_rules":[]}`)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}
