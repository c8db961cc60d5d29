package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOllamaTestServer(t *testing.T, handler http.HandlerFunc) (*OllamaProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewOllamaProvider(Config{Provider: "ollama", BaseURL: srv.URL, Model: "llama3.1:8b", Timeout: 5})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p, srv
}

func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaRequest
	p, _ := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3.1:8b",
			Response:        ` {"extracted_rules": []} `,
			Done:            true,
			DoneReason:      "stop",
			PromptEvalCount: 10,
			EvalCount:       5,
		})
	})

	resp, err := p.Generate(context.Background(), GenerateRequest{
		System:       "system prompt",
		Prompt:       "user prompt",
		JSONResponse: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if gotReq.Format != "json" {
		t.Errorf("expected json format requested, got %q", gotReq.Format)
	}
	if gotReq.System != "system prompt" || gotReq.Prompt != "user prompt" {
		t.Errorf("prompts not forwarded: %+v", gotReq)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}

	if resp.Text != `{"extracted_rules": []}` {
		t.Errorf("text not trimmed: %q", resp.Text)
	}
	if resp.Truncated {
		t.Error("stop reason should not mark truncation")
	}
	if resp.TokensUsed != 15 {
		t.Errorf("tokens = %d", resp.TokensUsed)
	}
}

func TestOllamaGenerate_TruncationDetected(t *testing.T) {
	p, _ := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{
			Model:      "llama3.1:8b",
			Response:   `{"extracted_rules": [{"type":"requirement"`,
			Done:       true,
			DoneReason: "length",
		})
	})

	resp, err := p.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !resp.Truncated {
		t.Error("done_reason length must set the truncated flag")
	}
}

func TestOllamaGenerate_APIError(t *testing.T) {
	p, _ := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	})

	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestOllamaGenerate_ModelRequired(t *testing.T) {
	p, err := NewOllamaProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := p.Generate(context.Background(), GenerateRequest{Prompt: "p"}); err == nil {
		t.Error("expected error when no model configured")
	}
}

func TestOllamaIsAvailable(t *testing.T) {
	p, _ := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})

	if !p.IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}
}
