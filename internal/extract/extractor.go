// Package extract turns document chunks into rules via the extraction
// oracle, then normalizes, merges, and checks them for conflicts.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/planora/planora/internal/jsonrepair"
	"github.com/planora/planora/internal/llm"
	"github.com/planora/planora/internal/model"
	"github.com/planora/planora/internal/worker"
)

// Extractor wraps one oracle call per chunk. Every failure path degrades
// to an empty rule list after exhausting retries; Extract never returns
// an error to its caller.
type Extractor struct {
	provider  llm.Provider
	limiter   *worker.Limiter
	policy    Policy[model.ExtractionResult]
	maxTokens int
	logger    *zap.Logger
}

// NewExtractor creates an extraction adapter around the given provider.
// The provider is an explicit dependency so tests can substitute a
// deterministic stub. limiter may be nil to disable call gating.
func NewExtractor(provider llm.Provider, cfg model.LLMConfig, limiter *worker.Limiter, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 3
	}
	backoff := time.Duration(cfg.BackoffSeconds) * time.Second
	if backoff == 0 {
		backoff = time.Second
	}

	return &Extractor{
		provider: provider,
		limiter:  limiter,
		policy: Policy[model.ExtractionResult]{
			MaxAttempts: attempts,
			Backoff:     backoff,
			Degraded:    model.ExtractionResult{Rules: []model.RawRule{}},
		},
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

// Extract issues one oracle request for the chunk and parses the result.
// Retries on empty responses, transport errors, and unparseable output;
// degrades to an empty rule list when retries are exhausted.
func (e *Extractor) Extract(ctx context.Context, chunk string) model.ExtractionResult {
	result, err := e.policy.Do(ctx, func(ctx context.Context) (model.ExtractionResult, error) {
		return e.attempt(ctx, chunk)
	})
	if err != nil {
		e.logger.Warn("extraction degraded to empty result",
			zap.Int("chunk_len", len(chunk)),
			zap.Error(err))
	}
	if result.Rules == nil {
		result.Rules = []model.RawRule{}
	}
	return result
}

// ExtractDocument is the single-shot variant: the entire document goes
// to the oracle in one call, skipping chunking. Used as a fallback and
// comparison path for documents small enough to fit the token budget.
func (e *Extractor) ExtractDocument(ctx context.Context, document string, maxTokens int) model.ExtractionResult {
	result, err := e.policy.Do(ctx, func(ctx context.Context) (model.ExtractionResult, error) {
		return e.attemptPrompt(ctx, llm.BuildDocumentPrompt(document), maxTokens)
	})
	if err != nil {
		e.logger.Warn("single-shot extraction degraded to empty result",
			zap.Int("document_len", len(document)),
			zap.Error(err))
	}
	if result.Rules == nil {
		result.Rules = []model.RawRule{}
	}
	return result
}

func (e *Extractor) attempt(ctx context.Context, chunk string) (model.ExtractionResult, error) {
	return e.attemptPrompt(ctx, llm.BuildChunkPrompt(chunk), e.maxTokens)
}

func (e *Extractor) attemptPrompt(ctx context.Context, prompt string, maxTokens int) (model.ExtractionResult, error) {
	var zero model.ExtractionResult

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
			return zero, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := e.provider.Generate(ctx, llm.GenerateRequest{
		System:       llm.ExtractionSystemPrompt,
		Prompt:       prompt,
		MaxTokens:    maxTokens,
		Temperature:  0.0,
		JSONResponse: true,
	})
	if err != nil {
		return zero, fmt.Errorf("oracle call: %w", err)
	}

	e.logger.Debug("oracle response",
		zap.Int("length", len(resp.Text)),
		zap.String("preview", preview(resp.Text, 200)),
		zap.String("finish_reason", resp.FinishReason),
		zap.Bool("truncated", resp.Truncated))

	if strings.TrimSpace(resp.Text) == "" {
		return zero, errors.New("empty response from oracle")
	}

	rules, err := e.parseRules(StripCodeFence(resp.Text))
	if err != nil {
		return zero, err
	}

	return model.ExtractionResult{Rules: rules, Truncated: resp.Truncated}, nil
}

// parseRules escalates through direct parse, structural repair, and the
// last-brace truncation heuristic, in that order.
func (e *Extractor) parseRules(text string) ([]model.RawRule, error) {
	rules, parseErr := decodeRules(text)
	if parseErr == nil {
		return rules, nil
	}
	e.logger.Debug("direct parse failed, attempting repair", zap.Error(parseErr))

	repaired := jsonrepair.Repair(text)
	if rules, err := decodeRules(repaired); err == nil {
		e.logger.Debug("structural repair succeeded", zap.String("tail", tail(repaired, 50)))
		return rules, nil
	}

	// Last resort: truncate at the final '}' and force-close the
	// top-level array-of-objects shape.
	if idx := strings.LastIndex(text, "}"); idx != -1 {
		if rules, err := decodeRules(text[:idx+1] + "]}"); err == nil {
			e.logger.Debug("last-brace fallback succeeded")
			return rules, nil
		}
	}

	return nil, fmt.Errorf("unparseable oracle output: %w", parseErr)
}

// decodeRules accepts both response shapes the oracle has been observed
// to emit: "extracted_rules" (the declared contract) and "rules".
func decodeRules(text string) ([]model.RawRule, error) {
	var payload struct {
		ExtractedRules []model.RawRule `json:"extracted_rules"`
		Rules          []model.RawRule `json:"rules"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, err
	}
	if payload.ExtractedRules != nil {
		return payload.ExtractedRules, nil
	}
	return payload.Rules, nil
}

// StripCodeFence removes a surrounding markdown code fence, a defensive
// measure against oracles that wrap structured output in decorative
// formatting.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	if idx := strings.LastIndex(t, "```"); idx != -1 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
