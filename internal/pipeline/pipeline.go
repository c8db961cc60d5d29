// Package pipeline orchestrates document-to-plan processing: chunking,
// concurrent per-chunk extraction, normalization, merging, conflict
// detection, assembly, and persistence.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planora/planora/internal/chunk"
	"github.com/planora/planora/internal/extract"
	"github.com/planora/planora/internal/llm"
	"github.com/planora/planora/internal/model"
	"github.com/planora/planora/internal/plan"
	"github.com/planora/planora/internal/store"
	"github.com/planora/planora/internal/worker"
)

// DefaultVersion is used when callers don't pin a plan version
const DefaultVersion = "v1"

// Pipeline drives the complete document-to-plan process
type Pipeline struct {
	extractor *extract.Extractor
	store     store.Store
	config    *model.Config
	logger    *zap.Logger
}

// New creates a pipeline around the given oracle provider and store.
// Both are explicit dependencies so tests can substitute stubs.
func New(provider llm.Provider, st store.Store, cfg *model.Config, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	return &Pipeline{
		extractor: extract.NewExtractor(provider, cfg.LLM, limiter, logger),
		store:     st,
		config:    cfg,
		logger:    logger,
	}
}

// ProcessDocument runs the chunked pipeline: text is segmented, each
// chunk extracted concurrently, and the results merged into one plan.
// Empty input falls back to the built-in fixture document. A per-chunk
// failure degrades that chunk to zero rules and never aborts siblings;
// the returned plan is structurally valid even when every chunk failed.
func (p *Pipeline) ProcessDocument(ctx context.Context, text, documentID, version string) (model.Plan, error) {
	text, documentID, version = p.defaults(text, documentID, version)

	chunks := chunk.Split(text, p.config.Chunker.MaxChars)
	p.logger.Info("document chunked",
		zap.String("document_id", documentID),
		zap.Int("chunks", len(chunks)))

	results := p.extractAll(ctx, chunks)

	rawLists := make([][]model.RawRule, len(results))
	truncated := 0
	for i, r := range results {
		rawLists[i] = r.Rules
		if r.Truncated {
			truncated++
		}
	}
	if truncated > 0 {
		p.logger.Warn("some chunk responses were truncated at the token bound",
			zap.Int("truncated", truncated),
			zap.Int("chunks", len(chunks)))
	}

	return p.assembleAndSave(documentID, version, rawLists)
}

// ProcessRaw runs the single-shot variant: the whole document goes to
// the oracle in one call, skipping chunking. Same plan shape out.
func (p *Pipeline) ProcessRaw(ctx context.Context, text, documentID, version string) (model.Plan, error) {
	text, documentID, version = p.defaults(text, documentID, version)

	result := p.extractor.ExtractDocument(ctx, text, p.config.LLM.RawMaxTokens)
	if result.Truncated {
		p.logger.Warn("single-shot response was truncated at the token bound",
			zap.String("document_id", documentID))
	}

	return p.assembleAndSave(documentID, version, [][]model.RawRule{result.Rules})
}

func (p *Pipeline) defaults(text, documentID, version string) (string, string, string) {
	if strings.TrimSpace(text) == "" {
		text = FixtureDocument()
	}
	if documentID == "" {
		documentID = uuid.NewString()
	}
	if version == "" {
		version = DefaultVersion
	}
	return text, documentID, version
}

// extractAll fans chunk extraction out over a bounded worker pool.
// Results land in a position-indexed slice so final rule order follows
// chunk order regardless of completion order.
func (p *Pipeline) extractAll(ctx context.Context, chunks []string) []model.ExtractionResult {
	results := make([]model.ExtractionResult, len(chunks))
	if len(chunks) == 0 {
		return results
	}

	workers := p.config.Concurrency.ExtractionWorkers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	pool := worker.NewPool(workers)
	pool.Start()

	// Submission and result draining run concurrently: the pool's
	// channels are bounded, so a document with more chunks than the
	// buffers hold would otherwise wedge Submit against a full results
	// channel.
	go func() {
		for i, c := range chunks {
			pool.Submit(&extractJob{
				ctx:       ctx,
				index:     i,
				chunk:     c,
				extractor: p.extractor,
			})
		}
		pool.Finish()
	}()

	for r := range pool.Results() {
		er := r.(*extractResult)
		results[er.index] = er.result
	}

	return results
}

func (p *Pipeline) assembleAndSave(documentID, version string, rawLists [][]model.RawRule) (model.Plan, error) {
	normalized := extract.NormalizeAll(rawLists)
	merged := extract.MergeRules([][]model.Rule{normalized})

	assembled := plan.Assemble(documentID, version, merged, nil)
	if questions := extract.DetectConflicts(assembled.Rules); questions != nil {
		assembled.OpenQuestions = questions
	}

	p.logger.Info("plan assembled",
		zap.String("document_id", documentID),
		zap.Int("rules", len(assembled.Rules)),
		zap.Int("open_questions", len(assembled.OpenQuestions)))

	if p.store != nil {
		if err := store.SaveJSON(p.store, store.PlanKey(documentID), assembled); err != nil {
			return assembled, fmt.Errorf("persist plan: %w", err)
		}
	}

	return assembled, nil
}

// extractJob carries one chunk through the worker pool. The request
// context rides in the job because the pool owns its own lifecycle
// context.
type extractJob struct {
	ctx       context.Context
	index     int
	chunk     string
	extractor *extract.Extractor
}

// Execute runs the extraction; failures already degraded to empty
// results inside the extractor, so the job itself never errors.
func (j *extractJob) Execute(_ context.Context) worker.Result {
	return &extractResult{
		index:  j.index,
		result: j.extractor.Extract(j.ctx, j.chunk),
	}
}

type extractResult struct {
	index  int
	result model.ExtractionResult
}

// GetError implements worker.Result
func (r *extractResult) GetError() error { return nil }
