package llm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/planora/planora/internal/model"
)

// Provider defines the interface for extraction oracles
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate issues one completion request and returns the raw text.
	// Callers own parsing; providers only report transport-level facts
	// such as truncation.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one oracle call
type GenerateRequest struct {
	// System is the system instruction (role, output contract)
	System string

	// Prompt is the user content (instruction + document text)
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; extraction uses 0.0
	Temperature float32

	// JSONResponse asks the provider for a JSON-shaped response where the
	// API supports declaring it
	JSONResponse bool
}

// GenerateResponse contains the oracle's output
type GenerateResponse struct {
	// Text is the raw response text
	Text string

	// Model is the model that generated the response
	Model string

	// FinishReason is the provider's stop signal, normalized as-is
	FinishReason string

	// Truncated is true when the response hit the output-token bound.
	// Such responses are expected to be malformed mid-structure.
	Truncated bool

	// TokensUsed tracks token consumption
	TokensUsed int
}

// ExtractionSystemPrompt is the fixed instruction for per-chunk rule
// extraction. The declared schema uses the oracle-facing taxonomy; the
// normalizer maps it onto the plan taxonomy afterwards.
const ExtractionSystemPrompt = `You are an EXTRACTION module.

Extract explicit rules, constraints, requirements, or prohibitions.

Rules:
- Output ONLY valid JSON.
- Do not summarize.
- Do not explain.
- If nothing is extractable, return an empty list.

Schema:
{
  "extracted_rules": [
    {
      "type": "constraint | behavior | requirement | prohibition",
      "statement": "string",
      "confidence": "high | medium | low"
    }
  ]
}`

// BuildChunkPrompt constructs the user content for one chunk extraction
func BuildChunkPrompt(chunk string) string {
	return "DOCUMENT CHUNK:\n" + chunk
}

// BuildDocumentPrompt constructs the user content for single-shot
// whole-document extraction
func BuildDocumentPrompt(document string) string {
	return "Document:\n" + document
}

// newProxyFunc builds a proxy selector honoring explicit config over the
// process environment
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// Config is the provider configuration shared with the config layer
type Config = model.LLMConfig
