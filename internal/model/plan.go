package model

// RawRule is a rule as emitted by the extraction oracle, before
// normalization. The oracle-facing taxonomy is richer than the plan's:
// constraint | behavior | requirement | prohibition.
type RawRule struct {
	Type       string `json:"type"`
	Statement  string `json:"statement"`
	Confidence string `json:"confidence"`
}

// Rule is a normalized, plan-facing rule. ID is empty until assembly
// and is only stable within one assembled plan.
type Rule struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	Statement  string `json:"statement"`
	Confidence string `json:"confidence"`
}

// Canonical rule types used in assembled plans.
const (
	RuleObligation  = "obligation"
	RuleProhibition = "prohibition"
	RulePermission  = "permission"
)

// Confidence levels. The oracle is instructed to emit exactly these.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// OpenQuestion flags rules whose statements need human review.
type OpenQuestion struct {
	RuleIDs []string `json:"rule_ids"`
	Reason  string   `json:"reason"`
}

// Plan is the terminal artifact of document processing. Immutable after
// assembly; persisted keyed by document id.
type Plan struct {
	DocumentID    string         `json:"document_id"`
	Version       string         `json:"version"`
	Rules         []Rule         `json:"rules"`
	OpenQuestions []OpenQuestion `json:"open_questions"`
}

// ExtractionResult is the outcome of one chunk's extraction. Truncated
// marks responses cut off at the oracle's output-token bound; the rules
// present are still usable but the tail of the chunk may be missing.
type ExtractionResult struct {
	Rules     []RawRule `json:"extracted_rules"`
	Truncated bool      `json:"truncated,omitempty"`
}
