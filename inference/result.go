package inference

import (
	"github.com/sweetpotato0/intakekit/scoring"
)

// Confidence is the tier of certainty attached to an inferred fact.
type Confidence string

const (
	// ConfidenceCertain means the fact is explicit in the text
	ConfidenceCertain Confidence = "certain"
	// ConfidenceLikely means the fact follows from strong signals
	ConfidenceLikely Confidence = "likely"
	// ConfidencePossible means the fact is a plausible reading
	ConfidencePossible Confidence = "possible"
	// ConfidenceUnknown means the text gives no usable signal
	ConfidenceUnknown Confidence = "unknown"
)

// Fact is one piece of information inferred from the intake text.
type Fact struct {
	Category   string
	Key        string
	Value      any
	Confidence Confidence
	Reasoning  string
	Evidence   []string
}

// Result is the complete outcome of one context analysis. A zero
// Result is the degraded fallback when the oracle is unavailable.
type Result struct {
	Facts                []Fact
	Domain               string
	DomainConfidence     float64
	ObviousAnswers       map[string]any
	RedundantQuestionIDs map[string]struct{}
	FocusAreas           []string
	ReasoningSummary     string
}

// IsRedundant reports whether the analysis marked a question ID as
// answered by the text itself.
func (r *Result) IsRedundant(questionID string) bool {
	_, ok := r.RedundantQuestionIDs[questionID]
	return ok
}

// FactKeys lists the keys of every inferred fact, used to extend the
// scoring context's classified tags.
func (r *Result) FactKeys() []string {
	keys := make([]string, 0, len(r.Facts))
	for _, f := range r.Facts {
		keys = append(keys, f.Key)
	}
	return keys
}

// InferComplexity estimates project complexity from the inferred
// facts: sensitivity and security signals plus compliance volume.
func (r *Result) InferComplexity() scoring.Complexity {
	indicators := 0
	for _, f := range r.Facts {
		switch f.Key {
		case "implied_data_sensitivity", "requires_high_security":
			indicators++
		case "implied_compliance_needs":
			if list, ok := f.Value.([]string); ok {
				indicators += len(list)
			} else if list, ok := f.Value.([]any); ok {
				indicators += len(list)
			}
		}
	}

	switch {
	case indicators >= 3:
		return scoring.ComplexityHigh
	case indicators >= 1:
		return scoring.ComplexityMedium
	default:
		return scoring.ComplexityLow
	}
}

// Enhance returns a copy of the scoring context enriched with the
// analysis outcome. The input context is not modified.
func (r *Result) Enhance(sctx *scoring.Context) *scoring.Context {
	out := *sctx

	if r.Domain != "" {
		out.Domain = r.Domain
	}

	out.Tags = append(append([]string{}, sctx.Tags...), r.FactKeys()...)

	// Complexity is only re-estimated when the analysis actually
	// produced facts; an empty analysis carries no signal to act on.
	if len(r.Facts) > 0 && (out.Complexity == "" || out.Complexity == scoring.ComplexityMedium) {
		out.Complexity = r.InferComplexity()
	}

	return &out
}
