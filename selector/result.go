package selector

import (
	"time"

	"github.com/sweetpotato0/intakekit/consensus"
	"github.com/sweetpotato0/intakekit/filter"
	"github.com/sweetpotato0/intakekit/scoring"
	"github.com/sweetpotato0/intakekit/validation"
)

// Result is the full outcome of one selection run. Everything the
// pipeline decided is kept so callers can explain the selection.
type Result struct {
	RunID           string                              `json:"run_id"`
	SelectedIDs     []string                            `json:"selected_ids"`
	Scores          []scoring.QuestionScore             `json:"scores,omitempty"`
	Consensus       map[string]consensus.AgentConsensus `json:"consensus,omitempty"`
	Participation   map[string]consensus.Participation  `json:"participation,omitempty"`
	FilterDecisions []filter.Decision                   `json:"filter_decisions,omitempty"`
	Validation      validation.Result                   `json:"validation"`
	Metadata        Metadata                            `json:"metadata"`
}

// Metadata summarizes how the run went.
type Metadata struct {
	Domain                 string        `json:"domain,omitempty"`
	DomainConfidence       float64       `json:"domain_confidence,omitempty"`
	FocusAreas             []string      `json:"focus_areas,omitempty"`
	InferenceReasoning     string        `json:"inference_reasoning,omitempty"`
	CandidateCount         int           `json:"candidate_count"`
	FilteredCount          int           `json:"filtered_count"`
	ConsensusReached       int           `json:"consensus_reached"`
	AvgConsensusConfidence float64       `json:"avg_consensus_confidence,omitempty"`
	Duration               time.Duration `json:"duration"`
	CacheHit               bool          `json:"cache_hit"`
	FallbackUsed           bool          `json:"fallback_used"`
}

// Disagreements returns the questions the perspectives disagreed on
// most, strongest disagreement first.
func (r *Result) Disagreements() []consensus.AgentConsensus {
	return consensus.Disagreements(r.Consensus)
}

// ScoreFor returns the final score of a selected question.
func (r *Result) ScoreFor(questionID string) (scoring.QuestionScore, bool) {
	for _, s := range r.Scores {
		if s.QuestionID == questionID {
			return s, true
		}
	}
	return scoring.QuestionScore{}, false
}
