package consensus

import (
	"github.com/montanaflynn/stats"
)

// AgentVote is one perspective's assessment of one question.
type AgentVote struct {
	AgentID    string
	QuestionID string
	Score      float64
	Confidence float64
	Reasoning  []string
}

// AgentConsensus aggregates every perspective's vote on one question.
type AgentConsensus struct {
	QuestionID        string
	Votes             []AgentVote
	AvgScore          float64
	Confidence        float64
	ConsensusReached  bool
	DisagreementLevel float64
	FinalScore        float64
}

// Participation summarises one perspective's contribution to a run.
type Participation struct {
	VotesCount          int
	AvgScore            float64
	AvgConfidence       float64
	HighConfidenceVotes int
	ParticipationRate   float64
}

// computeConsensus folds a question's votes into a consensus value.
// Dispersion is the population standard deviation of vote scores;
// consensus holds when it stays below 1-threshold. The final score is
// a perspective-weight and confidence weighted mean, falling back to
// the plain mean when the denominator is zero.
func computeConsensus(questionID string, votes []AgentVote, threshold float64) AgentConsensus {
	if len(votes) == 0 {
		return AgentConsensus{QuestionID: questionID}
	}

	scores := make([]float64, len(votes))
	confidences := make([]float64, len(votes))
	for i, v := range votes {
		scores[i] = v.Score
		confidences[i] = v.Confidence
	}

	avgScore, _ := stats.Mean(scores)
	avgConfidence, _ := stats.Mean(confidences)

	dispersion := 0.0
	if len(scores) > 1 {
		dispersion, _ = stats.StdDevP(scores)
	}

	weightedScore := 0.0
	totalWeight := 0.0
	for _, v := range votes {
		weight := perspectiveWeight(v.AgentID)
		weightedScore += v.Score * weight * v.Confidence
		totalWeight += weight * v.Confidence
	}

	finalScore := avgScore
	if totalWeight > 0 {
		finalScore = weightedScore / totalWeight
	}

	return AgentConsensus{
		QuestionID:        questionID,
		Votes:             votes,
		AvgScore:          avgScore,
		Confidence:        avgConfidence,
		ConsensusReached:  dispersion < (1.0 - threshold),
		DisagreementLevel: dispersion,
		FinalScore:        finalScore,
	}
}
