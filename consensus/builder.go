package consensus

import (
	"context"
	"log/slog"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/pkg/logging"
	"github.com/sweetpotato0/intakekit/scoring"
)

// Config holds the consensus builder tunables.
type Config struct {
	// Threshold is the agreement level required for consensus;
	// consensus holds when vote dispersion < 1-Threshold (default 0.7)
	Threshold float64

	// Timeout bounds each perspective's consultation; a perspective
	// that misses it is absent from the vote set (default 30s)
	Timeout time.Duration

	// BlendRatio is the share of the base score in the blended total,
	// the remainder comes from consensus (default 0.7)
	BlendRatio float64
}

// DefaultConfig returns the standard consensus configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:  0.7,
		Timeout:    30 * time.Second,
		BlendRatio: 0.7,
	}
}

// Builder consults the perspective panel and folds votes into
// per-question consensus.
type Builder struct {
	config Config
	logger *slog.Logger
}

// NewBuilder creates a consensus builder.
func NewBuilder(config Config) *Builder {
	if config.Threshold == 0 {
		config.Threshold = 0.7
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.BlendRatio == 0 {
		config.BlendRatio = 0.7
	}
	return &Builder{
		config: config,
		logger: logging.WithComponent("consensus"),
	}
}

// Threshold returns the configured consensus threshold.
func (b *Builder) Threshold() float64 {
	return b.config.Threshold
}

type consultation struct {
	agentID string
	votes   []AgentVote
}

// Consult runs every panel perspective over the catalog in parallel
// and returns votes grouped by perspective. Each perspective gets its
// own deadline: one that panics or misses it contributes nothing and
// is never zero-filled, while the rest of the panel keeps voting.
func (b *Builder) Consult(ctx context.Context, cat *catalog.Catalog, sctx *scoring.Context) map[string][]AgentVote {
	results := make(chan consultation, len(panel))

	for _, p := range panel {
		go func(p perspective) {
			done := make(chan []AgentVote, 1)
			go func() { done <- b.consultOne(p, cat, sctx) }()

			timer := time.NewTimer(b.config.Timeout)
			defer timer.Stop()

			select {
			case votes := <-done:
				results <- consultation{agentID: p.id(), votes: votes}
			case <-timer.C:
				b.logger.Warn("perspective consultation timed out", "agent_id", p.id())
				results <- consultation{agentID: p.id()}
			case <-ctx.Done():
				b.logger.Warn("perspective consultation cancelled", "agent_id", p.id())
				results <- consultation{agentID: p.id()}
			}
		}(p)
	}

	agentVotes := make(map[string][]AgentVote, len(panel))
	for i := 0; i < len(panel); i++ {
		r := <-results
		if r.votes != nil {
			agentVotes[r.agentID] = r.votes
		}
	}

	return agentVotes
}

// consultOne gathers one perspective's votes over the questions
// relevant to it, falling back to the whole catalog when nothing
// matches its affinities.
func (b *Builder) consultOne(p perspective, cat *catalog.Catalog, sctx *scoring.Context) (votes []AgentVote) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("perspective failed", "agent_id", p.id(), "panic", r)
			votes = nil
		}
	}()

	questions := cat.Questions()

	relevant := make([]*catalog.Question, 0, len(questions))
	for i := range questions {
		if relevantTo(p, &questions[i]) {
			relevant = append(relevant, &questions[i])
		}
	}
	if len(relevant) == 0 {
		for i := range questions {
			relevant = append(relevant, &questions[i])
		}
	}

	votes = make([]AgentVote, 0, len(relevant))
	for _, q := range relevant {
		score := p.score(q, sctx)
		votes = append(votes, AgentVote{
			AgentID:    p.id(),
			QuestionID: q.ID,
			Score:      score,
			Confidence: voteConfidence(p, q, sctx),
			Reasoning:  voteReasoning(p, q, sctx, score),
		})
	}

	b.logger.Debug("perspective consulted", "agent_id", p.id(), "votes", len(votes))
	return votes
}

// Build groups votes by question and computes per-question consensus.
func (b *Builder) Build(agentVotes map[string][]AgentVote) map[string]AgentConsensus {
	questionVotes := make(map[string][]AgentVote)
	for _, p := range panel {
		for _, vote := range agentVotes[p.id()] {
			questionVotes[vote.QuestionID] = append(questionVotes[vote.QuestionID], vote)
		}
	}

	consensusData := make(map[string]AgentConsensus, len(questionVotes))
	for questionID, votes := range questionVotes {
		consensusData[questionID] = computeConsensus(questionID, votes, b.config.Threshold)
	}

	return consensusData
}

// Merge blends base scores with consensus outcomes, returning new
// score values. A question without consensus keeps its base score.
func (b *Builder) Merge(base []scoring.QuestionScore, consensusData map[string]AgentConsensus) []scoring.QuestionScore {
	merged := make([]scoring.QuestionScore, len(base))

	for i, s := range base {
		c, ok := consensusData[s.QuestionID]
		if !ok || len(c.Votes) == 0 {
			merged[i] = s
			continue
		}

		votes := make(map[string]float64, len(c.Votes))
		for _, v := range c.Votes {
			votes[v.AgentID] = v.Score
		}

		out := s.WithVotes(votes)
		out.TotalScore = s.TotalScore*b.config.BlendRatio + c.FinalScore*(1.0-b.config.BlendRatio)
		merged[i] = out
	}

	return merged
}

// Disagreements lists questions whose votes never converged, ordered
// by disagreement level descending.
func Disagreements(consensusData map[string]AgentConsensus) []AgentConsensus {
	var out []AgentConsensus
	for _, c := range consensusData {
		if !c.ConsensusReached && len(c.Votes) > 0 {
			out = append(out, c)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].DisagreementLevel > out[j-1].DisagreementLevel; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// ComputeParticipation summarises each perspective's contribution
// relative to the catalog size.
func ComputeParticipation(agentVotes map[string][]AgentVote, catalogSize int) map[string]Participation {
	participation := make(map[string]Participation, len(panel))

	for _, p := range panel {
		votes := agentVotes[p.id()]
		if len(votes) == 0 {
			participation[p.id()] = Participation{}
			continue
		}

		scores := make([]float64, len(votes))
		confidences := make([]float64, len(votes))
		high := 0
		for i, v := range votes {
			scores[i] = v.Score
			confidences[i] = v.Confidence
			if v.Confidence > 0.8 {
				high++
			}
		}

		avgScore, _ := stats.Mean(scores)
		avgConfidence, _ := stats.Mean(confidences)

		rate := 0.0
		if catalogSize > 0 {
			rate = float64(len(votes)) / float64(catalogSize)
		}

		participation[p.id()] = Participation{
			VotesCount:          len(votes),
			AvgScore:            avgScore,
			AvgConfidence:       avgConfidence,
			HighConfidenceVotes: high,
			ParticipationRate:   rate,
		}
	}

	return participation
}
