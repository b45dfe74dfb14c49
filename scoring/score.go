package scoring

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/sweetpotato0/intakekit/catalog"
)

// QuestionScore is the scoring outcome for a single question. The base
// pass fills everything except AgentVotes, which the consensus stage
// adds on its own copy.
type QuestionScore struct {
	QuestionID         string
	TotalScore         float64
	CriteriaScores     map[Criterion]float64
	AgentVotes         map[string]float64
	SimilarityScore    float64
	TagBonus           float64
	WeightFactor       float64
	ComplexityModifier float64
	Confidence         float64
	Reasoning          []string
}

// WithVotes returns a copy of the score carrying the given agent votes
// and a confidence recomputed with the vote evidence included.
func (s QuestionScore) WithVotes(votes map[string]float64) QuestionScore {
	out := s
	out.AgentVotes = votes
	out.Confidence = ComputeConfidence(out)
	return out
}

// ComputeConfidence derives the confidence for a score from the
// evidence it carries. Base 0.5, plus bonuses for strong similarity,
// tag overlap, and low dispersion among three or more agent votes.
func ComputeConfidence(s QuestionScore) float64 {
	confidence := 0.5

	if s.SimilarityScore > 0.3 {
		confidence += 0.2
	}
	if s.TagBonus > 0.1 {
		confidence += 0.15
	}
	if len(s.AgentVotes) >= 3 {
		votes := make([]float64, 0, len(s.AgentVotes))
		for _, v := range s.AgentVotes {
			votes = append(votes, v)
		}
		if sd, err := stats.StdDevP(votes); err == nil && sd < 0.2 {
			confidence += 0.15
		}
	}

	return clamp01(confidence)
}

// Stats summarises a batch of question scores.
type Stats struct {
	TotalQuestions      int
	AvgScore            float64
	StdScore            float64
	MinScore            float64
	MaxScore            float64
	HighConfidenceCount int
	StageDistribution   map[catalog.Stage]int
}

// Summarize computes summary statistics for a scored batch. The stage
// distribution covers only IDs present in the catalog.
func Summarize(scores []QuestionScore, cat *catalog.Catalog) Stats {
	if len(scores) == 0 {
		return Stats{}
	}

	totals := make([]float64, 0, len(scores))
	ids := make([]string, 0, len(scores))
	high := 0
	for _, s := range scores {
		totals = append(totals, s.TotalScore)
		ids = append(ids, s.QuestionID)
		if s.Confidence > 0.8 {
			high++
		}
	}

	avg, _ := stats.Mean(totals)
	sd, _ := stats.StdDevP(totals)
	min, _ := stats.Min(totals)
	max, _ := stats.Max(totals)

	st := Stats{
		TotalQuestions:      len(scores),
		AvgScore:            avg,
		StdScore:            sd,
		MinScore:            min,
		MaxScore:            max,
		HighConfidenceCount: high,
	}
	if cat != nil {
		st.StageDistribution = cat.StageDistribution(ids)
	}
	return st
}

// Explanation breaks a scored batch down for human review: the
// strongest questions with their reasoning, how often each reason
// fired across the batch, and the summary statistics.
type Explanation struct {
	TopQuestions     []RankedQuestion
	ReasoningSummary map[string]int
	Stats            Stats
}

// RankedQuestion is one entry of an explanation's top list.
type RankedQuestion struct {
	QuestionID string
	Score      float64
	Confidence float64
	Reasons    []string
}

// Explain ranks a scored batch and reports the top questions together
// with reason frequencies. The input is not mutated.
func Explain(scores []QuestionScore, cat *catalog.Catalog, top int) Explanation {
	ranked := make([]QuestionScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	if top <= 0 || top > len(ranked) {
		top = len(ranked)
	}

	ex := Explanation{
		ReasoningSummary: make(map[string]int),
		Stats:            Summarize(scores, cat),
	}
	for _, s := range ranked {
		for _, r := range s.Reasoning {
			ex.ReasoningSummary[r]++
		}
	}
	for _, s := range ranked[:top] {
		ex.TopQuestions = append(ex.TopQuestions, RankedQuestion{
			QuestionID: s.QuestionID,
			Score:      s.TotalScore,
			Confidence: s.Confidence,
			Reasons:    s.Reasoning,
		})
	}
	return ex
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
