package scoring

import (
	"math"
	"testing"
)

func TestWithVotesRecomputesConfidence(t *testing.T) {
	base := QuestionScore{QuestionID: "B002", SimilarityScore: 0.5, TagBonus: 0.2}

	// Three tightly clustered votes raise confidence over the base.
	voted := base.WithVotes(map[string]float64{
		"business_analyst":    0.8,
		"technical_architect": 0.82,
		"compliance_expert":   0.78,
	})

	if voted.Confidence <= ComputeConfidence(base) {
		t.Fatalf("agreeing votes should raise confidence: %f vs %f",
			voted.Confidence, ComputeConfidence(base))
	}
	if base.AgentVotes != nil {
		t.Fatalf("WithVotes mutated the receiver")
	}
}

func TestComputeConfidenceBounds(t *testing.T) {
	full := QuestionScore{
		SimilarityScore: 0.9,
		TagBonus:        0.3,
		AgentVotes:      map[string]float64{"a": 0.8, "b": 0.8, "c": 0.8},
	}
	if got := ComputeConfidence(full); got != 1.0 {
		t.Fatalf("stacked evidence confidence %f, want 1.0", got)
	}
	if got := ComputeConfidence(QuestionScore{}); got != 0.5 {
		t.Fatalf("bare score confidence %f, want 0.5", got)
	}
}

func TestSummarize(t *testing.T) {
	scores := []QuestionScore{
		{QuestionID: "B002", TotalScore: 0.9, Confidence: 0.9},
		{QuestionID: "F002", TotalScore: 0.5, Confidence: 0.6},
		{QuestionID: "T002", TotalScore: 0.1, Confidence: 0.4},
	}

	st := Summarize(scores, nil)
	if st.TotalQuestions != 3 {
		t.Fatalf("total %d, want 3", st.TotalQuestions)
	}
	if math.Abs(st.AvgScore-0.5) > 1e-9 {
		t.Fatalf("avg %f, want 0.5", st.AvgScore)
	}
	if st.MinScore != 0.1 || st.MaxScore != 0.9 {
		t.Fatalf("min/max %f/%f, want 0.1/0.9", st.MinScore, st.MaxScore)
	}
	if st.HighConfidenceCount != 1 {
		t.Fatalf("high confidence %d, want 1", st.HighConfidenceCount)
	}

	if got := Summarize(nil, nil); got.TotalQuestions != 0 {
		t.Fatalf("empty input must yield zero stats")
	}
}

func TestExplainRanksAndCounts(t *testing.T) {
	scores := []QuestionScore{
		{QuestionID: "B002", TotalScore: 0.9, Confidence: 0.9, Reasoning: []string{"high industry relevance", "strong context similarity"}},
		{QuestionID: "F002", TotalScore: 0.5, Confidence: 0.6, Reasoning: []string{"high industry relevance"}},
		{QuestionID: "T002", TotalScore: 0.7, Confidence: 0.7, Reasoning: []string{"matches project stage"}},
	}

	ex := Explain(scores, nil, 2)
	if len(ex.TopQuestions) != 2 {
		t.Fatalf("top list has %d entries, want 2", len(ex.TopQuestions))
	}
	if ex.TopQuestions[0].QuestionID != "B002" || ex.TopQuestions[1].QuestionID != "T002" {
		t.Fatalf("top order %s,%s, want B002,T002", ex.TopQuestions[0].QuestionID, ex.TopQuestions[1].QuestionID)
	}
	if got := ex.ReasoningSummary["high industry relevance"]; got != 2 {
		t.Fatalf("reason frequency %d, want 2", got)
	}
	if ex.Stats.TotalQuestions != 3 {
		t.Fatalf("stats cover %d scores, want 3", ex.Stats.TotalQuestions)
	}
	if scores[0].QuestionID != "B002" || scores[1].QuestionID != "F002" {
		t.Fatalf("input order changed")
	}

	all := Explain(scores, nil, 0)
	if len(all.TopQuestions) != 3 {
		t.Fatalf("non-positive top must include every score, got %d", len(all.TopQuestions))
	}
}
