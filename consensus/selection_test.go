package consensus

import (
	"testing"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/scoring"
)

func TestMaxPerStage(t *testing.T) {
	cases := []struct{ max, want int }{
		{4, 2},
		{8, 2},
		{12, 3},
		{15, 3},
		{20, 5},
	}
	for _, tc := range cases {
		if got := MaxPerStage(tc.max); got != tc.want {
			t.Fatalf("MaxPerStage(%d) = %d, want %d", tc.max, got, tc.want)
		}
	}
}

func stageHeavyCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	questions := []catalog.Question{
		{ID: "B001", Text: "Which industry is the project in?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 6},
		{ID: "B002", Text: "What is the main goal?", Type: catalog.TypeText, Stage: catalog.StageBusiness, Required: true, Weight: 10},
		{ID: "B003", Text: "Who are the stakeholders?", Type: catalog.TypeText, Stage: catalog.StageBusiness, Weight: 5},
		{ID: "B004", Text: "What is the budget range?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 8},
		{ID: "B005", Text: "What is the timeline?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 7},
		{ID: "F001", Text: "What type of application?", Type: catalog.TypeSingleChoice, Stage: catalog.StageFunctional, Weight: 6},
		{ID: "F002", Text: "What are the main features?", Type: catalog.TypeText, Stage: catalog.StageFunctional, Required: true, Weight: 9},
		{ID: "T001", Text: "Any preferred technologies?", Type: catalog.TypeText, Stage: catalog.StageTechnical, Weight: 4},
	}
	cat, err := catalog.New(questions)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func TestSelectHonorsStageCap(t *testing.T) {
	cat := stageHeavyCatalog(t)

	// Business questions dominate the top scores; the per-stage cap
	// must still pull in other stages.
	consensusData := map[string]AgentConsensus{
		"B001": {QuestionID: "B001", FinalScore: 0.95},
		"B002": {QuestionID: "B002", FinalScore: 0.94},
		"B003": {QuestionID: "B003", FinalScore: 0.93},
		"B004": {QuestionID: "B004", FinalScore: 0.92},
		"B005": {QuestionID: "B005", FinalScore: 0.91},
		"F001": {QuestionID: "F001", FinalScore: 0.50},
		"F002": {QuestionID: "F002", FinalScore: 0.40},
		"T001": {QuestionID: "T001", FinalScore: 0.30},
	}

	selected := Select(consensusData, cat, 6)
	if len(selected) > 6 {
		t.Fatalf("selected %d questions, max is 6", len(selected))
	}

	stageCounts := make(map[catalog.Stage]int)
	requiredInStage := make(map[catalog.Stage]int)
	for _, id := range selected {
		q, ok := cat.Get(id)
		if !ok {
			t.Fatalf("selected unknown question %s", id)
		}
		stageCounts[q.Stage]++
		if q.Required {
			requiredInStage[q.Stage]++
		}
	}

	// Non-required picks per stage stay within the cap.
	cap := MaxPerStage(6)
	for stage, count := range stageCounts {
		if count-requiredInStage[stage] > cap {
			t.Fatalf("stage %s holds %d non-required picks, cap is %d", stage, count-requiredInStage[stage], cap)
		}
	}
}

func TestSelectTieBreaksByID(t *testing.T) {
	cat, err := catalog.New([]catalog.Question{
		{ID: "B001", Text: "Which industry is the project in?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 6},
		{ID: "B003", Text: "Who are the stakeholders?", Type: catalog.TypeText, Stage: catalog.StageBusiness, Weight: 5},
		{ID: "B004", Text: "What is the budget range?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 8},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	consensusData := map[string]AgentConsensus{
		"B004": {QuestionID: "B004", FinalScore: 0.8},
		"B003": {QuestionID: "B003", FinalScore: 0.8},
		"B001": {QuestionID: "B001", FinalScore: 0.8},
	}

	for i := 0; i < 5; i++ {
		selected := Select(consensusData, cat, 2)
		if len(selected) < 2 {
			t.Fatalf("expected 2 selections, got %d", len(selected))
		}
		if selected[0] != "B001" || selected[1] != "B003" {
			t.Fatalf("tie break by ID failed: %v", selected[:2])
		}
	}
}

func TestSelectRankedIncludesRequired(t *testing.T) {
	cat := stageHeavyCatalog(t)

	// Required questions (B002, F002) ranked dead last.
	ranked := []scoring.QuestionScore{
		{QuestionID: "B001", TotalScore: 0.9},
		{QuestionID: "B003", TotalScore: 0.85},
		{QuestionID: "B004", TotalScore: 0.8},
		{QuestionID: "F001", TotalScore: 0.75},
		{QuestionID: "T001", TotalScore: 0.7},
		{QuestionID: "B005", TotalScore: 0.65},
		{QuestionID: "B002", TotalScore: 0.1},
		{QuestionID: "F002", TotalScore: 0.05},
	}

	selected := SelectRanked(ranked, cat, 5)
	if len(selected) > 5 {
		t.Fatalf("selected %d questions, max is 5", len(selected))
	}

	present := make(map[string]bool, len(selected))
	for _, id := range selected {
		present[id] = true
	}
	if !present["B002"] || !present["F002"] {
		t.Fatalf("required questions missing from selection: %v", selected)
	}
}

func TestEnsureRequiredEvictsLowestPriority(t *testing.T) {
	cat := stageHeavyCatalog(t)

	// Full list, priority order, no required questions in it.
	selected := []string{"B001", "B003", "B004"}

	out := EnsureRequired(selected, cat, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 selections, got %d", len(out))
	}

	present := make(map[string]bool, len(out))
	for _, id := range out {
		present[id] = true
	}
	if !present["B002"] || !present["F002"] {
		t.Fatalf("required questions not re-inserted: %v", out)
	}
	// The top-priority non-required pick survives.
	if !present["B001"] {
		t.Fatalf("highest priority pick was evicted: %v", out)
	}
}

func TestEnsureRequiredKeepsAllRequiredSelection(t *testing.T) {
	cat := stageHeavyCatalog(t)

	out := EnsureRequired([]string{"B002", "F002"}, cat, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(out))
	}
}
