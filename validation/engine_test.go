package validation

import (
	"testing"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/scoring"
)

func validationCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Question{
		{ID: "B002", Text: "What is the main goal of the project?", Type: catalog.TypeText, Stage: catalog.StageBusiness, Required: true, Weight: 10},
		{ID: "B003", Text: "Which industry is the project in?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 6},
		{ID: "B004", Text: "What is the budget range?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 8},
		{ID: "B008", Text: "Which compliance requirements apply?", Type: catalog.TypeMultiChoice, Stage: catalog.StageBusiness, Tags: []string{"compliance"}, Weight: 8},
		{ID: "F001", Text: "What type of application is needed?", Type: catalog.TypeSingleChoice, Stage: catalog.StageFunctional, Weight: 6},
		{ID: "F002", Text: "What are the main features?", Type: catalog.TypeText, Stage: catalog.StageFunctional, Required: true, Weight: 9},
		{ID: "T001", Text: "Any preferred technologies?", Type: catalog.TypeText, Stage: catalog.StageTechnical, Weight: 4},
		{ID: "N001", Text: "What performance level is required?", Type: catalog.TypeSingleChoice, Stage: catalog.StageNonFunctional, Weight: 7},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func hasRule(result Result, ruleID string) bool {
	for _, issue := range result.Issues {
		if issue.RuleID == ruleID {
			return true
		}
	}
	return false
}

func TestSeverityPenalties(t *testing.T) {
	cases := []struct {
		severity Severity
		want     float64
	}{
		{SeverityInfo, 0.02},
		{SeverityWarning, 0.05},
		{SeverityError, 0.15},
		{SeverityCritical, 0.40},
	}
	for _, tc := range cases {
		if got := severityPenalty(tc.severity); got != tc.want {
			t.Fatalf("penalty for %s = %f, want %f", tc.severity, got, tc.want)
		}
	}
}

func TestScoreForFloorsAtZero(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
	}
	if got := ScoreFor(issues); got != 0 {
		t.Fatalf("score %f, want 0", got)
	}
}

func TestValidateSelectionCleanRun(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, DefaultConfig())

	selected := []string{"B002", "B003", "B004", "F001", "F002", "T001", "N001"}
	scores := make([]scoring.QuestionScore, 0, len(selected))
	for _, id := range selected {
		scores = append(scores, scoring.QuestionScore{QuestionID: id, TotalScore: 0.8})
	}

	result := engine.ValidateSelection(selected, scores, &scoring.Context{})
	if !result.IsValid {
		t.Fatalf("balanced selection should be valid, issues: %+v", result.Issues)
	}
	if result.Score != 1.0 {
		t.Fatalf("clean run score %f, want 1.0", result.Score)
	}
}

func TestValidateSelectionMissingStage(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, DefaultConfig())

	// No technical or nfr questions selected.
	selected := []string{"B002", "B003", "B004", "F001", "F002"}
	result := engine.ValidateSelection(selected, nil, nil)

	if !hasRule(result, "MISSING_STAGE_COVERAGE") {
		t.Fatalf("missing stages not flagged: %+v", result.Issues)
	}
	// Coverage gaps are a warning, not a failure.
	if !result.IsValid {
		t.Fatalf("warnings alone must not invalidate the selection")
	}
}

func TestValidateSelectionStageConcentration(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, DefaultConfig())

	selected := []string{"B002", "B003", "B004", "B008", "F002", "T001", "N001"}
	result := engine.ValidateSelection(selected, nil, nil)

	// Four of seven business questions is below the 0.6 threshold; add
	// one more to cross it.
	if hasRule(result, "UNBALANCED_STAGE_DISTRIBUTION") {
		t.Fatalf("4/7 concentration should not be flagged")
	}

	concentrated := []string{"B002", "B003", "B004", "B008", "F002"}
	result = engine.ValidateSelection(concentrated, nil, nil)
	if !hasRule(result, "UNBALANCED_STAGE_DISTRIBUTION") {
		t.Fatalf("4/5 business concentration not flagged: %+v", result.Issues)
	}
}

func TestValidateSelectionMissingRequired(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, DefaultConfig())

	selected := []string{"B003", "B004", "F001", "T001", "N001"}
	result := engine.ValidateSelection(selected, nil, nil)

	if !hasRule(result, "MISSING_REQUIRED_QUESTIONS") {
		t.Fatalf("missing required questions not flagged")
	}
	if result.IsValid {
		t.Fatalf("missing required questions must invalidate the selection")
	}
}

func TestValidateSelectionBounds(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, Config{MinQuestions: 5, MaxQuestions: 6})

	small := engine.ValidateSelection([]string{"B002", "F002"}, nil, nil)
	if !hasRule(small, "TOO_FEW_QUESTIONS") {
		t.Fatalf("undersized selection not flagged")
	}

	large := engine.ValidateSelection(
		[]string{"B002", "B003", "B004", "B008", "F001", "F002", "T001", "N001"}, nil, nil)
	if !hasRule(large, "TOO_MANY_QUESTIONS") {
		t.Fatalf("oversized selection not flagged")
	}
	if large.IsValid {
		t.Fatalf("oversized selection must be invalid")
	}
}

func TestValidateSelectionScoringConsistency(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, DefaultConfig())

	// Ranked scores put B002..F001 on top, but the selection largely
	// ignores the ranking.
	scores := []scoring.QuestionScore{
		{QuestionID: "B002", TotalScore: 0.9},
		{QuestionID: "B003", TotalScore: 0.85},
	}
	selected := []string{"B004", "B008", "F001", "F002", "T001", "N001", "B002"}

	result := engine.ValidateSelection(selected, scores, nil)
	if !hasRule(result, "SCORING_INCONSISTENCY") {
		t.Fatalf("divergence from the ranking not flagged")
	}
}

func TestValidateSelectionComplianceContext(t *testing.T) {
	cat := validationCatalog(t)
	engine := NewEngine(cat, DefaultConfig())

	sctx := &scoring.Context{ComplianceRequirements: []string{"lgpd", "pci_dss"}}

	// Without any compliance tagged question the run is flagged.
	without := engine.ValidateSelection([]string{"B002", "B003", "F001", "F002", "T001", "N001"}, nil, sctx)
	if !hasRule(without, "MISSING_COMPLIANCE_QUESTIONS") {
		t.Fatalf("missing compliance coverage not flagged")
	}

	with := engine.ValidateSelection([]string{"B002", "B008", "B003", "F001", "F002", "T001", "N001"}, nil, sctx)
	if hasRule(with, "MISSING_COMPLIANCE_QUESTIONS") {
		t.Fatalf("compliance question present but still flagged")
	}
}
