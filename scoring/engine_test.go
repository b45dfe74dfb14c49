package scoring

import (
	"context"
	"reflect"
	"testing"

	"github.com/sweetpotato0/intakekit/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Question{
		{ID: "B002", Text: "What is the main goal of the project?", Type: catalog.TypeText, Stage: catalog.StageBusiness, Tags: []string{"business", "strategy"}, Required: true, Weight: 10},
		{ID: "B004", Text: "What is the budget range for this project?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Tags: []string{"business", "budget"}, Weight: 8},
		{ID: "B008", Text: "Which compliance requirements apply to the project?", Type: catalog.TypeMultiChoice, Stage: catalog.StageBusiness, Tags: []string{"business", "compliance"}, Weight: 8},
		{ID: "F002", Text: "What are the main features the system must provide?", Type: catalog.TypeText, Stage: catalog.StageFunctional, Tags: []string{"functional"}, Required: true, Weight: 9},
		{ID: "T002", Text: "Where should the system be hosted?", Type: catalog.TypeSingleChoice, Stage: catalog.StageTechnical, Tags: []string{"technical", "infrastructure"}, Weight: 5},
		{ID: "N001", Text: "What performance level does the system require?", Type: catalog.TypeSingleChoice, Stage: catalog.StageNonFunctional, Tags: []string{"nfr", "performance"}, Weight: 7},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func fintechContext() *Context {
	return &Context{
		IntakeText:             "We need a fintech investment platform with banking integration and compliance reporting",
		Tags:                   []string{"business", "compliance"},
		Domain:                 "fintech",
		ComplianceRequirements: []string{"lgpd", "pci_dss"},
		Complexity:             ComplexityHigh,
		UserCountEstimate:      30000,
		ExistingSystems:        []string{"core banking", "crm", "erp"},
	}
}

func TestNewEngineRejectsInvalidWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.BusinessValue = 0.9
	if _, err := NewEngine(cfg); err == nil {
		t.Fatalf("expected weight validation failure")
	}
}

func TestScoreAllBounds(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	cat := testCatalog(t)

	scores := engine.ScoreAll(context.Background(), cat, fintechContext())
	if len(scores) != cat.Len() {
		t.Fatalf("expected %d scores, got %d", cat.Len(), len(scores))
	}
	for _, s := range scores {
		if s.TotalScore < 0 || s.TotalScore > 1 {
			t.Fatalf("score for %s outside [0,1]: %f", s.QuestionID, s.TotalScore)
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Fatalf("confidence for %s outside [0,1]: %f", s.QuestionID, s.Confidence)
		}
		if len(s.CriteriaScores) != len(Criteria()) {
			t.Fatalf("question %s missing criteria scores", s.QuestionID)
		}
	}
}

func TestScoreAllDeterministic(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	cat := testCatalog(t)
	sctx := fintechContext()

	first := engine.ScoreAll(context.Background(), cat, sctx)
	second := engine.ScoreAll(context.Background(), cat, sctx)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring must be deterministic for identical input")
	}
}

func TestAdjustAppliesComplexityModifier(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	cat := testCatalog(t)
	sctx := fintechContext()

	base := engine.ScoreAll(context.Background(), cat, sctx)
	adjusted := engine.Adjust(base, cat, sctx)

	// Three existing systems, 30000 users, two compliance frameworks:
	// integration and compliance modifiers apply, scale does not.
	want := 1.1 * 1.2
	for _, s := range adjusted {
		if s.ComplexityModifier != want {
			t.Fatalf("question %s modifier %f, want %f", s.QuestionID, s.ComplexityModifier, want)
		}
	}

	// The input scores must not be mutated.
	for _, s := range base {
		if s.ComplexityModifier != 1.0 {
			t.Fatalf("Adjust mutated its input")
		}
	}
}

func TestAdjustSortsDescending(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	cat := testCatalog(t)
	sctx := fintechContext()

	adjusted := engine.Adjust(engine.ScoreAll(context.Background(), cat, sctx), cat, sctx)
	for i := 1; i < len(adjusted); i++ {
		if adjusted[i].TotalScore > adjusted[i-1].TotalScore {
			t.Fatalf("adjusted scores not sorted: %f before %f",
				adjusted[i-1].TotalScore, adjusted[i].TotalScore)
		}
	}
}

func TestComplianceContextRaisesComplianceQuestion(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	cat := testCatalog(t)

	plain := &Context{IntakeText: "We want a simple internal tool", Complexity: ComplexityLow}
	rich := fintechContext()

	plainScores := scoreByID(engine.ScoreAll(context.Background(), cat, plain))
	richScores := scoreByID(engine.ScoreAll(context.Background(), cat, rich))

	if richScores["B008"].TotalScore <= plainScores["B008"].TotalScore {
		t.Fatalf("compliance question should score higher in a compliance-heavy context: %f vs %f",
			richScores["B008"].TotalScore, plainScores["B008"].TotalScore)
	}
}

func scoreByID(scores []QuestionScore) map[string]QuestionScore {
	out := make(map[string]QuestionScore, len(scores))
	for _, s := range scores {
		out[s.QuestionID] = s
	}
	return out
}
