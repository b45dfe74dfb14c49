package validation

import (
	"testing"

	"github.com/sweetpotato0/intakekit/catalog"
)

func answersCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Question{
		{ID: "B002", Text: "What is the main goal of the project?", Type: catalog.TypeText, Stage: catalog.StageBusiness, Required: true, Weight: 10},
		{ID: "B003", Text: "Which industry is the project in?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 6},
		{ID: "B004", Text: "What is the budget range?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 8},
		{ID: "B005", Text: "What is the expected timeline?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 7},
		{ID: "B008", Text: "Which compliance requirements apply?", Type: catalog.TypeMultiChoice, Stage: catalog.StageBusiness, Tags: []string{"compliance"}, Weight: 8},
		{ID: "B009", Text: "How many users are expected?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 6},
		{ID: "B012", Text: "Which external integrations are needed?", Type: catalog.TypeMultiChoice, Stage: catalog.StageBusiness, Weight: 5},
		{ID: "B020", Text: "How critical is the system to the business?", Type: catalog.TypeSingleChoice, Stage: catalog.StageBusiness, Weight: 7},
		{ID: "N001", Text: "What performance level is required?", Type: catalog.TypeSingleChoice, Stage: catalog.StageNonFunctional, Weight: 7},
		{ID: "N002", Text: "What availability level is expected?", Type: catalog.TypeSingleChoice, Stage: catalog.StageNonFunctional, Weight: 7},
		{
			ID: "S002", Text: "Which payment providers must be supported?",
			Type: catalog.TypeMultiChoice, Stage: catalog.StageSecurity, Required: true, Weight: 8,
			Condition: &catalog.Condition{All: []catalog.Clause{
				{Question: "B012", Operator: "contains", Values: []string{"payment"}},
			}},
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func answersEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(answersCatalog(t), DefaultConfig())
}

const richIntake = "We need a web dashboard with api integration to automate order " +
	"tracking and reduce manual work. The goal is to improve reporting for the " +
	"operations team and track fulfillment metrics across our existing database " +
	"and cloud infrastructure in real-time."

func TestValidateAnswersShortIntake(t *testing.T) {
	engine := answersEngine(t)

	result := engine.ValidateAnswers("app", map[string]any{"B002": "ship it"})
	if !hasRule(result, "INSUFFICIENT_PROJECT_DESCRIPTION") {
		t.Fatalf("short intake not flagged")
	}
	if result.IsValid {
		t.Fatalf("insufficient description must invalidate the answers")
	}
}

func TestValidateAnswersMissingRequired(t *testing.T) {
	engine := answersEngine(t)

	result := engine.ValidateAnswers(richIntake, map[string]any{})
	if !hasRule(result, "MISSING_REQUIRED_ANSWER") {
		t.Fatalf("missing required answer not flagged")
	}
}

func TestValidateAnswersEmptyAnswer(t *testing.T) {
	engine := answersEngine(t)

	result := engine.ValidateAnswers(richIntake, map[string]any{"B002": "   "})
	if !hasRule(result, "EMPTY_ANSWER") {
		t.Fatalf("blank required answer not flagged")
	}
}

func TestValidateAnswersDependencyViolation(t *testing.T) {
	engine := answersEngine(t)

	// S002 answered although no payment integration was declared.
	answers := map[string]any{
		"B002": "automate order tracking",
		"B012": []string{"monitoring"},
		"S002": []string{"stripe"},
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "DEPENDENCY_VIOLATION") {
		t.Fatalf("stale conditional answer not flagged")
	}
}

func TestValidateAnswersMissingDependentQuestion(t *testing.T) {
	engine := answersEngine(t)

	// Payment integration declared, so S002 became required.
	answers := map[string]any{
		"B002": "automate order tracking",
		"B012": []string{"payment"},
		"B008": []string{"pci_dss"},
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "MISSING_DEPENDENT_QUESTION") {
		t.Fatalf("unanswered gated required question not flagged")
	}
}

func TestValidateAnswersBudgetTimelineMismatch(t *testing.T) {
	engine := answersEngine(t)

	answers := map[string]any{
		"B002": "automate order tracking",
		"B004": "over_5m",
		"B005": "under_3m",
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "BUDGET_TIMELINE_MISMATCH") {
		t.Fatalf("large budget with short timeline not flagged")
	}

	answers["B004"] = "under_50k"
	answers["B005"] = "over_12m"
	result = engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "BUDGET_TIMELINE_MISMATCH") {
		t.Fatalf("small budget over a long timeline not flagged")
	}
}

func TestValidateAnswersScalePerformanceMismatch(t *testing.T) {
	engine := answersEngine(t)

	answers := map[string]any{
		"B002": "automate order tracking",
		"B009": "over_100k",
		"N001": "basic",
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "SCALE_PERFORMANCE_MISMATCH") {
		t.Fatalf("large user base with basic performance not flagged")
	}
}

func TestValidateAnswersIndustryCompliance(t *testing.T) {
	engine := answersEngine(t)

	answers := map[string]any{
		"B002": "manage patient scheduling",
		"B003": "healthcare",
		"B008": []string{"lgpd"},
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "MISSING_COMPLIANCE_REQUIREMENT") {
		t.Fatalf("healthcare project without hipaa not flagged")
	}
	if result.IsValid {
		t.Fatalf("missing mandatory compliance must invalidate the answers")
	}

	answers["B008"] = []string{"lgpd", "hipaa"}
	result = engine.ValidateAnswers(richIntake, answers)
	if hasRule(result, "MISSING_COMPLIANCE_REQUIREMENT") {
		t.Fatalf("complete compliance declaration still flagged")
	}
}

func TestValidateAnswersCriticalityAvailability(t *testing.T) {
	engine := answersEngine(t)

	answers := map[string]any{
		"B002": "automate order tracking",
		"B020": "mission_critical",
		"N002": "99",
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "CRITICALITY_AVAILABILITY_MISMATCH") {
		t.Fatalf("mission critical system with low availability not flagged")
	}

	answers["N002"] = "99_99"
	result = engine.ValidateAnswers(richIntake, answers)
	if hasRule(result, "CRITICALITY_AVAILABILITY_MISMATCH") {
		t.Fatalf("high availability target still flagged")
	}
}

func TestValidateAnswersPaymentRequiresPCI(t *testing.T) {
	engine := answersEngine(t)

	answers := map[string]any{
		"B002": "automate order tracking",
		"B012": []string{"payment"},
		"B008": []string{"lgpd"},
		"S002": []string{"stripe"},
	}
	result := engine.ValidateAnswers(richIntake, answers)
	if !hasRule(result, "MISSING_PCI_COMPLIANCE") {
		t.Fatalf("payment integration without pci_dss not flagged")
	}
}

func TestValidateAnswersLowDescriptionQuality(t *testing.T) {
	engine := answersEngine(t)

	result := engine.ValidateAnswers("we want a thing for stuff", map[string]any{"B002": "a thing"})
	if !hasRule(result, "LOW_DESCRIPTION_QUALITY") {
		t.Fatalf("vague description not flagged")
	}

	result = engine.ValidateAnswers(richIntake, map[string]any{"B002": "automate order tracking"})
	if hasRule(result, "LOW_DESCRIPTION_QUALITY") {
		t.Fatalf("detailed description flagged as low quality")
	}
}

func TestValidateAnswersBudgetComplexityMismatch(t *testing.T) {
	engine := answersEngine(t)

	intake := "We must build a real-time platform with legacy migration, " +
		"erp integration, multi-tenant support and full audit trails."
	answers := map[string]any{
		"B002": "replace the legacy stack",
		"B004": "under_50k",
	}
	result := engine.ValidateAnswers(intake, answers)
	if !hasRule(result, "BUDGET_COMPLEXITY_MISMATCH") {
		t.Fatalf("complex scope on a small budget not flagged")
	}
}
