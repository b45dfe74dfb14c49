package validation

import (
	"fmt"
	"strings"
)

// Option value sets the cross-field rules compare against. They match
// the bundled catalog's choice options.
var (
	highBudgetOptions   = []string{"1m_5m", "over_5m"}
	lowBudgetOptions    = []string{"under_50k", "50k_150k"}
	shortTimelineValues = []string{"under_3m", "3_6m"}
	longTimelineValues  = []string{"over_12m"}
	highUserCountValues = []string{"50k_100k", "over_100k"}
	lowPerformanceTiers = []string{"basic", "standard"}
	highAvailability    = []string{"99_9", "99_99", "99_999"}
)

// industryCompliance maps a declared industry to the compliance
// frameworks the project must at minimum acknowledge.
var industryCompliance = map[string][]string{
	"healthcare": {"lgpd", "hipaa"},
	"finance":    {"lgpd", "sox", "pci_dss"},
	"ecommerce":  {"lgpd", "pci_dss"},
	"education":  {"lgpd"},
	"government": {"lgpd"},
}

var technicalIntakeTerms = []string{
	"api", "integration", "database", "cloud", "mobile", "web",
	"dashboard", "automation", "real-time", "authentication",
}

var objectiveIntakeTerms = []string{
	"goal", "objective", "need", "problem", "improve", "reduce",
	"increase", "automate", "manage", "track",
}

var complexityIndicators = []string{
	"integration", "legacy", "migration", "real-time", "machine learning",
	"multi-tenant", "high availability", "compliance", "audit",
}

// ValidateAnswers checks an intake description and the collected
// answers for completeness, dependency violations, cross-field
// consistency, domain compliance, and overall quality. An internal
// panic is contained and surfaces as a single critical finding.
func (e *Engine) ValidateAnswers(intakeText string, answers map[string]any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("answer validation panicked", "panic", fmt.Sprint(r))
			result = engineFailure(r)
		}
	}()

	e.checkIntakeText(&result, intakeText)
	e.checkAnswerCompleteness(&result, answers)
	e.checkDependencies(&result, answers)
	e.checkBudgetTimeline(&result, answers)
	e.checkUserPerformance(&result, answers)
	e.checkIndustryCompliance(&result, answers)
	e.checkBusinessRules(&result, answers)
	e.checkIntakeQuality(&result, intakeText)
	e.checkBudgetComplexity(&result, intakeText, answers)

	result.finalize()
	e.logger.Debug("answers validated",
		"answers", len(answers),
		"issues", len(result.Issues),
		"score", result.Score,
		"valid", result.IsValid)
	return result
}

func (e *Engine) checkIntakeText(result *Result, intakeText string) {
	if len(strings.TrimSpace(intakeText)) < 10 {
		result.add(Issue{
			RuleID:      "INSUFFICIENT_PROJECT_DESCRIPTION",
			Category:    CategoryCompleteness,
			Severity:    SeverityError,
			Message:     "project description is too short to analyze",
			Suggestions: []string{"describe the project in at least one full sentence"},
		})
	}
}

func (e *Engine) checkAnswerCompleteness(result *Result, answers map[string]any) {
	for _, q := range e.cat.Required() {
		if !q.Condition.Evaluate(answers) {
			continue
		}
		value, answered := answers[q.ID]
		if !answered {
			result.add(Issue{
				RuleID:      "MISSING_REQUIRED_ANSWER",
				Category:    CategoryCompleteness,
				Severity:    SeverityError,
				Message:     fmt.Sprintf("required question %s has no answer", q.ID),
				QuestionID:  q.ID,
				Suggestions: []string{"collect an answer before completing the session"},
			})
			continue
		}
		if isEmptyAnswer(value) {
			result.add(Issue{
				RuleID:      "EMPTY_ANSWER",
				Category:    CategoryQuality,
				Severity:    SeverityWarning,
				Message:     fmt.Sprintf("question %s was answered with an empty value", q.ID),
				QuestionID:  q.ID,
				AnswerValue: value,
			})
		}
	}
}

// checkDependencies verifies conditional questions both ways: an
// answer present while its gate is false, and a required gated
// question left unanswered while its gate is true.
func (e *Engine) checkDependencies(result *Result, answers map[string]any) {
	for _, q := range e.cat.Questions() {
		if q.Condition == nil {
			continue
		}
		satisfied := q.Condition.Evaluate(answers)
		_, answered := answers[q.ID]

		if answered && !satisfied {
			result.add(Issue{
				RuleID:     "DEPENDENCY_VIOLATION",
				Category:   CategoryDependency,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("question %s was answered but its condition does not hold", q.ID),
				QuestionID: q.ID,
				Suggestions: []string{
					"the answer may be stale after an earlier answer changed",
				},
			})
		}
		if !answered && satisfied && q.Required {
			result.add(Issue{
				RuleID:     "MISSING_DEPENDENT_QUESTION",
				Category:   CategoryDependency,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("question %s became required by earlier answers but has no answer", q.ID),
				QuestionID: q.ID,
			})
		}
	}
}

func (e *Engine) checkBudgetTimeline(result *Result, answers map[string]any) {
	budget := answerString(answers[e.config.Fields.Budget])
	timeline := answerString(answers[e.config.Fields.Timeline])
	if budget == "" || timeline == "" {
		return
	}

	if contains(highBudgetOptions, budget) && contains(shortTimelineValues, timeline) {
		result.add(Issue{
			RuleID:   "BUDGET_TIMELINE_MISMATCH",
			Category: CategoryDataConsistency,
			Severity: SeverityWarning,
			Message:  "a large budget with a very short timeline is rarely realistic",
			Suggestions: []string{
				"confirm whether scope or timeline should be adjusted",
			},
		})
	}
	if contains(lowBudgetOptions, budget) && contains(longTimelineValues, timeline) {
		result.add(Issue{
			RuleID:   "BUDGET_TIMELINE_MISMATCH",
			Category: CategoryDataConsistency,
			Severity: SeverityWarning,
			Message:  "a small budget over a long timeline suggests underestimated costs",
			Suggestions: []string{
				"confirm whether the budget covers the full project duration",
			},
		})
	}
}

func (e *Engine) checkUserPerformance(result *Result, answers map[string]any) {
	users := answerString(answers[e.config.Fields.UserCount])
	performance := answerString(answers[e.config.Fields.Performance])
	if users == "" || performance == "" {
		return
	}
	if contains(highUserCountValues, users) && contains(lowPerformanceTiers, performance) {
		result.add(Issue{
			RuleID:   "SCALE_PERFORMANCE_MISMATCH",
			Category: CategoryDataConsistency,
			Severity: SeverityWarning,
			Message:  "a large user base with minimal performance requirements is inconsistent",
			Suggestions: []string{
				"revisit performance expectations for the projected scale",
			},
		})
	}
}

func (e *Engine) checkIndustryCompliance(result *Result, answers map[string]any) {
	industry := answerString(answers[e.config.Fields.Industry])
	required, regulated := industryCompliance[industry]
	if !regulated {
		return
	}
	declared := answerList(answers[e.config.Fields.Compliance])

	for _, framework := range required {
		if !contains(declared, framework) {
			result.add(Issue{
				RuleID:     "MISSING_COMPLIANCE_REQUIREMENT",
				Category:   CategoryCompliance,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("%s projects must address %s", industry, framework),
				QuestionID: e.config.Fields.Compliance,
				Suggestions: []string{
					fmt.Sprintf("add %s to the declared compliance requirements", framework),
				},
			})
		}
	}
}

func (e *Engine) checkBusinessRules(result *Result, answers map[string]any) {
	criticality := answerString(answers[e.config.Fields.Criticality])
	availability := answerString(answers[e.config.Fields.Availability])
	if criticality == "mission_critical" && availability != "" && !contains(highAvailability, availability) {
		result.add(Issue{
			RuleID:   "CRITICALITY_AVAILABILITY_MISMATCH",
			Category: CategoryBusinessLogic,
			Severity: SeverityError,
			Message:  "a mission critical system requires a high availability target",
			Suggestions: []string{
				"mission critical systems usually need at least 99.9% availability",
			},
		})
	}

	industry := answerString(answers[e.config.Fields.Industry])
	integrations := answerList(answers[e.config.Fields.Integrations])
	if industry == "ecommerce" && !contains(integrations, "payment") {
		result.add(Issue{
			RuleID:   "MISSING_PAYMENT_INTEGRATION",
			Category: CategoryBusinessLogic,
			Severity: SeverityWarning,
			Message:  "an ecommerce project without a payment integration is unusual",
		})
	}

	users := answerString(answers[e.config.Fields.UserCount])
	if contains(highUserCountValues, users) && !contains(integrations, "monitoring") {
		result.add(Issue{
			RuleID:   "MISSING_MONITORING",
			Category: CategoryBusinessLogic,
			Severity: SeverityWarning,
			Message:  "systems at this scale typically need monitoring integration",
		})
	}

	compliance := answerList(answers[e.config.Fields.Compliance])
	if contains(integrations, "payment") && !contains(compliance, "pci_dss") {
		result.add(Issue{
			RuleID:   "MISSING_PCI_COMPLIANCE",
			Category: CategoryCompliance,
			Severity: SeverityError,
			Message:  "payment processing requires PCI DSS compliance",
			Suggestions: []string{
				"add pci_dss to the compliance requirements or use a hosted payment provider",
			},
		})
	}
}

// checkIntakeQuality applies a lightweight heuristic over the intake
// text: length plus the presence of technical and objective vocabulary.
func (e *Engine) checkIntakeQuality(result *Result, intakeText string) {
	text := strings.ToLower(intakeText)
	quality := 0.0

	if len(text) > 50 {
		quality += 0.3
	}
	if len(text) > 200 {
		quality += 0.2
	}

	technical := 0.0
	for _, term := range technicalIntakeTerms {
		if strings.Contains(text, term) {
			technical += 0.1
		}
	}
	if technical > 0.3 {
		technical = 0.3
	}
	quality += technical

	objective := 0.0
	for _, term := range objectiveIntakeTerms {
		if strings.Contains(text, term) {
			objective += 0.05
		}
	}
	if objective > 0.2 {
		objective = 0.2
	}
	quality += objective

	if quality < 0.5 {
		result.add(Issue{
			RuleID:   "LOW_DESCRIPTION_QUALITY",
			Category: CategoryQuality,
			Severity: SeverityWarning,
			Message:  "project description lacks detail about goals and technology",
			Suggestions: []string{
				"mention concrete objectives and the systems involved",
			},
		})
	}
}

func (e *Engine) checkBudgetComplexity(result *Result, intakeText string, answers map[string]any) {
	budget := answerString(answers[e.config.Fields.Budget])
	if !contains(lowBudgetOptions, budget) {
		return
	}
	text := strings.ToLower(intakeText)
	indicators := 0
	for _, term := range complexityIndicators {
		if strings.Contains(text, term) {
			indicators++
		}
	}
	if indicators >= 3 {
		result.add(Issue{
			RuleID:   "BUDGET_COMPLEXITY_MISMATCH",
			Category: CategoryConstraint,
			Severity: SeverityWarning,
			Message:  "the described complexity looks beyond the declared budget",
			Suggestions: []string{
				"consider phasing the project or revisiting the budget",
			},
		})
	}
}

func isEmptyAnswer(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func answerString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func answerList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, answerString(item))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
