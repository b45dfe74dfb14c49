package validation

// Severity orders validation findings by importance.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// severityPenalty is the score deduction per finding.
func severityPenalty(s Severity) float64 {
	switch s {
	case SeverityInfo:
		return 0.02
	case SeverityWarning:
		return 0.05
	case SeverityError:
		return 0.15
	case SeverityCritical:
		return 0.40
	default:
		return 0.10
	}
}

// Category groups validation rules by concern.
type Category string

const (
	CategoryBusinessLogic   Category = "business_logic"
	CategoryDataConsistency Category = "data_consistency"
	CategoryCompleteness    Category = "completeness"
	CategoryDependency      Category = "dependency"
	CategoryConstraint      Category = "constraint"
	CategoryQuality         Category = "quality"
	CategoryCompliance      Category = "compliance"
	CategoryPerformance     Category = "performance"
)

// Issue is one validation finding. Findings are values, never errors:
// a validation run always completes and returns its full issue list.
type Issue struct {
	RuleID      string
	Category    Category
	Severity    Severity
	Message     string
	QuestionID  string
	AnswerValue any
	Suggestions []string
}

// Result aggregates the findings of one validation run.
type Result struct {
	IsValid     bool
	Issues      []Issue
	Score       float64
	Suggestions []string
}

// add appends an issue to the result.
func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Warnings returns the info and warning level findings.
func (r *Result) Warnings() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityInfo || i.Severity == SeverityWarning {
			out = append(out, i)
		}
	}
	return out
}

// finalize derives the score, validity, and general suggestions from
// the accumulated issues. Score is 1.0 minus severity penalties,
// floored at 0; validity requires no error or critical findings.
func (r *Result) finalize() {
	penalty := 0.0
	valid := true
	for _, issue := range r.Issues {
		penalty += severityPenalty(issue.Severity)
		if issue.Severity >= SeverityError {
			valid = false
		}
	}

	r.Score = 1.0 - penalty
	if r.Score < 0 {
		r.Score = 0
	}
	r.IsValid = valid
	r.Suggestions = generalSuggestions(r.Issues)
}

func generalSuggestions(issues []Issue) []string {
	categories := make(map[Category]struct{})
	for _, i := range issues {
		categories[i.Category] = struct{}{}
	}

	var out []string
	if _, ok := categories[CategoryCompleteness]; ok {
		out = append(out, "complete all required information")
	}
	if _, ok := categories[CategoryCompliance]; ok {
		out = append(out, "review compliance and regulatory requirements")
	}
	if _, ok := categories[CategoryDataConsistency]; ok {
		out = append(out, "check consistency between related answers")
	}
	if _, ok := categories[CategoryBusinessLogic]; ok {
		out = append(out, "align technical requirements with business objectives")
	}
	return out
}

// ScoreFor computes the severity-weighted score of an issue list
// without building a full result.
func ScoreFor(issues []Issue) float64 {
	penalty := 0.0
	for _, issue := range issues {
		penalty += severityPenalty(issue.Severity)
	}
	score := 1.0 - penalty
	if score < 0 {
		return 0
	}
	return score
}
