package scoring

// Complexity is the estimated delivery complexity of a project.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Context carries everything the scoring pass knows about one intake.
// It is derived once per selection run and never mutated afterwards.
type Context struct {
	// IntakeText is the raw project description
	IntakeText string

	// Tags classified from the intake text
	Tags []string

	// Domain is the detected industry, empty when unknown
	Domain string

	// ComplianceRequirements detected in the text (lgpd, hipaa, ...)
	ComplianceRequirements []string

	// Complexity is the estimated project complexity
	Complexity Complexity

	// BudgetRange hint, empty when the text gives none
	BudgetRange string

	// TimelineConstraint hint, empty when the text gives none
	TimelineConstraint string

	// UserCountEstimate is 0 when the text gives no number
	UserCountEstimate int

	// ExistingSystems the project must integrate with
	ExistingSystems []string

	// Embedding of the intake text, nil when no embedder ran
	Embedding []float32
}

// HasTag reports whether the context carries the given classified tag.
func (c *Context) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
