package consensus

import (
	"strings"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/scoring"
)

// Perspective identifiers. These are the only five members of the
// panel; votes never carry any other agent ID.
const (
	BusinessAnalyst     = "business_analyst"
	TechnicalArchitect  = "technical_architect"
	ComplianceExpert    = "compliance_expert"
	IndustryExpert      = "industry_expert"
	PerformanceEngineer = "performance_engineer"
)

// perspective is one specialized member of the scoring panel. The
// interface is closed: the five implementations below are the only
// ones, and dispatch goes through the panel table, never through
// name-based reflection.
type perspective interface {
	id() string
	name() string
	weight() float64
	stages() []catalog.Stage
	domains() []string
	score(q *catalog.Question, sctx *scoring.Context) float64
}

// panel is the fixed consultation order of the perspectives.
var panel = []perspective{
	businessAnalyst{},
	technicalArchitect{},
	complianceExpert{},
	industryExpert{},
	performanceEngineer{},
}

// panelByID resolves a perspective from its identifier.
var panelByID = func() map[string]perspective {
	m := make(map[string]perspective, len(panel))
	for _, p := range panel {
		m[p.id()] = p
	}
	return m
}()

// perspectiveWeight returns the consensus weight of a perspective,
// defaulting to 1.0 for unknown IDs.
func perspectiveWeight(agentID string) float64 {
	if p, ok := panelByID[agentID]; ok {
		return p.weight()
	}
	return 1.0
}

type businessAnalyst struct{}

func (businessAnalyst) id() string              { return BusinessAnalyst }
func (businessAnalyst) name() string            { return "Business Analyst" }
func (businessAnalyst) weight() float64         { return 1.0 }
func (businessAnalyst) stages() []catalog.Stage { return []catalog.Stage{catalog.StageBusiness} }
func (businessAnalyst) domains() []string {
	return []string{"business-objective", "strategic", "stakeholders", "budget", "planning", "roi", "metrics"}
}

func (businessAnalyst) score(q *catalog.Question, sctx *scoring.Context) float64 {
	score := 0.0

	if q.Stage == catalog.StageBusiness {
		score += 0.4
	}

	keywords := []string{"objective", "goal", "roi", "revenue", "cost", "efficiency", "stakeholder", "metric", "kpi", "budget", "schedule"}
	text := strings.ToLower(q.Text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	if len(sctx.Tags) > 0 {
		score += tagMatches(q, []string{"business-objective", "strategic", "stakeholders", "budget"}) * 0.15
	}

	if q.Required {
		score += 0.2
	}

	return clamp01(score)
}

type technicalArchitect struct{}

func (technicalArchitect) id() string      { return TechnicalArchitect }
func (technicalArchitect) name() string    { return "Technical Architect" }
func (technicalArchitect) weight() float64 { return 1.0 }
func (technicalArchitect) stages() []catalog.Stage {
	return []catalog.Stage{catalog.StageTechnical, catalog.StageFunctional}
}
func (technicalArchitect) domains() []string {
	return []string{"architecture", "technical", "integration", "platform", "scalability", "infrastructure", "deployment"}
}

func (technicalArchitect) score(q *catalog.Question, sctx *scoring.Context) float64 {
	score := 0.0

	if q.Stage == catalog.StageTechnical || q.Stage == catalog.StageFunctional {
		score += 0.4
	}

	keywords := []string{"architecture", "technolog", "api", "database", "integrat", "infrastructure", "deployment", "scalab", "platform"}
	text := strings.ToLower(q.Text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score += 0.12
		}
	}

	switch sctx.Complexity {
	case scoring.ComplexityHigh:
		score *= 1.3
	case scoring.ComplexityLow:
		score *= 0.8
	}

	score += tagMatches(q, []string{"architecture", "technical", "integration", "platform"}) * 0.2

	return clamp01(score)
}

type complianceExpert struct{}

func (complianceExpert) id() string      { return ComplianceExpert }
func (complianceExpert) name() string    { return "Compliance Expert" }
func (complianceExpert) weight() float64 { return 0.9 }
func (complianceExpert) stages() []catalog.Stage {
	return []catalog.Stage{catalog.StageBusiness, catalog.StageNonFunctional}
}
func (complianceExpert) domains() []string {
	return []string{"compliance", "security", "regulatory", "audit", "privacy", "data-protection"}
}

func (complianceExpert) score(q *catalog.Question, sctx *scoring.Context) float64 {
	score := 0.0

	keywords := []string{"lgpd", "gdpr", "hipaa", "sox", "pci", "security", "privacy", "audit", "compliance", "regulat"}
	text := strings.ToLower(q.Text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score += 0.25
		}
	}

	if len(sctx.ComplianceRequirements) > 0 {
		score += 0.3
	}

	switch sctx.Domain {
	case "healthcare", "finance", "government":
		score += 0.2
	}

	score += tagMatches(q, []string{"compliance", "security", "regulatory", "audit"}) * 0.3

	return clamp01(score)
}

type industryExpert struct{}

func (industryExpert) id() string      { return IndustryExpert }
func (industryExpert) name() string    { return "Industry Expert" }
func (industryExpert) weight() float64 { return 0.8 }
func (industryExpert) stages() []catalog.Stage {
	return []catalog.Stage{catalog.StageBusiness, catalog.StageFunctional}
}
func (industryExpert) domains() []string {
	return []string{"industry", "domain", "sector-specific", "vertical", "market"}
}

var industryVocabulary = map[string][]string{
	"healthcare": {"health", "patient", "medical", "clinic", "hospital", "record"},
	"finance":    {"financial", "payment", "transaction", "bank", "credit", "investment"},
	"fintech":    {"financial", "payment", "transaction", "bank", "credit", "investment"},
	"ecommerce":  {"product", "cart", "checkout", "order", "inventory", "catalog"},
	"education":  {"student", "course", "class", "school", "university", "teaching"},
	"government": {"public", "citizen", "process", "agency", "law", "regulation"},
}

func (industryExpert) score(q *catalog.Question, sctx *scoring.Context) float64 {
	if sctx.Domain == "" {
		return 0.1
	}

	score := 0.0
	text := strings.ToLower(q.Text)
	for _, kw := range industryVocabulary[sctx.Domain] {
		if strings.Contains(text, kw) {
			score += 0.3
		}
	}

	if q.HasTag("industry-" + sctx.Domain) {
		score += 0.4
	}

	return clamp01(score)
}

type performanceEngineer struct{}

func (performanceEngineer) id() string      { return PerformanceEngineer }
func (performanceEngineer) name() string    { return "Performance Engineer" }
func (performanceEngineer) weight() float64 { return 0.9 }
func (performanceEngineer) stages() []catalog.Stage {
	return []catalog.Stage{catalog.StageNonFunctional, catalog.StageTechnical}
}
func (performanceEngineer) domains() []string {
	return []string{"performance", "scalability", "availability", "monitoring", "optimization", "capacity"}
}

func (performanceEngineer) score(q *catalog.Question, sctx *scoring.Context) float64 {
	score := 0.0

	if q.Stage == catalog.StageNonFunctional {
		score += 0.5
	}

	keywords := []string{"performance", "latency", "throughput", "scalab", "availability", "monitoring", "cache", "optimiz", "load", "concurren"}
	text := strings.ToLower(q.Text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score += 0.2
		}
	}

	if sctx.UserCountEstimate > 10000 {
		score *= 1.4
	}

	score += tagMatches(q, []string{"performance", "scalability", "availability", "monitoring"}) * 0.25

	return clamp01(score)
}

// relevantTo reports whether a perspective should examine a question:
// either the stage matches one of its affinities or the question's
// tags overlap its expertise domains.
func relevantTo(p perspective, q *catalog.Question) bool {
	for _, stage := range p.stages() {
		if q.Stage == stage {
			return true
		}
	}
	for _, tag := range q.Tags {
		for _, domain := range p.domains() {
			if tag == domain {
				return true
			}
		}
	}
	return false
}

// voteConfidence derives a perspective's confidence in a vote from
// expertise overlap, stage affinity, and how much context is known.
func voteConfidence(p perspective, q *catalog.Question, sctx *scoring.Context) float64 {
	confidence := 0.5

	confidence += expertiseMatch(p, q) * 0.3

	for _, stage := range p.stages() {
		if q.Stage == stage {
			confidence += 0.2
			break
		}
	}

	if len(sctx.Tags) > 0 {
		confidence += 0.1
	}
	if sctx.Domain != "" {
		confidence += 0.1
	}
	if len(sctx.ComplianceRequirements) > 0 {
		confidence += 0.1
	}

	return clamp01(confidence)
}

// expertiseMatch is the Jaccard similarity between the question's tags
// and the perspective's expertise domains.
func expertiseMatch(p perspective, q *catalog.Question) float64 {
	if len(q.Tags) == 0 {
		return 0.3
	}

	domains := make(map[string]struct{})
	for _, d := range p.domains() {
		domains[d] = struct{}{}
	}

	union := make(map[string]struct{})
	intersection := 0
	for _, tag := range q.Tags {
		union[tag] = struct{}{}
		if _, ok := domains[tag]; ok {
			intersection++
		}
	}
	for d := range domains {
		union[d] = struct{}{}
	}

	if len(union) == 0 {
		return 0.3
	}
	return float64(intersection) / float64(len(union))
}

func voteReasoning(p perspective, q *catalog.Question, sctx *scoring.Context, score float64) []string {
	var reasons []string

	switch {
	case score > 0.8:
		reasons = append(reasons, "highly relevant for "+p.name())
	case score > 0.6:
		reasons = append(reasons, "moderately relevant for "+p.name())
	case score > 0.3:
		reasons = append(reasons, "low relevance for "+p.name())
	default:
		reasons = append(reasons, "not relevant for "+p.name())
	}

	switch p.id() {
	case BusinessAnalyst:
		if q.Stage == catalog.StageBusiness {
			reasons = append(reasons, "business stage question matches primary expertise")
		}
		if q.Required {
			reasons = append(reasons, "required question is critical to business objectives")
		}
	case TechnicalArchitect:
		if q.Stage == catalog.StageTechnical || q.Stage == catalog.StageFunctional {
			reasons = append(reasons, "technical stage question matches area of specialization")
		}
		if sctx.Complexity == scoring.ComplexityHigh {
			reasons = append(reasons, "complex project raises question relevance")
		}
	case ComplianceExpert:
		if len(sctx.ComplianceRequirements) > 0 {
			reasons = append(reasons, "compliance requirements detected in context")
		}
		if sctx.Domain == "healthcare" || sctx.Domain == "finance" {
			reasons = append(reasons, "regulated industry makes compliance critical")
		}
	}

	return reasons
}

func tagMatches(q *catalog.Question, candidates []string) float64 {
	matches := 0
	for _, c := range candidates {
		if q.HasTag(c) {
			matches++
		}
	}
	return float64(matches)
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
