package scoring

import (
	"strings"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/vector"
)

// Keyword tables for the criterion scorers. Matching is substring
// based on the lowercased question text, so stems like "integrat"
// cover several word forms.
var (
	businessKeywords  = []string{"objective", "goal", "roi", "revenue", "cost", "efficiency", "competitiv", "strateg", "stakeholder"}
	technicalKeywords = []string{"architecture", "technolog", "integrat", "api", "database", "infrastructure", "deployment", "scalab"}
	userKeywords      = []string{"user", "interface", "experience", "usability", "accessibility", "performance", "responsiv"}
	resourceKeywords  = []string{"budget", "deadline", "team", "time", "schedule", "timeline"}
	complianceWords   = []string{"lgpd", "gdpr", "security", "privacy", "audit"}
	riskKeywords      = []string{"risk", "backup", "disaster", "recovery", "monitoring", "failover"}

	strategicTags = []string{"strategic", "critical", "core-business", "competitive"}

	industryKeywords = map[string][]string{
		"healthcare": {"health", "hipaa", "patient", "medical", "clinical"},
		"finance":    {"financial", "payment", "sox", "pci", "transaction"},
		"fintech":    {"financial", "payment", "sox", "pci", "transaction"},
		"ecommerce":  {"e-commerce", "product", "cart", "checkout", "inventory"},
		"education":  {"student", "course", "learning", "grade"},
	}
)

func keywordHits(text string, keywords []string, perHit float64) float64 {
	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score += perHit
		}
	}
	return score
}

// BusinessValueScore rates how much a question clarifies business value.
func BusinessValueScore(q *catalog.Question, sctx *Context) float64 {
	score := keywordHits(strings.ToLower(q.Text), businessKeywords, 0.15)

	if q.Stage == catalog.StageBusiness {
		score += 0.2
	}
	if q.Required {
		score += 0.1
	}

	return clamp01(score)
}

// TechnicalComplexityScore rates technical relevance, amplified for
// high-complexity projects and damped for low-complexity ones.
func TechnicalComplexityScore(q *catalog.Question, sctx *Context) float64 {
	score := keywordHits(strings.ToLower(q.Text), technicalKeywords, 0.12)

	switch sctx.Complexity {
	case ComplexityHigh:
		score *= 1.3
	case ComplexityLow:
		score *= 0.7
	}

	if q.Stage == catalog.StageTechnical {
		score += 0.2
	}

	return clamp01(score)
}

// UserImpactScore rates end-user impact, scaled by audience size.
func UserImpactScore(q *catalog.Question, sctx *Context) float64 {
	score := keywordHits(strings.ToLower(q.Text), userKeywords, 0.15)

	if sctx.UserCountEstimate > 10000 {
		score *= 1.4
	} else if sctx.UserCountEstimate > 1000 {
		score *= 1.2
	}

	if q.Stage == catalog.StageFunctional {
		score += 0.15
	}

	return clamp01(score)
}

// StrategicAlignmentScore rates alignment with strategic tags and the
// author-assigned question weight.
func StrategicAlignmentScore(q *catalog.Question, sctx *Context) float64 {
	score := 0.0
	for _, tag := range strategicTags {
		if q.HasTag(tag) {
			score += 0.25
		}
	}

	score += (float64(q.Weight) / 10.0) * 0.3

	return clamp01(score)
}

// ResourceFitScore rates how much a question clarifies resource
// constraints, adjusted by the detected budget range.
func ResourceFitScore(q *catalog.Question, sctx *Context) float64 {
	score := keywordHits(strings.ToLower(q.Text), resourceKeywords, 0.2)

	if strings.Contains(sctx.BudgetRange, "under_50k") {
		if q.Required {
			score += 0.3
		}
	} else if strings.Contains(sctx.BudgetRange, "over_5m") {
		score += 0.2
	}

	return clamp01(score)
}

// ComplianceRelevanceScore rates regulatory relevance.
func ComplianceRelevanceScore(q *catalog.Question, sctx *Context) float64 {
	score := keywordHits(strings.ToLower(q.Text), complianceWords, 0.2)

	if len(sctx.ComplianceRequirements) > 0 {
		score += 0.3
	}

	for _, tag := range q.Tags {
		if strings.Contains(tag, "compliance") || strings.Contains(tag, "security") {
			score += 0.2
			break
		}
	}

	return clamp01(score)
}

// IndustrySpecificityScore rates how tailored a question is to the
// detected industry. Zero when no industry was detected.
func IndustrySpecificityScore(q *catalog.Question, sctx *Context) float64 {
	if sctx.Domain == "" {
		return 0
	}

	keywords, ok := industryKeywords[sctx.Domain]
	if !ok {
		return 0
	}

	return clamp01(keywordHits(strings.ToLower(q.Text), keywords, 0.3))
}

// RiskMitigationScore rates how much a question reduces delivery risk.
func RiskMitigationScore(q *catalog.Question, sctx *Context) float64 {
	score := keywordHits(strings.ToLower(q.Text), riskKeywords, 0.25)

	if q.Stage == catalog.StageNonFunctional {
		score += 0.15
	}

	return clamp01(score)
}

// SimilarityScore measures how close a question is to the intake text.
// When both sides carry embeddings it uses cosine similarity, otherwise
// it falls back to amplified token overlap.
func SimilarityScore(q *catalog.Question, sctx *Context) float64 {
	if len(q.Embedding) > 0 && len(sctx.Embedding) == len(q.Embedding) {
		return clamp01(float64(vector.CosineSimilarity(q.Embedding, sctx.Embedding)))
	}
	return tokenOverlap(sctx.IntakeText, q.Text)
}

func tokenOverlap(intake, question string) float64 {
	intakeWords := tokenSet(intake)
	questionWords := tokenSet(question)

	if len(intakeWords) == 0 || len(questionWords) == 0 {
		return 0
	}

	common := 0
	for w := range questionWords {
		if _, ok := intakeWords[w]; ok {
			common++
		}
	}

	larger := len(intakeWords)
	if len(questionWords) > larger {
		larger = len(questionWords)
	}

	return clamp01(float64(common) / float64(larger) * 2.0)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

// TagBonus rewards overlap between the question's tags and the
// context's classified tags, capped at 0.30.
func TagBonus(q *catalog.Question, sctx *Context) float64 {
	if len(q.Tags) == 0 || len(sctx.Tags) == 0 {
		return 0
	}

	matching := 0
	for _, tag := range q.Tags {
		if sctx.HasTag(tag) {
			matching++
		}
	}

	return float64(matching) / float64(len(q.Tags)) * 0.3
}
