package scoring

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/pkg/logging"
)

// Config holds the tunables of the scoring engine.
type Config struct {
	// Weights for the eight criteria, must sum to 1.0
	Weights Weights

	// DiversityBoost multiplies scores of questions in stages with
	// fewer than three scored questions (default 1.1)
	DiversityBoost float64

	// Complexity modifiers, applied when the context meets the
	// matching condition
	IntegrationFactor float64 // more than two existing systems
	ScaleFactor       float64 // more than 50000 estimated users
	ComplianceFactor  float64 // two or more compliance requirements
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		DiversityBoost:    1.1,
		IntegrationFactor: 1.1,
		ScaleFactor:       1.15,
		ComplianceFactor:  1.2,
	}
}

// Engine scores catalog questions against an enriched context.
type Engine struct {
	config Config
	logger *slog.Logger
}

// NewEngine builds a scoring engine. It fails when the criterion
// weights do not sum to 1.0 within tolerance.
func NewEngine(config Config) (*Engine, error) {
	if config.DiversityBoost == 0 {
		config.DiversityBoost = 1.1
	}
	if config.IntegrationFactor == 0 {
		config.IntegrationFactor = 1.1
	}
	if config.ScaleFactor == 0 {
		config.ScaleFactor = 1.15
	}
	if config.ComplianceFactor == 0 {
		config.ComplianceFactor = 1.2
	}

	if err := config.Weights.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		config: config,
		logger: logging.WithComponent("scoring"),
	}, nil
}

// Weights returns the criterion weights the engine was built with.
func (e *Engine) Weights() Weights {
	return e.config.Weights
}

// ScoreAll computes a base score for every catalog question. Questions
// are scored concurrently; a failure inside one question's scoring is
// absorbed and that question defaults to a zero score.
func (e *Engine) ScoreAll(ctx context.Context, cat *catalog.Catalog, sctx *Context) []QuestionScore {
	questions := cat.Questions()
	scores := make([]QuestionScore, len(questions))

	var wg sync.WaitGroup
	for i := range questions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scores[i] = e.scoreQuestion(&questions[i], sctx)
		}(i)
	}
	wg.Wait()

	e.logger.Debug("scored catalog", "questions", len(scores))
	return scores
}

func (e *Engine) scoreQuestion(q *catalog.Question, sctx *Context) (score QuestionScore) {
	score = QuestionScore{QuestionID: q.ID, ComplexityModifier: 1.0}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("question scoring failed", "question_id", q.ID, "panic", r)
			score = QuestionScore{QuestionID: q.ID, ComplexityModifier: 1.0}
		}
	}()

	score.SimilarityScore = SimilarityScore(q, sctx)
	score.TagBonus = TagBonus(q, sctx)
	score.WeightFactor = float64(q.Weight) / 10.0

	score.CriteriaScores = map[Criterion]float64{
		CriterionBusinessValue:       BusinessValueScore(q, sctx),
		CriterionTechnicalComplexity: TechnicalComplexityScore(q, sctx),
		CriterionUserImpact:          UserImpactScore(q, sctx),
		CriterionStrategicAlignment:  StrategicAlignmentScore(q, sctx),
		CriterionResourceFit:         ResourceFitScore(q, sctx),
		CriterionComplianceRelevance: ComplianceRelevanceScore(q, sctx),
		CriterionIndustrySpecificity: IndustrySpecificityScore(q, sctx),
		CriterionRiskMitigation:      RiskMitigationScore(q, sctx),
	}

	weighted := 0.0
	for criterion, value := range score.CriteriaScores {
		weighted += value * e.config.Weights.For(criterion)
	}

	// 60% weighted criteria, 25% similarity, 10% tag bonus, 5% author weight
	score.TotalScore = clamp01(weighted*0.6 +
		score.SimilarityScore*0.25 +
		score.TagBonus*0.10 +
		score.WeightFactor*0.05)

	score.Confidence = ComputeConfidence(score)
	score.Reasoning = e.reasoning(q, &score)

	return score
}

func (e *Engine) reasoning(q *catalog.Question, score *QuestionScore) []string {
	var reasons []string

	if score.SimilarityScore > 0.3 {
		reasons = append(reasons, "high similarity with intake text")
	}
	if score.TagBonus > 0 {
		reasons = append(reasons, "relevant tag overlap")
	}
	if score.WeightFactor > 0.5 {
		reasons = append(reasons, "high author-assigned weight")
	}
	if v := score.CriteriaScores[CriterionComplianceRelevance]; v > 0.5 {
		reasons = append(reasons, "strong compliance relevance")
	}
	if q.Required {
		reasons = append(reasons, "required question")
	}

	return reasons
}

// Adjust returns a new slice with complexity modifiers and the
// diversity boost applied, sorted by total score descending. The input
// is not mutated.
func (e *Engine) Adjust(scores []QuestionScore, cat *catalog.Catalog, sctx *Context) []QuestionScore {
	modifier := e.complexityModifier(sctx)

	stageCounts := make(map[catalog.Stage]int)
	for _, s := range scores {
		if q, ok := cat.Get(s.QuestionID); ok {
			stageCounts[q.Stage]++
		}
	}

	adjusted := make([]QuestionScore, len(scores))
	for i, s := range scores {
		out := s
		out.ComplexityModifier = modifier
		out.TotalScore = clamp01(out.TotalScore * modifier)

		if q, ok := cat.Get(s.QuestionID); ok && stageCounts[q.Stage] < 3 {
			out.TotalScore = clamp01(out.TotalScore * e.config.DiversityBoost)
		}

		adjusted[i] = out
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		return adjusted[i].TotalScore > adjusted[j].TotalScore
	})
	return adjusted
}

func (e *Engine) complexityModifier(sctx *Context) float64 {
	modifier := 1.0
	if len(sctx.ExistingSystems) > 2 {
		modifier *= e.config.IntegrationFactor
	}
	if sctx.UserCountEstimate > 50000 {
		modifier *= e.config.ScaleFactor
	}
	if len(sctx.ComplianceRequirements) >= 2 {
		modifier *= e.config.ComplianceFactor
	}
	return modifier
}
