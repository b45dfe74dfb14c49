package validation

import (
	"fmt"
	"log/slog"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/pkg/logging"
	"github.com/sweetpotato0/intakekit/scoring"
)

// FieldMap names the well-known answer keys the cross-field rules
// inspect. The defaults match the bundled catalog; projects with a
// custom catalog remap them here.
type FieldMap struct {
	Industry        string
	Budget          string
	Timeline        string
	Compliance      string
	UserCount       string
	ExistingSystems string
	Integrations    string
	Criticality     string
	ApplicationType string
	Performance     string
	Availability    string
}

// DefaultFieldMap returns the answer keys of the bundled catalog.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Industry:        "B003",
		Budget:          "B004",
		Timeline:        "B005",
		Compliance:      "B008",
		UserCount:       "B009",
		ExistingSystems: "B011",
		Integrations:    "B012",
		Criticality:     "B020",
		ApplicationType: "F001",
		Performance:     "N001",
		Availability:    "N002",
	}
}

// Config tunes the validation engine.
type Config struct {
	// MinQuestions is the lower bound below which a selection draws a
	// warning for likely insufficient coverage.
	MinQuestions int
	// MaxQuestions is the upper bound above which a selection draws an
	// error for respondent fatigue.
	MaxQuestions int
	// RequiredStages must each contribute at least one question to a
	// selection.
	RequiredStages []catalog.Stage
	// StageConcentration is the share of one stage above which the
	// selection is flagged as unbalanced.
	StageConcentration float64
	// TypeConcentration is the share of one question type above which
	// the selection is flagged as monotonous.
	TypeConcentration float64
	// Fields maps rule inputs to catalog answer keys.
	Fields FieldMap
}

// DefaultConfig returns the standard validation configuration.
func DefaultConfig() Config {
	return Config{
		MinQuestions: 5,
		MaxQuestions: 15,
		RequiredStages: []catalog.Stage{
			catalog.StageBusiness,
			catalog.StageFunctional,
			catalog.StageTechnical,
			catalog.StageNonFunctional,
		},
		StageConcentration: 0.6,
		TypeConcentration:  0.8,
		Fields:             DefaultFieldMap(),
	}
}

// Engine validates question selections and collected answers against
// the catalog. All rules are advisory: a run never fails, it reports.
type Engine struct {
	cat    *catalog.Catalog
	config Config
	logger *slog.Logger
}

// NewEngine creates a validation engine over the given catalog.
func NewEngine(cat *catalog.Catalog, config Config) *Engine {
	if config.MinQuestions == 0 {
		config.MinQuestions = 5
	}
	if config.MaxQuestions == 0 {
		config.MaxQuestions = 15
	}
	if len(config.RequiredStages) == 0 {
		config.RequiredStages = DefaultConfig().RequiredStages
	}
	if config.StageConcentration == 0 {
		config.StageConcentration = 0.6
	}
	if config.TypeConcentration == 0 {
		config.TypeConcentration = 0.8
	}
	if config.Fields == (FieldMap{}) {
		config.Fields = DefaultFieldMap()
	}
	return &Engine{
		cat:    cat,
		config: config,
		logger: logging.WithComponent("validation"),
	}
}

// ValidateSelection checks a selected question set for coverage,
// balance, and relevance to the scoring context. An internal panic is
// contained and surfaces as a single critical finding.
func (e *Engine) ValidateSelection(selected []string, scores []scoring.QuestionScore, sctx *scoring.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("selection validation panicked", "panic", fmt.Sprint(r))
			result = engineFailure(r)
		}
	}()

	e.checkStageCoverage(&result, selected)
	e.checkStageConcentration(&result, selected)
	e.checkTypeDiversity(&result, selected)
	e.checkRequiredCoverage(&result, selected)
	e.checkSelectionBounds(&result, selected)
	e.checkScoringConsistency(&result, selected, scores)
	e.checkContextRelevance(&result, selected, sctx)

	result.finalize()
	e.logger.Debug("selection validated",
		"questions", len(selected),
		"issues", len(result.Issues),
		"score", result.Score,
		"valid", result.IsValid)
	return result
}

func engineFailure(cause any) Result {
	r := Result{Issues: []Issue{{
		RuleID:      "VALIDATION_ENGINE_ERROR",
		Category:    CategoryQuality,
		Severity:    SeverityCritical,
		Message:     fmt.Sprintf("internal validation failure: %v", cause),
		Suggestions: []string{"retry the validation run"},
	}}}
	r.finalize()
	return r
}

func (e *Engine) checkStageCoverage(result *Result, selected []string) {
	covered := e.cat.StageDistribution(selected)
	var missing []string
	for _, stage := range e.config.RequiredStages {
		if covered[stage] == 0 {
			missing = append(missing, string(stage))
		}
	}
	if len(missing) > 0 {
		result.add(Issue{
			RuleID:      "MISSING_STAGE_COVERAGE",
			Category:    CategoryCompleteness,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("selection does not cover stages: %v", missing),
			Suggestions: []string{"include at least one question from each uncovered stage"},
		})
	}
}

func (e *Engine) checkStageConcentration(result *Result, selected []string) {
	if len(selected) == 0 {
		return
	}
	covered := e.cat.StageDistribution(selected)
	for stage, count := range covered {
		share := float64(count) / float64(len(selected))
		if share > e.config.StageConcentration {
			result.add(Issue{
				RuleID:   "UNBALANCED_STAGE_DISTRIBUTION",
				Category: CategoryQuality,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("%.0f%% of the selection is from stage %s", share*100, stage),
				Suggestions: []string{
					"spread the selection across more stages",
				},
			})
		}
	}
}

func (e *Engine) checkTypeDiversity(result *Result, selected []string) {
	if len(selected) == 0 {
		return
	}
	types := make(map[catalog.QuestionType]int)
	for _, id := range selected {
		if q, ok := e.cat.Get(id); ok {
			types[q.Type]++
		}
	}
	for qt, count := range types {
		share := float64(count) / float64(len(selected))
		if share > e.config.TypeConcentration {
			result.add(Issue{
				RuleID:      "LOW_TYPE_DIVERSITY",
				Category:    CategoryQuality,
				Severity:    SeverityInfo,
				Message:     fmt.Sprintf("%.0f%% of the selection is of type %s", share*100, qt),
				Suggestions: []string{"mix question types to improve answer quality"},
			})
		}
	}
}

func (e *Engine) checkRequiredCoverage(result *Result, selected []string) {
	selectedSet := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}
	var missing []string
	for _, id := range e.cat.RequiredIDs() {
		if _, ok := selectedSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		result.add(Issue{
			RuleID:      "MISSING_REQUIRED_QUESTIONS",
			Category:    CategoryCompleteness,
			Severity:    SeverityError,
			Message:     fmt.Sprintf("required questions absent from selection: %v", missing),
			Suggestions: []string{"required questions must always be selected"},
		})
	}
}

func (e *Engine) checkSelectionBounds(result *Result, selected []string) {
	if len(selected) > e.config.MaxQuestions {
		result.add(Issue{
			RuleID:   "TOO_MANY_QUESTIONS",
			Category: CategoryConstraint,
			Severity: SeverityError,
			Message: fmt.Sprintf("selection has %d questions, above the limit of %d",
				len(selected), e.config.MaxQuestions),
			Suggestions: []string{"trim low-priority questions to avoid respondent fatigue"},
		})
	}
	if len(selected) < e.config.MinQuestions {
		result.add(Issue{
			RuleID:   "TOO_FEW_QUESTIONS",
			Category: CategoryCompleteness,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("selection has %d questions, below the minimum of %d",
				len(selected), e.config.MinQuestions),
			Suggestions: []string{"a very small selection rarely captures enough context"},
		})
	}
}

// checkScoringConsistency flags selections that diverge from the
// scoring ranking, which usually signals over-aggressive filtering.
func (e *Engine) checkScoringConsistency(result *Result, selected []string, scores []scoring.QuestionScore) {
	if len(selected) == 0 || len(scores) == 0 {
		return
	}
	topN := 10
	if len(scores) < topN {
		topN = len(scores)
	}
	top := make(map[string]struct{}, topN)
	for _, s := range scores[:topN] {
		top[s.QuestionID] = struct{}{}
	}
	overlap := 0
	for _, id := range selected {
		if _, ok := top[id]; ok {
			overlap++
		}
	}
	if float64(overlap) < float64(len(selected))*0.6 {
		result.add(Issue{
			RuleID:   "SCORING_INCONSISTENCY",
			Category: CategoryQuality,
			Severity: SeverityInfo,
			Message:  "selection diverges from the top scored questions",
			Suggestions: []string{
				"review filter rules if highly scored questions keep dropping out",
			},
		})
	}
}

func (e *Engine) checkContextRelevance(result *Result, selected []string, sctx *scoring.Context) {
	if sctx == nil {
		return
	}

	if sctx.Domain != "" {
		hasIndustrySpecific := false
		for _, id := range selected {
			if q, ok := e.cat.Get(id); ok && q.HasTag(sctx.Domain) {
				hasIndustrySpecific = true
				break
			}
		}
		if !hasIndustrySpecific {
			result.add(Issue{
				RuleID:   "NO_INDUSTRY_SPECIFIC_QUESTIONS",
				Category: CategoryQuality,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("no question targets the detected %s domain", sctx.Domain),
				Suggestions: []string{
					"industry-specific questions usually surface critical requirements",
				},
			})
		}
	}

	if len(sctx.ComplianceRequirements) > 0 {
		hasCompliance := false
		for _, id := range selected {
			q, ok := e.cat.Get(id)
			if !ok {
				continue
			}
			if q.HasTag("compliance") || q.Stage == catalog.StageSecurity {
				hasCompliance = true
				break
			}
		}
		if !hasCompliance {
			result.add(Issue{
				RuleID:   "MISSING_COMPLIANCE_QUESTIONS",
				Category: CategoryCompliance,
				Severity: SeverityWarning,
				Message:  "compliance requirements detected but no compliance question selected",
				Suggestions: []string{
					"add compliance or security questions for regulated contexts",
				},
			})
		}
	}
}
