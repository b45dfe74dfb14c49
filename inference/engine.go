// Package inference analyzes raw intake text before any question is
// asked. It consults an oracle for semantic analysis, detects the
// business domain, and derives the facts, obvious answers, and
// redundant question IDs the rest of the pipeline works with.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/intakekit/oracle"
	"github.com/sweetpotato0/intakekit/pkg/logging"
	"github.com/sweetpotato0/intakekit/pkg/telemetry"
)

// Config tunes the inference engine.
type Config struct {
	// TokenizerModel selects the tiktoken encoding used for prompt
	// budgeting.
	TokenizerModel string
	// IntakeTokenBudget caps how much intake text is embedded in a
	// prompt.
	IntakeTokenBudget int
	// MaxFocusAreas caps the suggested focus areas.
	MaxFocusAreas int
	// AnalysisMaxTokens bounds the analysis completion.
	AnalysisMaxTokens int64
	// DetectionMaxTokens bounds the domain detection completion.
	DetectionMaxTokens int64
}

// DefaultConfig returns the standard inference configuration.
func DefaultConfig() Config {
	return Config{
		TokenizerModel:     "gpt-4o-mini",
		IntakeTokenBudget:  3000,
		MaxFocusAreas:      5,
		AnalysisMaxTokens:  1500,
		DetectionMaxTokens: 300,
	}
}

// Engine runs context analysis over intake text. Analysis is best
// effort: every oracle failure degrades to an empty result so the
// selection pipeline keeps working without inferred context.
type Engine struct {
	oracle oracle.Oracle
	config Config
	tok    *tokenizer
	logger *slog.Logger
}

// NewEngine creates an inference engine backed by the given oracle.
func NewEngine(o oracle.Oracle, config Config) (*Engine, error) {
	if o == nil {
		return nil, fmt.Errorf("inference engine requires an oracle")
	}
	defaults := DefaultConfig()
	if config.TokenizerModel == "" {
		config.TokenizerModel = defaults.TokenizerModel
	}
	if config.IntakeTokenBudget == 0 {
		config.IntakeTokenBudget = defaults.IntakeTokenBudget
	}
	if config.MaxFocusAreas == 0 {
		config.MaxFocusAreas = defaults.MaxFocusAreas
	}
	if config.AnalysisMaxTokens == 0 {
		config.AnalysisMaxTokens = defaults.AnalysisMaxTokens
	}
	if config.DetectionMaxTokens == 0 {
		config.DetectionMaxTokens = defaults.DetectionMaxTokens
	}

	tok, err := newTokenizer(config.TokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	return &Engine{
		oracle: o,
		config: config,
		tok:    tok,
		logger: logging.WithComponent("inference"),
	}, nil
}

// oracleAnalysis mirrors the JSON shape the analysis prompt requests.
type oracleAnalysis struct {
	ExplicitInfo struct {
		MentionedFeatures     []string `json:"mentioned_features"`
		MentionedTechnologies []string `json:"mentioned_technologies"`
		MentionedIntegrations []string `json:"mentioned_integrations"`
		MentionedUserTypes    []string `json:"mentioned_user_types"`
	} `json:"explicit_info"`
	ImplicitInfo           map[string]any `json:"implicit_info"`
	ObviousCharacteristics map[string]any `json:"obvious_characteristics"`
	MissingInfo            []string       `json:"missing_info"`
	ReasoningSummary       string         `json:"reasoning_summary"`
}

type domainDetection struct {
	Context       string   `json:"context"`
	Confidence    float64  `json:"confidence"`
	KeyIndicators []string `json:"key_indicators"`
}

// Analyze runs the full context analysis over the intake text. The
// returned result is never nil; an unusable oracle yields an empty
// result.
func (e *Engine) Analyze(ctx context.Context, intakeText string) *Result {
	ctx, span := telemetry.Tracer("inference").Start(ctx, "inference.Analyze")
	var spanErr error
	defer func() { telemetry.End(span, spanErr) }()

	text := intakeText
	if LooksLikeHTML(text) {
		flat, err := HTMLToText(text)
		if err != nil {
			e.logger.Warn("html intake not flattened", "error", err)
		} else if flat != "" {
			text = flat
		}
	}
	text = CleanIntake(text)
	text = e.tok.truncate(text, e.config.IntakeTokenBudget)

	analysis, err := e.analyzeText(ctx, text)
	if err != nil {
		spanErr = err
		e.logger.Warn("context analysis unavailable", "error", err)
		return &Result{}
	}

	domain, domainConfidence := e.detectDomain(ctx, text, analysis)
	insights, _ := ProfileFor(domain)

	obvious := identifyObviousAnswers(text, analysis, insights)
	redundant := identifyRedundantQuestions(obvious, analysis)
	focus := e.suggestFocusAreas(analysis, obvious)
	facts := compileFacts(analysis, insights)

	result := &Result{
		Facts:                facts,
		Domain:               domain,
		DomainConfidence:     domainConfidence,
		ObviousAnswers:       obvious,
		RedundantQuestionIDs: redundant,
		FocusAreas:           focus,
		ReasoningSummary:     analysis.ReasoningSummary,
	}

	e.logger.Info("context analysis complete",
		"domain", domain,
		"domain_confidence", domainConfidence,
		"facts", len(facts),
		"obvious_answers", len(obvious),
		"redundant_questions", len(redundant))
	return result
}

func (e *Engine) analyzeText(ctx context.Context, text string) (*oracleAnalysis, error) {
	resp, err := e.oracle.Complete(ctx, &oracle.Request{
		System:    analysisSystem,
		Prompt:    analysisPrompt(text),
		MaxTokens: e.config.AnalysisMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis completion: %w", err)
	}

	var analysis oracleAnalysis
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	return &analysis, nil
}

// detectDomain asks the oracle for the business domain, falling back
// to the implied domain from the first analysis pass.
func (e *Engine) detectDomain(ctx context.Context, text string, analysis *oracleAnalysis) (string, float64) {
	implied := "generic"
	if v, ok := analysis.ImplicitInfo["implied_domain"].(string); ok && v != "" {
		implied = v
	}

	resp, err := e.oracle.Complete(ctx, &oracle.Request{
		System:    detectionSystem,
		Prompt:    detectionPrompt(text),
		MaxTokens: e.config.DetectionMaxTokens,
	})
	if err != nil {
		e.logger.Warn("domain detection unavailable", "error", err)
		return implied, 0.5
	}

	var detection domainDetection
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &detection); err != nil {
		e.logger.Warn("domain detection unparseable", "error", err)
		return implied, 0.5
	}
	if detection.Context == "" {
		return implied, 0.7
	}
	if detection.Confidence == 0 {
		detection.Confidence = 0.7
	}
	return detection.Context, detection.Confidence
}

var sensitiveDataKeywords = []string{
	"fintech", "bank", "financial", "investment", "health",
	"medical", "personal data", "ssn", "tax id",
}

func identifyObviousAnswers(text string, analysis *oracleAnalysis, insights DomainProfile) map[string]any {
	obvious := make(map[string]any)

	for key, value := range analysis.ObviousCharacteristics {
		if value != nil && value != "null" && value != "" {
			obvious[key] = value
		}
	}
	for key, value := range insights.Assumptions {
		if value != nil {
			obvious[key] = value
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range sensitiveDataKeywords {
		if strings.Contains(lower, kw) {
			obvious["handles_sensitive_data"] = true
			obvious["requires_high_security"] = true
			break
		}
	}

	for _, kw := range []string{"dashboard", "web", "system", "platform"} {
		if strings.Contains(lower, kw) {
			obvious["application_type"] = "web"
			break
		}
	}
	if strings.Contains(lower, "mobile") || strings.Contains(lower, "app ") {
		if current, _ := obvious["application_type"].(string); strings.Contains(current, "web") {
			obvious["application_type"] = "hybrid"
		} else {
			obvious["application_type"] = "mobile"
		}
	}

	return obvious
}

// redundantQuestionMappings routes each obvious answer key to the
// catalog questions it makes redundant.
var redundantQuestionMappings = map[string][]string{
	"application_type":       {"B001", "F001"},
	"handles_sensitive_data": {"B008"},
	"primary_purpose":        {"B002"},
	"target_audience":        {"B010"},
	"business_model":         {"B010"},
}

func identifyRedundantQuestions(obvious map[string]any, analysis *oracleAnalysis) map[string]struct{} {
	redundant := make(map[string]struct{})

	for key, value := range obvious {
		ids, mapped := redundantQuestionMappings[key]
		if !mapped || value == nil || value == false {
			continue
		}
		for _, id := range ids {
			redundant[id] = struct{}{}
		}
	}

	// A detailed feature list in the text already answers the broad
	// functionality question.
	if len(analysis.ExplicitInfo.MentionedFeatures) >= 3 {
		redundant["F002"] = struct{}{}
	}
	if len(analysis.ExplicitInfo.MentionedTechnologies) > 0 {
		redundant["T001"] = struct{}{}
	}

	return redundant
}

var standardFocusAreas = []string{
	"specific non-functional requirements",
	"required integrations",
	"timeline and budget",
	"team and available resources",
}

func (e *Engine) suggestFocusAreas(analysis *oracleAnalysis, obvious map[string]any) []string {
	focus := append([]string(nil), analysis.MissingInfo...)

	for _, area := range standardFocusAreas {
		covered := false
		for _, value := range obvious {
			if s, ok := value.(string); ok && strings.Contains(strings.ToLower(s), strings.ToLower(area)) {
				covered = true
				break
			}
		}
		if !covered {
			focus = append(focus, area)
		}
	}

	if len(focus) > e.config.MaxFocusAreas {
		focus = focus[:e.config.MaxFocusAreas]
	}
	return focus
}

func compileFacts(analysis *oracleAnalysis, insights DomainProfile) []Fact {
	var facts []Fact

	for key, value := range analysis.ImplicitInfo {
		if value == nil || value == "null" || value == "" {
			continue
		}
		facts = append(facts, Fact{
			Category:   "implicit",
			Key:        key,
			Value:      value,
			Confidence: ConfidenceLikely,
			Reasoning:  fmt.Sprintf("inferred from context analysis: %s", key),
		})
	}

	for key, value := range analysis.ObviousCharacteristics {
		if value == nil || value == "null" || value == "" {
			continue
		}
		facts = append(facts, Fact{
			Category:   "obvious",
			Key:        key,
			Value:      value,
			Confidence: ConfidenceCertain,
			Reasoning:  fmt.Sprintf("obvious from the provided text: %s", key),
		})
	}

	for key, value := range insights.Assumptions {
		if value == nil {
			continue
		}
		facts = append(facts, Fact{
			Category:   "domain_assumption",
			Key:        key,
			Value:      value,
			Confidence: ConfidenceLikely,
			Reasoning:  "automatic assumption for the detected domain",
		})
	}

	return facts
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
