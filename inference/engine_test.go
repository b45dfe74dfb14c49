package inference

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sweetpotato0/intakekit/oracle"
)

const analysisJSON = `{
	"explicit_info": {
		"mentioned_features": ["portfolio tracking", "trade execution", "alerts"],
		"mentioned_technologies": ["postgresql", "react"],
		"mentioned_integrations": ["broker api"],
		"mentioned_user_types": ["retail investors"]
	},
	"implicit_info": {
		"implied_domain": "fintech",
		"implied_data_sensitivity": "high"
	},
	"obvious_characteristics": {
		"primary_purpose": "investment management"
	},
	"missing_info": ["expected user volume"],
	"reasoning_summary": "investment platform with explicit feature list"
}`

const detectionJSON = `{
	"context": "fintech",
	"confidence": 0.92,
	"key_indicators": ["investment", "trading"]
}`

func scriptedOracle(t *testing.T) oracle.Oracle {
	t.Helper()
	return oracle.Func(func(ctx context.Context, req *oracle.Request) (*oracle.Response, error) {
		switch req.System {
		case analysisSystem:
			return &oracle.Response{Text: analysisJSON}, nil
		case detectionSystem:
			return &oracle.Response{Text: detectionJSON}, nil
		default:
			t.Fatalf("unexpected system prompt: %q", req.System)
			return nil, nil
		}
	})
}

func TestAnalyzeFullPipeline(t *testing.T) {
	engine, err := NewEngine(scriptedOracle(t), Config{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result := engine.Analyze(context.Background(),
		"An investment platform for retail investors with portfolio tracking and trade execution")

	if result.Domain != "fintech" {
		t.Fatalf("domain %q, want fintech", result.Domain)
	}
	if result.DomainConfidence != 0.92 {
		t.Fatalf("domain confidence %f, want 0.92", result.DomainConfidence)
	}
	if result.ReasoningSummary == "" {
		t.Fatalf("reasoning summary lost")
	}

	// "investment" and "platform" in the text imply sensitivity and a
	// web application.
	if v, _ := result.ObviousAnswers["handles_sensitive_data"].(bool); !v {
		t.Fatalf("sensitive data handling not inferred")
	}
	if v, _ := result.ObviousAnswers["application_type"].(string); v != "web" {
		t.Fatalf("application type %q, want web", v)
	}

	// Three mentioned features answer the feature question, the
	// technologies answer the stack question, and the obvious answers
	// cover type and purpose.
	for _, id := range []string{"B001", "F001", "F002", "T001", "B002", "B008"} {
		if !result.IsRedundant(id) {
			t.Fatalf("question %s should be redundant", id)
		}
	}

	if len(result.FocusAreas) == 0 || len(result.FocusAreas) > 5 {
		t.Fatalf("focus areas out of range: %v", result.FocusAreas)
	}
	if result.FocusAreas[0] != "expected user volume" {
		t.Fatalf("missing info must lead the focus areas: %v", result.FocusAreas)
	}

	if len(result.Facts) == 0 {
		t.Fatalf("no facts compiled")
	}
	categories := make(map[string]bool)
	for _, f := range result.Facts {
		categories[f.Category] = true
	}
	for _, want := range []string{"implicit", "obvious", "domain_assumption"} {
		if !categories[want] {
			t.Fatalf("fact category %q missing", want)
		}
	}
}

func TestAnalyzeDegradesOnOracleFailure(t *testing.T) {
	failing := oracle.Func(func(ctx context.Context, req *oracle.Request) (*oracle.Response, error) {
		return nil, errors.New("backend unavailable")
	})
	engine, err := NewEngine(failing, Config{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result := engine.Analyze(context.Background(), "some intake text")
	if result == nil {
		t.Fatalf("result must never be nil")
	}
	if len(result.Facts) != 0 || result.Domain != "" {
		t.Fatalf("degraded result must be empty, got %+v", result)
	}
}

func TestAnalyzeFallsBackToImpliedDomain(t *testing.T) {
	// Analysis succeeds but detection fails; the implied domain from the
	// first pass carries over.
	o := oracle.Func(func(ctx context.Context, req *oracle.Request) (*oracle.Response, error) {
		if req.System == analysisSystem {
			return &oracle.Response{Text: analysisJSON}, nil
		}
		return nil, errors.New("backend unavailable")
	})
	engine, err := NewEngine(o, Config{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result := engine.Analyze(context.Background(), "An investment platform")
	if result.Domain != "fintech" {
		t.Fatalf("domain %q, want implied fintech", result.Domain)
	}
	if result.DomainConfidence != 0.5 {
		t.Fatalf("fallback confidence %f, want 0.5", result.DomainConfidence)
	}
}

func TestAnalyzeHandlesFencedJSON(t *testing.T) {
	o := oracle.Func(func(ctx context.Context, req *oracle.Request) (*oracle.Response, error) {
		if req.System == analysisSystem {
			return &oracle.Response{Text: "```json\n" + analysisJSON + "\n```"}, nil
		}
		return &oracle.Response{Text: "```\n" + detectionJSON + "\n```"}, nil
	})
	engine, err := NewEngine(o, Config{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result := engine.Analyze(context.Background(), "An investment platform")
	if result.Domain != "fintech" {
		t.Fatalf("fenced JSON not parsed, domain %q", result.Domain)
	}
}

func TestAnalyzeFlattensHTMLIntake(t *testing.T) {
	var analysisPromptText string
	o := oracle.Func(func(ctx context.Context, req *oracle.Request) (*oracle.Response, error) {
		if req.System == analysisSystem {
			analysisPromptText = req.Prompt
			return &oracle.Response{Text: analysisJSON}, nil
		}
		return &oracle.Response{Text: detectionJSON}, nil
	})
	engine, err := NewEngine(o, Config{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	engine.Analyze(context.Background(),
		"<html><body><h1>Project Brief</h1><p>An investment platform for retail investors.</p></body></html>")

	if analysisPromptText == "" {
		t.Fatalf("analysis prompt not captured")
	}
	if strings.Contains(analysisPromptText, "<p>") || strings.Contains(analysisPromptText, "<html>") {
		t.Fatalf("markup leaked into the analysis prompt: %q", analysisPromptText)
	}
	if !strings.Contains(analysisPromptText, "# Project Brief") {
		t.Fatalf("heading lost in flattening: %q", analysisPromptText)
	}
	if !strings.Contains(analysisPromptText, "An investment platform for retail investors.") {
		t.Fatalf("paragraph text lost in flattening: %q", analysisPromptText)
	}
}

func TestNewEngineRequiresOracle(t *testing.T) {
	if _, err := NewEngine(nil, Config{}); err == nil {
		t.Fatalf("nil oracle must be rejected")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentifyObviousAnswersMobile(t *testing.T) {
	analysis := &oracleAnalysis{}

	obvious := identifyObviousAnswers("a mobile app for field technicians", analysis, DomainProfile{})
	if v, _ := obvious["application_type"].(string); v != "mobile" {
		t.Fatalf("application type %q, want mobile", v)
	}

	obvious = identifyObviousAnswers("a web dashboard and a mobile app for field technicians", analysis, DomainProfile{})
	if v, _ := obvious["application_type"].(string); v != "hybrid" {
		t.Fatalf("application type %q, want hybrid", v)
	}
}
