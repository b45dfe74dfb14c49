package inference

import (
	"testing"

	"github.com/sweetpotato0/intakekit/scoring"
)

func TestInferComplexity(t *testing.T) {
	cases := []struct {
		name  string
		facts []Fact
		want  scoring.Complexity
	}{
		{
			name: "no indicators",
			facts: []Fact{
				{Key: "application_type", Value: "web"},
			},
			want: scoring.ComplexityLow,
		},
		{
			name: "single indicator",
			facts: []Fact{
				{Key: "requires_high_security", Value: true},
			},
			want: scoring.ComplexityMedium,
		},
		{
			name: "sensitivity plus compliance list",
			facts: []Fact{
				{Key: "implied_data_sensitivity", Value: "high"},
				{Key: "implied_compliance_needs", Value: []string{"lgpd", "pci_dss"}},
			},
			want: scoring.ComplexityHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Result{Facts: tc.facts}
			if got := r.InferComplexity(); got != tc.want {
				t.Fatalf("complexity %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEnhance(t *testing.T) {
	r := &Result{
		Domain: "healthcare",
		Facts: []Fact{
			{Key: "handles_sensitive_data", Value: true},
			{Key: "requires_high_security", Value: true},
		},
	}

	sctx := &scoring.Context{
		Tags:       []string{"business"},
		Complexity: scoring.ComplexityMedium,
	}

	enhanced := r.Enhance(sctx)
	if enhanced.Domain != "healthcare" {
		t.Fatalf("domain not carried over: %q", enhanced.Domain)
	}
	if len(enhanced.Tags) != 3 {
		t.Fatalf("fact keys not appended to tags: %v", enhanced.Tags)
	}

	// The original context stays untouched.
	if len(sctx.Tags) != 1 || sctx.Domain != "" {
		t.Fatalf("Enhance mutated its input: %+v", sctx)
	}
}

func TestEnhanceKeepsExplicitComplexity(t *testing.T) {
	r := &Result{Facts: []Fact{{Key: "requires_high_security", Value: true}}}

	sctx := &scoring.Context{Complexity: scoring.ComplexityHigh}
	if got := r.Enhance(sctx).Complexity; got != scoring.ComplexityHigh {
		t.Fatalf("explicit complexity overridden: %q", got)
	}

	sctx = &scoring.Context{Complexity: scoring.ComplexityMedium}
	if got := r.Enhance(sctx).Complexity; got != scoring.ComplexityMedium {
		t.Fatalf("medium complexity with one indicator should stay medium, got %q", got)
	}
}

func TestEnhanceWithoutFactsKeepsComplexity(t *testing.T) {
	r := &Result{}
	sctx := &scoring.Context{Complexity: scoring.ComplexityMedium}
	if got := r.Enhance(sctx).Complexity; got != scoring.ComplexityMedium {
		t.Fatalf("empty analysis downgraded complexity to %q", got)
	}
}

func TestProfileFor(t *testing.T) {
	p, ok := ProfileFor("fintech")
	if !ok {
		t.Fatalf("fintech profile missing")
	}
	if v, _ := p.Assumptions["handles_sensitive_data"].(bool); !v {
		t.Fatalf("fintech must assume sensitive data")
	}

	fallback, ok := ProfileFor("nonexistent")
	if ok {
		t.Fatalf("unknown domain reported as known")
	}
	if fallback.Domain != "generic" {
		t.Fatalf("unknown domain must fall back to generic, got %q", fallback.Domain)
	}
}
