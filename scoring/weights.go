package scoring

import (
	"fmt"
	"math"
)

// Criterion identifies one of the fixed scoring criteria.
type Criterion string

const (
	CriterionBusinessValue       Criterion = "business_value"
	CriterionTechnicalComplexity Criterion = "technical_complexity"
	CriterionUserImpact          Criterion = "user_impact"
	CriterionStrategicAlignment  Criterion = "strategic_alignment"
	CriterionResourceFit         Criterion = "resource_requirements"
	CriterionComplianceRelevance Criterion = "compliance_relevance"
	CriterionIndustrySpecificity Criterion = "industry_specificity"
	CriterionRiskMitigation      Criterion = "risk_mitigation"
)

// Criteria returns every criterion in a stable order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionBusinessValue,
		CriterionTechnicalComplexity,
		CriterionUserImpact,
		CriterionStrategicAlignment,
		CriterionResourceFit,
		CriterionComplianceRelevance,
		CriterionIndustrySpecificity,
		CriterionRiskMitigation,
	}
}

// weightTolerance is how far the criterion weights may stray from 1.0.
const weightTolerance = 0.01

// WeightsError reports an invalid weight configuration.
type WeightsError struct {
	Total   float64
	Message string
}

func (e WeightsError) Error() string {
	return fmt.Sprintf("scoring weights invalid: %s (total %.4f)", e.Message, e.Total)
}

// Weights holds the relative importance of each scoring criterion.
// The eight weights must sum to 1.0 within a 0.01 tolerance.
type Weights struct {
	BusinessValue       float64
	TechnicalComplexity float64
	UserImpact          float64
	StrategicAlignment  float64
	ResourceFit         float64
	ComplianceRelevance float64
	IndustrySpecificity float64
	RiskMitigation      float64
}

// DefaultWeights returns the standard criterion weights.
func DefaultWeights() Weights {
	return Weights{
		BusinessValue:       0.25,
		TechnicalComplexity: 0.15,
		UserImpact:          0.20,
		StrategicAlignment:  0.15,
		ResourceFit:         0.10,
		ComplianceRelevance: 0.10,
		IndustrySpecificity: 0.03,
		RiskMitigation:      0.02,
	}
}

// Total returns the sum of all criterion weights.
func (w Weights) Total() float64 {
	return w.BusinessValue + w.TechnicalComplexity + w.UserImpact +
		w.StrategicAlignment + w.ResourceFit + w.ComplianceRelevance +
		w.IndustrySpecificity + w.RiskMitigation
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	total := w.Total()
	if math.Abs(total-1.0) > weightTolerance {
		return WeightsError{Total: total, Message: "criterion weights must sum to 1.0"}
	}
	return nil
}

// For returns the weight configured for the given criterion.
func (w Weights) For(c Criterion) float64 {
	switch c {
	case CriterionBusinessValue:
		return w.BusinessValue
	case CriterionTechnicalComplexity:
		return w.TechnicalComplexity
	case CriterionUserImpact:
		return w.UserImpact
	case CriterionStrategicAlignment:
		return w.StrategicAlignment
	case CriterionResourceFit:
		return w.ResourceFit
	case CriterionComplianceRelevance:
		return w.ComplianceRelevance
	case CriterionIndustrySpecificity:
		return w.IndustrySpecificity
	case CriterionRiskMitigation:
		return w.RiskMitigation
	default:
		return 0
	}
}
