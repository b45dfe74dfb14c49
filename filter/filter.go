// Package filter removes questions whose answer is already implied by
// the intake text or the context analysis. Filtering is advisory for
// required questions: they are never excluded.
package filter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/inference"
	"github.com/sweetpotato0/intakekit/pkg/logging"
)

// Reason classifies why a question was excluded.
type Reason string

const (
	ReasonObviousFromContext   Reason = "obvious_from_context"
	ReasonAlreadyDescribed     Reason = "already_described"
	ReasonDomainImplication    Reason = "domain_implication"
	ReasonRedundantInformation Reason = "redundant_information"
	ReasonLowValueAdd          Reason = "low_value_add"
)

// Decision is the filter's verdict on one question.
type Decision struct {
	QuestionID    string
	ShouldExclude bool
	Reason        Reason
	Explanation   string
	Confidence    float64
	Evidence      []string
}

// Filter evaluates candidate questions against redundancy rules.
type Filter struct {
	domainRules     map[string]domainRule
	implications    map[string][]string
	patterns        []redundancyPattern
	factMappings    map[string][]string
	genericPatterns []*regexp.Regexp
	logger          *slog.Logger
}

// New creates a redundancy filter with the built-in rule tables.
func New() *Filter {
	return &Filter{
		domainRules:     defaultDomainRules(),
		implications:    defaultKeywordImplications(),
		patterns:        defaultRedundancyPatterns(),
		factMappings:    defaultFactMappings(),
		genericPatterns: defaultGenericPatterns(),
		logger:          logging.WithComponent("filter"),
	}
}

// Apply evaluates every candidate and returns the kept questions plus
// the full decision list. A failure inside the filter keeps every
// candidate rather than dropping any.
func (f *Filter) Apply(questions []*catalog.Question, intakeText string, inf *inference.Result) (kept []*catalog.Question, decisions []Decision) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("filtering failed, keeping all candidates", "panic", r)
			kept = questions
			decisions = nil
		}
	}()

	kept = make([]*catalog.Question, 0, len(questions))
	decisions = make([]Decision, 0, len(questions))

	for _, q := range questions {
		d := f.evaluate(q, intakeText, inf)
		decisions = append(decisions, d)
		if !d.ShouldExclude {
			kept = append(kept, q)
		}
	}

	f.logger.Info("filtering completed",
		"candidates", len(questions), "kept", len(kept))
	return kept, decisions
}

// evaluate runs the precedence chain for one question. The first rule
// that fires wins.
func (f *Filter) evaluate(q *catalog.Question, intakeText string, inf *inference.Result) Decision {
	if q.Required {
		return Decision{
			QuestionID:  q.ID,
			Reason:      ReasonLowValueAdd,
			Explanation: "required question is always kept",
			Confidence:  1.0,
		}
	}

	if inf != nil && inf.IsRedundant(q.ID) {
		return Decision{
			QuestionID:    q.ID,
			ShouldExclude: true,
			Reason:        ReasonObviousFromContext,
			Explanation:   "context analysis marked this question as redundant",
			Confidence:    0.9,
		}
	}

	if inf != nil {
		if d, ok := f.checkDomainRules(q, inf); ok {
			return d
		}
	}

	if d, ok := f.checkKeywordImplications(q, intakeText); ok {
		return d
	}

	if d, ok := f.checkRedundancyPatterns(q, intakeText); ok {
		return d
	}

	if inf != nil {
		if d, ok := f.checkInferredFacts(q, inf); ok {
			return d
		}
		if d, ok := f.checkValueAddition(q, inf); ok {
			return d
		}
	}

	return Decision{
		QuestionID:  q.ID,
		Reason:      ReasonLowValueAdd,
		Explanation: "question adds value and is not redundant",
		Confidence:  0.7,
	}
}

func (f *Filter) checkDomainRules(q *catalog.Question, inf *inference.Result) (Decision, bool) {
	rules, ok := f.domainRules[inf.Domain]
	if !ok {
		return Decision{}, false
	}

	for _, obvious := range rules.obviousImplications {
		if questionsAreSimilar(q.Text, obvious) {
			return Decision{
				QuestionID:    q.ID,
				ShouldExclude: true,
				Reason:        ReasonDomainImplication,
				Explanation:   fmt.Sprintf("answer is obvious for the %s domain", inf.Domain),
				Confidence:    0.85,
				Evidence:      []string{"detected domain: " + inf.Domain, "matched: " + obvious},
			}, true
		}
	}

	for _, redundant := range rules.domainRedundant {
		if questionsAreSimilar(q.Text, redundant) {
			return Decision{
				QuestionID:    q.ID,
				ShouldExclude: true,
				Reason:        ReasonRedundantInformation,
				Explanation:   fmt.Sprintf("information is already implicit in the %s domain", inf.Domain),
				Confidence:    0.8,
				Evidence:      []string{"detected domain: " + inf.Domain, "similar question: " + redundant},
			}, true
		}
	}

	return Decision{}, false
}

func (f *Filter) checkKeywordImplications(q *catalog.Question, intakeText string) (Decision, bool) {
	intakeLower := strings.ToLower(intakeText)
	questionLower := strings.ToLower(q.Text)

	for keyword, excludes := range f.implications {
		if !strings.Contains(intakeLower, keyword) {
			continue
		}
		for _, pattern := range excludes {
			if strings.Contains(questionLower, pattern) {
				return Decision{
					QuestionID:    q.ID,
					ShouldExclude: true,
					Reason:        ReasonAlreadyDescribed,
					Explanation:   fmt.Sprintf("information already provided via keyword %q", keyword),
					Confidence:    0.75,
					Evidence:      []string{"keyword found: " + keyword, "excluded pattern: " + pattern},
				}, true
			}
		}
	}

	return Decision{}, false
}

func (f *Filter) checkRedundancyPatterns(q *catalog.Question, intakeText string) (Decision, bool) {
	intakeLower := strings.ToLower(intakeText)
	questionLower := strings.ToLower(q.Text)

	for _, p := range f.patterns {
		if !p.pattern.MatchString(intakeLower) {
			continue
		}
		for _, exclude := range p.excludes {
			if strings.Contains(questionLower, exclude) {
				return Decision{
					QuestionID:    q.ID,
					ShouldExclude: true,
					Reason:        ReasonRedundantInformation,
					Explanation:   fmt.Sprintf("pattern %q indicates the information was already given", p.pattern.String()),
					Confidence:    0.7,
					Evidence:      []string{"pattern matched: " + p.pattern.String()},
				}, true
			}
		}
	}

	return Decision{}, false
}

func (f *Filter) checkInferredFacts(q *catalog.Question, inf *inference.Result) (Decision, bool) {
	questionLower := strings.ToLower(q.Text)

	for _, fact := range inf.Facts {
		if fact.Confidence != inference.ConfidenceCertain && fact.Confidence != inference.ConfidenceLikely {
			continue
		}

		keywords, ok := f.factMappings[fact.Key]
		if !ok {
			continue
		}

		for _, kw := range keywords {
			if strings.Contains(questionLower, kw) {
				confidence := 0.75
				if fact.Confidence == inference.ConfidenceCertain {
					confidence = 0.9
				}
				return Decision{
					QuestionID:    q.ID,
					ShouldExclude: true,
					Reason:        ReasonObviousFromContext,
					Explanation:   fmt.Sprintf("already inferred: %s = %v", fact.Key, fact.Value),
					Confidence:    confidence,
					Evidence:      []string{"inferred fact: " + fact.Reasoning},
				}, true
			}
		}
	}

	return Decision{}, false
}

func (f *Filter) checkValueAddition(q *catalog.Question, inf *inference.Result) (Decision, bool) {
	questionLower := strings.ToLower(q.Text)

	// Questions tied to an active focus area always keep their value.
	for _, area := range inf.FocusAreas {
		for _, word := range strings.Fields(strings.ToLower(area)) {
			if strings.Contains(questionLower, word) {
				return Decision{}, false
			}
		}
	}

	if len(inf.Facts) < 3 {
		return Decision{}, false
	}

	for _, pattern := range f.genericPatterns {
		if pattern.MatchString(questionLower) {
			return Decision{
				QuestionID:    q.ID,
				ShouldExclude: true,
				Reason:        ReasonLowValueAdd,
				Explanation:   "overly generic question given an already rich context",
				Confidence:    0.6,
				Evidence:      []string{"generic pattern: " + pattern.String()},
			}, true
		}
	}

	return Decision{}, false
}

var similarityStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "that": {},
	"what": {}, "which": {}, "how": {}, "of": {}, "for": {}, "to": {},
	"will": {}, "be": {}, "do": {}, "does": {}, "your": {}, "you": {},
}

var wordPattern = regexp.MustCompile(`\w+`)

// questionsAreSimilar compares two question texts by Jaccard overlap
// of their content words, with a 0.5 threshold.
func questionsAreSimilar(a, b string) bool {
	aWords := contentWords(a)
	bWords := contentWords(b)

	if len(aWords) == 0 || len(bWords) == 0 {
		return false
	}

	intersection := 0
	union := make(map[string]struct{}, len(aWords)+len(bWords))
	for w := range aWords {
		union[w] = struct{}{}
		if _, ok := bWords[w]; ok {
			intersection++
		}
	}
	for w := range bWords {
		union[w] = struct{}{}
	}

	return float64(intersection)/float64(len(union)) > 0.5
}

func contentWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := similarityStopwords[w]; !stop {
			words[w] = struct{}{}
		}
	}
	return words
}
