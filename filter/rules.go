package filter

import "regexp"

type domainRule struct {
	// obviousImplications are questions whose answer follows directly
	// from the domain itself
	obviousImplications []string

	// domainRedundant are questions already answered by naming the
	// domain in the first place
	domainRedundant []string
}

func defaultDomainRules() map[string]domainRule {
	return map[string]domainRule{
		"fintech": {
			obviousImplications: []string{
				"Will the application handle sensitive data?",
				"What sensitive data will be processed?",
				"Does the system need high security?",
			},
			domainRedundant: []string{
				"What is the primary purpose of the application?",
				"What kind of system are you building?",
			},
		},
		"ecommerce": {
			obviousImplications: []string{
				"Will the system have sales functionality?",
				"Will payment processing be needed?",
				"Will there be product management?",
				"Does the system need a shopping cart?",
			},
			domainRedundant: []string{
				"What is the primary purpose of the application?",
				"What kind of system are you building?",
			},
		},
		"healthcare": {
			obviousImplications: []string{
				"Will the application handle sensitive data?",
				"Does the system need high security?",
				"Are there specific compliance requirements?",
			},
			domainRedundant: []string{
				"What industry is the company in?",
				"What kind of data will be processed?",
			},
		},
		"education": {
			obviousImplications: []string{
				"Will the system have different user roles?",
				"Will there be content management?",
				"Will progress tracking be needed?",
			},
			domainRedundant: []string{
				"What is the primary purpose of the application?",
			},
		},
	}
}

// defaultKeywordImplications maps a phrase found in the intake text to
// question-text substrings it makes redundant.
func defaultKeywordImplications() map[string][]string {
	return map[string][]string{
		"fintech":             {"sensitive data", "purpose", "industry"},
		"investment":          {"purpose", "sensitive data"},
		"financial dashboard": {"application type", "purpose"},
		"online store":        {"purpose", "main features"},
		"e-commerce":          {"purpose", "kind of system"},
		"telemedicine":        {"industry", "sensitive data", "compliance"},
		"medical record":      {"sensitive data", "industry"},
		"dashboard":           {"application type"},
		"mobile app":          {"application type", "platform"},
	}
}

type redundancyPattern struct {
	pattern  *regexp.Regexp
	excludes []string
}

func defaultRedundancyPatterns() []redundancyPattern {
	return []redundancyPattern{
		{
			pattern:  regexp.MustCompile(`dashboard|panel|report`),
			excludes: []string{"application type", "platform"},
		},
		{
			pattern:  regexp.MustCompile(`manage \w+|management of \w+`),
			excludes: []string{"main features"},
		},
		{
			pattern:  regexp.MustCompile(`fintech|financial|investment|bank`),
			excludes: []string{"industry", "sensitive data", "compliance"},
		},
		{
			pattern:  regexp.MustCompile(`store|e-commerce|sale|product`),
			excludes: []string{"purpose", "business type"},
		},
	}
}

// defaultFactMappings maps an inferred-fact key to question-text
// substrings that the fact answers.
func defaultFactMappings() map[string][]string {
	return map[string][]string{
		"application_type":       {"type", "application", "platform"},
		"primary_purpose":        {"purpose", "objective", "goal"},
		"handles_sensitive_data": {"sensitive data", "confidential data"},
		"target_audience":        {"audience", "users", "customers"},
		"business_model":         {"model", "business", "b2b", "b2c"},
	}
}

func defaultGenericPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`describe.*application`),
		regexp.MustCompile(`what kind of.*system`),
		regexp.MustCompile(`what.*purpose`),
		regexp.MustCompile(`how.*work`),
	}
}
