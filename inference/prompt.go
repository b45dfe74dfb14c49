package inference

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const analysisSystem = "You are an expert in software requirements analysis. " +
	"Extract implicit information precisely and conservatively."

const detectionSystem = "You detect the business context of software projects in any domain."

// tokenizer wraps a tiktoken encoding for prompt budgeting.
type tokenizer struct {
	enc *tiktoken.Tiktoken
}

func newTokenizer(model string) (*tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &tokenizer{enc: enc}, nil
}

func (t *tokenizer) count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// truncate keeps at most budget tokens of the text. The cut happens
// at a token boundary so the decoded prefix stays valid.
func (t *tokenizer) truncate(text string, budget int) string {
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) <= budget {
		return text
	}
	return t.enc.Decode(ids[:budget])
}

func analysisPrompt(intakeText string) string {
	var b strings.Builder
	b.WriteString("Analyze this software project description and extract implicit information.\n\n")
	fmt.Fprintf(&b, "TEXT: %q\n\n", intakeText)
	b.WriteString(`Return JSON with exactly this shape:
{
  "explicit_info": {
    "mentioned_features": ["features mentioned in the text"],
    "mentioned_technologies": ["technologies mentioned"],
    "mentioned_integrations": ["integrations mentioned"],
    "mentioned_user_types": ["user types mentioned"]
  },
  "implicit_info": {
    "implied_domain": "inferred domain (fintech, ecommerce, healthcare, education, etc)",
    "implied_complexity": "low/medium/high",
    "implied_user_scale": "small/medium/large",
    "implied_data_sensitivity": true,
    "implied_compliance_needs": ["inferred compliance requirements"],
    "implied_security_level": "low/medium/high/maximum"
  },
  "obvious_characteristics": {
    "application_type": "web/mobile/desktop/hybrid, only when obvious",
    "primary_purpose": "main purpose when obvious",
    "target_audience": "target audience when obvious",
    "business_model": "B2B/B2C/internal when obvious"
  },
  "missing_info": ["important information that still needs to be asked"],
  "reasoning_summary": "two or three sentences explaining the inferences"
}

IMPORTANT:
- When something is NOT obvious, use null
- Financial or banking mentions imply sensitive data
- Dashboard or management mentions imply a web application
- Be conservative and only mark things as obvious when they really are
`)
	return b.String()
}

func detectionPrompt(intakeText string) string {
	var b strings.Builder
	b.WriteString("Identify the main business context of this project briefing.\n\n")
	fmt.Fprintf(&b, "BRIEFING: %s\n\n", intakeText)
	b.WriteString(`Return JSON:
{
  "context": "detected domain name",
  "confidence": 0.0,
  "key_indicators": ["keywords that indicate the context"]
}

SUPPORTED DOMAINS: `)
	b.WriteString(strings.Join(SupportedDomains(), ", "))
	b.WriteString(`

IMPORTANT:
- Use one of the listed domains, or "generic" when nothing matches
- Focus on the business sector, not the technology
`)
	return b.String()
}
