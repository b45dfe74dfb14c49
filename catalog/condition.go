package catalog

import (
	"fmt"
	"strings"
)

// Clause is one comparison against a previously answered question.
type Clause struct {
	Question string   `yaml:"q" json:"q" bson:"q"`
	Operator string   `yaml:"op" json:"op" bson:"op"`
	Values   []string `yaml:"v" json:"v" bson:"v"`
}

// Condition gates a question on earlier answers. All clauses in All
// must hold and at least one clause in Any must hold; an empty group
// is vacuously true.
type Condition struct {
	All []Clause `yaml:"all,omitempty" json:"all,omitempty" bson:"all,omitempty"`
	Any []Clause `yaml:"any,omitempty" json:"any,omitempty" bson:"any,omitempty"`
}

// Evaluate reports whether the condition holds for the given answers.
// A clause referencing an unanswered question evaluates false.
func (c *Condition) Evaluate(answers map[string]any) bool {
	if c == nil {
		return true
	}
	for _, clause := range c.All {
		if !clause.evaluate(answers) {
			return false
		}
	}
	if len(c.Any) > 0 {
		matched := false
		for _, clause := range c.Any {
			if clause.evaluate(answers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (cl *Clause) evaluate(answers map[string]any) bool {
	value, ok := answers[cl.Question]
	if !ok {
		return false
	}

	switch cl.Operator {
	case "eq":
		if len(cl.Values) == 0 {
			return false
		}
		return answerToString(value) == cl.Values[0]
	case "in":
		actual := answerToString(value)
		for _, v := range cl.Values {
			if actual == v {
				return true
			}
		}
		return false
	case "contains":
		if list, isList := value.([]string); isList {
			for _, item := range list {
				for _, v := range cl.Values {
					if item == v {
						return true
					}
				}
			}
			return false
		}
		if list, isList := value.([]any); isList {
			for _, item := range list {
				for _, v := range cl.Values {
					if answerToString(item) == v {
						return true
					}
				}
			}
			return false
		}
		actual := answerToString(value)
		for _, v := range cl.Values {
			if strings.Contains(actual, v) {
				return true
			}
		}
		return false
	default:
		// Unknown operators never match rather than failing the run.
		return false
	}
}

func answerToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
