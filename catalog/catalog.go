package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	ikerrors "github.com/sweetpotato0/intakekit/errors"
)

// QuestionType identifies how a question is answered
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeText         QuestionType = "text"
	TypeNumber       QuestionType = "number"
)

// Stage identifies the interview stage a question belongs to
type Stage string

const (
	StageBusiness      Stage = "business"
	StageUsers         Stage = "users"
	StageFunctional    Stage = "functional"
	StageTechnical     Stage = "technical"
	StageNonFunctional Stage = "nfr"
	StageSecurity      Stage = "security"
	StageDelivery      Stage = "delivery"
)

// Stages lists every valid stage in interview order.
func Stages() []Stage {
	return []Stage{
		StageBusiness,
		StageUsers,
		StageFunctional,
		StageTechnical,
		StageNonFunctional,
		StageSecurity,
		StageDelivery,
	}
}

// Option is a selectable answer for choice questions. In YAML an
// option may be written as a bare scalar, which sets both ID and
// Label.
type Option struct {
	ID    string `yaml:"id" json:"id" bson:"id"`
	Label string `yaml:"label" json:"label" bson:"label"`
}

// UnmarshalYAML accepts either a scalar option ID or an id/label
// mapping.
func (o *Option) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		o.ID = value.Value
		o.Label = value.Value
		return nil
	}
	type rawOption Option
	var raw rawOption
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*o = Option(raw)
	return nil
}

// Question is one catalog entry. Questions are immutable once loaded.
type Question struct {
	ID        string       `yaml:"id" json:"id" bson:"id"`
	Text      string       `yaml:"text" json:"text" bson:"text"`
	Type      QuestionType `yaml:"type" json:"type" bson:"type"`
	Stage     Stage        `yaml:"stage" json:"stage" bson:"stage"`
	Options   []Option     `yaml:"options,omitempty" json:"options,omitempty" bson:"options,omitempty"`
	Tags      []string     `yaml:"tags,omitempty" json:"tags,omitempty" bson:"tags,omitempty"`
	Required  bool         `yaml:"required,omitempty" json:"required,omitempty" bson:"required,omitempty"`
	Weight    int          `yaml:"weight,omitempty" json:"weight,omitempty" bson:"weight,omitempty"`
	Condition *Condition   `yaml:"condition,omitempty" json:"condition,omitempty" bson:"condition,omitempty"`
	Version   int          `yaml:"version,omitempty" json:"version,omitempty" bson:"version,omitempty"`
	Embedding []float32    `yaml:"embedding,omitempty" json:"embedding,omitempty" bson:"embedding,omitempty"`
}

// HasTag reports whether the question carries the given tag.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog is an immutable set of questions indexed by ID and stage.
// It is safe for concurrent use by any number of selection runs.
type Catalog struct {
	questions []Question
	byID      map[string]*Question
	byStage   map[Stage][]*Question
	required  []*Question
}

// New builds a catalog from a question list, validating entries.
// Malformed entries are skipped; an empty result is an error because
// no selection is possible without a catalog.
func New(questions []Question) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[string]*Question),
		byStage: make(map[Stage][]*Question),
	}

	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if err := validateQuestion(&q); err != nil {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		c.questions = append(c.questions, q)
	}

	if len(c.questions) == 0 {
		return nil, ikerrors.ErrCatalogEmpty
	}

	for i := range c.questions {
		q := &c.questions[i]
		c.byID[q.ID] = q
		c.byStage[q.Stage] = append(c.byStage[q.Stage], q)
		if q.Required {
			c.required = append(c.required, q)
		}
	}

	return c, nil
}

func validateQuestion(q *Question) error {
	if q.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if q.Text == "" {
		return fmt.Errorf("question %s has no text", q.ID)
	}
	switch q.Type {
	case TypeSingleChoice, TypeMultiChoice, TypeText, TypeNumber:
	default:
		return fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
	}
	validStage := false
	for _, s := range Stages() {
		if q.Stage == s {
			validStage = true
			break
		}
	}
	if !validStage {
		return fmt.Errorf("question %s has unknown stage %q", q.ID, q.Stage)
	}
	if q.Weight < 0 || q.Weight > 10 {
		return fmt.Errorf("question %s weight %d outside [0,10]", q.ID, q.Weight)
	}
	return nil
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Questions returns all questions. The returned slice must not be modified.
func (c *Catalog) Questions() []Question {
	return c.questions
}

// Get returns the question with the given ID.
func (c *Catalog) Get(id string) (*Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// ByStage returns the questions belonging to a stage.
func (c *Catalog) ByStage(stage Stage) []*Question {
	return c.byStage[stage]
}

// Required returns every question flagged required.
func (c *Catalog) Required() []*Question {
	return c.required
}

// RequiredIDs returns the IDs of every required question.
func (c *Catalog) RequiredIDs() []string {
	ids := make([]string, 0, len(c.required))
	for _, q := range c.required {
		ids = append(ids, q.ID)
	}
	return ids
}

// StageDistribution counts the given question IDs per stage. Unknown
// IDs are ignored.
func (c *Catalog) StageDistribution(ids []string) map[Stage]int {
	dist := make(map[Stage]int)
	for _, id := range ids {
		if q, ok := c.byID[id]; ok {
			dist[q.Stage]++
		}
	}
	return dist
}

// NextBatch returns the next unanswered questions from an ordered
// selection, preserving selection order, up to batchSize entries.
func (c *Catalog) NextBatch(selectedIDs []string, answered map[string]any, batchSize int) []*Question {
	if batchSize <= 0 {
		batchSize = 3
	}
	next := make([]*Question, 0, batchSize)
	for _, id := range selectedIDs {
		if _, done := answered[id]; done {
			continue
		}
		if q, ok := c.byID[id]; ok {
			next = append(next, q)
			if len(next) == batchSize {
				break
			}
		}
	}
	return next
}
