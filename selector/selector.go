// Package selector orchestrates the full question selection pipeline:
// context inference, multi-criteria scoring, perspective consensus,
// redundancy filtering, diversity-aware selection, and validation.
package selector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/consensus"
	"github.com/sweetpotato0/intakekit/filter"
	"github.com/sweetpotato0/intakekit/inference"
	"github.com/sweetpotato0/intakekit/pkg/logging"
	"github.com/sweetpotato0/intakekit/pkg/telemetry"
	"github.com/sweetpotato0/intakekit/scoring"
	"github.com/sweetpotato0/intakekit/store"
	"github.com/sweetpotato0/intakekit/validation"
)

const defaultMaxQuestions = 15

// Selector runs the selection pipeline over a question catalog.
type Selector struct {
	cat       *catalog.Catalog
	scorer    *scoring.Engine
	builder   *consensus.Builder
	filter    *filter.Filter
	validator *validation.Engine
	inferrer  *inference.Engine
	sessions  store.SessionStore
	cache     store.Cache

	maxQuestions int
	logger       *slog.Logger
	tracer       trace.Tracer
}

// Option configures a Selector.
type Option func(*Selector)

// WithMaxQuestions sets the selection size limit.
func WithMaxQuestions(max int) Option {
	return func(s *Selector) {
		if max > 0 {
			s.maxQuestions = max
		}
	}
}

// WithScoring replaces the scoring engine.
func WithScoring(engine *scoring.Engine) Option {
	return func(s *Selector) { s.scorer = engine }
}

// WithConsensus replaces the consensus builder.
func WithConsensus(builder *consensus.Builder) Option {
	return func(s *Selector) { s.builder = builder }
}

// WithValidation replaces the validation engine.
func WithValidation(engine *validation.Engine) Option {
	return func(s *Selector) { s.validator = engine }
}

// WithInference enables oracle-backed context analysis.
func WithInference(engine *inference.Engine) Option {
	return func(s *Selector) { s.inferrer = engine }
}

// WithSessions attaches a session store. Sessions supply intake text
// and answers; the selector never mutates stored answers.
func WithSessions(sessions store.SessionStore) Option {
	return func(s *Selector) { s.sessions = sessions }
}

// WithCache attaches a selection cache keyed by intake text.
func WithCache(cache store.Cache) Option {
	return func(s *Selector) { s.cache = cache }
}

// New creates a Selector over the catalog. Components not supplied
// via options get working defaults; inference stays off without an
// oracle.
func New(cat *catalog.Catalog, opts ...Option) (*Selector, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("selector requires a non-empty catalog")
	}

	s := &Selector{
		cat:          cat,
		builder:      consensus.NewBuilder(consensus.DefaultConfig()),
		filter:       filter.New(),
		maxQuestions: defaultMaxQuestions,
		logger:       logging.WithComponent("selector"),
		tracer:       telemetry.Tracer("selector"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.scorer == nil {
		scorer, err := scoring.NewEngine(scoring.DefaultConfig())
		if err != nil {
			return nil, err
		}
		s.scorer = scorer
	}
	if s.validator == nil {
		s.validator = validation.NewEngine(cat, validation.DefaultConfig())
	}

	return s, nil
}

// SelectQuestions runs the full pipeline over intake text and returns
// the selected questions with full decision provenance. The caller may
// pass a pre-filled scoring context; its values survive the run, and
// inference only fills what the caller left blank. Pipeline stage
// failures degrade rather than abort: a dead oracle skips inference,
// a fully-filtered candidate set falls back to the unfiltered ranking,
// and a panic anywhere falls back to stage rotation.
func (s *Selector) SelectQuestions(ctx context.Context, intakeText string, callerCtx *scoring.Context) (result *Result, err error) {
	started := time.Now()
	runID := uuid.NewString()

	ctx, span := telemetry.Stage(ctx, s.tracer, "selector.SelectQuestions", runID)
	defer func() { telemetry.End(span, err) }()

	logger := logging.WithRun("selector", runID)

	if cached, ok := s.cachedResult(ctx, intakeText, callerCtx); ok {
		logger.Info("selection served from cache")
		cached.Metadata.CacheHit = true
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("selection pipeline panicked, using stage rotation fallback", "panic", fmt.Sprint(r))
			result = s.fallbackResult(runID, started)
			err = nil
		}
	}()

	// Context inference.
	inf := &inference.Result{}
	inferred := false
	if s.inferrer != nil {
		inf = s.analyze(ctx, runID, intakeText)
		inferred = true
	}

	sctx := s.buildContext(intakeText, callerCtx, inf, inferred)

	// Score the whole catalog so every question carries provenance
	// even when the filter later drops it.
	scores := s.score(ctx, runID, sctx)

	// Perspective consensus.
	consensusData, participation, merged := s.consult(ctx, runID, sctx, scores)

	// Complexity and diversity adjustments produce the final ranking.
	ranked := s.scorer.Adjust(merged, s.cat, sctx)

	reached := 0
	avgConfidence := 0.0
	for _, c := range consensusData {
		if c.ConsensusReached {
			reached++
		}
		avgConfidence += c.Confidence
	}
	if len(consensusData) > 0 {
		avgConfidence /= float64(len(consensusData))
	}

	// Redundancy filtering over the post-consensus candidates.
	candidates := s.candidates()
	kept, decisions := s.filter.Apply(candidates, intakeText, inf)
	pool := rankedSubset(ranked, kept)
	if len(pool) == 0 {
		logger.Warn("filter excluded every candidate, selecting from the unfiltered ranking")
		pool = ranked
	}

	selected := consensus.SelectRanked(pool, s.cat, s.maxQuestions)

	validationResult := s.validator.ValidateSelection(selected, ranked, sctx)

	result = &Result{
		RunID:           runID,
		SelectedIDs:     selected,
		Scores:          ranked,
		Consensus:       consensusData,
		Participation:   participation,
		FilterDecisions: decisions,
		Validation:      validationResult,
		Metadata: Metadata{
			Domain:                 inf.Domain,
			DomainConfidence:       inf.DomainConfidence,
			FocusAreas:             inf.FocusAreas,
			InferenceReasoning:     inf.ReasoningSummary,
			CandidateCount:         len(candidates),
			FilteredCount:          len(candidates) - len(kept),
			ConsensusReached:       reached,
			AvgConsensusConfidence: avgConfidence,
			Duration:               time.Since(started),
		},
	}

	s.cacheResult(ctx, intakeText, callerCtx, result)

	logger.Info("selection complete",
		"selected", len(selected),
		"candidates", len(candidates),
		"filtered", result.Metadata.FilteredCount,
		"validation_score", validationResult.Score,
		"duration", result.Metadata.Duration)
	return result, nil
}

// SelectForSession runs selection for a stored session and records
// the selected IDs back on it. Stored answers are never modified.
func (s *Selector) SelectForSession(ctx context.Context, sessionID string) (*Result, error) {
	if s.sessions == nil {
		return nil, fmt.Errorf("selector has no session store")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	result, err := s.SelectQuestions(ctx, session.IntakeText, nil)
	if err != nil {
		return nil, err
	}

	session.SelectedIDs = result.SelectedIDs
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session %s: %w", sessionID, err)
	}
	return result, nil
}

// ValidateSession validates the answers collected for a session.
func (s *Selector) ValidateSession(ctx context.Context, sessionID string) (validation.Result, error) {
	if s.sessions == nil {
		return validation.Result{}, fmt.Errorf("selector has no session store")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return validation.Result{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return s.validator.ValidateAnswers(session.IntakeText, session.Answers), nil
}

// NextBatch returns the next questions to ask a respondent, skipping
// the ones already answered.
func (s *Selector) NextBatch(result *Result, answered map[string]any, batchSize int) []*catalog.Question {
	if result == nil {
		return nil
	}
	return s.cat.NextBatch(result.SelectedIDs, answered, batchSize)
}

func (s *Selector) analyze(ctx context.Context, runID, intakeText string) *inference.Result {
	ctx, span := telemetry.Stage(ctx, s.tracer, "selector.inference", runID)
	defer telemetry.End(span, nil)
	return s.inferrer.Analyze(ctx, intakeText)
}

func (s *Selector) score(ctx context.Context, runID string, sctx *scoring.Context) []scoring.QuestionScore {
	ctx, span := telemetry.Stage(ctx, s.tracer, "selector.scoring", runID)
	defer telemetry.End(span, nil)
	return s.scorer.ScoreAll(ctx, s.cat, sctx)
}

func (s *Selector) consult(ctx context.Context, runID string, sctx *scoring.Context, scores []scoring.QuestionScore) (map[string]consensus.AgentConsensus, map[string]consensus.Participation, []scoring.QuestionScore) {
	ctx, span := telemetry.Stage(ctx, s.tracer, "selector.consensus", runID)
	defer telemetry.End(span, nil)

	votes := s.builder.Consult(ctx, s.cat, sctx)
	consensusData := s.builder.Build(votes)
	participation := consensus.ComputeParticipation(votes, s.cat.Len())
	merged := s.builder.Merge(scores, consensusData)
	return consensusData, participation, merged
}

// buildContext merges the caller-supplied scoring context with the
// inference outcome. Caller values always survive; inference fills
// what the caller left blank and appends its fact tags. Without an
// inference pass the caller's context is used as given, so an
// explicit complexity is never second-guessed.
func (s *Selector) buildContext(intakeText string, caller *scoring.Context, inf *inference.Result, inferred bool) *scoring.Context {
	sctx := &scoring.Context{}
	if caller != nil {
		merged := *caller
		sctx = &merged
	}
	if sctx.IntakeText == "" {
		sctx.IntakeText = intakeText
	}
	if sctx.Complexity == "" {
		sctx.Complexity = scoring.ComplexityMedium
	}
	if !inferred {
		return sctx
	}
	return inf.Enhance(sctx)
}

func (s *Selector) candidates() []*catalog.Question {
	questions := s.cat.Questions()
	out := make([]*catalog.Question, len(questions))
	for i := range questions {
		out[i] = &questions[i]
	}
	return out
}

// rankedSubset keeps only the scores whose questions survived the
// filter, preserving the ranking order.
func rankedSubset(ranked []scoring.QuestionScore, kept []*catalog.Question) []scoring.QuestionScore {
	keep := make(map[string]struct{}, len(kept))
	for _, q := range kept {
		keep[q.ID] = struct{}{}
	}

	out := make([]scoring.QuestionScore, 0, len(kept))
	for _, s := range ranked {
		if _, ok := keep[s.QuestionID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// fallbackResult selects by stage rotation when the pipeline cannot
// run: walk the stages in order, taking the highest-weight questions
// of each, until the limit is reached.
func (s *Selector) fallbackResult(runID string, started time.Time) *Result {
	selected := make([]string, 0, s.maxQuestions)

	// Required questions first.
	for _, id := range s.cat.RequiredIDs() {
		if len(selected) >= s.maxQuestions {
			break
		}
		selected = append(selected, id)
	}

	present := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		present[id] = struct{}{}
	}

	for len(selected) < s.maxQuestions {
		added := false
		for _, stage := range catalog.Stages() {
			if len(selected) >= s.maxQuestions {
				break
			}
			for _, q := range s.cat.ByStage(stage) {
				if _, ok := present[q.ID]; ok {
					continue
				}
				selected = append(selected, q.ID)
				present[q.ID] = struct{}{}
				added = true
				break
			}
		}
		if !added {
			break
		}
	}

	return &Result{
		RunID:       runID,
		SelectedIDs: selected,
		Validation:  s.validator.ValidateSelection(selected, nil, nil),
		Metadata: Metadata{
			FallbackUsed: true,
			Duration:     time.Since(started),
		},
	}
}

// cacheKey hashes the intake text, the caller's context, and the run
// size so runs with different contexts never share an entry.
func (s *Selector) cacheKey(intakeText string, callerCtx *scoring.Context) string {
	ctxBlob := ""
	if callerCtx != nil {
		if data, err := json.Marshal(callerCtx); err == nil {
			ctxBlob = string(data)
		}
	}
	return store.HashKey(fmt.Sprintf("%s|%s|%d", intakeText, ctxBlob, s.maxQuestions))
}

func (s *Selector) cachedResult(ctx context.Context, intakeText string, callerCtx *scoring.Context) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, s.cacheKey(intakeText, callerCtx))
	if err != nil {
		s.logger.Warn("selection cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("selection cache entry unreadable", "error", err)
		return nil, false
	}
	return &result, true
}

func (s *Selector) cacheResult(ctx context.Context, intakeText string, callerCtx *scoring.Context, result *Result) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("selection result not cacheable", "error", err)
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(intakeText, callerCtx), data); err != nil {
		s.logger.Warn("selection cache write failed", "error", err)
	}
}
