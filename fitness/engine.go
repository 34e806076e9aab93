// Package fitness is the session intelligence engine: it ingests exercise
// sessions into a vector index and answers similarity, pattern, trend, and
// recommendation queries over a user's history. The engine is stateless
// between calls; the only shared state is the injected store, so operations
// are freely concurrent across users.
package fitness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/airwave/airwave/fitness/encoder"
	"github.com/airwave/airwave/fitness/metrics"
	"github.com/airwave/airwave/fitness/patterns"
	"github.com/airwave/airwave/fitness/recommend"
	"github.com/airwave/airwave/fitness/similarity"
	"github.com/airwave/airwave/fitness/trends"
	"github.com/airwave/airwave/store"
)

// Engine exposes the core operations. Construct it with NewEngine and an
// opened store; the host owns the store's lifecycle.
type Engine struct {
	store    *store.Store
	clock    func() time.Time
	logger   *slog.Logger
	exporter *metrics.Exporter

	similarity *similarity.Service
	patterns   *patterns.Service
	trends     *trends.Service
	recommend  *recommend.Service
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source used for generated session IDs.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger overrides the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches a Prometheus exporter to the engine.
func WithMetrics(exporter *metrics.Exporter) Option {
	return func(e *Engine) { e.exporter = exporter }
}

// NewEngine creates an engine over the given store.
func NewEngine(st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.similarity = similarity.NewService(st)
	e.patterns = patterns.NewService(st)
	e.trends = trends.NewService(st)
	e.recommend = recommend.NewService(e.patterns)

	return e
}

// StoreSession encodes one session and upserts it into the vector index.
// When sessionID is empty the stored ID is derived from the clock, so two
// ingestions in the same instant for the same user collapse into one entry
// (last writer wins, same as any other ID collision).
func (e *Engine) StoreSession(ctx context.Context, userID string, session encoder.Session, sessionID string) (string, error) {
	start := e.clock()
	traceID := uuid.NewString()

	if userID == "" {
		return "", &ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	id := e.storedID(userID, sessionID)
	date := session.Date
	if date.IsZero() {
		date = e.clock().UTC()
	}

	embedding := &store.SessionEmbedding{
		ID:        id,
		UserID:    userID,
		Embedding: encoder.Encode(session),
		Metadata: store.SessionMetadata{
			UserID:         userID,
			ActivityType:   string(encoder.ParseActivityType(string(session.ActivityType))),
			Duration:       session.Duration,
			Distance:       session.Distance,
			HeartRateAvg:   session.HeartRateAvg,
			HeartRateMax:   session.HeartRateMax,
			Intensity:      string(encoder.ParseIntensity(string(session.Intensity))),
			Date:           date.Format(time.RFC3339),
			VO2MaxEstimate: session.VO2MaxEstimate,
		},
		Document: sessionDocument(session, date),
	}

	_, err := e.store.UpsertSessionEmbedding(ctx, embedding)
	e.exporter.ObserveOperation(metrics.OpStoreSession, err, e.clock().Sub(start))
	if err != nil {
		e.logger.Error("failed to store session", "trace_id", traceID, "user_id", userID, "error", err)
		return "", &BackendUnavailableError{Op: "store session", Err: err}
	}

	e.exporter.ObserveSessionStored()
	e.logger.Debug("session stored", "trace_id", traceID, "user_id", userID, "session_id", id)
	return id, nil
}

// FindSimilar encodes the query session and returns the user's most similar
// stored sessions, best match first.
func (e *Engine) FindSimilar(ctx context.Context, userID string, session encoder.Session, limit int) ([]*similarity.Result, error) {
	return e.FindSimilarVector(ctx, userID, encoder.Encode(session), limit)
}

// FindSimilarVector is FindSimilar for callers that already hold a feature
// vector.
func (e *Engine) FindSimilarVector(ctx context.Context, userID string, vector encoder.FeatureVector, limit int) ([]*similarity.Result, error) {
	start := e.clock()

	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	results, err := e.similarity.FindSimilar(ctx, userID, vector, limit)
	e.exporter.ObserveOperation(metrics.OpFindSimilar, err, e.clock().Sub(start))
	if err != nil {
		e.logger.Error("similarity search failed", "user_id", userID, "error", err)
		return nil, &BackendUnavailableError{Op: "similarity search", Err: err}
	}

	return results, nil
}

// AnalyzePatterns derives insights, recommendations, and summary statistics
// from the user's stored history. A user with no history gets an onboarding
// report, not an error.
func (e *Engine) AnalyzePatterns(ctx context.Context, userID string) (report *patterns.Report, err error) {
	start := e.clock()
	defer e.recoverAnalysis(metrics.OpAnalyzePatterns, &err)

	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	report, err = e.patterns.Analyze(ctx, userID)
	e.exporter.ObserveOperation(metrics.OpAnalyzePatterns, err, e.clock().Sub(start))
	if err != nil {
		e.logger.Error("pattern analysis failed", "user_id", userID, "error", err)
		return nil, &BackendUnavailableError{Op: "pattern analysis", Err: err}
	}

	return report, nil
}

// PredictTrend classifies the direction of the requested metric over the
// user's history. Too few samples yields an insufficient-data report, not an
// error.
func (e *Engine) PredictTrend(ctx context.Context, userID, metric string, timeframeWeeks int) (report *trends.Report, err error) {
	start := e.clock()
	defer e.recoverAnalysis(metrics.OpPredictTrend, &err)

	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	report, err = e.trends.PredictTrend(ctx, userID, metric, timeframeWeeks)
	e.exporter.ObserveOperation(metrics.OpPredictTrend, err, e.clock().Sub(start))
	if err != nil {
		e.logger.Error("trend analysis failed", "user_id", userID, "error", err)
		return nil, &BackendUnavailableError{Op: "trend analysis", Err: err}
	}

	return report, nil
}

// Recommend builds workout recommendations from the caller's goals and the
// user's analyzed history.
func (e *Engine) Recommend(ctx context.Context, userID string, goals []string, current recommend.FitnessLevel) (recs []string, err error) {
	start := e.clock()
	defer e.recoverAnalysis(metrics.OpRecommend, &err)

	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	recs, err = e.recommend.Recommend(ctx, userID, goals, current)
	e.exporter.ObserveOperation(metrics.OpRecommend, err, e.clock().Sub(start))
	if err != nil {
		e.logger.Error("recommendation failed", "user_id", userID, "error", err)
		return nil, &BackendUnavailableError{Op: "recommendation", Err: err}
	}

	return recs, nil
}

// recoverAnalysis converts an analysis panic into a single user-facing
// error; unstructured faults never cross the engine boundary.
func (e *Engine) recoverAnalysis(op string, err *error) {
	if r := recover(); r != nil {
		e.logger.Error("analysis panicked", "operation", op, "panic", r)
		*err = fmt.Errorf("%s failed unexpectedly: %v", op, r)
	}
}

func (e *Engine) storedID(userID, sessionID string) string {
	if sessionID != "" {
		return fmt.Sprintf("%s_%s", userID, sessionID)
	}
	return fmt.Sprintf("%s_%s", userID, e.clock().UTC().Format(time.RFC3339))
}

func sessionDocument(session encoder.Session, date time.Time) string {
	activity := encoder.ParseActivityType(string(session.ActivityType))
	intensity := encoder.ParseIntensity(string(session.Intensity))
	return fmt.Sprintf("%s session on %s: %.0f min, %.1f km, %s intensity",
		activity, date.Format("2006-01-02"), session.Duration, session.Distance, intensity)
}
