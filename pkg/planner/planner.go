// Package planner wraps the shortest-path engine with the concerns the engine
// leaves to its callers: cancellation, serialisation of in-place runs,
// logging and metrics.
package planner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-pathfinder/pkg/algorithms"
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
	"github.com/dd0wney/cluso-pathfinder/pkg/logging"
	"github.com/dd0wney/cluso-pathfinder/pkg/metrics"
)

// Search modes used as the "mode" metric label.
const (
	ModeExternal = "external"
	ModeInPlace  = "in_place"
)

const statusAbandoned = "abandoned"

// Planner runs searches. It is safe for concurrent use; in-place searches
// are serialised so only one writes search state at a time.
type Planner struct {
	logger   logging.Logger
	metrics  *metrics.Registry
	search   []algorithms.Option
	timeout  time.Duration
	workers  int
	inPlace  sync.Mutex
	newRunID func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithSearchOptions passes opts to every search.
func WithSearchOptions(opts ...algorithms.Option) Option {
	return func(p *Planner) {
		p.search = append(p.search, opts...)
	}
}

// WithTimeout bounds each search. Zero means no bound beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		p.timeout = d
	}
}

// WithWorkers sets how many searches PlanBatch runs at once.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		p.workers = n
	}
}

// New creates a planner. A nil logger discards output and a nil registry
// disables metrics.
func New(logger logging.Logger, registry *metrics.Registry, opts ...Option) *Planner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	p := &Planner{
		logger:   logger.With(logging.Component("planner")),
		metrics:  registry,
		workers:  4,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}

// Plan runs FindPath on its own scratch state. Unreachable and invalid
// endpoints are reported through the result's Status; the error is non-nil
// only when ctx ends first, in which case the search is abandoned and left
// to finish in the background. g must not be modified until then.
func (p *Planner) Plan(ctx context.Context, g *graph.Graph, start, goal graph.NodeID) (*algorithms.Result, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	timer := p.begin(ctx, g, ModeExternal, start, goal)
	if timer == nil {
		return nil, ctx.Err()
	}
	defer p.inFlight(-1)

	done := make(chan *algorithms.Result, 1)
	go func() {
		done <- algorithms.FindPath(g, start, goal, p.search...)
	}()

	select {
	case <-ctx.Done():
		p.abandon(timer, ctx.Err())
		return nil, ctx.Err()
	case res := <-done:
		p.finish(timer, ModeExternal, res.Status.String(), res.Stats, len(res.Path), res.Cost)
		return res, nil
	}
}

// PlanInPlace runs DijkstraSearch, which records gScores and predecessors
// on g's nodes. Search state is reset first, and runs are serialised on the
// planner, so every other writer of g must go through the same Planner. The
// returned path follows DijkstraSearch: empty when an endpoint is missing
// and [goal] when the search did not close goal, whether unreachable or
// cut short by WithMaxExpansions.
func (p *Planner) PlanInPlace(ctx context.Context, g *graph.Graph, start, goal graph.NodeID) ([]graph.NodeID, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	timer := p.begin(ctx, g, ModeInPlace, start, goal)
	if timer == nil {
		return nil, ctx.Err()
	}
	defer p.inFlight(-1)

	type outcome struct {
		path  []graph.NodeID
		stats algorithms.Stats
		cost  float64
	}
	done := make(chan outcome, 1)
	go func() {
		p.inPlace.Lock()
		defer p.inPlace.Unlock()

		var out outcome
		g.ResetSearchState()
		out.path, out.stats = algorithms.DijkstraSearchWithStats(g, start, goal, p.search...)
		if n, ok := g.Node(goal); ok {
			out.cost = n.GScore
		}
		done <- out
	}()

	select {
	case <-ctx.Done():
		p.abandon(timer, ctx.Err())
		return nil, ctx.Err()
	case out := <-done:
		status := inPlaceStatus(start, goal, out.path)
		p.finish(timer, ModeInPlace, status.String(), out.stats, len(out.path), out.cost)
		return out.path, nil
	}
}

// inPlaceStatus classifies a DijkstraSearch result. A lone [goal] for
// distinct endpoints is the echo of a goal the search did not close.
func inPlaceStatus(start, goal graph.NodeID, path []graph.NodeID) algorithms.Status {
	switch {
	case len(path) == 0:
		return algorithms.StatusInvalidEndpoints
	case start != goal && len(path) == 1:
		return algorithms.StatusUnreachable
	default:
		return algorithms.StatusFound
	}
}

// begin logs and counts the start of a run. It returns nil without starting
// anything if ctx has already ended.
func (p *Planner) begin(ctx context.Context, g *graph.Graph, mode string, start, goal graph.NodeID) *logging.TimedOperation {
	runID := p.newRunID()
	fields := []logging.Field{
		logging.RunID(runID),
		logging.Operation(mode),
		logging.NodeID("start", uint64(start)),
		logging.NodeID("goal", uint64(goal)),
	}

	if err := ctx.Err(); err != nil {
		p.logger.Warn("search not started", append(fields, logging.Error(err))...)
		return nil
	}

	p.logger.Debug("search started", append(fields, logging.Int("nodes", g.Len()), logging.Int("edges", g.EdgeCount()))...)
	if p.metrics != nil {
		p.metrics.SetGraphSize(g.Len(), g.EdgeCount())
	}
	p.inFlight(1)
	return logging.StartTimer(p.logger, "search finished", fields...)
}

func (p *Planner) finish(timer *logging.TimedOperation, mode, status string, stats algorithms.Stats, pathLen int, cost float64) {
	if p.metrics != nil {
		p.metrics.RecordSearch(mode, status, timer.Elapsed(), stats.Expanded, stats.Relaxations, pathLen)
	}

	fields := []logging.Field{
		logging.Status(status),
		logging.Int("expanded", stats.Expanded),
		logging.PathLength(pathLen),
	}
	if status == algorithms.StatusFound.String() {
		timer.End(append(fields, logging.Cost(cost))...)
		return
	}
	timer.EndWarn(fields...)
}

func (p *Planner) abandon(timer *logging.TimedOperation, err error) {
	if p.metrics != nil {
		p.metrics.RecordAbandoned()
	}
	timer.EndError(err, logging.Status(statusAbandoned))
}

func (p *Planner) inFlight(delta float64) {
	if p.metrics != nil {
		p.metrics.SearchesInFlight.Add(delta)
	}
}
