package planner

import (
	"context"

	"github.com/dd0wney/cluso-pathfinder/pkg/algorithms"
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
	"github.com/dd0wney/cluso-pathfinder/pkg/logging"
	"github.com/dd0wney/cluso-pathfinder/pkg/parallel"
)

// Query is one start/goal pair for PlanBatch.
type Query struct {
	Start graph.NodeID
	Goal  graph.NodeID
}

// BatchResult is the outcome of one Query. Err is set when the search was
// abandoned or never submitted.
type BatchResult struct {
	Query  Query
	Result *algorithms.Result
	Err    error
}

// PlanBatch runs Plan for every query on a pool of WithWorkers goroutines.
// Results are in query order. Searches use separate scratch state, so they
// share g safely as long as nothing modifies it.
func (p *Planner) PlanBatch(ctx context.Context, g *graph.Graph, queries []Query) ([]BatchResult, error) {
	pool, err := parallel.NewWorkerPool(p.workers, func(recovered any) {
		p.logger.Error("search panicked", logging.Any("panic", recovered))
	})
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(queries))
	for i, q := range queries {
		i, q := i, q
		results[i].Query = q
		err := pool.Submit(ctx, func() {
			results[i].Result, results[i].Err = p.Plan(ctx, g, q.Start, q.Goal)
		})
		if err != nil {
			for j := i; j < len(queries); j++ {
				results[j].Query = queries[j]
				results[j].Err = err
			}
			break
		}
	}
	pool.Close()

	p.logger.Debug("batch finished", logging.Int("queries", len(queries)), logging.Int("workers", pool.Workers()))
	return results, nil
}
