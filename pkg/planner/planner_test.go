package planner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathfinder/pkg/algorithms"
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
	"github.com/dd0wney/cluso-pathfinder/pkg/graphdef"
	"github.com/dd0wney/cluso-pathfinder/pkg/logging"
	"github.com/dd0wney/cluso-pathfinder/pkg/metrics"
)

func referenceGraph(t *testing.T) *graphdef.Built {
	t.Helper()
	b, err := graphdef.Reference().Build()
	require.NoError(t, err)
	return b
}

func names(b *graphdef.Built, path []graph.NodeID) []string {
	out := make([]string, len(path))
	for i, id := range path {
		out[i] = b.Names[id]
	}
	return out
}

func logLines(t *testing.T, buf *bytes.Buffer) []logging.LogEntry {
	t.Helper()
	var entries []logging.LogEntry
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var e logging.LogEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	return entries
}

// blockingExpand stalls every search on its first expansion until release
// is closed.
func blockingExpand(release <-chan struct{}) algorithms.Option {
	return algorithms.WithOnExpand(func(graph.NodeID, float64) {
		<-release
	})
}

func TestPlan_Found(t *testing.T) {
	b := referenceGraph(t)
	reg := metrics.NewRegistry()
	var buf bytes.Buffer

	p := New(logging.NewJSONLogger(&buf, logging.DebugLevel), reg)
	p.newRunID = func() string { return "run-1" }

	res, err := p.Plan(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
	require.NoError(t, err)
	require.Equal(t, algorithms.StatusFound, res.Status)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(b, res.Path))
	assert.Equal(t, 10.0, res.Cost)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeExternal, "found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.SearchesInFlight))
	assert.Equal(t, 6.0, testutil.ToFloat64(reg.GraphNodes))
	assert.Equal(t, 8.0, testutil.ToFloat64(reg.GraphEdges))

	entries := logLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "search started", entries[0].Message)
	assert.Equal(t, "DEBUG", entries[0].Level)

	last := entries[1]
	assert.Equal(t, "search finished", last.Message)
	assert.Equal(t, "INFO", last.Level)
	assert.Equal(t, "run-1", last.Fields["run_id"])
	assert.Equal(t, "planner", last.Fields["component"])
	assert.Equal(t, "found", last.Fields["status"])
	assert.Equal(t, 10.0, last.Fields["cost"])
	assert.Contains(t, last.Fields, "latency")
}

func TestPlan_UnreachableIsNotAnError(t *testing.T) {
	b := referenceGraph(t)
	island := b.Graph.AddNode(graph.Position{})
	reg := metrics.NewRegistry()

	res, err := New(nil, reg).Plan(context.Background(), b.Graph, b.Lookup("A"), island)
	require.NoError(t, err)
	assert.Equal(t, algorithms.StatusUnreachable, res.Status)
	assert.ErrorIs(t, res.Err(), algorithms.ErrUnreachable)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeExternal, "unreachable")))
}

func TestPlan_AbandonedOnTimeout(t *testing.T) {
	b := referenceGraph(t)
	reg := metrics.NewRegistry()
	release := make(chan struct{})
	defer close(release)

	p := New(nil, reg, WithTimeout(20*time.Millisecond), WithSearchOptions(blockingExpand(release)))

	res, err := p.Plan(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesAbandoned))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.SearchesInFlight))
	assert.Equal(t, 0, testutil.CollectAndCount(reg.SearchesTotal))
}

func TestPlan_CancelledBeforeStart(t *testing.T) {
	b := referenceGraph(t)
	reg := metrics.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(nil, reg).Plan(ctx, b.Graph, b.Lookup("A"), b.Lookup("E"))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.SearchesAbandoned))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.GraphNodes))
}

func TestPlanInPlace(t *testing.T) {
	b := referenceGraph(t)
	reg := metrics.NewRegistry()
	p := New(nil, reg)

	// Running twice on the same graph gives the same answer because state is
	// reset before each run.
	for i := 0; i < 2; i++ {
		path, err := p.PlanInPlace(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(b, path))

		e, _ := b.Graph.Node(b.Lookup("E"))
		assert.Equal(t, 10.0, e.GScore)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeInPlace, "found")))
}

func TestPlanInPlace_Statuses(t *testing.T) {
	b := referenceGraph(t)
	island := b.Graph.AddNode(graph.Position{})
	reg := metrics.NewRegistry()
	p := New(nil, reg)

	path, err := p.PlanInPlace(context.Background(), b.Graph, b.Lookup("A"), island)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{island}, path)

	path, err = p.PlanInPlace(context.Background(), b.Graph, b.Lookup("A"), 999)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = p.PlanInPlace(context.Background(), b.Graph, b.Lookup("C"), b.Lookup("C"))
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{b.Lookup("C")}, path)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeInPlace, "unreachable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeInPlace, "invalid_endpoints")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeInPlace, "found")))
}

func TestPlanInPlace_RecordsRelaxations(t *testing.T) {
	b := referenceGraph(t)
	reg := metrics.NewRegistry()
	p := New(nil, reg)

	_, err := p.Plan(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
	require.NoError(t, err)
	_, err = p.PlanInPlace(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
	require.NoError(t, err)

	// Both modes examine the same six edges.
	want := `
# HELP pathfinder_edge_relaxations Number of edges examined per search
# TYPE pathfinder_edge_relaxations histogram
pathfinder_edge_relaxations_bucket{mode="external",le="1"} 0
pathfinder_edge_relaxations_bucket{mode="external",le="10"} 1
pathfinder_edge_relaxations_bucket{mode="external",le="100"} 1
pathfinder_edge_relaxations_bucket{mode="external",le="1000"} 1
pathfinder_edge_relaxations_bucket{mode="external",le="10000"} 1
pathfinder_edge_relaxations_bucket{mode="external",le="100000"} 1
pathfinder_edge_relaxations_bucket{mode="external",le="+Inf"} 1
pathfinder_edge_relaxations_sum{mode="external"} 6
pathfinder_edge_relaxations_count{mode="external"} 1
pathfinder_edge_relaxations_bucket{mode="in_place",le="1"} 0
pathfinder_edge_relaxations_bucket{mode="in_place",le="10"} 1
pathfinder_edge_relaxations_bucket{mode="in_place",le="100"} 1
pathfinder_edge_relaxations_bucket{mode="in_place",le="1000"} 1
pathfinder_edge_relaxations_bucket{mode="in_place",le="10000"} 1
pathfinder_edge_relaxations_bucket{mode="in_place",le="100000"} 1
pathfinder_edge_relaxations_bucket{mode="in_place",le="+Inf"} 1
pathfinder_edge_relaxations_sum{mode="in_place"} 6
pathfinder_edge_relaxations_count{mode="in_place"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(reg.EdgeRelaxations, strings.NewReader(want)))
}

func TestPlanInPlace_KeepsCallerHook(t *testing.T) {
	b := referenceGraph(t)

	var closed []string
	p := New(nil, nil, WithSearchOptions(algorithms.WithOnExpand(func(id graph.NodeID, _ float64) {
		closed = append(closed, b.Names[id])
	})))

	_, err := p.PlanInPlace(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "F", "C", "D", "E"}, closed)
}

func TestPlanInPlace_MaxExpansions(t *testing.T) {
	g := graph.New()
	s := g.AddNode(graph.Position{})
	a := g.AddNode(graph.Position{})
	goal := g.AddNode(graph.Position{})
	require.NoError(t, g.AddEdge(s, goal, 10))
	require.NoError(t, g.AddEdge(s, a, 1))
	require.NoError(t, g.AddEdge(a, goal, 1))

	reg := metrics.NewRegistry()
	p := New(nil, reg, WithSearchOptions(algorithms.WithMaxExpansions(1)))

	path, err := p.PlanInPlace(context.Background(), g, s, goal)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{goal}, path)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeInPlace, "unreachable")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeInPlace, "found")))
}

func TestPlanInPlace_Serialised(t *testing.T) {
	b := referenceGraph(t)
	p := New(nil, nil)

	queries := []struct {
		from, to string
		want     []string
	}{
		{"A", "E", []string{"A", "B", "C", "D", "E"}},
		{"B", "F", []string{"B", "C", "D", "F"}},
		{"C", "B", []string{"C", "A", "B"}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		q := queries[i%len(queries)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, err := p.PlanInPlace(context.Background(), b.Graph, b.Lookup(q.from), b.Lookup(q.to))
			assert.NoError(t, err)
			assert.Equal(t, q.want, names(b, path))
		}()
	}
	wg.Wait()
}

func TestPlanInPlace_AbandonedRunKeepsLock(t *testing.T) {
	b := referenceGraph(t)
	release := make(chan struct{})
	var expansions atomic.Int32
	firstOnly := algorithms.WithOnExpand(func(graph.NodeID, float64) {
		if expansions.Add(1) == 1 {
			<-release
		}
	})

	blocked := New(nil, nil, WithSearchOptions(firstOnly))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := blocked.PlanInPlace(ctx, b.Graph, b.Lookup("A"), b.Lookup("E"))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The abandoned run still holds the in-place lock, so a second run on
	// the same planner waits for it rather than racing on node state.
	second := make(chan []graph.NodeID, 1)
	go func() {
		path, _ := blocked.PlanInPlace(context.Background(), b.Graph, b.Lookup("A"), b.Lookup("E"))
		second <- path
	}()

	select {
	case <-second:
		t.Fatal("second run finished while the first still held the lock")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case path := <-second:
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(b, path))
	case <-time.After(time.Second):
		t.Fatal("second run did not finish")
	}
}

func TestPlanBatch(t *testing.T) {
	b := referenceGraph(t)
	reg := metrics.NewRegistry()
	p := New(nil, reg, WithWorkers(3))

	queries := []Query{
		{Start: b.Lookup("A"), Goal: b.Lookup("E")},
		{Start: b.Lookup("F"), Goal: b.Lookup("A")},
		{Start: b.Lookup("D"), Goal: b.Lookup("E")},
		{Start: 0, Goal: b.Lookup("E")},
	}

	results, err := p.PlanBatch(context.Background(), b.Graph, queries)
	require.NoError(t, err)
	require.Len(t, results, len(queries))

	for i, r := range results {
		assert.Equal(t, queries[i], r.Query)
		require.NoError(t, r.Err)
	}
	assert.Equal(t, 10.0, results[0].Result.Cost)
	assert.Equal(t, algorithms.StatusUnreachable, results[1].Result.Status)
	assert.Equal(t, []string{"D", "E"}, names(b, results[2].Result.Path))
	assert.Equal(t, algorithms.StatusInvalidEndpoints, results[3].Result.Status)

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.SearchesTotal.WithLabelValues(ModeExternal, "found")))
}

func TestPlanBatch_Cancelled(t *testing.T) {
	b := referenceGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queries := []Query{
		{Start: b.Lookup("A"), Goal: b.Lookup("E")},
		{Start: b.Lookup("B"), Goal: b.Lookup("E")},
	}
	results, err := New(nil, nil).PlanBatch(ctx, b.Graph, queries)
	require.NoError(t, err)

	for _, r := range results {
		assert.Nil(t, r.Result)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
