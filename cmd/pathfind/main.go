package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-pathfinder/pkg/config"
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
	"github.com/dd0wney/cluso-pathfinder/pkg/graphdef"
	"github.com/dd0wney/cluso-pathfinder/pkg/logging"
	"github.com/dd0wney/cluso-pathfinder/pkg/metrics"
	"github.com/dd0wney/cluso-pathfinder/pkg/planner"
	"github.com/dd0wney/cluso-pathfinder/pkg/visualization"
)

const (
	exitOK     = 0
	exitSetup  = 1
	exitNoPath = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	graphPath  string
	scenePath  string
	from       string
	to         string
	faithful   bool
	strict     bool
	timeout    time.Duration
	metrics    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pathfind", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.graphPath, "graph", "", "YAML graph definition (built-in reference graph if empty)")
	fs.StringVar(&opts.scenePath, "scene", "", "Write the renderer scene as JSON to this file")
	fs.StringVar(&opts.from, "from", "A", "Start node name")
	fs.StringVar(&opts.to, "to", "E", "Goal node name")
	fs.BoolVar(&opts.faithful, "faithful", false, "Run the in-place search and print only gScores")
	fs.BoolVar(&opts.strict, "strict", false, "Re-sort improved frontier nodes")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Abandon the search after this long (overrides config)")
	fs.BoolVar(&opts.metrics, "metrics", false, "Dump metrics in text format to stderr on exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return exitSetup
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "pathfind: %v\n", err)
		return exitSetup
	}
	if opts.strict {
		cfg.Search.StrictOrdering = true
	}
	if opts.timeout > 0 {
		cfg.Search.Timeout = opts.timeout
	}

	logger := logging.New(stderr, cfg.Logging.Level).With(logging.Component("pathfind"))

	built, err := loadGraph(opts.graphPath)
	if err != nil {
		logger.Error("failed to load graph", logging.String("path", opts.graphPath), logging.Error(err))
		return exitSetup
	}
	start, goal := built.Lookup(opts.from), built.Lookup(opts.to)
	for name, id := range map[string]graph.NodeID{opts.from: start, opts.to: goal} {
		if id == graph.NoNode {
			logger.Error("unknown node", logging.String("name", name))
			return exitSetup
		}
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistryWithNamespace(cfg.Metrics.Namespace)
	}
	p := planner.New(logger, reg,
		planner.WithSearchOptions(cfg.SearchOptions()...),
		planner.WithTimeout(cfg.Search.Timeout),
	)

	var out outcome
	if opts.faithful {
		out = runInPlace(ctx, p, built, start, goal, stdout, logger)
	} else {
		out = runExternal(ctx, p, built, start, goal, stdout, logger)
	}
	if out.abandoned {
		// the search may still be running, so node state is off limits
		return out.code
	}

	scene := visualization.Project(built.Graph, out.path, out.scores, built.Names)
	for _, e := range scene.Edges {
		logger.Debug("edge",
			logging.String("from", built.Names[e.From]),
			logging.String("to", built.Names[e.To]),
			logging.String("label", e.Label),
			logging.Bool("on_path", e.OnPath),
		)
	}
	if opts.scenePath != "" {
		if err := writeScene(opts.scenePath, scene); err != nil {
			logger.Error("failed to write scene", logging.Error(err))
			return exitSetup
		}
	}

	if opts.metrics && reg != nil {
		if err := reg.WriteText(stderr); err != nil {
			logger.Error("failed to write metrics", logging.Error(err))
		}
	}
	return out.code
}

func loadGraph(path string) (*graphdef.Built, error) {
	def := graphdef.Reference()
	if path != "" {
		var err error
		if def, err = graphdef.Load(path); err != nil {
			return nil, err
		}
	}
	return def.Build()
}

// outcome is what a search mode hands back for projection.
type outcome struct {
	path      []graph.NodeID
	scores    map[graph.NodeID]float64 // nil: read gScores from the nodes
	code      int
	abandoned bool
}

// runInPlace prints each path node's gScore on its own line, nothing else.
func runInPlace(ctx context.Context, p *planner.Planner, built *graphdef.Built, start, goal graph.NodeID, stdout io.Writer, logger logging.Logger) outcome {
	path, err := p.PlanInPlace(ctx, built.Graph, start, goal)
	if err != nil {
		logger.Error("search abandoned", logging.Error(err))
		return outcome{code: exitNoPath, abandoned: true}
	}

	for _, id := range path {
		n, _ := built.Graph.Node(id)
		fmt.Fprintln(stdout, formatScore(n.GScore))
	}
	if start != goal && len(path) < 2 {
		return outcome{path: path, code: exitNoPath}
	}
	return outcome{path: path, code: exitOK}
}

// runExternal prints "name<TAB>gScore" per path node followed by the total.
func runExternal(ctx context.Context, p *planner.Planner, built *graphdef.Built, start, goal graph.NodeID, stdout io.Writer, logger logging.Logger) outcome {
	res, err := p.Plan(ctx, built.Graph, start, goal)
	if err != nil {
		logger.Error("search abandoned", logging.Error(err))
		return outcome{code: exitNoPath, abandoned: true}
	}
	if !res.Found() {
		logger.Warn("no path",
			logging.String("from", built.Names[start]),
			logging.String("to", built.Names[goal]),
			logging.Error(res.Err()),
		)
		return outcome{path: res.Path, scores: res.GScores, code: exitNoPath}
	}

	for _, id := range res.Path {
		fmt.Fprintf(stdout, "%s\t%s\n", built.Names[id], formatScore(res.GScores[id]))
	}
	fmt.Fprintf(stdout, "cost\t%s\n", formatScore(res.Cost))
	return outcome{path: res.Path, scores: res.GScores, code: exitOK}
}

func writeScene(path string, scene visualization.Scene) error {
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// formatScore prints whole numbers without a fraction, e.g. "10".
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
