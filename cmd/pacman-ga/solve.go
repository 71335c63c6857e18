package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/djefts/pacmanAI/agent"
	"github.com/djefts/pacmanAI/audio"
	"github.com/djefts/pacmanAI/config"
	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/genetic"
	"github.com/djefts/pacmanAI/genetic/persistence"
	"github.com/djefts/pacmanAI/maze"
	"github.com/djefts/pacmanAI/metrics"
	"github.com/djefts/pacmanAI/parameter"
	"github.com/djefts/pacmanAI/problem"
	"github.com/djefts/pacmanAI/render"
	"github.com/djefts/pacmanAI/search"
	"github.com/djefts/pacmanAI/tracing"
)

type solveFlags struct {
	layout     string
	generate   string
	mazeSeed   uint64
	strategy   string
	seed       uint64
	save       string
	view       bool
	delay      time.Duration
	sonify     string
	metricsOut string
	trace      bool
}

// solveCmd plans a path on a layout file or a generated maze
func solveCmd(a *app) *cobra.Command {
	var f solveFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Plan a path from start to goal",
		Long: `Plan a path on a layout file (--layout) or a generated maze (--generate WxH).

The plan can be saved as a run record, animated in the terminal,
rendered to a WAV file, and its metrics exported in text format.`,
		Example: `  pacman-ga solve --layout mazes/tiny.lay --strategy dfs
  pacman-ga solve --generate 31x15 --seed 7 --save runs/ --view`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, a, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.layout, "layout", "", "layout file to solve")
	flags.StringVar(&f.generate, "generate", "", "generate a WxH maze instead of loading one")
	flags.Uint64Var(&f.mazeSeed, "maze-seed", 0, "seed for --generate (0 = config or random)")
	flags.StringVar(&f.strategy, "strategy", "", "search strategy: dfs or ga (default from config)")
	flags.Uint64Var(&f.seed, "seed", 0, "genetic search seed (0 = config or random)")
	flags.StringVar(&f.save, "save", "", "save the run record to FILE"+parameter.GeneticRecordExt+" or into a directory")
	flags.BoolVar(&f.view, "view", false, "animate the plan in the terminal")
	flags.DurationVar(&f.delay, "delay", 120*time.Millisecond, "frame delay for --view")
	flags.StringVar(&f.sonify, "sonify", "", "write the plan as a WAV file")
	flags.StringVar(&f.metricsOut, "metrics-out", "", "write metrics in text format to FILE ('-' for stdout)")
	flags.BoolVar(&f.trace, "trace", false, "print trace spans to stderr")
	cmd.MarkFlagsMutuallyExclusive("layout", "generate")

	return cmd
}

func runSolve(cmd *cobra.Command, a *app, f solveFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if f.strategy != "" {
		a.cfg.Strategy = f.strategy
	}
	strategy, err := a.cfg.StrategyID()
	if err != nil {
		return err
	}
	if f.seed != 0 {
		a.cfg.Genetic.Seed = f.seed
	}

	layout, err := resolveLayout(a.cfg.Maze, f)
	if err != nil {
		return err
	}
	env := problem.NewPositionProblem(layout)

	if f.trace {
		shutdown, err := tracing.Init("pacman-ga", cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				a.log.Warn("tracer shutdown failed", "error", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewSearch(reg)

	opts := search.Options{
		Genetic: a.cfg.Genetic,
		GeneticOptions: []genetic.Option{
			genetic.WithLogger(a.log),
			genetic.WithRecorder(m),
		},
	}
	ag, err := agent.New(strategy, opts, a.log)
	if err != nil {
		return err
	}

	report, err := ag.Register(ctx, env)
	if err != nil {
		return err
	}
	m.ObserveSolve(report)

	plan := ag.Plan()
	printReport(out, layout, report, plan, ag.Outcome())

	if f.save != "" {
		rec := buildRecord(layout, strategy, a.cfg.Genetic.Seed, report, ag.Outcome())
		where, err := saveRecord(f.save, rec)
		if err != nil {
			return fmt.Errorf("save run record: %w", err)
		}
		fmt.Fprintf(out, "saved:     %s\n", where)
	}

	if f.sonify != "" {
		if err := writeSonification(f.sonify, plan, report.Reached); err != nil {
			return err
		}
		fmt.Fprintf(out, "sonified:  %s\n", f.sonify)
	}

	if f.metricsOut != "" {
		if err := writeMetrics(f.metricsOut, out, reg); err != nil {
			return err
		}
	}

	if f.view {
		return viewPlan(ctx, layout, plan, f.delay, env.Visited())
	}
	return nil
}

// resolveLayout picks flags over config: --layout, then --generate, then the
// configured layout file, then a generated maze of the configured size
func resolveLayout(cfg config.MazeConfig, f solveFlags) (*maze.Layout, error) {
	gen := cfg.GenConfig()
	if f.mazeSeed != 0 {
		gen.Seed = f.mazeSeed
	}

	switch {
	case f.layout != "":
		return maze.Load(f.layout)
	case f.generate != "":
		w, h, err := parseSize(f.generate)
		if err != nil {
			return nil, err
		}
		gen.Width, gen.Height = w, h
	case cfg.Layout != "":
		return maze.Load(cfg.Layout)
	}

	g := maze.Generate(gen)
	g.Layout.Name = fmt.Sprintf("generated-%dx%d", g.Layout.Width, g.Layout.Height)
	return g.Layout, nil
}

// parseSize reads "WxH"
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w < parameter.MazeMinSize || h < parameter.MazeMinSize {
		return 0, 0, fmt.Errorf("size %q: both sides must be at least %d", s, parameter.MazeMinSize)
	}
	return w, h, nil
}

func printReport(w io.Writer, l *maze.Layout, r agent.Report, plan []core.Direction, outcome *search.Outcome) {
	fmt.Fprintf(w, "layout:    %s (%dx%d)\n", l.Name, l.Width, l.Height)
	fmt.Fprintf(w, "strategy:  %s\n", r.Strategy)
	fmt.Fprintf(w, "path:      %s\n", core.FormatPath(plan))
	fmt.Fprintf(w, "moves:     %d\n", r.Moves)
	fmt.Fprintf(w, "cost:      %g\n", r.Cost)
	fmt.Fprintf(w, "reached:   %t\n", r.Reached)
	if r.Expanded >= 0 {
		fmt.Fprintf(w, "expanded:  %d\n", r.Expanded)
	}
	fmt.Fprintf(w, "elapsed:   %s\n", r.Elapsed.Round(time.Microsecond))

	if outcome != nil && outcome.Genetic != nil {
		res := outcome.Genetic
		fmt.Fprintf(w, "fitness:   %g (generation %d of %d)\n", res.Fitness, res.Generation+1, len(res.History))
		fmt.Fprintf(w, "collisions: %d\n", res.Collisions)
	}
}

func buildRecord(l *maze.Layout, s search.Strategy, seed uint64, r agent.Report, outcome *search.Outcome) persistence.RunRecord {
	var rec persistence.RunRecord
	if outcome != nil && outcome.Genetic != nil {
		rec = persistence.FromResult(l.Name, seed, outcome.Genetic)
	} else {
		var path []core.Direction
		if outcome != nil {
			path = outcome.Path
		}
		rec = persistence.FromPath(l.Name, s.String(), path, r.Reached)
	}
	rec.Grid = l.String()
	return rec
}

// saveRecord writes to an explicit .msgpack file, or under a directory with a fresh id
func saveRecord(target string, rec persistence.RunRecord) (string, error) {
	if strings.HasSuffix(target, parameter.GeneticRecordExt) {
		return target, persistence.SaveFile(target, rec)
	}
	m := persistence.NewManager(target)
	id, err := m.Save(rec)
	if err != nil {
		return "", err
	}
	return m.FilePath(id), nil
}

func writeSonification(path string, plan []core.Direction, reached bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := audio.DefaultOptions()
	opts.Chime = reached
	if err := audio.WriteWAV(f, plan, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMetrics(path string, stdout io.Writer, g prometheus.Gatherer) error {
	if path == "-" {
		return metrics.WriteText(stdout, g)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := metrics.WriteText(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func viewPlan(ctx context.Context, l *maze.Layout, plan []core.Direction, delay time.Duration, explored []core.Point) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	core.SetCrashFinalizer(screen.Fini)
	defer core.SetCrashFinalizer(nil)

	v := render.NewViewer(screen, l, render.WithDelay(delay), render.WithExplored(explored))
	defer v.Close()
	pb, err := v.Animate(ctx, plan)
	if err != nil || pb.Quit {
		return err
	}
	return v.WaitKey(ctx)
}
