package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/djefts/pacmanAI/agent"
	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/genetic/persistence"
	"github.com/djefts/pacmanAI/maze"
	"github.com/djefts/pacmanAI/parameter"
	"github.com/djefts/pacmanAI/problem"
)

// ErrNoLayout is returned when a record carries no grid and no --layout is given
var ErrNoLayout = errors.New("record has no embedded layout, pass --layout")

type replayFlags struct {
	record string
	layout string
	list   bool
	view   bool
	delay  time.Duration
}

// replayCmd re-walks a saved run record against its layout
func replayCmd(a *app) *cobra.Command {
	var f replayFlags

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify or animate a saved run record",
		Long: `Load a run record by file path or by id under the configured record
directory, walk its path through the layout and report whether it still
reaches the goal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.list {
				return listRecords(cmd, a)
			}
			return runReplay(cmd, a, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.record, "record", "", "record file or id")
	flags.StringVar(&f.layout, "layout", "", "layout file (default: grid stored in the record)")
	flags.BoolVar(&f.list, "list", false, "list record ids in the record directory")
	flags.BoolVar(&f.view, "view", false, "animate the path in the terminal")
	flags.DurationVar(&f.delay, "delay", 120*time.Millisecond, "frame delay for --view")

	return cmd
}

func runReplay(cmd *cobra.Command, a *app, f replayFlags) error {
	if f.record == "" {
		return errors.New("--record is required")
	}
	rec, err := loadRecord(a.cfg.Output.RecordDir, f.record)
	if err != nil {
		return err
	}

	var layout *maze.Layout
	switch {
	case f.layout != "":
		layout, err = maze.Load(f.layout)
	case rec.Grid != "":
		layout, err = maze.ParseString(rec.Grid)
		if layout != nil {
			layout.Name = rec.Layout
		}
	default:
		err = ErrNoLayout
	}
	if err != nil {
		return err
	}

	reached := agent.Reaches(problem.NewPositionProblem(layout), rec.Path)
	a.log.Debug("replayed record", "id", rec.ID, "moves", len(rec.Path), "reached", reached)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "record:    %s\n", rec.ID)
	fmt.Fprintf(out, "layout:    %s\n", rec.Layout)
	fmt.Fprintf(out, "strategy:  %s\n", rec.Strategy)
	fmt.Fprintf(out, "path:      %s\n", core.FormatPath(rec.Path))
	fmt.Fprintf(out, "moves:     %d\n", len(rec.Path))
	if rec.Strategy == "ga" {
		fmt.Fprintf(out, "fitness:   %g (generation %d)\n", rec.Fitness, rec.Generation+1)
	}
	fmt.Fprintf(out, "reached:   %t\n", reached)
	if reached != rec.Reached {
		a.log.Warn("replay disagrees with record", "recorded", rec.Reached, "replayed", reached)
	}

	if f.view {
		return viewPlan(cmd.Context(), layout, rec.Path, f.delay, nil)
	}
	return nil
}

// loadRecord treats ref as a file path when it exists or carries the record
// extension, otherwise as an id under dir
func loadRecord(dir, ref string) (persistence.RunRecord, error) {
	if strings.HasSuffix(ref, parameter.GeneticRecordExt) {
		return persistence.LoadFile(ref)
	}
	if st, err := os.Stat(ref); err == nil && !st.IsDir() {
		return persistence.LoadFile(ref)
	}
	return persistence.NewManager(dir).Load(ref)
}

func listRecords(cmd *cobra.Command, a *app) error {
	ids, err := persistence.NewManager(a.cfg.Output.RecordDir).List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
