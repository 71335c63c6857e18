package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/djefts/pacmanAI/maze"
	"github.com/djefts/pacmanAI/parameter"
)

// mazeCmd generates a random layout file
func mazeCmd(a *app) *cobra.Command {
	var (
		width, height int
		braiding      float64
		seed          uint64
		out           string
	)

	cmd := &cobra.Command{
		Use:   "maze",
		Short: "Generate a random maze layout",
		Long: `Generate a maze with a recursive backtracker. Even sizes are rounded down
to the next odd number. Braiding removes dead ends to open alternative routes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := a.cfg.Maze.GenConfig()
			if cmd.Flags().Changed("width") {
				gen.Width = width
			}
			if cmd.Flags().Changed("height") {
				gen.Height = height
			}
			if cmd.Flags().Changed("braiding") {
				gen.Braiding = braiding
			}
			if seed != 0 {
				gen.Seed = seed
			}
			if gen.Width < parameter.MazeMinSize || gen.Height < parameter.MazeMinSize {
				return fmt.Errorf("maze size %dx%d: both sides must be at least %d", gen.Width, gen.Height, parameter.MazeMinSize)
			}

			g := maze.Generate(gen)
			a.log.Debug("maze generated",
				"width", g.Layout.Width,
				"height", g.Layout.Height,
				"solution_len", len(g.Solution))

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), g.Layout.String())
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(g.Layout.String()), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", out, g.Layout.Width, g.Layout.Height)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&width, "width", 0, "maze width (default from config)")
	flags.IntVar(&height, "height", 0, "maze height (default from config)")
	flags.Float64Var(&braiding, "braiding", 0, "dead-end removal probability 0..1 (default from config)")
	flags.Uint64Var(&seed, "seed", 0, "generator seed (0 = config or random)")
	flags.StringVarP(&out, "out", "o", "", "write the layout to this file instead of stdout")

	return cmd
}
