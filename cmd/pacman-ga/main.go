package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/djefts/pacmanAI/config"
	"github.com/djefts/pacmanAI/core"
)

// app is the state shared by every subcommand after PersistentPreRunE
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	logCloser io.Closer

	configPath string
	logLevel   string
	logFile    string
}

func main() {
	defer func() {
		core.HandleCrash(recover())
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := a.execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and releases the log file whether or not the command failed
func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	defer a.close()

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func (a *app) close() {
	if a.logCloser == nil {
		return
	}
	if err := a.logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pacman-ga",
		Short: "Path-search agent for grid mazes",
		Long: `pacman-ga plans a route from the start cell to the goal cell of a maze.

It runs either a depth-first graph search or a genetic algorithm that
evolves move sequences against a simulation of the maze.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if a.logLevel != "" {
				cfg.Log.Level = a.logLevel
			}
			if a.logFile != "" {
				cfg.Log.File = a.logFile
			}

			logger, closer, err := setupLogging(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			a.cfg, a.log, a.logCloser = cfg, logger, closer
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "JSON config file (default $"+config.EnvPrefix+"CONFIG)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(
		solveCmd(a),
		replayCmd(a),
		mazeCmd(a),
		strategiesCmd(),
	)
	return rootCmd
}
