// Command pinroute routes a maze-routing problem file and reports the
// outcome. Optional surfaces: an SSE endpoint streaming live grid
// snapshots and a terminal viewer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pinroute/internal/ctxlog"
	"github.com/katalvlaran/pinroute/problem"
	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/router"
	"github.com/katalvlaran/pinroute/serve"
	"github.com/katalvlaran/pinroute/spatial"
	"github.com/katalvlaran/pinroute/view"
)

// cliFlags collects command-line overrides applied on top of the
// settings file (or the defaults).
type cliFlags struct {
	settingsPath string
	algName      string
	noRip        bool
	noLowerCost  bool
	attempts     int
	serveAddr    string
	showView     bool
	logLevel     string
}

func main() {
	flags := &cliFlags{}
	rootCmd := &cobra.Command{
		Use:   "pinroute <problem-file>",
		Short: "Maze-route pin sets on a 2-D grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], flags)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&flags.settingsPath, "settings", "", "yaml settings file")
	rootCmd.Flags().StringVar(&flags.algName, "alg", "", "routing algorithm: leemoore or astar")
	rootCmd.Flags().BoolVar(&flags.noRip, "no-rip", false, "disable rip-and-reroute")
	rootCmd.Flags().BoolVar(&flags.noLowerCost, "no-lower-cost", false, "disable same-set trunk reuse discount")
	rootCmd.Flags().IntVar(&flags.attempts, "attempts", 0, "override max sweep count")
	rootCmd.Flags().StringVar(&flags.serveAddr, "serve", "", "address for the SSE snapshot stream (e.g. :8080)")
	rootCmd.Flags().BoolVar(&flags.showView, "view", false, "render live progress in the terminal")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run wires the problem, router, observer, and optional surfaces.
func run(problemPath string, flags *cliFlags) error {
	logger := newLogger(flags.logLevel)
	slog.SetDefault(logger)

	settings, err := loadSettings(flags)
	if err != nil {
		return err
	}

	p, err := problem.ReadFile(problemPath)
	if err != nil {
		return err
	}
	rt, err := router.New(p, settings)
	if err != nil {
		return err
	}

	col := record.NewSolveCollection(problemPath)
	records := record.New(settings.LogVerbosity, settings.UIVerbosity, col)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(ctx, logger))
	defer cancel()

	if flags.serveAddr != "" {
		srv := serve.NewServer(ctx, records)
		go func() {
			logger.Info("serving snapshot stream", "addr", flags.serveAddr)
			if err := http.ListenAndServe(flags.serveAddr, srv); err != nil {
				logger.Error("snapshot stream stopped", "err", err)
			}
		}()
	}

	type result struct {
		ok   bool
		grid *spatial.Grid
	}
	done := make(chan result, 1)
	go func() {
		ok, grid, err := rt.Route(ctx, records)
		if err != nil {
			logger.Error("routing failed to start", "err", err)
		}
		done <- result{ok: ok, grid: grid}
	}()

	if flags.showView {
		if err := view.Run(ctx, records, cancel); err != nil {
			logger.Warn("terminal view unavailable", "err", err)
		}
	}

	res := <-done
	if res.grid == nil {
		return fmt.Errorf("pinroute: routing did not produce a grid")
	}
	printSummary(res.ok, res.grid, len(col.SolveSteps))
	return nil
}

func printSummary(ok bool, grid *spatial.Grid, sweeps int) {
	status := "routed"
	if !ok {
		status = "incomplete"
	}
	fmt.Printf("%s: %d segments, %d routed cells, %d sweeps\n",
		status, grid.CountSegments(), grid.CountCells(spatial.RoutedCell), sweeps)
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

// loadSettings layers CLI flags over the settings file or defaults.
func loadSettings(flags *cliFlags) (router.Settings, error) {
	settings := router.DefaultSettings()
	if flags.settingsPath != "" {
		loaded, err := router.LoadSettings(flags.settingsPath)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}
	if flags.algName != "" {
		settings.Alg = router.Alg(flags.algName)
	}
	if flags.noRip {
		settings.RipAndReroute = false
	}
	if flags.noLowerCost {
		settings.RoutedCellsLowerCost = false
	}
	if flags.attempts > 0 {
		settings.MaxRerunCount = flags.attempts
	}
	return settings, settings.Validate()
}
