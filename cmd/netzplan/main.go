package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/config"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/graph"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/netplan"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/reporter"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/source"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/ui"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/viz"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagJSON     bool
	flagLocale   string
	flagNoColor  bool
	flagSummary  bool
	flagFormat   string
	flagOutput   string
	flagRankDir  string
	flagDetailed bool

	cfg config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	logger := newLogger(os.Stderr, log.InfoLevel)

	err := rootCmd().ExecuteContext(withLogger(ctx, logger))
	stop()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "netzplan",
		Short: "Critical path analysis for activity network plans",
		Long: `Netzplan reads a network plan of activities with durations and precedence
relations, validates it, and computes earliest and latest start and finish
times, total and free float, the project duration and every critical path.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintLogo(cmd.ErrOrStderr())
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.DefaultPath+" if present)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output (schedule, check, paths)")
	root.PersistentFlags().StringVar(&flagLocale, "locale", "", "Report language (en, de)")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	root.AddCommand(scheduleCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(pathsCmd())
	root.AddCommand(vizCmd())

	return root
}

// setup loads the config file, applies flag overrides and adjusts the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagLocale != "" {
		cfg.Report.Locale = flagLocale
	}
	if flagNoColor {
		cfg.Report.Color = false
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())
	logger.SetLevel(level)
	ui.SetEnabled(cfg.Report.Color)

	logger.Debug("configuration loaded", "locale", cfg.Report.Locale, "color", cfg.Report.Color, "level", cfg.Log.Level)
	return nil
}

// loadPlan is shared by all commands that take an input file.
func loadPlan(ctx context.Context, path string) (*source.Project, *netplan.Plan, error) {
	logger := loggerFromContext(ctx)

	project, err := source.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("input parsed", "path", path, "title", project.Title, "activities", len(project.Activities))

	plan, err := netplan.New(project.Activities, netplan.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("network plan %s: %w", path, err)
	}
	return project, plan, nil
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <input> [output]",
		Short: "Compute the schedule and write the report",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, plan, err := loadPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rpt := reporter.New(plan, project.Title, cfg.Report.Locale)

			if len(args) == 2 {
				if err := writeReportFile(args[1], rpt); err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Info("report written", "path", args[1])
			} else if err := writeReport(cmd.OutOrStdout(), rpt); err != nil {
				return err
			}
			if flagSummary {
				rpt.PrintSummary(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagSummary, "summary", false, "Print a colored summary to stdout")

	return cmd
}

func writeReport(w io.Writer, rpt *reporter.Reporter) error {
	if !flagJSON {
		return rpt.WriteText(w)
	}
	data, err := rpt.JSON()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// writeReportFile writes the report to path. Close errors are returned.
func writeReportFile(path string, rpt *reporter.Reporter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := writeReport(f, rpt); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", path, err)
	}
	return nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input>",
		Short: "Validate the network plan without writing a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, plan, err := loadPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			starts, ends := len(plan.StartActivities()), len(plan.EndActivities())
			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), map[string]any{
					"valid":      true,
					"activities": plan.Len(),
					"start":      starts,
					"end":        ends,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d activities, %d start, %d end\n",
				ui.Green("ok"), plan.Len(), starts, ends)
			return nil
		},
	}
}

func pathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <input>",
		Short: "Print every critical path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, plan, err := loadPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			paths := plan.CriticalPaths()
			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), paths)
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), graph.FormatChain(path))
			}
			return nil
		},
	}
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz <input>",
		Short: "Draw the network plan as DOT, SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagJSON {
				return fmt.Errorf("--json is not supported by viz; use --format")
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			_, plan, err := loadPlan(ctx, args[0])
			if err != nil {
				return err
			}

			opts := viz.Options{RankDir: cfg.Viz.RankDir, Detailed: cfg.Viz.Detailed}
			if cmd.Flags().Changed("rankdir") {
				opts.RankDir = strings.ToUpper(flagRankDir)
				if !slices.Contains(viz.RankDirs, opts.RankDir) {
					return fmt.Errorf("unknown rankdir %q (want one of %s)", flagRankDir, strings.Join(viz.RankDirs, ", "))
				}
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = flagDetailed
			}

			dot := viz.ToDOT(plan, opts)

			var data []byte
			switch flagFormat {
			case "dot":
				data = []byte(dot)
			case "svg":
				logger.Debug("rendering", "format", flagFormat)
				data, err = viz.RenderSVG(ctx, dot)
			case "png":
				logger.Debug("rendering", "format", flagFormat)
				data, err = viz.RenderPNG(ctx, dot)
			default:
				return fmt.Errorf("unknown format %q (want dot, svg or png)", flagFormat)
			}
			if err != nil {
				return err
			}

			if flagOutput == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(flagOutput, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", flagOutput, err)
			}
			logger.Info("diagram written", "path", flagOutput, "format", flagFormat)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "dot", "Output format (dot, svg, png)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&flagRankDir, "rankdir", "LR", "Layout direction (LR, TB, RL, BT)")
	cmd.Flags().BoolVar(&flagDetailed, "detailed", true, "Include the schedule in node labels")

	return cmd
}

func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
