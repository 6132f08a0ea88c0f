package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/ga4lens/ga4lens/dataset"
	"github.com/ga4lens/ga4lens/engine"
	"github.com/ga4lens/ga4lens/render"
	"github.com/ga4lens/ga4lens/web"
)

var version = "dev" // set by LDFLAGS

func main() {
	os.Exit(run())
}

func run() int {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "ga4lens",
		Short:   "Analytics dashboard for GA4 web-analytics exports.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		newServeCmd(&verbose),
		newReportCmd(&verbose),
	)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// ============================================================================
// SERVE — run the dashboard server
// ============================================================================

func newServeCmd(verbose *bool) *cobra.Command {
	var (
		configPath string
		listenAddr string
		dataPath   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the single-page dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)

			cfg := web.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = web.LoadConfig(configPath)
				if err != nil {
					return err
				}
			}
			// Flags override file values.
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if dataPath != "" {
				cfg.DataPath = dataPath
			}

			srv, err := web.New(log, cfg)
			if err != nil {
				return err
			}

			listener, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx, listener)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "fallback CSV export (overrides config)")

	return cmd
}

// ============================================================================
// REPORT — one-shot filtered dashboard to stdout
// ============================================================================

func newReportCmd(verbose *bool) *cobra.Command {
	var (
		dataPath  string
		continent string
		country   string
		device    string
		format    string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a filtered dashboard as tables or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)

			ds, err := dataset.LoadFile(dataPath)
			if err != nil {
				return err
			}
			log.Debug("dataset loaded", "path", dataPath, "records", ds.Len())

			sel := engine.Selection{Continent: continent, Country: country, Device: device}
			dash, err := engine.BuildDashboard(ds, sel)
			if errors.Is(err, engine.ErrEmptyResult) {
				fmt.Fprintln(cmd.OutOrStdout(), "No data for the current filters.")
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(dash)
			case "table":
				render.WriteDashboard(out, dash)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "CSV export to analyze (required)")
	cmd.Flags().StringVar(&continent, "continent", engine.All, "continent filter")
	cmd.Flags().StringVar(&country, "country", engine.All, "country filter")
	cmd.Flags().StringVar(&device, "device", engine.All, "device category filter")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write output to file instead of stdout")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}
