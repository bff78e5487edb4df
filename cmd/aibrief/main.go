package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deusflow/aibrief/internal/app"
	"github.com/deusflow/aibrief/internal/config"
	"github.com/deusflow/aibrief/internal/logger"
	"github.com/deusflow/aibrief/internal/metrics"
	"github.com/deusflow/aibrief/internal/news"
	"github.com/deusflow/aibrief/internal/server"
	"github.com/deusflow/aibrief/internal/storage"
)

type flags struct {
	configFile  string
	logLevel    string
	maxChars    int
	maxKeywords int
	workers     int
	policy      string
	title       string
	format      string

	input   string
	sources string
	output  string
	report  string

	addr    string
	origins []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "aibrief",
		Short:         "Summarize AI news articles and render a daily brief",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.IntVar(&f.maxChars, "max-chars", 0, "summary length limit in characters")
	pf.IntVar(&f.maxKeywords, "max-keywords", 0, "keyword tags per article")
	pf.IntVar(&f.workers, "workers", 0, "articles processed in parallel")
	pf.StringVar(&f.policy, "policy", "", "on invalid articles: abort or collect")
	pf.StringVar(&f.title, "title", "", "report title")
	pf.StringVar(&f.format, "format", "", "report format when the extension does not decide: html or markdown")

	root.AddCommand(
		newProcessCmd(f),
		newRenderCmd(f),
		newRunCmd(f),
		newServeCmd(f),
	)
	return root
}

func newProcessCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "process <raw.json|sources.yaml|feed.xml> <processed.json>",
		Short: "Summarize and tag a raw article batch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			processed, err := app.New(cfg, metrics.Global).Process(cmd.Context(), args[0], args[1])
			var batchErr *news.BatchError
			if errors.As(err, &batchErr) {
				logger.Warn("some articles were skipped", "error", batchErr)
			} else if err != nil {
				return err
			}

			fmt.Printf("Processed %d articles -> %s\n", len(processed), args[1])
			return nil
		},
	}
}

func newRenderCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "render <processed.json> <report.html|report.md>",
		Short: "Render a processed batch as an HTML or Markdown report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			if err := app.New(cfg, metrics.Global).Render(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("Report written to %s\n", args[1])
			return nil
		},
	}
}

func newRunCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, process, save and render in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
				go startMonitoringServer(cmd.Context(), cfg)
			}

			return app.New(cfg, metrics.Global).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&f.input, "input", "", "raw JSON batch (overrides INPUT_PATH)")
	cmd.Flags().StringVar(&f.sources, "sources", "", "YAML sources list (overrides SOURCES_CONFIG_PATH)")
	cmd.Flags().StringVar(&f.output, "output", "", "processed batch path (overrides OUTPUT_PATH)")
	cmd.Flags().StringVar(&f.report, "report", "", "report path (overrides REPORT_PATH)")
	return cmd
}

func newServeCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the processed batch, its report and run metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			h := server.NewHandler(storage.NewFileStore(cfg.OutputPath), metrics.Global, cfg.ReportTitle)
			return server.Serve(cmd.Context(), cfg.MonitoringAddr, server.NewRouter(h, f.origins))
		},
	}

	cmd.Flags().StringVar(&f.output, "output", "", "processed batch to serve (overrides OUTPUT_PATH)")
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (overrides MONITORING_ADDR)")
	cmd.Flags().StringSliceVar(&f.origins, "cors-origin", nil, "allowed CORS origins")
	return cmd
}

func startMonitoringServer(ctx context.Context, cfg *config.Config) {
	h := server.NewHandler(storage.NewFileStore(cfg.OutputPath), metrics.Global, cfg.ReportTitle)
	if err := server.Serve(ctx, cfg.MonitoringAddr, server.NewRouter(h, nil)); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

// loadConfig reads the environment configuration, applies command-line
// overrides and initializes logging.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	if f.configFile != "" {
		os.Setenv("CONFIG_FILE", f.configFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("max-chars") {
		cfg.MaxSummaryChars = f.maxChars
	}
	if changed("max-keywords") {
		cfg.MaxKeywords = f.maxKeywords
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("policy") {
		cfg.ErrorPolicy = strings.ToLower(f.policy)
	}
	if changed("title") {
		cfg.ReportTitle = f.title
	}
	if changed("format") {
		cfg.ReportFormat = strings.ToLower(f.format)
	}
	if changed("input") {
		cfg.InputPath = f.input
	}
	if changed("sources") {
		cfg.SourcesConfigPath = f.sources
	}
	if changed("output") {
		cfg.OutputPath = f.output
	}
	if changed("report") {
		cfg.ReportPath = f.report
	}
	if changed("addr") {
		cfg.MonitoringAddr = f.addr
	}

	logger.Init(cfg.LogLevel)
	logger.Debug("configuration loaded", "config", cfg.String())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
