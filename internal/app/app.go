// Package app wires loading, processing, persistence and rendering into
// the pipeline runs exposed by the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/aibrief/internal/config"
	"github.com/deusflow/aibrief/internal/feed"
	"github.com/deusflow/aibrief/internal/logger"
	"github.com/deusflow/aibrief/internal/metrics"
	"github.com/deusflow/aibrief/internal/news"
	"github.com/deusflow/aibrief/internal/report"
	"github.com/deusflow/aibrief/internal/storage"
)

type App struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(cfg *config.Config, m *metrics.Metrics) *App {
	if m == nil {
		m = metrics.Global
	}
	return &App{cfg: cfg, metrics: m, now: time.Now}
}

// Process loads the raw batch at in, processes it and saves the result to out.
// Under the collect policy the surviving articles are saved and the returned
// error is a *news.BatchError.
func (a *App) Process(ctx context.Context, in, out string) ([]news.ProcessedArticle, error) {
	log := logger.With("run_id", uuid.NewString(), "stage", "process")
	log.Info("processing batch", "input", in, "output", out)

	raw, err := LoadInput(in)
	if err != nil {
		a.metrics.SetError(err.Error())
		return nil, err
	}
	log.Info("loaded raw articles", "count", len(raw))

	processor := news.NewProcessor(news.Options{
		MaxChars:    a.cfg.MaxSummaryChars,
		MaxKeywords: a.cfg.MaxKeywords,
		Workers:     a.cfg.Workers,
		Policy:      news.ErrorPolicy(a.cfg.ErrorPolicy),
		Metrics:     a.metrics,
		Now:         a.now,
	})

	processed, procErr := processor.Process(ctx, raw)
	var batchErr *news.BatchError
	if procErr != nil && !errors.As(procErr, &batchErr) {
		log.Error("processing failed", "error", procErr)
		return nil, fmt.Errorf("processing %s: %w", in, procErr)
	}

	if err := storage.NewFileStore(out).Save(processed); err != nil {
		a.metrics.SetError(err.Error())
		return nil, err
	}

	if batchErr != nil {
		log.Warn("saved partial batch", "saved", len(processed), "failed", len(batchErr.Errors))
		return processed, batchErr
	}

	a.metrics.SetLastRun()
	log.Info("saved processed batch", "count", len(processed), "path", out)
	return processed, nil
}

// Render reads the processed batch at in and writes a report to out. The
// format follows the extension of out, falling back to the configured one.
func (a *App) Render(ctx context.Context, in, out string) error {
	log := logger.With("run_id", uuid.NewString(), "stage", "render")

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(in); err != nil {
		return fmt.Errorf("processed batch: %w", err)
	}

	articles, err := storage.NewFileStore(in).Load()
	if err != nil {
		a.metrics.SetError(err.Error())
		return err
	}

	format := ReportFormat(out, a.cfg.ReportFormat)
	log.Info("rendering report", "input", in, "output", out, "format", format, "articles", len(articles))

	if err := a.writeReport(out, format, articles); err != nil {
		a.metrics.SetError(err.Error())
		return err
	}

	a.metrics.IncrementReportsRendered()
	log.Info("report written", "path", out)
	return nil
}

// Run executes the full pipeline from the configured input to the configured report.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.ValidateInput(); err != nil {
		return err
	}

	in := a.cfg.InputPath
	if a.cfg.SourcesConfigPath != "" {
		in = a.cfg.SourcesConfigPath
	}

	logger.Info("starting pipeline", "config", a.cfg.String())

	if _, err := a.Process(ctx, in, a.cfg.OutputPath); err != nil {
		var batchErr *news.BatchError
		if !errors.As(err, &batchErr) {
			return err
		}
	}
	return a.Render(ctx, a.cfg.OutputPath, a.cfg.ReportPath)
}

func (a *App) writeReport(path, format string, articles []news.ProcessedArticle) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	page := report.Page{Title: a.cfg.ReportTitle, GeneratedAt: a.now(), Articles: articles}
	if format == config.FormatMarkdown {
		err = report.RenderMarkdown(f, page)
	} else {
		err = report.RenderHTML(f, page)
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write report: %w", closeErr)
	}
	return err
}

// LoadInput picks a loader by file extension: YAML source lists, RSS/Atom
// documents or a JSON batch.
func LoadInput(path string) ([]news.RawArticle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return feed.LoadSources(path)
	case ".xml", ".rss", ".atom":
		return feed.LoadFeedFile(path, "")
	default:
		return feed.LoadArticles(path)
	}
}

// ReportFormat maps an output path to a report format.
func ReportFormat(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return config.FormatMarkdown
	case ".html", ".htm":
		return config.FormatHTML
	}
	if fallback == "" {
		return config.FormatHTML
	}
	return fallback
}
