package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/aibrief/internal/config"
	"github.com/deusflow/aibrief/internal/metrics"
	"github.com/deusflow/aibrief/internal/news"
	"github.com/deusflow/aibrief/internal/storage"
)

const rawBatch = `[
  {"source": "TechCrunch", "title": "OpenAI launches new ChatGPT update", "description": "",
   "link": "https://techcrunch.com/2026/10/17/openai-chatgpt/", "pubDate": "Sat, 17 Oct 2026 14:00:00 +0000"},
  {"source": "The Verge", "title": "DeepMind research paper on neural networks",
   "description": "A new study on deep learning architectures",
   "link": "https://www.theverge.com/ai/deepmind", "pubDate": "Fri, 16 Oct 2026 08:15:00 +0000"}
]`

func newTestApp(t *testing.T) (*App, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	a := New(config.Default(), m)
	a.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	return a, m
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	out := filepath.Join(dir, "processed.json")
	writeFile(t, in, rawBatch)

	a, m := newTestApp(t)
	processed, err := a.Process(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(processed) != 2 {
		t.Fatalf("got %d articles, want 2", len(processed))
	}

	saved, err := storage.NewFileStore(out).Load()
	if err != nil {
		t.Fatalf("failed to load saved batch: %v", err)
	}
	if saved[0].Summary != "产品发布：OpenAI发布大语言模型，为用户提供技术突破" {
		t.Errorf("saved summary = %q", saved[0].Summary)
	}
	if saved[1].Keywords[3] != "DeepMind" {
		t.Errorf("saved keywords = %v", saved[1].Keywords)
	}

	stats := m.GetStats()
	if stats["articles_processed"].(int64) != 2 || !stats["is_healthy"].(bool) {
		t.Errorf("unexpected metrics: %v", stats)
	}
}

func TestProcess_AbortLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	out := filepath.Join(dir, "processed.json")
	writeFile(t, in, `[{"source": "X", "title": ""}]`)

	a, _ := newTestApp(t)
	_, err := a.Process(context.Background(), in, out)
	if !errors.Is(err, news.ErrMissingField) {
		t.Fatalf("error = %v, want ErrMissingField", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("aborted run wrote an output file")
	}
}

func TestProcess_CollectSavesSurvivors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	out := filepath.Join(dir, "processed.json")
	writeFile(t, in, `[{"title": "No source"}, {"source": "X", "title": "Quiet week"}]`)

	a, _ := newTestApp(t)
	a.cfg.ErrorPolicy = config.PolicyCollect

	processed, err := a.Process(context.Background(), in, out)
	var batchErr *news.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("error = %v, want *news.BatchError", err)
	}
	if len(processed) != 1 {
		t.Fatalf("got %d articles, want 1", len(processed))
	}

	saved, _ := storage.NewFileStore(out).Load()
	if len(saved) != 1 || saved[0].Title != "Quiet week" {
		t.Errorf("saved batch = %+v", saved)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	processed := filepath.Join(dir, "processed.json")
	writeFile(t, in, rawBatch)

	a, m := newTestApp(t)
	if _, err := a.Process(context.Background(), in, processed); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	htmlOut := filepath.Join(dir, "reports", "brief.html")
	if err := a.Render(context.Background(), processed, htmlOut); err != nil {
		t.Fatalf("Render(html) returned error: %v", err)
	}
	data, _ := os.ReadFile(htmlOut)
	if !strings.Contains(string(data), "<!DOCTYPE html>") || !strings.Contains(string(data), "2026年10月18日 09:30") {
		t.Errorf("unexpected html report:\n%s", data)
	}

	mdOut := filepath.Join(dir, "brief.md")
	if err := a.Render(context.Background(), processed, mdOut); err != nil {
		t.Fatalf("Render(markdown) returned error: %v", err)
	}
	data, _ = os.ReadFile(mdOut)
	if !strings.HasPrefix(string(data), "# 📰 今日AI简报") {
		t.Errorf("unexpected markdown report:\n%s", data)
	}

	if m.GetStats()["reports_rendered"].(int64) != 2 {
		t.Errorf("reports_rendered = %v, want 2", m.GetStats()["reports_rendered"])
	}
}

func TestRender_MissingInput(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.Render(context.Background(), filepath.Join(t.TempDir(), "nope.json"), "out.html")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	writeFile(t, in, rawBatch)

	a, _ := newTestApp(t)
	a.cfg.InputPath = in
	a.cfg.OutputPath = filepath.Join(dir, "processed_news.json")
	a.cfg.ReportPath = filepath.Join(dir, "ai_news_report.html")

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, path := range []string{a.cfg.OutputPath, a.cfg.ReportPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestRun_RequiresInput(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.Run(context.Background()); !errors.Is(err, config.ErrNoInput) {
		t.Errorf("error = %v, want config.ErrNoInput", err)
	}
}

func TestReportFormat(t *testing.T) {
	tests := []struct {
		path, fallback, want string
	}{
		{"out.md", config.FormatHTML, config.FormatMarkdown},
		{"out.MARKDOWN", "", config.FormatMarkdown},
		{"out.html", config.FormatMarkdown, config.FormatHTML},
		{"out.txt", config.FormatMarkdown, config.FormatMarkdown},
		{"out", "", config.FormatHTML},
	}

	for _, tt := range tests {
		if got := ReportFormat(tt.path, tt.fallback); got != tt.want {
			t.Errorf("ReportFormat(%q, %q) = %q, want %q", tt.path, tt.fallback, got, tt.want)
		}
	}
}

func TestLoadInput_Sources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "batch.json"), rawBatch)
	sources := filepath.Join(dir, "sources.yml")
	writeFile(t, sources, "sources:\n  - file: batch.json\n    format: json\n")

	raw, err := LoadInput(sources)
	if err != nil {
		t.Fatalf("LoadInput returned error: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("got %d articles, want 2", len(raw))
	}
}
