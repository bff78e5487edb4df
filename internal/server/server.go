// Package server exposes the processed batch and run metrics over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/deusflow/aibrief/internal/logger"
	"github.com/deusflow/aibrief/internal/metrics"
	"github.com/deusflow/aibrief/internal/news"
	"github.com/deusflow/aibrief/internal/report"
)

// BatchStore supplies the processed batch served by the handlers.
type BatchStore interface {
	Load() ([]news.ProcessedArticle, error)
}

type Handler struct {
	store   BatchStore
	metrics *metrics.Metrics
	title   string
	now     func() time.Time
}

func NewHandler(store BatchStore, m *metrics.Metrics, title string) *Handler {
	if m == nil {
		m = metrics.Global
	}
	return &Handler{store: store, metrics: m, title: title, now: time.Now}
}

// NewRouter wires the handler routes. allowedOrigins enables CORS when non-empty.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	r.GET("/health", h.GetHealth)
	r.GET("/metrics", h.GetMetrics)
	r.GET("/articles", h.GetArticles)
	r.GET("/report", h.GetReport)
	return r
}

func (h *Handler) GetHealth(c *gin.Context) {
	stats := h.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if !stats["is_healthy"].(bool) {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetStats())
}

// GetArticles returns the processed batch, optionally filtered by ?source= and ?keyword=.
func (h *Handler) GetArticles(c *gin.Context) {
	articles, err := h.store.Load()
	if err != nil {
		logger.Error("error loading batch", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	source := strings.TrimSpace(c.Query("source"))
	keyword := strings.TrimSpace(c.Query("keyword"))

	filtered := make([]news.ProcessedArticle, 0, len(articles))
	for _, a := range articles {
		if source != "" && !strings.EqualFold(a.Source, source) {
			continue
		}
		if keyword != "" && !hasKeyword(a.Keywords, keyword) {
			continue
		}
		filtered = append(filtered, a)
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": filtered,
		"total":    len(filtered),
	})
}

// GetReport renders the processed batch as HTML, or Markdown with ?format=markdown.
func (h *Handler) GetReport(c *gin.Context) {
	articles, err := h.store.Load()
	if err != nil {
		logger.Error("error loading batch", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	page := report.Page{Title: h.title, GeneratedAt: h.now(), Articles: articles}

	var buf bytes.Buffer
	contentType := "text/html; charset=utf-8"
	switch c.DefaultQuery("format", "html") {
	case "html":
		err = report.RenderHTML(&buf, page)
	case "markdown", "md":
		contentType = "text/markdown; charset=utf-8"
		err = report.RenderMarkdown(&buf, page)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown format"})
		return
	}
	if err != nil {
		logger.Error("error rendering report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Render error"})
		return
	}

	h.metrics.IncrementReportsRendered()
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func hasKeyword(keywords []string, want string) bool {
	for _, k := range keywords {
		if strings.EqualFold(k, want) {
			return true
		}
	}
	return false
}

// Serve runs engine on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
