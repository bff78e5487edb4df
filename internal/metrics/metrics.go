// Package metrics keeps process-wide pipeline counters for the monitoring endpoints.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Per article
	ArticlesProcessed  int64
	MissingFieldErrors int64
	CacheHits          int64
	KeywordsExtracted  int64

	// Per batch
	BatchesProcessed     int64
	LastBatchSize        int
	LastBatchDuration    time.Duration
	TotalBatchDuration   time.Duration
	AverageBatchDuration time.Duration

	ReportsRendered int64

	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) IncrementArticlesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesProcessed++
}

func (m *Metrics) IncrementMissingFieldErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MissingFieldErrors++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) AddKeywords(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeywordsExtracted += int64(n)
}

func (m *Metrics) IncrementReportsRendered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportsRendered++
}

// RecordBatch records one Process call over size raw articles.
func (m *Metrics) RecordBatch(size int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BatchesProcessed++
	m.LastBatchSize = size
	m.LastBatchDuration = duration
	m.TotalBatchDuration += duration
	m.AverageBatchDuration = m.TotalBatchDuration / time.Duration(m.BatchesProcessed)
}

// SetLastRun marks a successful run and clears the unhealthy state.
func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cacheHitRate float64
	if m.ArticlesProcessed > 0 {
		cacheHitRate = float64(m.CacheHits) / float64(m.ArticlesProcessed)
	}

	return map[string]interface{}{
		"articles_processed":        m.ArticlesProcessed,
		"missing_field_errors":      m.MissingFieldErrors,
		"cache_hits":                m.CacheHits,
		"cache_hit_rate":            cacheHitRate,
		"keywords_extracted":        m.KeywordsExtracted,
		"batches_processed":         m.BatchesProcessed,
		"last_batch_size":           m.LastBatchSize,
		"last_batch_duration_ms":    m.LastBatchDuration.Milliseconds(),
		"average_batch_duration_ms": m.AverageBatchDuration.Milliseconds(),
		"reports_rendered":          m.ReportsRendered,
		"last_run_time":             m.LastRunTime.Format(time.RFC3339),
		"last_error_time":           m.LastErrorTime.Format(time.RFC3339),
		"last_error":                m.LastError,
		"is_healthy":                m.IsHealthy,
	}
}
