package news

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/aibrief/internal/cache"
	"github.com/deusflow/aibrief/internal/logger"
	"github.com/deusflow/aibrief/internal/metrics"
)

// ErrorPolicy decides what happens to the batch when an article is invalid.
type ErrorPolicy string

const (
	// PolicyAbort stops at the first invalid article and returns no output.
	PolicyAbort ErrorPolicy = "abort"
	// PolicyCollect skips invalid articles and reports them in a *BatchError
	// next to the articles that did succeed.
	PolicyCollect ErrorPolicy = "collect"
)

type Options struct {
	MaxChars    int
	MaxKeywords int
	Workers     int
	Policy      ErrorPolicy

	Metrics *metrics.Metrics
	Now     func() time.Time
}

type derived struct {
	summary  string
	keywords []string
}

// Processor turns raw articles into processed ones. It is safe for concurrent use.
type Processor struct {
	opts    Options
	memo    *cache.Cache[derived]
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewProcessor(opts Options) *Processor {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = DefaultMaxKeywords
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}

	p := &Processor{
		opts:    opts,
		memo:    cache.New[derived](),
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if p.metrics == nil {
		p.metrics = metrics.Global
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// ProcessArticles runs a sequential, abort-on-first-error pass over raw.
// It records into its own metrics and leaves metrics.Global untouched.
func ProcessArticles(raw []RawArticle, maxChars, maxKeywords int) ([]ProcessedArticle, error) {
	p := NewProcessor(Options{MaxChars: maxChars, MaxKeywords: maxKeywords, Metrics: metrics.New()})
	return p.Process(context.Background(), raw)
}

// Process returns one ProcessedArticle per raw article in input order.
// The input slice is not modified.
func (p *Processor) Process(ctx context.Context, raw []RawArticle) ([]ProcessedArticle, error) {
	startTime := time.Now()
	defer func() {
		p.metrics.RecordBatch(len(raw), time.Since(startTime))
	}()

	results := make([]ProcessedArticle, len(raw))
	errs := make([]error, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i := range raw {
		if gctx.Err() != nil {
			break
		}
		// Launched articles always run to completion so the lowest failing
		// index is recorded even when a later one fails first.
		g.Go(func() error {
			logger.Debug("processing article", "index", i+1, "total", len(raw), "title", Truncate(raw[i].Title, 50))

			article, err := p.processOne(i, raw[i])
			if err != nil {
				errs[i] = err
				if p.opts.Policy == PolicyAbort {
					return err
				}
				return nil
			}
			results[i] = article
			return nil
		})
	}
	waitErr := g.Wait()

	var failed []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		// The lowest failing index wins regardless of scheduling.
		if p.opts.Policy == PolicyAbort {
			p.metrics.SetError(err.Error())
			return nil, err
		}
		failed = append(failed, err)
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if len(failed) == 0 {
		return results, nil
	}

	out := make([]ProcessedArticle, 0, len(raw)-len(failed))
	for i := range results {
		if errs[i] == nil {
			out = append(out, results[i])
		}
	}
	batchErr := &BatchError{Total: len(raw), Errors: failed}
	p.metrics.SetError(batchErr.Error())
	logger.Warn("articles skipped", "failed", len(failed), "total", len(raw))
	return out, batchErr
}

func (p *Processor) processOne(index int, a RawArticle) (ProcessedArticle, error) {
	if strings.TrimSpace(a.Title) == "" {
		p.metrics.IncrementMissingFieldErrors()
		return ProcessedArticle{}, &MissingFieldError{Index: index, Field: "title"}
	}
	if strings.TrimSpace(a.Source) == "" {
		p.metrics.IncrementMissingFieldErrors()
		return ProcessedArticle{}, &MissingFieldError{Index: index, Field: "source"}
	}

	description := a.ResolveDescription()
	key := cache.GenerateKey(a.Title, description, p.opts.MaxChars, p.opts.MaxKeywords)

	d, hit := p.memo.GetOrCompute(key, func() derived {
		return derived{
			summary:  SynthesizeSummary(a.Title, description, p.opts.MaxChars),
			keywords: ExtractKeywords(a.Title, description, p.opts.MaxKeywords),
		}
	})
	if hit {
		p.metrics.IncrementCacheHits()
	}

	keywords := make([]string, len(d.keywords))
	copy(keywords, d.keywords)

	p.metrics.IncrementArticlesProcessed()
	p.metrics.AddKeywords(len(keywords))

	return ProcessedArticle{
		Source:      a.Source,
		Title:       a.Title,
		Link:        a.Link,
		PubDate:     a.PubDate,
		Summary:     d.summary,
		Keywords:    keywords,
		ProcessedAt: p.now(),
	}, nil
}
