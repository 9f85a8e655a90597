package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"metal-ratio-lab/internal/datecode"
	"metal-ratio-lab/internal/domain"
	"metal-ratio-lab/internal/observability"
	"metal-ratio-lab/internal/storage"
)

// Runner orchestrates one ingestion: fetch, parse, best-effort top-up,
// optional persistence. The produced series is immutable; every run
// replaces the previous one wholesale.
type Runner struct {
	source Source
	quotes QuoteSource         // nil disables top-up
	store  storage.SeriesStore // nil disables persistence
	logger *log.Logger
	now    func() time.Time
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source      Source
	QuoteSource QuoteSource
	Store       storage.SeriesStore
	Logger      *log.Logger
}

// NewRunner creates an ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[ingestion] ", log.LstdFlags)
	}
	return &Runner{
		source: opts.Source,
		quotes: opts.QuoteSource,
		store:  opts.Store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock sets a custom clock, used by top-up to decide "today".
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run executes one ingestion. Failure of the primary source or an
// all-dropped parse is terminal; top-up failure is logged and the
// series already parsed stands as final.
func (r *Runner) Run(ctx context.Context) (domain.Series, error) {
	raw, err := r.source.Fetch(ctx)
	if err != nil {
		observability.RecordIngestRun("error")
		return nil, fmt.Errorf("ingest from %s: %w", r.source.Name(), err)
	}

	series, err := ParseSeries(raw)
	if err != nil {
		observability.RecordIngestRun("error")
		return nil, fmt.Errorf("parse series from %s: %w", r.source.Name(), err)
	}

	series = r.topUp(ctx, series)

	if r.store != nil {
		if err := r.store.Replace(ctx, series); err != nil {
			observability.RecordIngestRun("error")
			observability.RecordDBError("series")
			return nil, fmt.Errorf("persist series: %w", err)
		}
	}

	observability.RecordIngestRun("ok")
	observability.DefaultMetrics.LastIngestTime.Set(float64(r.now().Unix()))
	r.logger.Printf("ingested %d records, %s .. %s",
		len(series), datecode.ToKey(series.First().Date), datecode.ToKey(series.Last().Date))
	return series, nil
}

// topUp asks the quote source for a same-day record. Every failure
// here is swallowed: the live source is never a hard dependency.
func (r *Runner) topUp(ctx context.Context, series domain.Series) domain.Series {
	if r.quotes == nil {
		return series
	}

	last := series.Last()
	today := datecode.Truncate(r.now())
	if last == nil || !last.Date.Before(today) {
		return series
	}

	quote, err := r.quotes.Latest(ctx)
	if err != nil {
		observability.RecordTopUp(false, true)
		r.logger.Printf("top-up quote from %s failed, keeping file series: %v", r.quotes.Name(), err)
		return series
	}

	out, applied := TopUp(series, quote, today)
	observability.RecordTopUp(applied, false)
	if applied {
		r.logger.Printf("top-up appended record for %s", datecode.ToKey(today))
	}
	return out
}
