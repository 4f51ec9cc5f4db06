package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/browser"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/extract"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/pricing"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/storage"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/validation"
)

// Acquirer is the narrow browser capability the pipeline needs, so every
// stage below acquisition can be tested against captured snapshots.
type Acquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// PriceFetcher fetches the secondary priced-fixture feed.
type PriceFetcher interface {
	Fetch(ctx context.Context, category string) ([]models.PricedFixture, error)
}

// Hooks are optional callbacks fired by the run loop. Either may be nil.
type Hooks struct {
	// OnReport receives every finished cycle report.
	OnReport func(report *models.CycleReport)
	// OnAlert receives operational alerts (e.g. every selector strategy broke).
	OnAlert func(message string)
}

// Pipeline owns one scrape-and-ingest flow. All mutable state (the dedup
// cache, outcome counters) is owned by the coordinating goroutine; ingestion
// workers only report results back over a channel.
type Pipeline struct {
	scraperCfg config.ScraperConfig
	ingestCfg  config.IngestConfig

	acquirer  Acquirer
	engine    *extract.Engine
	validator *validation.Validator
	prices    PriceFetcher // nil when pricing is disabled
	store     storage.RecordStore
	cache     storage.DedupCache
	hooks     Hooks
}

func New(
	scraperCfg config.ScraperConfig,
	ingestCfg config.IngestConfig,
	acquirer Acquirer,
	store storage.RecordStore,
	cache storage.DedupCache,
	prices PriceFetcher,
	hooks Hooks,
) *Pipeline {
	// Guard the gate size, throttle divisor, and call deadline against a
	// zero-value config.
	if ingestCfg.RateLimit < 1 {
		ingestCfg.RateLimit = 1
	}
	if ingestCfg.CallTimeout <= 0 {
		ingestCfg.CallTimeout = 10 * time.Second
	}
	return &Pipeline{
		scraperCfg: scraperCfg,
		ingestCfg:  ingestCfg,
		acquirer:   acquirer,
		engine:     extract.NewEngine(),
		validator:  validation.NewValidator(scraperCfg.TierKeyword, scraperCfg.ExcludeKeyword),
		prices:     prices,
		store:      store,
		cache:      cache,
		hooks:      hooks,
	}
}

// Run executes scrape cycles on the configured interval until the context is
// cancelled. Cancellation is cooperative: it is honored between cycles, never
// in the middle of in-flight store writes.
func (p *Pipeline) Run(ctx context.Context) {
	slog.Info("Pipeline loop started", "interval", p.scraperCfg.Interval)

	ticker := time.NewTicker(p.scraperCfg.Interval)
	defer ticker.Stop()

	for {
		report, err := p.RunCycle(ctx)
		if err != nil {
			slog.Error("Cycle failed", "error", err)
		} else if p.hooks.OnReport != nil {
			p.hooks.OnReport(report)
		}

		select {
		case <-ctx.Done():
			slog.Info("Pipeline loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunCycle performs one acquisition-to-ingestion pass.
//
// Record-local failures never escape this boundary: acquisition timeouts and
// empty extractions yield a zero-record report, rejected records are logged,
// and per-record ingestion failures are counted. Only a total acquisition
// failure (no DOM obtained at all) returns an error.
func (p *Pipeline) RunCycle(ctx context.Context) (*models.CycleReport, error) {
	cycleID := uuid.NewString()
	start := time.Now()
	logger := slog.With("cycle_id", cycleID)

	logger.Info("Cycle started", "url", p.scraperCfg.URL)

	snapshot, err := p.acquirer.Acquire(ctx)
	if err != nil {
		if errors.Is(err, browser.ErrAcquisitionTimeout) {
			logger.Warn("Acquisition timed out, zero records this cycle", "error", err)
			return p.finishReport(cycleID, start, 0, nil), nil
		}
		return nil, fmt.Errorf("acquire snapshot: %w", err)
	}

	records, err := p.engine.Extract(snapshot, p.scraperCfg.TierKeyword)
	if err != nil {
		if errors.Is(err, extract.ErrExtractionEmpty) {
			logger.Error("No selector strategy matched any row", "error", err)
			p.alert(fmt.Sprintf("extraction produced zero rows for %s: markup revision or outage", p.scraperCfg.URL))
			return p.finishReport(cycleID, start, 0, nil), nil
		}
		return nil, fmt.Errorf("extract records: %w", err)
	}
	extracted := len(records)

	accepted := records[:0]
	for i := range records {
		ok, reason := p.validator.Validate(&records[i])
		if !ok {
			logger.Info("Record rejected", "record_id", records[i].ID, "reason", reason)
			continue
		}
		accepted = append(accepted, records[i])
	}

	p.attachPrices(ctx, accepted, logger)

	outcomes := p.ingest(ctx, accepted, logger)
	report := p.finishReport(cycleID, start, extracted, outcomes)

	logger.Info("Cycle finished",
		"extracted", report.Extracted,
		"created", report.Created,
		"duplicate", report.Duplicate,
		"errored", report.Errored,
		"duration_sec", report.DurationSeconds)

	return report, nil
}

func (p *Pipeline) attachPrices(ctx context.Context, records []models.MatchRecord, logger *slog.Logger) {
	if p.prices == nil || len(records) == 0 {
		return
	}

	fixtures, err := p.prices.Fetch(ctx, p.scraperCfg.Category)
	if err != nil {
		logger.Warn("Priced fixture feed unavailable, batch stays unpriced", "error", err)
		return
	}

	pricing.AttachPrices(records, fixtures)
}

// Ingest runs the deduplication and rate-limited submission stage on its own.
// RunCycle uses it internally; it is exported because the ingestion contract
// (idempotency, bounded concurrency, partial-failure tolerance) is meaningful
// without a browser in front of it.
func (p *Pipeline) Ingest(ctx context.Context, records []models.MatchRecord) []models.IngestionOutcome {
	return p.ingest(ctx, records, slog.Default())
}

// ingest pushes accepted records into the external store with bounded
// concurrency. The gate is sized to the store's hard ops/sec ceiling; each
// worker holds its slot for batchDelay/rateLimit after the call so the rate
// limit is amortized across workers instead of serializing every call.
func (p *Pipeline) ingest(ctx context.Context, records []models.MatchRecord, logger *slog.Logger) []models.IngestionOutcome {
	outcomes := make([]models.IngestionOutcome, 0, len(records))

	var toSubmit []models.MatchRecord
	for _, rec := range records {
		seen, err := p.cache.Seen(ctx, rec.ID)
		if err != nil {
			logger.Warn("Dedup cache check failed, submitting record anyway", "record_id", rec.ID, "error", err)
		}
		if seen {
			outcomes = append(outcomes, models.IngestionOutcome{RecordID: rec.ID, Status: models.OutcomeDuplicate})
			continue
		}
		toSubmit = append(toSubmit, rec)
	}

	if len(toSubmit) == 0 {
		return outcomes
	}

	throttle := p.ingestCfg.BatchDelay / time.Duration(p.ingestCfg.RateLimit)
	gate := make(chan struct{}, p.ingestCfg.RateLimit)
	results := make(chan models.IngestionOutcome, len(toSubmit))

	var wg sync.WaitGroup
	for _, rec := range toSubmit {
		rec := rec
		gate <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- p.createOne(ctx, &rec)
			// Hold the slot through the throttle window so at most
			// rateLimit calls start per batchDelay.
			time.Sleep(throttle)
			<-gate
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Aggregation happens here, in the coordinating goroutine. Workers never
	// touch the cache or counters directly.
	for outcome := range results {
		switch outcome.Status {
		case models.OutcomeCreated, models.OutcomeDuplicate:
			if err := p.cache.Add(ctx, outcome.RecordID); err != nil {
				logger.Warn("Failed to mark record in dedup cache", "record_id", outcome.RecordID, "error", err)
			}
		case models.OutcomeError:
			logger.Warn("Record ingestion failed", "record_id", outcome.RecordID, "error", outcome.Err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// createOne issues a single store write. The call context is detached from
// cycle cancellation: an in-flight write always runs to completion (or its
// own timeout) so the external store is never left in an unknown state.
func (p *Pipeline) createOne(ctx context.Context, record *models.MatchRecord) models.IngestionOutcome {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.ingestCfg.CallTimeout)
	defer cancel()

	externalID, err := p.store.Create(callCtx, record)
	switch {
	case err == nil:
		return models.IngestionOutcome{RecordID: record.ID, Status: models.OutcomeCreated, ExternalID: externalID}
	case errors.Is(err, storage.ErrDuplicateRecord):
		return models.IngestionOutcome{RecordID: record.ID, Status: models.OutcomeDuplicate}
	default:
		return models.IngestionOutcome{RecordID: record.ID, Status: models.OutcomeError, Err: err}
	}
}

// WarmCache preloads the idempotency cache from the external store so a fresh
// process does not re-create records ingested by a previous run.
func (p *Pipeline) WarmCache(ctx context.Context, limit int) error {
	existing, err := p.store.Query(ctx, storage.QueryFilter{Limit: limit})
	if err != nil {
		return fmt.Errorf("query existing records: %w", err)
	}

	for _, rec := range existing {
		if err := p.cache.Add(ctx, rec.RecordID); err != nil {
			return fmt.Errorf("warm dedup cache: %w", err)
		}
	}

	slog.Info("Dedup cache warmed from store", "records", len(existing))
	return nil
}

func (p *Pipeline) alert(message string) {
	if p.hooks.OnAlert != nil {
		p.hooks.OnAlert(message)
	}
}

func (p *Pipeline) finishReport(cycleID string, start time.Time, extracted int, outcomes []models.IngestionOutcome) *models.CycleReport {
	report := &models.CycleReport{
		CycleID:    cycleID,
		Extracted:  extracted,
		FinishedAt: time.Now().UTC(),
	}

	for _, outcome := range outcomes {
		switch outcome.Status {
		case models.OutcomeCreated:
			report.Created++
			report.ExternalIDs = append(report.ExternalIDs, outcome.ExternalID)
		case models.OutcomeDuplicate:
			report.Duplicate++
		case models.OutcomeError:
			report.Errored++
		}
	}

	report.DurationSeconds = time.Since(start).Seconds()
	return report
}
