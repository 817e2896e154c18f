package sources

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ReDian-Labs/redian-harvester/internal/domain"
	"github.com/ReDian-Labs/redian-harvester/internal/logger"
)

const maxSourceWorkers = 10

// Registry runs a configured source set: it validates key uniqueness,
// dispatches each enabled source to the fetcher for its type, and aggregates
// items and failures. A failure in one source never aborts the others, and
// the aggregate keeps items in source declaration order.
type Registry struct {
	fetchers FetcherRegistry
	limiter  *Limiter
	log      logger.Logger
	workers  int
}

// NewRegistry creates a Registry. Nil collaborators fall back to defaults;
// a nil limiter imposes no budgets, pass NewLimiter over the source configs
// to enforce them.
func NewRegistry(fetchers FetcherRegistry, limiter *Limiter, log logger.Logger) *Registry {
	if fetchers == nil {
		fetchers = DefaultFetcherRegistry(nil)
	}
	if limiter == nil {
		limiter = NewLimiter(nil)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Registry{
		fetchers: fetchers,
		limiter:  limiter,
		log:      log,
		workers:  maxSourceWorkers,
	}
}

// SetWorkers overrides the fetch concurrency. Values below 1 are ignored.
func (r *Registry) SetWorkers(n int) {
	if n >= 1 {
		r.workers = n
	}
}

// Run fetches every enabled source and returns all extracted items plus the
// per-source failure reports.
func (r *Registry) Run(ctx context.Context, configs []SourceConfig) ([]domain.NewsItem, []domain.FailureReport) {
	runID := uuid.NewString()

	runnable, failures := r.dedupeKeys(configs)

	r.log.InfoObj("source run started", "run_start", map[string]any{
		"run_id":  runID,
		"sources": len(runnable),
	})

	results := make([][]domain.NewsItem, len(runnable))
	runFailures := make([]*domain.FailureReport, len(runnable))

	workerCount := min(len(runnable), r.workers)

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for workerID := 0; workerID < workerCount; workerID++ {
		wg.Add(1)
		go r.sourceWorker(ctx, runID, runnable, jobCh, results, runFailures, &wg, workerID)
	}

	for idx := range runnable {
		if ctx.Err() != nil {
			break
		}
		jobCh <- idx
	}
	close(jobCh)

	wg.Wait()

	var items []domain.NewsItem
	for idx := range runnable {
		items = append(items, results[idx]...)
		if f := runFailures[idx]; f != nil {
			failures = append(failures, *f)
		}
	}

	r.log.InfoObj("source run finished", "run_finish", map[string]any{
		"run_id":   runID,
		"items":    len(items),
		"failures": len(failures),
	})

	return items, failures
}

// sourceWorker processes source indices from the job channel. Each slot of
// results and runFailures is written by exactly one worker.
func (r *Registry) sourceWorker(
	ctx context.Context,
	runID string,
	configs []SourceConfig,
	jobCh <-chan int,
	results [][]domain.NewsItem,
	runFailures []*domain.FailureReport,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			return
		}

		cfg := configs[idx]

		if !cfg.IsEnabled() {
			r.log.DebugObj("source disabled, skipping", "source_skip", map[string]any{
				"run_id":     runID,
				"source_key": cfg.Key,
			})
			continue
		}

		if !r.limiter.Allow(cfg.Key) {
			r.log.InfoObj("source rate limited, skipping", "rate_limited", map[string]any{
				"run_id":     runID,
				"source_key": cfg.Key,
				"rpm":        cfg.RPM(),
			})
			runFailures[idx] = &domain.FailureReport{
				SourceKey: cfg.Key,
				Kind:      domain.FailureRateLimited,
				Err:       fmt.Errorf("source %s rate limit of %d rpm exhausted", cfg.Key, cfg.RPM()),
			}
			continue
		}

		fetcher, err := r.fetchers.FetcherFor(cfg)
		if err != nil {
			runFailures[idx] = &domain.FailureReport{
				SourceKey: cfg.Key,
				Kind:      domain.FailureConfig,
				Err:       err,
			}
			continue
		}

		// The attempt counts against the budget no matter how it ends.
		r.limiter.Record(cfg.Key)

		items, err := fetcher.Fetch(ctx, cfg)
		if err != nil {
			report := domain.FailureReport{
				SourceKey: cfg.Key,
				Kind:      failureKind(err),
				Err:       err,
			}
			r.log.WarnObj("source fetch failed", "source_failure", map[string]any{
				"run_id":     runID,
				"worker_id":  workerID,
				"source_key": cfg.Key,
				"kind":       string(report.Kind),
				"error":      err.Error(),
			})
			runFailures[idx] = &report
			continue
		}

		r.log.DebugObj("source fetched", "source_fetched", map[string]any{
			"run_id":     runID,
			"worker_id":  workerID,
			"source_key": cfg.Key,
			"items":      len(items),
		})
		results[idx] = items
	}
}

// dedupeKeys drops sources whose key already appeared earlier in the set,
// reporting one configuration failure per duplicated key.
func (r *Registry) dedupeKeys(configs []SourceConfig) ([]SourceConfig, []domain.FailureReport) {
	seen := make(map[string]bool, len(configs))
	reported := make(map[string]bool)

	runnable := make([]SourceConfig, 0, len(configs))
	var failures []domain.FailureReport

	for _, cfg := range configs {
		if !seen[cfg.Key] {
			seen[cfg.Key] = true
			runnable = append(runnable, cfg)
			continue
		}
		if reported[cfg.Key] {
			continue
		}
		reported[cfg.Key] = true
		failures = append(failures, domain.FailureReport{
			SourceKey: cfg.Key,
			Kind:      domain.FailureConfig,
			Err:       configErr("duplicate source key %q, later definition excluded", cfg.Key),
		})
	}

	return runnable, failures
}
