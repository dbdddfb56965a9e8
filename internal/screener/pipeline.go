package screener

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/logger"
)

// Pipeline runs listing → enrichment → sort
//
// 흐름:
//   ListHoldings → Enrich (row마다) → InvestorCount 내림차순 정렬
//
// ⭐ SSOT: 스크리너 실행 흐름은 이 구조체에서만
type Pipeline struct {
	lister      contracts.HoldingsLister
	enricher    *Enricher
	concurrency int
	logger      *logger.Logger
}

// NewPipeline creates a pipeline. concurrency < 1 means sequential.
func NewPipeline(lister contracts.HoldingsLister, enricher *Enricher, concurrency int, log *logger.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Pipeline{
		lister:      lister,
		enricher:    enricher,
		concurrency: concurrency,
		logger:      log.WithComponent("pipeline"),
	}
}

// Run executes one screening pass.
// Returns an error wrapping contracts.ErrSourceUnavailable when the listing
// fails and contracts.ErrEmptyResult when it has no rows.
func (p *Pipeline) Run(ctx context.Context, progress ProgressFunc) (*contracts.Result, error) {
	runID := uuid.New().String()
	log := p.logger.WithRun(runID)
	if IsRefresh(ctx) {
		log = log.WithField("mode", "refresh")
	}
	startedAt := time.Now()

	if progress == nil {
		progress = func(contracts.Progress) {}
	}

	progress(contracts.Progress{RunID: runID, Stage: contracts.StageListing})

	rows, err := p.lister.ListHoldings(ctx)
	if err != nil {
		log.WithError(err).Error("Listing failed")
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	if len(rows) == 0 {
		log.Warn("Listing returned no rows")
		return nil, contracts.ErrEmptyResult
	}

	total := len(rows)
	log.WithFields(map[string]interface{}{
		"rows":        total,
		"concurrency": p.concurrency,
	}).Info("Enrichment started")

	enriched := make([]contracts.EnrichedRow, total)

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			snap := p.enricher.Enrich(gctx, row.Ticker)
			enriched[i] = contracts.EnrichedRow{ListingRow: row, Snapshot: snap}

			// 진행률은 mutex 안에서 보고해서 단조 증가 보장
			mu.Lock()
			done++
			progress(contracts.Progress{RunID: runID, Stage: contracts.StageEnrichment, Done: done, Total: total})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Enrichment aborted")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(enriched, func(a, b int) bool {
		return enriched[a].InvestorCount > enriched[b].InvestorCount
	})

	withData := 0
	for _, r := range enriched {
		if r.HasMarketData() {
			withData++
		}
	}

	result := &contracts.Result{
		RunID:     runID,
		Rows:      enriched,
		Listed:    total,
		Enriched:  withData,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}

	progress(contracts.Progress{RunID: runID, Stage: contracts.StageDone, Done: total, Total: total})

	log.WithFields(map[string]interface{}{
		"rows":     total,
		"enriched": withData,
		"duration": result.Duration,
	}).Info("Screening run completed")

	return result, nil
}

// Refresh runs a pass that re-fetches everything and rewrites the cache,
// so entries are fresh for a full TTL after it returns.
func (p *Pipeline) Refresh(ctx context.Context, progress ProgressFunc) (*contracts.Result, error) {
	return p.Run(WithRefresh(ctx), progress)
}
