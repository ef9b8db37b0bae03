package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/adapters/playstore"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/pipeline"
)

// PipelineService drives one full collection run: fetch raw reviews for
// every registered bank, push them through the processing chain, and
// persist the survivors.
type PipelineService struct {
	source      domain.ReviewSource
	repo        domain.ReviewRepository
	runner      *pipeline.Runner
	banks       []domain.Bank
	workers     int
	reviewCount int
}

func NewPipelineService(src domain.ReviewSource, repo domain.ReviewRepository, runner *pipeline.Runner, banks []domain.Bank, workers, reviewCount int) *PipelineService {
	if workers <= 0 {
		workers = 4
	}
	if reviewCount <= 0 {
		reviewCount = 500
	}
	return &PipelineService{
		source:      src,
		repo:        repo,
		runner:      runner,
		banks:       banks,
		workers:     workers,
		reviewCount: reviewCount,
	}
}

// Run fetches, processes, and stores reviews for all banks, returning
// the cross-bank summary and the attrition audit. A bank whose fetch
// fails is logged and skipped; the run errors only when every fetch
// failed or persistence fails.
func (s *PipelineService) Run(ctx context.Context) (pipeline.Summary, pipeline.Stats, error) {
	raws, fetched := s.collect(ctx)
	if fetched == 0 {
		return pipeline.Summary{}, pipeline.Stats{}, fmt.Errorf("no bank could be fetched")
	}

	recs, stats := s.runner.Run(ctx, raws)
	s.record(stats)

	if len(recs) > 0 {
		if err := s.repo.UpsertReviews(ctx, recs); err != nil {
			return pipeline.Summary{}, stats, fmt.Errorf("upsert reviews: %w", err)
		}
	}

	return pipeline.Summarize(recs), stats, nil
}

// collect fetches all banks concurrently under a semaphore and returns
// the mapped raw reviews concatenated in registry order, so reruns over
// the same feed stay deterministic.
func (s *PipelineService) collect(ctx context.Context) ([]domain.RawReview, int) {
	sem := semaphore.NewWeighted(int64(s.workers))
	perBank := make([][]domain.RawReview, len(s.banks))
	var wg sync.WaitGroup

	for i, bank := range s.banks {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, bank domain.Bank) {
			defer wg.Done()
			defer sem.Release(1)
			docs, err := s.source.FetchReviews(ctx, bank.AppID, s.reviewCount)
			if err != nil {
				log.Warn().Err(err).Str("bank", bank.Code).Msg("fetch reviews failed, skipping bank")
				return
			}
			perBank[i] = playstore.MapRawReviews(bank.Code, docs)
			log.Info().Str("bank", bank.Code).Int("count", len(docs)).Msg("fetched reviews")
		}(i, bank)
	}
	wg.Wait()

	var out []domain.RawReview
	fetched := 0
	for _, rs := range perBank {
		if rs != nil {
			fetched++
			out = append(out, rs...)
		}
	}
	return out, fetched
}

func (s *PipelineService) record(st pipeline.Stats) {
	observability.ObserveRecords("input", st.Input)
	observability.ObserveRecords("output", st.Output)
	for field, n := range st.MissingByField {
		observability.ObserveDrop("validate", field, n)
	}
	observability.ObserveDrop("dedupe", "duplicate", st.Duplicates)
	for cat, n := range st.FilterDrops {
		observability.ObserveDrop("filter", cat, n)
	}
	observability.ObserveDrop("rating", "out-of-range", st.InvalidRatings)
	observability.ObserveBatches("ok", st.Sentiment.Batches-st.Sentiment.FailedBatches)
	observability.ObserveBatches("failed", st.Sentiment.FailedBatches)
}
