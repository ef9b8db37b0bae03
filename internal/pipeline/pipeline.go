// Package pipeline implements the review normalization and classification
// chain: validate, dedupe, filter, normalize, rating check, sentiment,
// themes, aggregate. Stages run strictly in sequence; each one consumes
// the previous stage's full surviving set.
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/pipeline/rules"
)

// Stats is the stage-by-stage attrition audit for one run. Per-record
// problems are absorbed here as counts; nothing in a run aborts it once
// the rule set has loaded.
type Stats struct {
	Input          int
	MissingByField map[string]int
	Duplicates     int
	FilterDrops    map[string]int
	InvalidRatings int
	InvalidValues  []int
	Sentiment      SentimentStats
	Tagged         int
	Output         int
}

// Dropped is the total number of records rejected across all stages.
func (s Stats) Dropped() int {
	n := s.Duplicates + s.InvalidRatings
	for _, c := range s.MissingByField {
		n += c
	}
	for _, c := range s.FilterDrops {
		n += c
	}
	return n
}

// Runner wires the stages together around one engine and one rule set.
type Runner struct {
	validator  *Validator
	filter     *Filter
	classifier *Classifier
	tagger     *Tagger
}

func NewRunner(engine domain.SentimentEngine, cfg *rules.Rules, bankCodes map[string]string, batchSize, workers int) *Runner {
	return &Runner{
		validator:  NewValidator(bankCodes),
		filter:     NewFilter(cfg),
		classifier: NewClassifier(engine, batchSize, workers),
		tagger:     NewTagger(cfg),
	}
}

// Run executes the full chain over raws and returns the annotated
// survivors in input order plus the attrition audit.
func (r *Runner) Run(ctx context.Context, raws []domain.RawReview) ([]domain.Review, Stats) {
	stats := Stats{Input: len(raws)}

	recs, missing := r.validator.Validate(raws)
	stats.MissingByField = missing

	recs, stats.Duplicates = Dedupe(recs)
	recs, stats.FilterDrops = r.filter.Apply(recs)
	NormalizeAll(recs)
	recs, stats.InvalidRatings, stats.InvalidValues = ValidateRatings(recs)

	stats.Sentiment = r.classifier.Annotate(ctx, recs)
	stats.Tagged = r.tagger.Tag(recs)
	stats.Output = len(recs)

	log.Info().
		Int("input", stats.Input).
		Int("output", stats.Output).
		Int("dropped", stats.Dropped()).
		Int("duplicates", stats.Duplicates).
		Int("invalid_ratings", stats.InvalidRatings).
		Int("failed_batches", stats.Sentiment.FailedBatches).
		Int("defaulted", stats.Sentiment.Defaulted).
		Int("tagged", stats.Tagged).
		Msg("pipeline run finished")

	return recs, stats
}
