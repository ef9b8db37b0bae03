package pipeline

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"bank_reviews/internal/domain"
)

// DefaultBatchSize bounds peak memory/latency at the inference boundary.
const DefaultBatchSize = 32

// Classifier annotates records with sentiment by pushing their texts
// through the engine in fixed-size batches. A failed batch never aborts
// the run: every member gets the neutral placeholder and the failure is
// counted. Batches may run in parallel; results land at their original
// offsets so record order is preserved.
type Classifier struct {
	engine    domain.SentimentEngine
	batchSize int
	workers   int
}

func NewClassifier(engine domain.SentimentEngine, batchSize, workers int) *Classifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = 1
	}
	return &Classifier{engine: engine, batchSize: batchSize, workers: workers}
}

// SentimentStats is the audit record for the classification stage.
type SentimentStats struct {
	Batches       int
	FailedBatches int
	Defaulted     int // records that received the neutral placeholder
}

// Annotate mutates recs in place and reports batch-level outcomes.
func (c *Classifier) Annotate(ctx context.Context, recs []domain.Review) SentimentStats {
	if len(recs) == 0 {
		return SentimentStats{}
	}

	var failed, defaulted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	batches := 0
	for start := 0; start < len(recs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(recs) {
			end = len(recs)
		}
		batches++
		batch := recs[start:end]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, r := range batch {
				texts[i] = r.Text
			}
			res, err := c.engine.ClassifyBatch(gctx, texts)
			if err != nil || len(res) != len(batch) {
				failed.Add(1)
				defaulted.Add(int64(len(batch)))
				for i := range batch {
					batch[i].SentimentLabel = domain.SentimentNeutral
					batch[i].SentimentScore = 0.5
					batch[i].SentimentNumeric = 0
				}
				return nil // best-effort: the placeholder stands in
			}
			for i, inf := range res {
				label := ApplyNeutralBand(inf.Label, inf.Confidence)
				batch[i].SentimentLabel = label
				batch[i].SentimentScore = inf.Confidence
				batch[i].SentimentNumeric = NumericScore(label, inf.Confidence)
			}
			return nil
		})
	}
	_ = g.Wait()

	return SentimentStats{
		Batches:       batches,
		FailedBatches: int(failed.Load()),
		Defaulted:     int(defaulted.Load()),
	}
}

// ApplyNeutralBand overrides the engine's binary label with NEUTRAL when
// its confidence sits in the model's own uncertainty band [0.4, 0.6].
func ApplyNeutralBand(label domain.SentimentLabel, confidence float64) domain.SentimentLabel {
	if confidence >= 0.4 && confidence <= 0.6 {
		return domain.SentimentNeutral
	}
	return label
}

// NumericScore projects (label, confidence) onto a single signed scale in
// [-1, +1], usable for averaging without conditioning on the label.
func NumericScore(label domain.SentimentLabel, confidence float64) float64 {
	switch label {
	case domain.SentimentPositive:
		return confidence
	case domain.SentimentNegative:
		return -confidence
	default:
		return 0
	}
}
