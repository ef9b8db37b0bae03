package domain

import "context"

// ReviewSource supplies raw review documents for one app. How they were
// obtained (store scraping, export files) is not the pipeline's concern.
type ReviewSource interface {
	FetchReviews(ctx context.Context, appID string, count int) ([]map[string]any, error)
}

// SentimentEngine is the opaque binary classifier. Results come back in
// the same order and length as the input batch; the whole batch may fail.
type SentimentEngine interface {
	ClassifyBatch(ctx context.Context, texts []string) ([]Inference, error)
}

type ReviewRepository interface {
	// Write paths
	EnsureSchema(ctx context.Context) error
	SeedBanks(ctx context.Context, banks []Bank) error
	UpsertReviews(ctx context.Context, rs []Review) error

	// Read paths
	ListReviews(ctx context.Context, bankCode string, pg PageQuery) (ReviewsPage, error)
	BankStats(ctx context.Context) ([]BankStat, error)
	SentimentDistribution(ctx context.Context) (map[SentimentLabel]int, error)
	BankThemeCounts(ctx context.Context) (map[string]map[string]int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models & queries

type PageQuery struct {
	Limit int
	Sort  string
}

type ReviewsPage struct {
	Items []Review
}

// BankStat is one row of the per-bank rollup served by the API.
type BankStat struct {
	Code         string
	Name         string
	Reviews      int
	AvgRating    float64
	AvgSentiment float64
}
