package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bank_reviews/internal/domain"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) BankStats(ctx context.Context) ([]domain.BankStat, error) {
	key := "banks:stats"
	var out []domain.BankStat
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	stats, err := s.repo.BankStats(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, stats, int(s.cacheTTL.Seconds()))
	return stats, nil
}

func (s *QueryService) ListReviews(ctx context.Context, bankCode string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	key := fmt.Sprintf("reviews:%s:%d:%s", bankCode, pg.Limit, pg.Sort)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, bankCode, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array (prevents callers from mutating cached value)
	copyRS := deepCopyReviewsPage(rs)

	// optional size guard
	if b, _ := json.Marshal(copyRS); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyRS, int(s.cacheTTL.Seconds()))
	}
	return copyRS, nil
}

// SummaryView is the cross-bank rollup served by the API.
type SummaryView struct {
	Banks        []domain.BankStat             `json:"banks"`
	Sentiment    map[domain.SentimentLabel]int `json:"sentiment"`
	ThemesByBank map[string]map[string]int     `json:"themes_by_bank"`
	GeneratedAt  time.Time                     `json:"generated_at"`
}

func (s *QueryService) Summary(ctx context.Context) (SummaryView, error) {
	key := "summary"
	var out SummaryView
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	banks, err := s.repo.BankStats(ctx)
	if err != nil {
		return SummaryView{}, err
	}
	dist, err := s.repo.SentimentDistribution(ctx)
	if err != nil {
		return SummaryView{}, err
	}
	themes, err := s.repo.BankThemeCounts(ctx)
	if err != nil {
		return SummaryView{}, err
	}

	out = SummaryView{
		Banks:        banks,
		Sentiment:    dist,
		ThemesByBank: themes,
		GeneratedAt:  time.Now().UTC(),
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	var out domain.ReviewsPage
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Review, n)
		copy(out.Items, in.Items)
	}
	return out
}
