package app_test

import (
	"context"
	"testing"
	"time"

	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	stats  []domain.BankStat
	page   domain.ReviewsPage
	dist   map[domain.SentimentLabel]int
	themes map[string]map[string]int
}

func (f *fakeRepo) EnsureSchema(ctx context.Context) error                      { return nil }
func (f *fakeRepo) SeedBanks(ctx context.Context, banks []domain.Bank) error    { return nil }
func (f *fakeRepo) UpsertReviews(ctx context.Context, rs []domain.Review) error { return nil }
func (f *fakeRepo) ListReviews(ctx context.Context, bankCode string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	return f.page, nil
}
func (f *fakeRepo) BankStats(ctx context.Context) ([]domain.BankStat, error) {
	return f.stats, nil
}
func (f *fakeRepo) SentimentDistribution(ctx context.Context) (map[domain.SentimentLabel]int, error) {
	return f.dist, nil
}
func (f *fakeRepo) BankThemeCounts(ctx context.Context) (map[string]map[string]int, error) {
	return f.themes, nil
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.ReviewsPage:
		*d = v.(domain.ReviewsPage)
	case *[]domain.BankStat:
		*d = v.([]domain.BankStat)
	case *app.SummaryView:
		*d = v.(app.SummaryView)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

// ---- tests ----

func TestListReviews_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{
		page: domain.ReviewsPage{Items: []domain.Review{
			{ID: "r1", Bank: "CBE", Author: "Ana", Rating: 5},
		}},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	out, err := q.ListReviews(context.Background(), "CBE", domain.PageQuery{Limit: 10, Sort: "-review_date"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Author != "Ana" {
		t.Fatalf("unexpected reviews: %+v", out.Items)
	}

	// Change repo, call again -> should come from cache
	repo.page.Items[0].Author = "Changed"
	out2, _ := q.ListReviews(context.Background(), "CBE", domain.PageQuery{Limit: 10, Sort: "-review_date"})
	if out2.Items[0].Author != "Ana" {
		t.Fatalf("expected cached author Ana, got %s", out2.Items[0].Author)
	}
}

func TestListReviews_CachedCopyIsIsolated(t *testing.T) {
	repo := &fakeRepo{
		page: domain.ReviewsPage{Items: []domain.Review{{ID: "r1", Author: "Ana"}}},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	out, _ := q.ListReviews(context.Background(), "CBE", domain.PageQuery{Limit: 10})
	out.Items[0].Author = "Mutated"

	again, _ := q.ListReviews(context.Background(), "CBE", domain.PageQuery{Limit: 10})
	if again.Items[0].Author != "Ana" {
		t.Fatalf("cached value was mutated through the returned slice: %+v", again.Items[0])
	}
}

func TestBankStats_Cache(t *testing.T) {
	repo := &fakeRepo{stats: []domain.BankStat{{Code: "CBE", Reviews: 3}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	out, err := q.BankStats(context.Background())
	if err != nil || len(out) != 1 {
		t.Fatalf("BankStats: %v %v", out, err)
	}

	repo.stats = []domain.BankStat{{Code: "BOA"}}
	out2, _ := q.BankStats(context.Background())
	if out2[0].Code != "CBE" {
		t.Fatalf("expected cached stats, got %+v", out2)
	}
}

func TestSummary_ComposesRepoReads(t *testing.T) {
	repo := &fakeRepo{
		stats:  []domain.BankStat{{Code: "CBE", Reviews: 2, AvgRating: 4.5}},
		dist:   map[domain.SentimentLabel]int{domain.SentimentPositive: 2},
		themes: map[string]map[string]int{"CBE": {"Customer Support": 1}},
	}
	q := app.NewQueryService(repo, &fakeCache{}, time.Minute)

	s, err := q.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(s.Banks) != 1 || s.Banks[0].Code != "CBE" {
		t.Fatalf("banks: %+v", s.Banks)
	}
	if s.Sentiment[domain.SentimentPositive] != 2 {
		t.Fatalf("sentiment: %+v", s.Sentiment)
	}
	if s.ThemesByBank["CBE"]["Customer Support"] != 1 {
		t.Fatalf("themes: %+v", s.ThemesByBank)
	}
	if s.GeneratedAt.IsZero() {
		t.Fatal("generated_at not set")
	}
}
