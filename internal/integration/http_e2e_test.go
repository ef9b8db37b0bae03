//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	goredis "github.com/redis/go-redis/v9"

	server "bank_reviews/internal/adapters/http_server"
	redisad "bank_reviews/internal/adapters/redis"
	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/shared"
	mysqlrepo "bank_reviews/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=bank_reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "bank_reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHTTP_EndToEnd_BankReviews(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := repo.SeedBanks(ctx, shared.Banks); err != nil {
		t.Fatalf("SeedBanks: %v", err)
	}

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.UpsertReviews(ctx, []domain.Review{
		{
			ID: "e2e-1", Bank: "CBE", Author: "Ana", Text: "login keeps failing", Rating: 2,
			Date: day, Source: "Google Play Store",
			SentimentLabel: domain.SentimentNegative, SentimentScore: 0.92, SentimentNumeric: -0.92,
			Themes: []string{"Login & Access Issues"},
		},
		{
			ID: "e2e-2", Bank: "CBE", Author: "Abel", Text: "fast and reliable", Rating: 5,
			Date: day.AddDate(0, 0, 2), Source: "Google Play Store",
			SentimentLabel: domain.SentimentPositive, SentimentScore: 0.97, SentimentNumeric: 0.97,
		},
	}); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	q := app.NewQueryService(repo, cache, time.Minute)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// reviews for one bank, newest first
	res, err := http.Get(ts.URL + "/v1/banks/CBE/reviews?limit=10")
	if err != nil {
		t.Fatalf("GET reviews: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	var page struct {
		Items []struct {
			ID             string   `json:"ID"`
			SentimentLabel string   `json:"SentimentLabel"`
			Themes         []string `json:"Themes"`
		}
	}
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "e2e-2" || page.Items[1].ID != "e2e-1" {
		t.Fatalf("unexpected page: %+v", page.Items)
	}
	if page.Items[1].SentimentLabel != "NEGATIVE" || len(page.Items[1].Themes) != 1 {
		t.Fatalf("annotations lost: %+v", page.Items[1])
	}

	// conditional re-request is served as 304
	req, _ := http.NewRequest("GET", ts.URL+"/v1/banks/CBE/reviews?limit=10", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional status %d, want 304", res2.StatusCode)
	}

	// unknown bank is a problem+json 404
	res3, err := http.Get(ts.URL + "/v1/banks/NOPE/reviews")
	if err != nil {
		t.Fatalf("GET unknown bank: %v", err)
	}
	res3.Body.Close()
	if res3.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown bank status %d, want 404", res3.StatusCode)
	}

	// summary endpoint composes bank stats and distribution
	res4, err := http.Get(ts.URL + "/v1/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	defer res4.Body.Close()
	if res4.StatusCode != http.StatusOK {
		t.Fatalf("summary status %d", res4.StatusCode)
	}
	var sum struct {
		Banks []struct {
			Code    string `json:"Code"`
			Reviews int    `json:"Reviews"`
		} `json:"banks"`
		Sentiment map[string]int `json:"sentiment"`
	}
	if err := json.NewDecoder(res4.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(sum.Banks) != len(shared.Banks) {
		t.Fatalf("summary banks = %d", len(sum.Banks))
	}
	if sum.Sentiment["POSITIVE"] != 1 || sum.Sentiment["NEGATIVE"] != 1 {
		t.Fatalf("summary sentiment: %+v", sum.Sentiment)
	}
}
