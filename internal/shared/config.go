package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	PlayBase     string
	PlayKey      string
	SentimentURL string
	Workers      int
	ReviewCount  int
	BatchSize    int
	CacheTTL     time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/bank_reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		PlayBase:     env("PLAY_BASE_URL", "https://play-reviews.example.com/v1"),
		PlayKey:      env("PLAY_API_KEY", ""),
		SentimentURL: env("SENTIMENT_URL", "http://localhost:8501"),
		Workers:      atoi("PIPELINE_WORKERS", 4),
		ReviewCount:  atoi("REVIEWS_PER_BANK", 500),
		BatchSize:    atoi("SENTIMENT_BATCH_SIZE", 32),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.PlayKey == "" {
		log.Warn().Msg("PLAY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
