package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/adapters/playstore"
	"bank_reviews/internal/adapters/sentiment"
	"bank_reviews/internal/app"
	"bank_reviews/internal/pipeline"
	"bank_reviews/internal/pipeline/rules"
	"bank_reviews/internal/shared"
	mysqlrepo "bank_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "pipeline")

	observability.Serve()

	log.Info().
		Str("base", cfg.PlayBase).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Int("batch", cfg.BatchSize).
		Msg("pipeline starting")

	// A broken rule set means every run would misclassify; refuse to start.
	ruleSet, err := rules.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("rule set failed to load")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	if err := repo.SeedBanks(ctx, shared.Banks); err != nil {
		log.Fatal().Err(err).Msg("bank registry seed failed")
	}

	source, err := playstore.New(cfg.PlayBase, cfg.PlayKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review source")
	}
	engine := sentiment.New(cfg.SentimentURL)

	runner := pipeline.NewRunner(engine, ruleSet, shared.BankCodes(), cfg.BatchSize, cfg.Workers)
	svc := app.NewPipelineService(source, repo, runner, shared.Banks, cfg.Workers, cfg.ReviewCount)

	summary, stats, err := svc.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	for bank, gs := range summary.ByBank {
		log.Info().
			Str("bank", bank).
			Int("reviews", gs.Count).
			Float64("mean_rating", gs.MeanRating).
			Float64("mean_sentiment", gs.MeanSentiment).
			Msg("bank summary")
	}
	log.Info().
		Int("stored", stats.Output).
		Int("dropped", stats.Dropped()).
		Float64("missing_pct", summary.MissingCellPct).
		Msg("pipeline completed")
}
