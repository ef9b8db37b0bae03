package pipeline_test

import (
	"context"
	"testing"
	"time"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/pipeline"
	"bank_reviews/internal/shared"
)

func TestRunner_Run(t *testing.T) {
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	raws := []domain.RawReview{
		rawReview("good app but login keeps failing!!!!", 4, day, "CBE"),
		rawReview("good app but login keeps failing!!!!", 4, day, "CBE"), // duplicate
		rawReview("👍👍👍", 5, day, "BOA"),                                  // emoji only
		rawReview("transfer failed, very bad experience", 1, day, "BOA"),
		rawReview("decent enough for daily use", 9, day, "DASHEN"), // rating out of range
		{Rating: ptr(5.0), Date: ptr(day), Bank: ptr("CBE")},       // missing text
	}

	runner := pipeline.NewRunner(&fakeEngine{confidence: 0.9}, mustRules(t), shared.BankCodes(), 32, 2)
	recs, stats := runner.Run(context.Background(), raws)

	if stats.Input != 6 || stats.Output != 2 {
		t.Fatalf("input/output = %d/%d, want 6/2", stats.Input, stats.Output)
	}
	if stats.MissingByField["text"] != 1 {
		t.Fatalf("missing = %v", stats.MissingByField)
	}
	if stats.Duplicates != 1 {
		t.Fatalf("duplicates = %d", stats.Duplicates)
	}
	if stats.FilterDrops[pipeline.DropEmojiOnly] != 1 {
		t.Fatalf("filter drops = %v", stats.FilterDrops)
	}
	if stats.InvalidRatings != 1 || len(stats.InvalidValues) != 1 || stats.InvalidValues[0] != 9 {
		t.Fatalf("invalid ratings = %d %v", stats.InvalidRatings, stats.InvalidValues)
	}
	if stats.Dropped() != 4 {
		t.Fatalf("dropped = %d, want 4", stats.Dropped())
	}

	if len(recs) != 2 {
		t.Fatalf("records = %d", len(recs))
	}
	first, second := recs[0], recs[1]

	// normalization applied before classification
	if first.Text != "good app but login keeps failing!" {
		t.Fatalf("text = %q", first.Text)
	}
	if first.SentimentLabel != domain.SentimentPositive {
		t.Fatalf("first label = %s", first.SentimentLabel)
	}
	if second.SentimentLabel != domain.SentimentNegative || second.SentimentNumeric != -0.9 {
		t.Fatalf("second: %+v", second)
	}

	// themes assigned from the final text
	if len(first.Themes) == 0 || first.Themes[0] != "Login & Access Issues" {
		t.Fatalf("first themes = %v", first.Themes)
	}
	if len(second.Themes) == 0 || second.Themes[0] != "Transaction Problems" {
		t.Fatalf("second themes = %v", second.Themes)
	}
	if stats.Tagged != 2 {
		t.Fatalf("tagged = %d", stats.Tagged)
	}
}

func TestRunner_Run_Deterministic(t *testing.T) {
	day := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	var raws []domain.RawReview
	for i := 0; i < 50; i++ {
		raws = append(raws,
			rawReview("good service and fast transfers every time", 5, day.AddDate(0, 0, i), "CBE"),
			rawReview("network error whenever i try to send money", 1, day.AddDate(0, 0, i), "BOA"),
		)
	}

	runner := pipeline.NewRunner(&fakeEngine{confidence: 0.95}, mustRules(t), shared.BankCodes(), 8, 4)

	first, _ := runner.Run(context.Background(), raws)
	second, _ := runner.Run(context.Background(), raws)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].SentimentLabel != second[i].SentimentLabel {
			t.Fatalf("record %d differs across runs", i)
		}
	}
}
