package domain

import "time"

// SentimentLabel is the final three-class label attached to a review.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// RawReview is a review as delivered by the collector: every field is
// independently optional until the record validator has seen it.
type RawReview struct {
	SourceID *string
	Author   *string
	Text     *string
	Rating   *float64
	Date     *time.Time
	Bank     *string
	Source   *string
}

// Review is the pipeline's unit entity. Created by the record validator,
// mutated in place by each subsequent stage, and either persisted or
// dropped by exactly one stage.
type Review struct {
	ID               string
	Bank             string // bank code from the fixed registry
	Author           string
	Text             string
	Rating           int
	Date             time.Time // date precision only
	Source           string
	SentimentLabel   SentimentLabel
	SentimentScore   float64
	SentimentNumeric float64
	Themes           []string
}

// Inference is one result from the binary sentiment engine.
type Inference struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// Bank is one institution from the fixed registry. The reviews table
// keeps referential integrity against this list.
type Bank struct {
	ID    int
	Code  string
	Name  string
	AppID string
}
