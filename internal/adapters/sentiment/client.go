// Package sentiment is the HTTP adapter for the sentiment inference
// service. Calls go through a circuit breaker so a wedged model server
// degrades into placeholder labels instead of stalling a whole run.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	cb   *gobreaker.CircuitBreaker[[]domain.Inference]
}

func New(base string) *Client {
	settings := gobreaker.Settings{
		Name: "sentiment-engine",
		ReadyToTrip: func(c gobreaker.Counts) bool {
			ratio := float64(c.TotalFailures) / float64(c.Requests)
			return c.Requests >= 5 && ratio >= 0.6
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 60 * time.Second},
		cb:   gobreaker.NewCircuitBreaker[[]domain.Inference](settings),
	}
}

type classifyRequest struct {
	Texts []string `json:"texts"`
}

type classifyResponse struct {
	Results []domain.Inference `json:"results"`
}

// ClassifyBatch sends one batch of texts and returns one inference per
// text, in order. Any transport failure, non-2xx status, length
// mismatch, or out-of-range confidence is an error for the whole batch.
func (c *Client) ClassifyBatch(ctx context.Context, texts []string) ([]domain.Inference, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return c.cb.Execute(func() ([]domain.Inference, error) {
		return c.classify(ctx, texts)
	})
}

func (c *Client) classify(ctx context.Context, texts []string) ([]domain.Inference, error) {
	body, err := json.Marshal(classifyRequest{Texts: texts})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("sentiment", "classify", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	observability.ObserveExternal("sentiment", "classify", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("sentiment engine status %d: %s", resp.StatusCode, string(b))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sentiment response: %w", err)
	}
	if len(out.Results) != len(texts) {
		return nil, fmt.Errorf("sentiment engine returned %d results for %d texts", len(out.Results), len(texts))
	}
	for i, inf := range out.Results {
		if inf.Confidence < 0 || inf.Confidence > 1 {
			return nil, fmt.Errorf("result %d: confidence %v out of range", i, inf.Confidence)
		}
		// The engine is binary; NEUTRAL only exists downstream, where the
		// uncertainty band assigns it. Anything else here is a
		// misconfigured engine and fails the batch.
		switch inf.Label {
		case domain.SentimentPositive, domain.SentimentNegative:
		default:
			return nil, fmt.Errorf("result %d: unexpected label %q", i, inf.Label)
		}
	}
	return out.Results, nil
}
