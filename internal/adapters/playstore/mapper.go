// internal/adapters/playstore/mapper.go
package playstore

import (
	"strconv"
	"strings"
	"time"

	"bank_reviews/internal/domain"
)

// Alias registries for the loosely-typed review documents the export
// service returns. Feeds drift between scraper versions, so every field
// is resolved through an ordered candidate list.
var (
	textAliases   = []string{"content", "review_text", "text", "review", "comment", "body"}
	authorAliases = []string{"userName", "user_name", "author", "name", "reviewer"}
	ratingAliases = []string{"score", "rating", "rate", "starRating"}
	dateAliases   = []string{"at", "date", "review_date", "created_at"}
	idAliases     = []string{"reviewId", "review_id", "id"}
	sourceAliases = []string{"source", "store"}
)

const defaultSource = "Google Play Store"

// MapRawReviews converts raw documents for one bank into RawReview values.
// Missing fields stay nil; the validator decides what is fatal.
func MapRawReviews(bankCode string, in []map[string]any) []domain.RawReview {
	out := make([]domain.RawReview, 0, len(in))
	for _, doc := range in {
		raw := domain.RawReview{Bank: strPtr(bankCode)}

		if s, ok := firstNonEmptyAlias(doc, textAliases); ok {
			raw.Text = strPtr(s)
		}
		if s, ok := firstNonEmptyAlias(doc, authorAliases); ok {
			raw.Author = strPtr(s)
		}
		if s, ok := firstNonEmptyAlias(doc, idAliases); ok {
			raw.SourceID = strPtr(s)
		}
		if f, ok := lookupFloat(doc, ratingAliases); ok {
			raw.Rating = &f
		}
		if t, ok := lookupDate(doc, dateAliases); ok {
			raw.Date = &t
		}
		if s, ok := firstNonEmptyAlias(doc, sourceAliases); ok {
			raw.Source = strPtr(s)
		} else {
			raw.Source = strPtr(defaultSource)
		}

		out = append(out, raw)
	}
	return out
}

// lookupAny resolves a possibly dotted path ("reply.text") against a
// nested map document.
func lookupAny(doc map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = doc
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstNonEmptyAlias returns the first alias whose value is a non-empty
// string (or stringable scalar).
func firstNonEmptyAlias(doc map[string]any, aliases []string) (string, bool) {
	for _, a := range aliases {
		v, ok := lookupAny(doc, a)
		if !ok || v == nil {
			continue
		}
		if s := asString(v); strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func lookupFloat(doc map[string]any, aliases []string) (float64, bool) {
	for _, a := range aliases {
		v, ok := lookupAny(doc, a)
		if !ok || v == nil {
			continue
		}
		if f, ok := getFloatFlexible(v); ok {
			return f, true
		}
	}
	return 0, false
}

func lookupDate(doc map[string]any, aliases []string) (time.Time, bool) {
	for _, a := range aliases {
		v, ok := lookupAny(doc, a)
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(asString(v))
		if s == "" {
			continue
		}
		if t, ok := parseDate(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// getFloatFlexible accepts JSON numbers arriving as float64, int, or a
// numeric string.
func getFloatFlexible(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func parseDate(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func strPtr(s string) *string { return &s }
