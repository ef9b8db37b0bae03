package pipeline

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"bank_reviews/internal/domain"
)

// Validator turns raw collector tuples into Reviews, dropping records that
// miss any required field. Rejection is terminal; nothing is retried.
type Validator struct {
	bankCodes map[string]string // lower-cased code or name -> canonical code
}

func NewValidator(bankCodes map[string]string) *Validator {
	return &Validator{bankCodes: bankCodes}
}

// Validate keeps records with text, rating, date, and a known bank, and
// reports per-field missing counts. Author defaults to "Anonymous" so the
// dedup key stays well-defined.
func (v *Validator) Validate(raws []domain.RawReview) ([]domain.Review, map[string]int) {
	missing := map[string]int{}
	out := make([]domain.Review, 0, len(raws))

	for _, raw := range raws {
		if raw.Text == nil || strings.TrimSpace(*raw.Text) == "" {
			missing["text"]++
			continue
		}
		if raw.Rating == nil {
			missing["rating"]++
			continue
		}
		if raw.Date == nil {
			missing["date"]++
			continue
		}
		code, ok := v.resolveBank(raw.Bank)
		if !ok {
			missing["bank"]++
			continue
		}

		rec := domain.Review{
			Bank:   code,
			Author: "Anonymous",
			Text:   strings.TrimSpace(*raw.Text),
			Rating: int(*raw.Rating),
			Date:   truncateToDate(*raw.Date),
		}
		if raw.Author != nil && strings.TrimSpace(*raw.Author) != "" {
			rec.Author = strings.TrimSpace(*raw.Author)
		}
		if raw.Source != nil {
			rec.Source = *raw.Source
		}
		if raw.SourceID != nil && *raw.SourceID != "" {
			rec.ID = *raw.SourceID
		} else {
			rec.ID = synthesizeID(rec)
		}
		out = append(out, rec)
	}
	return out, missing
}

func (v *Validator) resolveBank(b *string) (string, bool) {
	if b == nil {
		return "", false
	}
	code, ok := v.bankCodes[strings.ToLower(strings.TrimSpace(*b))]
	return code, ok
}

// synthesizeID derives a stable identifier from the record's content, so
// re-running the pipeline over the same input produces the same ids.
func synthesizeID(r domain.Review) string {
	sig := strings.Join([]string{r.Text, r.Date.Format("2006-01-02"), r.Bank, r.Author}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateRatings drops records whose rating is outside [1,5]. No clamping:
// an invalid rating is unrecoverable. Returns survivors, the drop count,
// and the distinct invalid values seen, for the audit report.
func ValidateRatings(recs []domain.Review) ([]domain.Review, int, []int) {
	out := recs[:0]
	dropped := 0
	seen := map[int]struct{}{}
	var values []int
	for _, r := range recs {
		if r.Rating < 1 || r.Rating > 5 {
			dropped++
			if _, dup := seen[r.Rating]; !dup {
				seen[r.Rating] = struct{}{}
				values = append(values, r.Rating)
			}
			continue
		}
		out = append(out, r)
	}
	return out, dropped, values
}
