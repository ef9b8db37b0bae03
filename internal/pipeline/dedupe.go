package pipeline

import "bank_reviews/internal/domain"

type dupKey struct {
	text   string
	date   string
	author string
}

// Dedupe removes exact duplicates by (text, date, author), keeping the
// first occurrence in input order. Output order is input order.
func Dedupe(recs []domain.Review) ([]domain.Review, int) {
	seen := make(map[dupKey]struct{}, len(recs))
	out := recs[:0]
	dropped := 0
	for _, r := range recs {
		k := dupKey{text: r.Text, date: r.Date.Format("2006-01-02"), author: r.Author}
		if _, dup := seen[k]; dup {
			dropped++
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, dropped
}
