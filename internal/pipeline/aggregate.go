package pipeline

import "bank_reviews/internal/domain"

// GroupStat is one cell of the summary rollup.
type GroupStat struct {
	Count         int
	MeanRating    float64
	MeanSentiment float64
}

// Summary is the read-only rollup computed over the final record set.
type Summary struct {
	Total          int
	ByBank         map[string]GroupStat
	ByRating       map[int]GroupStat
	ByBankRating   map[string]map[int]GroupStat
	ThemesByBank   map[string]map[string]int
	LabelCounts    map[domain.SentimentLabel]int
	MissingCellPct float64
}

// summaryColumns is the fixed column set the missing-data percentage is
// computed over: id, bank, text, rating, date, source, sentiment_label.
const summaryColumns = 7

type accumulator struct {
	count     int
	rating    float64
	sentiment float64
}

func (a *accumulator) add(r domain.Review) {
	a.count++
	a.rating += float64(r.Rating)
	a.sentiment += r.SentimentNumeric
}

func (a *accumulator) stat() GroupStat {
	if a.count == 0 {
		return GroupStat{}
	}
	return GroupStat{
		Count:         a.count,
		MeanRating:    a.rating / float64(a.count),
		MeanSentiment: a.sentiment / float64(a.count),
	}
}

// Summarize computes per-bank, per-rating, and per-(bank, rating) counts
// and means, theme frequencies per bank, the label distribution, and the
// missing-cell percentage. It never mutates records and is zero-safe on
// an empty input.
func Summarize(recs []domain.Review) Summary {
	s := Summary{
		Total:        len(recs),
		ByBank:       map[string]GroupStat{},
		ByRating:     map[int]GroupStat{},
		ByBankRating: map[string]map[int]GroupStat{},
		ThemesByBank: map[string]map[string]int{},
		LabelCounts:  map[domain.SentimentLabel]int{},
	}
	if len(recs) == 0 {
		return s
	}

	byBank := map[string]*accumulator{}
	byRating := map[int]*accumulator{}
	byBankRating := map[string]map[int]*accumulator{}
	missingCells := 0

	for _, r := range recs {
		if acc := byBank[r.Bank]; acc != nil {
			acc.add(r)
		} else {
			acc = &accumulator{}
			acc.add(r)
			byBank[r.Bank] = acc
		}
		if acc := byRating[r.Rating]; acc != nil {
			acc.add(r)
		} else {
			acc = &accumulator{}
			acc.add(r)
			byRating[r.Rating] = acc
		}
		inner := byBankRating[r.Bank]
		if inner == nil {
			inner = map[int]*accumulator{}
			byBankRating[r.Bank] = inner
		}
		if acc := inner[r.Rating]; acc != nil {
			acc.add(r)
		} else {
			acc = &accumulator{}
			acc.add(r)
			inner[r.Rating] = acc
		}

		if len(r.Themes) > 0 {
			counts := s.ThemesByBank[r.Bank]
			if counts == nil {
				counts = map[string]int{}
				s.ThemesByBank[r.Bank] = counts
			}
			for _, th := range r.Themes {
				counts[th]++
			}
		}
		s.LabelCounts[r.SentimentLabel]++
		missingCells += missingCellCount(r)
	}

	for bank, acc := range byBank {
		s.ByBank[bank] = acc.stat()
	}
	for rating, acc := range byRating {
		s.ByRating[rating] = acc.stat()
	}
	for bank, inner := range byBankRating {
		m := make(map[int]GroupStat, len(inner))
		for rating, acc := range inner {
			m[rating] = acc.stat()
		}
		s.ByBankRating[bank] = m
	}
	s.MissingCellPct = float64(missingCells) / float64(len(recs)*summaryColumns) * 100
	return s
}

func missingCellCount(r domain.Review) int {
	n := 0
	if r.ID == "" {
		n++
	}
	if r.Bank == "" {
		n++
	}
	if r.Text == "" {
		n++
	}
	if r.Rating == 0 {
		n++
	}
	if r.Date.IsZero() {
		n++
	}
	if r.Source == "" {
		n++
	}
	if r.SentimentLabel == "" {
		n++
	}
	return n
}
