package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"bank_reviews/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createBanksSQL, createReviewsSQL} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) SeedBanks(ctx context.Context, banks []domain.Bank) error {
	for _, b := range banks {
		if _, err := r.db.ExecContext(ctx, upsertBankSQL, b.ID, b.Code, b.Name, b.AppID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*11) // 11 params per row
	for _, rv := range rs {
		values = append(values, insertReviewsRow)
		args = append(args,
			rv.ID,
			rv.Bank, // code, resolved to bank_id by subquery
			rv.Author,
			rv.Text,
			rv.Rating,
			rv.Date.Format("2006-01-02"),
			rv.Source,
			string(rv.SentimentLabel),
			rv.SentimentScore,
			rv.SentimentNumeric,
			themesJSON(rv.Themes),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func themesJSON(themes []string) any {
	if len(themes) == 0 {
		return nil
	}
	b, err := json.Marshal(themes)
	if err != nil {
		return nil
	}
	return string(b)
}

func (r *Repo) ListReviews(ctx context.Context, bankCode string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	// Unknown codes must 404, not return an empty page.
	var one int
	if err := r.db.QueryRowContext(ctx, bankExistsSQL, bankCode).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return domain.ReviewsPage{}, domain.ErrNotFound
		}
		return domain.ReviewsPage{}, err
	}

	rows, err := r.db.QueryContext(ctx, listReviewsSQL, bankCode, pg.Limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var (
			rv        domain.Review
			label     string
			themesRaw sql.RawBytes
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.Bank,
			&rv.Author,
			&rv.Text,
			&rv.Rating,
			&rv.Date,
			&rv.Source,
			&label,
			&rv.SentimentScore,
			&rv.SentimentNumeric,
			&themesRaw,
		); err != nil {
			return domain.ReviewsPage{}, err
		}
		rv.SentimentLabel = domain.SentimentLabel(label)
		if len(themesRaw) > 0 {
			_ = json.Unmarshal(themesRaw, &rv.Themes)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}

func (r *Repo) BankStats(ctx context.Context) ([]domain.BankStat, error) {
	rows, err := r.db.QueryContext(ctx, bankStatsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BankStat
	for rows.Next() {
		var st domain.BankStat
		if err := rows.Scan(&st.Code, &st.Name, &st.Reviews, &st.AvgRating, &st.AvgSentiment); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *Repo) SentimentDistribution(ctx context.Context) (map[domain.SentimentLabel]int, error) {
	rows, err := r.db.QueryContext(ctx, sentimentDistSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.SentimentLabel]int{}
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		out[domain.SentimentLabel(label)] = n
	}
	return out, rows.Err()
}

func (r *Repo) BankThemeCounts(ctx context.Context) (map[string]map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, themeRowsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]map[string]int{}
	for rows.Next() {
		var code string
		var raw sql.RawBytes
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, err
		}
		var themes []string
		if err := json.Unmarshal(raw, &themes); err != nil {
			continue // malformed row, skip
		}
		counts := out[code]
		if counts == nil {
			counts = map[string]int{}
			out[code] = counts
		}
		for _, th := range themes {
			counts[th]++
		}
	}
	return out, rows.Err()
}
