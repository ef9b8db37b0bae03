package mysql

// Schema is created in dependency order: banks first, reviews second
// (FK on bank_id). `text` is reserved; keep it quoted everywhere.

const createBanksSQL = `
CREATE TABLE IF NOT EXISTS banks (
  id     INT          NOT NULL,
  code   VARCHAR(16)  NOT NULL,
  name   VARCHAR(128) NOT NULL,
  app_id VARCHAR(128) NOT NULL,
  PRIMARY KEY (id),
  UNIQUE KEY uq_banks_code (code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const createReviewsSQL = `
CREATE TABLE IF NOT EXISTS reviews (
  id                VARCHAR(64)  NOT NULL,
  bank_id           INT          NOT NULL,
  author            VARCHAR(255) NOT NULL DEFAULT 'Anonymous',
  ` + "`text`" + `            TEXT         NOT NULL,
  rating            TINYINT      NOT NULL,
  review_date       DATE         NOT NULL,
  source            VARCHAR(64)  NOT NULL,
  sentiment_label   VARCHAR(16)  NOT NULL,
  sentiment_score   DOUBLE       NOT NULL,
  sentiment_numeric DOUBLE       NOT NULL,
  themes            JSON         NULL,
  created_at        TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at        TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_reviews_bank_date (bank_id, review_date),
  CONSTRAINT fk_reviews_bank FOREIGN KEY (bank_id) REFERENCES banks (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const upsertBankSQL = `
INSERT INTO banks (id, code, name, app_id)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  code   = VALUES(code),
  name   = VALUES(name),
  app_id = VALUES(app_id)
`

// bank_id is resolved from the code through a scalar subquery so callers
// never need to know registry ids.
const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (id, bank_id, author, `text`, rating, review_date, source, sentiment_label, sentiment_score, sentiment_numeric, themes)\n" +
	"VALUES "

const insertReviewsRow = "(?, (SELECT id FROM banks WHERE code = ?), ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  author            = VALUES(author),\n" +
	"  `text`            = VALUES(`text`),\n" +
	"  rating            = VALUES(rating),\n" +
	"  review_date       = VALUES(review_date),\n" +
	"  source            = VALUES(source),\n" +
	"  sentiment_label   = VALUES(sentiment_label),\n" +
	"  sentiment_score   = VALUES(sentiment_score),\n" +
	"  sentiment_numeric = VALUES(sentiment_numeric),\n" +
	"  themes            = VALUES(themes),\n" +
	"  updated_at        = CURRENT_TIMESTAMP\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listReviewsSQL = `
SELECT
  r.id,
  b.code,
  r.author,
  r.` + "`text`" + `,
  r.rating,
  r.review_date,
  r.source,
  r.sentiment_label,
  r.sentiment_score,
  r.sentiment_numeric,
  r.themes
FROM reviews r
JOIN banks b ON b.id = r.bank_id
WHERE b.code = ?
ORDER BY r.review_date DESC, r.id DESC
LIMIT ?
`

// LEFT JOIN so banks with zero reviews still show up with count 0.
const bankStatsSQL = `
SELECT
  b.code,
  b.name,
  COUNT(r.id),
  COALESCE(AVG(r.rating), 0),
  COALESCE(AVG(r.sentiment_numeric), 0)
FROM banks b
LEFT JOIN reviews r ON r.bank_id = b.id
GROUP BY b.id, b.code, b.name
ORDER BY b.id
`

const sentimentDistSQL = `
SELECT sentiment_label, COUNT(*)
FROM reviews
GROUP BY sentiment_label
`

// Theme arrays are decoded in Go; MySQL JSON table functions are not
// worth the portability cost here.
const themeRowsSQL = `
SELECT b.code, r.themes
FROM reviews r
JOIN banks b ON b.id = r.bank_id
WHERE r.themes IS NOT NULL
`

const bankExistsSQL = `SELECT 1 FROM banks WHERE code = ?`
