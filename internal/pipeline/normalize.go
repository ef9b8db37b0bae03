package pipeline

import (
	"regexp"
	"strings"

	"bank_reviews/internal/domain"
)

var (
	spaceRunRe = regexp.MustCompile(`\s+`)
	bangRunRe  = regexp.MustCompile(`!{3,}`)
	quesRunRe  = regexp.MustCompile(`\?{3,}`)
	dotRunRe   = regexp.MustCompile(`\.{3,}`)

	entityReplacer = strings.NewReplacer(
		"&quot;", `"`,
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
	)
)

// NormalizeText canonicalizes a review body without changing its meaning:
// HTML entities decoded, whitespace runs collapsed to one space, 3+ runs
// of !/? collapsed to one, 3+ dots to exactly three, and trimmed. The
// entity decode iterates to a fixpoint so the whole transform is
// idempotent even for pre-escaped input like "&amp;amp;".
func NormalizeText(s string) string {
	for {
		d := entityReplacer.Replace(s)
		if d == s {
			break
		}
		s = d
	}
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = bangRunRe.ReplaceAllString(s, "!")
	s = quesRunRe.ReplaceAllString(s, "?")
	s = dotRunRe.ReplaceAllString(s, "...")
	return strings.TrimSpace(s)
}

// NormalizeAll rewrites every record's text in place.
func NormalizeAll(recs []domain.Review) {
	for i := range recs {
		recs[i].Text = NormalizeText(recs[i].Text)
	}
}
