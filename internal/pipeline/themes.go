package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/pipeline/rules"
)

// minThemeTextLen: bodies shorter than this after cleaning carry too
// little signal to tag.
const minThemeTextLen = 10

var (
	urlRe        = regexp.MustCompile(`http\S+`)
	matchPunctRe = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?]`)
)

// Tagger assigns taxonomy labels by trigger-phrase matching. Multi-label:
// a review can carry zero to all themes; presence is binary per theme and
// tags come out in taxonomy order, so tagging is deterministic.
type Tagger struct {
	taxonomy []rules.Theme
}

func NewTagger(cfg *rules.Rules) *Tagger {
	return &Tagger{taxonomy: cfg.Themes}
}

// cleanForMatch lower-cases and lightly normalizes text for substring
// matching: URLs removed, punctuation stripped except ". , ! ?".
func cleanForMatch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = urlRe.ReplaceAllString(s, "")
	s = matchPunctRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TagText returns the themes triggered by a single body.
func (t *Tagger) TagText(text string) []string {
	cleaned := cleanForMatch(text)
	if utf8.RuneCountInString(cleaned) < minThemeTextLen {
		return nil
	}
	var found []string
	for _, th := range t.taxonomy {
		for _, trigger := range th.Triggers {
			if strings.Contains(cleaned, trigger) {
				found = append(found, th.Name)
				break
			}
		}
	}
	return found
}

// Tag annotates every record and returns how many received at least one
// theme.
func (t *Tagger) Tag(recs []domain.Review) int {
	tagged := 0
	for i := range recs {
		recs[i].Themes = t.TagText(recs[i].Text)
		if len(recs[i].Themes) > 0 {
			tagged++
		}
	}
	return tagged
}
