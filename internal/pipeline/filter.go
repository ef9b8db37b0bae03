package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/pipeline/rules"
)

// Drop categories reported by the garbage/language filter.
const (
	DropShort        = "short"
	DropGarbage      = "garbage"
	DropNonLatinOnly = "non-latin-only"
	DropSingleWord   = "single-word"
	DropEmojiOnly    = "emoji-only"
)

var (
	// wordRe extracts letter/digit token runs; emoji and symbols are not words.
	wordRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

	// emojiOnlyRe matches bodies consisting entirely of emoji, emoji
	// modifiers, and whitespace.
	emojiOnlyRe = regexp.MustCompile(`^[\s\x{FE0F}\x{200D}\x{2190}-\x{21FF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{1F000}-\x{1FAFF}]+$`)
)

type filterRule struct {
	category string
	match    func(string) bool
}

// Filter classifies review bodies as signal or noise with an ordered rule
// chain; the first matching rule wins and its category is recorded. The
// filter is pure: no model calls, no network, no state across records.
type Filter struct {
	rules []filterRule
}

func NewFilter(cfg *rules.Rules) *Filter {
	garbage := cfg.Garbage
	return &Filter{rules: []filterRule{
		{DropShort, func(s string) bool {
			return utf8.RuneCountInString(strings.TrimSpace(s)) < 3
		}},
		{DropGarbage, func(s string) bool {
			for _, re := range garbage {
				if re.MatchString(s) {
					return true
				}
			}
			return false
		}},
		{DropNonLatinOnly, nonLatinOnly},
		{DropSingleWord, func(s string) bool {
			return len(wordRe.FindAllString(s, 2)) == 1 && utf8.RuneCountInString(s) < 4
		}},
		{DropEmojiOnly, func(s string) bool {
			return emojiOnlyRe.MatchString(s)
		}},
		// Anything left with zero letter/digit tokens is symbol noise
		// (e.g. currency signs) that the emoji rule did not claim.
		{DropGarbage, func(s string) bool {
			return len(wordRe.FindAllString(s, 1)) == 0
		}},
	}}
}

// Check returns the drop category for text, or ("", false) if it is signal.
func (f *Filter) Check(text string) (string, bool) {
	for _, r := range f.rules {
		if r.match(text) {
			return r.category, true
		}
	}
	return "", false
}

// Apply filters the record set and returns survivors plus per-category
// drop counts.
func (f *Filter) Apply(recs []domain.Review) ([]domain.Review, map[string]int) {
	drops := map[string]int{}
	out := recs[:0]
	for _, r := range recs {
		if cat, dropped := f.Check(r.Text); dropped {
			drops[cat]++
			continue
		}
		out = append(out, r)
	}
	return out, drops
}

// nonLatinOnly reports whether the text carries non-Latin-script letters
// and no Latin-script word of at least three letters. The downstream
// sentiment engine and taxonomy are Latin-script tuned, so such content
// cannot be classified meaningfully.
func nonLatinOnly(s string) bool {
	foreign := false
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			foreign = true
			break
		}
	}
	if !foreign {
		return false
	}
	for _, w := range strings.Fields(s) {
		latin := 0
		for _, r := range w {
			if unicode.Is(unicode.Latin, r) {
				latin++
			}
		}
		if latin >= 3 {
			return false
		}
	}
	return true
}
