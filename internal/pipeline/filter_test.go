package pipeline_test

import (
	"testing"
	"time"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/pipeline"
	"bank_reviews/internal/pipeline/rules"
)

func mustRules(t *testing.T) *rules.Rules {
	t.Helper()
	r, err := rules.Load()
	if err != nil {
		t.Fatalf("rules.Load: %v", err)
	}
	return r
}

func TestFilter_Check(t *testing.T) {
	f := pipeline.NewFilter(mustRules(t))

	cases := []struct {
		text     string
		category string
	}{
		// too short
		{"ok", pipeline.DropShort},
		{"  a ", pipeline.DropShort},
		// garbage
		{"asdfgh", pipeline.DropGarbage},
		{"!!!???...", pipeline.DropGarbage},
		{"click here for free money", pipeline.DropGarbage},
		// non-Latin letters only
		{"ጥሩ ነው", pipeline.DropNonLatinOnly},
		{"በጣም ጥሩ መተግበሪያ", pipeline.DropNonLatinOnly},
		// single short token
		{"ish", pipeline.DropSingleWord},
		{"yes", pipeline.DropSingleWord},
		// emoji only
		{"👍👍👍", pipeline.DropEmojiOnly},
		{"🔥🔥 🔥", pipeline.DropEmojiOnly},
		// symbol noise outside the emoji ranges
		{"€€€", pipeline.DropGarbage},
		{"™ ® ©", pipeline.DropGarbage},
	}
	for _, tc := range cases {
		cat, dropped := f.Check(tc.text)
		if !dropped {
			t.Errorf("Check(%q): expected drop, survived", tc.text)
			continue
		}
		if cat != tc.category {
			t.Errorf("Check(%q) = %q, want %q", tc.text, cat, tc.category)
		}
	}
}

func TestFilter_KeepsSignal(t *testing.T) {
	f := pipeline.NewFilter(mustRules(t))

	keep := []string{
		"good",
		"the app keeps crashing on login",
		"transfer failed twice this week",
		"በጣም ጥሩ app works great", // mixed script with real Latin words
		"great app 👍",            // emoji alongside text
	}
	for _, text := range keep {
		if cat, dropped := f.Check(text); dropped {
			t.Errorf("Check(%q): dropped as %q, expected keep", text, cat)
		}
	}
}

func TestFilter_Apply(t *testing.T) {
	f := pipeline.NewFilter(mustRules(t))
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recs := []domain.Review{
		{ID: "1", Text: "works great, fast transfers", Date: day},
		{ID: "2", Text: "👍👍👍", Date: day},
		{ID: "3", Text: "ok", Date: day},
		{ID: "4", Text: "asdfgh", Date: day},
		{ID: "5", Text: "love the new design", Date: day},
	}

	out, drops := f.Apply(recs)
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "5" {
		t.Fatalf("unexpected survivors: %+v", out)
	}
	want := map[string]int{
		pipeline.DropEmojiOnly: 1,
		pipeline.DropShort:     1,
		pipeline.DropGarbage:   1,
	}
	for cat, n := range want {
		if drops[cat] != n {
			t.Errorf("drops[%s] = %d, want %d", cat, drops[cat], n)
		}
	}
}
