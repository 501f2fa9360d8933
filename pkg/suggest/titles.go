package suggest

import (
	"github.com/coregx/ahocorasick"
)

// MatchTitles reports which candidate titles are mentioned in text.
// Matching runs over canonicalized forms, so case and punctuation
// differences do not hide a mention, and matches are checked against word
// boundaries so "art" does not fire inside "artifact". Results come back
// in candidate order, each title at most once.
func MatchTitles(text string, candidates []string) []string {
	if len(candidates) == 0 || text == "" {
		return []string{}
	}

	// Canonicalize patterns the same way as the haystack. Empty patterns
	// (punctuation-only titles) are skipped but keep their candidate slot.
	patterns := make([]string, 0, len(candidates))
	slot := make([]int, 0, len(candidates))
	for i, c := range candidates {
		p := canonicalize(c)
		if p == "" {
			continue
		}
		patterns = append(patterns, p)
		slot = append(slot, i)
	}
	if len(patterns) == 0 {
		return []string{}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return []string{}
	}

	haystack := canonicalize(text)
	hay := []byte(haystack)

	hit := make(map[int]bool)
	for _, m := range ac.FindAllOverlapping(hay) {
		if !onWordBoundary(haystack, m.Start, m.End) {
			continue
		}
		hit[slot[m.PatternID]] = true
	}

	out := make([]string, 0, len(hit))
	for i, c := range candidates {
		if hit[i] {
			out = append(out, c)
		}
	}
	return out
}

// onWordBoundary reports whether s[start:end] is delimited by spaces or the
// string edges. Canonicalized text separates words with single spaces only.
func onWordBoundary(s string, start, end int) bool {
	if start > 0 && s[start-1] != ' ' {
		return false
	}
	if end < len(s) && s[end] != ' ' {
		return false
	}
	return true
}
