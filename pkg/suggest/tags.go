package suggest

import (
	"sort"

	"github.com/orsinium-labs/stopwords"
)

// english is the stopword list used to filter tag candidates.
var english = stopwords.MustGet("en")

// promptNoise holds generation-prompt boilerplate that a stopword list does
// not know about but makes for useless tags.
var promptNoise = map[string]bool{
	"style":    true,
	"quality":  true,
	"detailed": true,
	"highly":   true,
	"best":     true,
	"image":    true,
	"render":   true,
	"shot":     true,
	"scene":    true,
	"using":    true,
}

// Tags extracts up to max keyword tags from text, most frequent first.
// Ties break on first occurrence so the output is stable. Stopwords,
// prompt boilerplate and short tokens are filtered out.
func Tags(text string, max int) []string {
	if max <= 0 {
		return []string{}
	}

	type stat struct {
		count int
		first int
	}
	counts := make(map[string]*stat)
	var order []string

	for i, tok := range tokenize(text) {
		if len(tok) < 3 || english.Contains(tok) || promptNoise[tok] {
			continue
		}
		if s, ok := counts[tok]; ok {
			s.count++
		} else {
			counts[tok] = &stat{count: 1, first: i}
			order = append(order, tok)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := counts[order[i]], counts[order[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.first < b.first
	})

	if len(order) > max {
		order = order[:max]
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}
