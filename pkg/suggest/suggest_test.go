package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Neon Tokyo 2099", "neon tokyo 2099"},
		{"  KIRA!!  walks  ", "kira walks"},
		{"Jean-Luc’s ship", "jean-luc's ship"},
		{"a — b", "a - b"},
		{"", ""},
		{"???", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, canonicalize(tc.in), "canonicalize(%q)", tc.in)
	}
}

func TestTagsFrequencyAndOrder(t *testing.T) {
	text := "Neon alley at night. Neon signs, rain, neon reflections. Rain on chrome."
	got := Tags(text, 3)
	assert.Equal(t, []string{"neon", "rain", "alley"}, got)
}

func TestTagsFiltersNoise(t *testing.T) {
	got := Tags("the best highly detailed image of a dragon", 5)
	assert.Equal(t, []string{"dragon"}, got)
}

func TestTagsEdgeCases(t *testing.T) {
	assert.Empty(t, Tags("", 5))
	assert.Empty(t, Tags("of the and", 5))
	assert.Empty(t, Tags("anything", 0))

	// max caps the result length
	got := Tags("dragon castle knight sword forest", 2)
	assert.Len(t, got, 2)
}

func TestMatchTitles(t *testing.T) {
	candidates := []string{"Kira", "Neon Alley", "Upscaler"}
	text := "Kira sprints through the neon alley, ignoring the rain."

	got := MatchTitles(text, candidates)
	assert.Equal(t, []string{"Kira", "Neon Alley"}, got)
}

func TestMatchTitlesWordBoundary(t *testing.T) {
	// "Art" must not match inside "artifact".
	got := MatchTitles("an ancient artifact glows", []string{"Art"})
	assert.Empty(t, got)

	got = MatchTitles("concept art for the opener", []string{"Art"})
	assert.Equal(t, []string{"Art"}, got)
}

func TestMatchTitlesCaseAndPunctuation(t *testing.T) {
	got := MatchTitles("we revisited NEON ALLEY today", []string{"Neon Alley"})
	assert.Equal(t, []string{"Neon Alley"}, got)
}

func TestMatchTitlesEmptyInputs(t *testing.T) {
	assert.Empty(t, MatchTitles("", []string{"Kira"}))
	assert.Empty(t, MatchTitles("some text", nil))
	assert.Empty(t, MatchTitles("some text", []string{"???"}))
}

func TestMatchTitlesNoDuplicates(t *testing.T) {
	got := MatchTitles("kira meets kira in the mirror", []string{"Kira"})
	assert.Equal(t, []string{"Kira"}, got)
}
