package enrich

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const analyzePrompt = `You are an archivist for a personal creative-asset library.
Analyze the provided image and respond with JSON containing:
- "title": a short, evocative title (max 6 words)
- "tags": 3 to 6 lowercase keyword tags describing subject, style and mood
- "description": one or two sentences describing the image

Respond with JSON only.`

const suggestPrompt = `You are an archivist for a personal creative-asset library.
Given one entity and a list of candidate titles from the same library, pick
the candidates that are thematically or narratively related to the entity.
Only ever answer with titles taken verbatim from the candidate list. When
nothing relates, answer with an empty list.

Respond with JSON only.`

// maxContentChars caps how much entity content goes into the prompt.
const maxContentChars = 4000

// buildSuggestPrompt renders the user message for SuggestRelated.
func buildSuggestPrompt(title, content string, candidates []string) string {
	var sb strings.Builder

	sb.WriteString("## Entity\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	if content != "" {
		sb.WriteString("Content:\n")
		sb.WriteString(truncate(content, maxContentChars))
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Candidates\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back off to a rune boundary so the cut never leaves invalid UTF-8.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "\n[truncated]"
}
