// Package textproc holds the heuristic text transforms of the answering
// pipeline: keyword prefiltering and fixed-size chunking. These are plain
// string operations, not ranking — no scoring, no stemming.
package textproc

import "strings"

// stopWords are dropped when deriving keywords from a question.
var stopWords = map[string]struct{}{
	"what": {}, "who": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"is": {}, "are": {}, "was": {}, "were": {},
	"the": {}, "a": {}, "an": {},
	"of": {}, "in": {}, "to": {}, "on": {}, "for": {}, "with": {},
	"and": {}, "or": {},
}

// Keywords lower-cases the question, splits it on whitespace and removes
// stop words. Punctuation stays attached to its word.
func Keywords(question string) []string {
	var keywords []string
	for _, word := range strings.Fields(question) {
		w := strings.ToLower(word)
		if _, stop := stopWords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// FilterLines keeps the lines of text that contain at least one keyword as
// a case-insensitive substring, preserving original order. Returns "" when
// keywords is empty or nothing matches.
func FilterLines(text string, keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, line)
				break
			}
		}
	}
	return strings.Join(kept, "\n")
}
