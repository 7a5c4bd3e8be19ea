package catalog

import "strings"

const minTokenLen = 3

// tokenize splits a query into lower-cased whitespace tokens longer than two characters.
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// overlapScore is the term-overlap relevance heuristic. Each token found in text
// scores 1, plus 0.5 when it sits on word boundaries and 2.0 when name contains it.
// The result is divided by the token count and may exceed 1.
func overlapScore(tokens []string, text, name string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var score float64
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			continue
		}
		score++
		if strings.Contains(text, " "+tok+" ") || strings.HasPrefix(text, tok) || strings.HasSuffix(text, tok) {
			score += 0.5
		}
		if name != "" && strings.Contains(name, tok) {
			score += 2.0
		}
	}
	return score / float64(len(tokens))
}
