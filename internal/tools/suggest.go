package tools

import (
	"sort"
	"strings"
	"unicode"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

const defaultSuggestions = 3

// similarParts ranks known parts by how closely their part number resembles
// input: +3 for a shared two-character prefix, +5 for a shared four-character
// prefix, +1 per positionally equal digit. Scores of two or less are dropped.
func similarParts(input string, parts []domain.Part, n int) []domain.Part {
	if n <= 0 {
		n = defaultSuggestions
	}
	needle := strings.ToUpper(strings.TrimSpace(input))
	if needle == "" {
		return nil
	}
	needleDigits := digitsOf(needle)

	type scored struct {
		part  domain.Part
		score int
	}
	var ranked []scored
	for _, p := range parts {
		candidate := strings.ToUpper(p.PartNumber)
		score := 0
		if sharesPrefix(needle, candidate, 2) {
			score += 3
		}
		if sharesPrefix(needle, candidate, 4) {
			score += 5
		}
		score += positionalMatches(needleDigits, digitsOf(candidate))
		if score > 2 {
			ranked = append(ranked, scored{part: p, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]domain.Part, len(ranked))
	for i, r := range ranked {
		out[i] = r.part
	}
	return out
}

// sharesPrefix compares the first n bytes of a and b. A string shorter than n
// takes part whole, so "PS1" shares a 4-byte prefix only with "PS1".
func sharesPrefix(a, b string, n int) bool {
	return head(a, n) == head(b, n)
}

func head(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func digitsOf(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func positionalMatches(a, b string) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			n++
		}
	}
	return n
}
