// Package extract pulls part numbers, model numbers, order numbers and appliance
// categories out of free text. Every function is pure.
package extract

import (
	"fmt"
	"strings"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// PartNumber returns the first part number found, upper-cased.
func PartNumber(text string) (string, bool) {
	return firstMatch(partNumberRules, text)
}

// ModelNumber returns the first model number matched by a brand pattern or an
// explicit "model is ..." cue.
func ModelNumber(text string) (string, bool) {
	return firstMatch(modelNumberRules, text)
}

// ModelNumberLoose extends ModelNumber with a bare upper-case code fallback. Codes
// that overlap partNumber or look like part numbers are skipped.
func ModelNumberLoose(text, partNumber string) (string, bool) {
	if model, ok := ModelNumber(text); ok && !overlaps(model, partNumber) {
		return model, true
	}
	for _, m := range looseModelRule.re.FindAllString(text, -1) {
		candidate := looseModelRule.normalize(m)
		if overlaps(candidate, partNumber) {
			continue
		}
		if _, isPart := PartNumber(candidate); isPart {
			continue
		}
		return candidate, true
	}
	return "", false
}

func overlaps(candidate, partNumber string) bool {
	if partNumber == "" {
		return false
	}
	c, p := strings.ToUpper(candidate), strings.ToUpper(partNumber)
	return strings.Contains(c, p) || strings.Contains(p, c)
}

// OrderNumber returns the canonical PS-NNNN-NNNNN order number in text.
func OrderNumber(text string) (string, bool) {
	m := orderNumberRe.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// OrderNumberAnswer accepts a bare reply to an order-number prompt, tolerating a
// missing prefix or hyphens, and returns it in canonical form.
func OrderNumberAnswer(text string) (string, bool) {
	if n, ok := OrderNumber(text); ok {
		return n, true
	}
	m := orderNumberAnswerRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("PS-%s-%s", m[1], m[2]), true
}

// Category infers the appliance category from keyword containment. The first
// category with any matching keyword wins.
func Category(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, c := range categoryTable {
		if containsAny(lower, c.keywords) {
			return c.category
		}
	}
	return ""
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// Params holds the identifiers gathered for one turn.
type Params struct {
	PartNumber  string
	ModelNumber string
	Category    domain.Category
}

func (p Params) complete() bool {
	return p.PartNumber != "" && p.ModelNumber != "" && p.Category != ""
}

// FromConversation extracts identifiers from message and fills any gaps from the
// most recent depth user turns, newest first, stopping once everything is known.
func FromConversation(message string, history []domain.ChatMessage, depth int) Params {
	var p Params
	p.PartNumber, _ = PartNumber(message)
	p.ModelNumber, _ = ModelNumberLoose(message, p.PartNumber)
	p.Category = Category(message)

	scanned := 0
	for i := len(history) - 1; i >= 0 && scanned < depth && !p.complete(); i-- {
		turn := history[i]
		if turn.Role != domain.RoleUser {
			continue
		}
		scanned++
		if p.PartNumber == "" {
			p.PartNumber, _ = PartNumber(turn.Content)
		}
		if p.ModelNumber == "" {
			p.ModelNumber, _ = ModelNumberLoose(turn.Content, p.PartNumber)
		}
		if p.Category == "" {
			p.Category = Category(turn.Content)
		}
	}
	return p
}
