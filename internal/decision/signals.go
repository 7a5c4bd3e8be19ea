package decision

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

var quoteReplacer = strings.NewReplacer("’", "'", "‘", "'")

// normalize lower-cases text and straightens curly apostrophes.
func normalize(text string) string {
	return quoteReplacer.Replace(strings.ToLower(text))
}

var (
	depthSupportRe  = regexp.MustCompile(`support|ticket|help|frustrated|tried everything`)
	depthFollowUpRe = regexp.MustCompile(`what about|and also|another|also need|in addition`)
	depthTroubleRe  = regexp.MustCompile(`troubleshoot|not working|problem|issue|broken`)
)

// ContextDepth is how many trailing history turns matter for message.
func ContextDepth(message string, historyLen int) int {
	lower := normalize(message)
	switch {
	case depthSupportRe.MatchString(lower):
		return min(historyLen, 10)
	case depthFollowUpRe.MatchString(lower):
		return min(historyLen, 6)
	case depthTroubleRe.MatchString(lower):
		return min(historyLen, 8)
	case historyLen <= 2:
		return historyLen
	default:
		return min(historyLen, 4)
	}
}

var (
	limitAllRe    = regexp.MustCompile(`\b(all|every|complete|full list|everything|entire|whole)\b`)
	limitNumberRe = regexp.MustCompile(`(?:top|first|show me|give me|need)\s*(\d+)`)
	limitFewRe    = regexp.MustCompile(`\b(a few|some|recommend|suggest)\b`)
)

// ResultLimit derives how many results the user asked for. suggested is used
// when the message carries no quantity cue and suggested is positive.
func ResultLimit(message string, suggested int) int {
	lower := normalize(message)
	if limitAllRe.MatchString(lower) {
		return domain.MaxResultLimit
	}
	if m := limitNumberRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return min(n, domain.MaxResultLimit)
		}
	}
	if limitFewRe.MatchString(lower) {
		return domain.DefaultResultLimit
	}
	if suggested > 0 {
		return min(suggested, domain.MaxResultLimit)
	}
	return domain.DefaultResultLimit
}

var (
	styleFrustratedRe = regexp.MustCompile(`tried everything|frustrated|not working again|still broken`)
	styleBriefRe      = regexp.MustCompile(`quick|brief|short|just tell me|simple answer|tldr|in short`)
	styleDetailedRe   = regexp.MustCompile(`explain|detail|step by step|thorough|comprehensive|tell me more|how does|\bwhy\b`)
)

// Style picks the response verbosity. Frustration always means brief.
func Style(message string) domain.ResponseStyle {
	lower := normalize(message)
	switch {
	case styleFrustratedRe.MatchString(lower), styleBriefRe.MatchString(lower):
		return domain.StyleBrief
	case styleDetailedRe.MatchString(lower):
		return domain.StyleDetailed
	default:
		return domain.StyleStandard
	}
}

var sortRules = []struct {
	re    *regexp.Regexp
	field domain.SortField
	order domain.SortOrder
}{
	{regexp.MustCompile(`cheapest|lowest price|budget|affordable|inexpensive`), domain.SortPrice, domain.SortAsc},
	{regexp.MustCompile(`most expensive|premium|high.?end|best quality`), domain.SortPrice, domain.SortDesc},
	{regexp.MustCompile(`best rated|highest rated|top rated|best reviewed`), domain.SortRating, domain.SortDesc},
	{regexp.MustCompile(`most popular|most reviews|most purchased|best seller`), domain.SortReviews, domain.SortDesc},
}

// Sort derives the product ordering the user asked for.
func Sort(message string) (domain.SortField, domain.SortOrder) {
	lower := normalize(message)
	for _, r := range sortRules {
		if r.re.MatchString(lower) {
			return r.field, r.order
		}
	}
	return domain.SortRelevance, domain.SortDesc
}

// PreviousIntent classifies what the latest assistant turn was waiting for.
type PreviousIntent string

const (
	PrevNone                  PreviousIntent = ""
	PrevOffTopic              PreviousIntent = "off_topic_response"
	PrevAwaitingOrderNumber   PreviousIntent = "awaiting_order_number"
	PrevAwaitingApplianceType PreviousIntent = "awaiting_appliance_type"
	PrevCompatibility         PreviousIntent = "compatibility"
	PrevInstallation          PreviousIntent = "installation"
	PrevTroubleshooting       PreviousIntent = "troubleshooting"
	PrevAwaitingDetails       PreviousIntent = "awaiting_details"
	PrevOrderStatus           PreviousIntent = "order_status"
)

// previousIntentRules are checked in order against the last assistant turn.
// Redirections come first since they mention the capabilities by name.
var previousIntentRules = []struct {
	intent  PreviousIntent
	phrases []string
}{
	{PrevOffTopic, []string{
		"only help with refrigerator and dishwasher", "can't help with", "outside my expertise",
		"not able to assist", "focus on appliance parts",
	}},
	{PrevAwaitingOrderNumber, []string{"order number", "track your order", "order status"}},
	{PrevAwaitingApplianceType, []string{"which appliance", "refrigerator or dishwasher", "refrigerator or a dishwasher"}},
	{PrevCompatibility, []string{"compatibility", "compatible"}},
	{PrevInstallation, []string{"install"}},
	{PrevTroubleshooting, []string{"troubleshoot", "fix", "not working"}},
	{PrevAwaitingDetails, []string{"part number", "model number"}},
}

// DetectPreviousIntent inspects the most recent assistant message.
func DetectPreviousIntent(history []domain.ChatMessage) PreviousIntent {
	var content string
	found := false
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleAssistant {
			content = normalize(history[i].Content)
			found = true
			break
		}
	}
	if !found {
		return PrevNone
	}
	for _, rule := range previousIntentRules {
		for _, p := range rule.phrases {
			if strings.Contains(content, p) {
				return rule.intent
			}
		}
	}
	if strings.Contains(content, "order") && strings.Contains(content, "provide") {
		return PrevOrderStatus
	}
	return PrevNone
}

// lastUserMessage returns the newest user turn in history.
func lastUserMessage(history []domain.ChatMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content, true
		}
	}
	return "", false
}
