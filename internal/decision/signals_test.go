package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

func TestContextDepth(t *testing.T) {
	assert.Equal(t, 10, ContextDepth("I need support", 20))
	assert.Equal(t, 3, ContextDepth("create a ticket", 3))
	assert.Equal(t, 6, ContextDepth("what about the door", 20))
	assert.Equal(t, 8, ContextDepth("it's broken", 20))
	assert.Equal(t, 2, ContextDepth("ok", 2))
	assert.Equal(t, 4, ContextDepth("ok", 9))
	assert.Equal(t, 0, ContextDepth("ok", 0))
}

func TestResultLimit(t *testing.T) {
	cases := map[string]int{
		"show me all dishwasher parts": 50,
		"top 3 filters":                3,
		"give me 200 parts":            50,
		"recommend a filter":           5,
		"what should I install":        5,
	}
	for msg, want := range cases {
		assert.Equal(t, want, ResultLimit(msg, 0), msg)
	}
	assert.Equal(t, 7, ResultLimit("filters", 7))
	assert.Equal(t, 50, ResultLimit("filters", 90))
}

func TestStyle(t *testing.T) {
	assert.Equal(t, domain.StyleBrief, Style("quick answer please"))
	assert.Equal(t, domain.StyleBrief, Style("I tried everything, explain why"))
	assert.Equal(t, domain.StyleDetailed, Style("explain step by step"))
	assert.Equal(t, domain.StyleStandard, Style("water filter"))
}

func TestSort(t *testing.T) {
	cases := []struct {
		msg   string
		field domain.SortField
		order domain.SortOrder
	}{
		{"cheapest filter", domain.SortPrice, domain.SortAsc},
		{"premium ice maker", domain.SortPrice, domain.SortDesc},
		{"best rated pump", domain.SortRating, domain.SortDesc},
		{"most popular parts", domain.SortReviews, domain.SortDesc},
		{"a filter", domain.SortRelevance, domain.SortDesc},
	}
	for _, tc := range cases {
		f, o := Sort(tc.msg)
		assert.Equal(t, tc.field, f, tc.msg)
		assert.Equal(t, tc.order, o, tc.msg)
	}
}

func TestDetectPreviousIntent(t *testing.T) {
	cases := map[string]PreviousIntent{
		"I can only help with refrigerator and dishwasher parts. Which appliance?": PrevOffTopic,
		"Please provide your order number.":                                       PrevAwaitingOrderNumber,
		"Is this for a refrigerator or dishwasher?":                               PrevAwaitingApplianceType,
		"Let me check compatibility for you.":                                     PrevCompatibility,
		"Here is how to install it.":                                              PrevInstallation,
		"Let's troubleshoot this.":                                                PrevTroubleshooting,
		"What is the part number?":                                                PrevAwaitingDetails,
		"Here are some options.":                                                  PrevNone,
	}
	for content, want := range cases {
		history := []domain.ChatMessage{user("x"), assistant(content), user("y")}
		assert.Equal(t, want, DetectPreviousIntent(history), content)
	}
	assert.Equal(t, PrevNone, DetectPreviousIntent(nil))
}
