package domain

import "strings"

// Intent is the classified purpose of a user turn.
type Intent string

const (
	IntentSearch            Intent = "search"
	IntentCompatibility     Intent = "compatibility"
	IntentTroubleshooting   Intent = "troubleshooting"
	IntentInstallation      Intent = "installation"
	IntentOrderStatus       Intent = "order_status"
	IntentSupportTicket     Intent = "support_ticket"
	IntentFindModelLocation Intent = "find_model_location"
	IntentClarification     Intent = "clarification"
	IntentOffTopic          Intent = "off_topic"
	IntentGreeting          Intent = "greeting"
	IntentFarewell          Intent = "farewell"
	IntentGeneral           Intent = "general"
)

var knownIntents = map[Intent]struct{}{
	IntentSearch: {}, IntentCompatibility: {}, IntentTroubleshooting: {}, IntentInstallation: {},
	IntentOrderStatus: {}, IntentSupportTicket: {}, IntentFindModelLocation: {}, IntentClarification: {},
	IntentOffTopic: {}, IntentGreeting: {}, IntentFarewell: {}, IntentGeneral: {},
}

// Known reports whether i is one of the supported intents.
func (i Intent) Known() bool {
	_, ok := knownIntents[i]
	return ok
}

// ToolName identifies a domain tool.
type ToolName string

const (
	ToolSearchProducts      ToolName = "search_products"
	ToolCheckCompatibility  ToolName = "check_compatibility"
	ToolGetCompatibleParts  ToolName = "get_compatible_parts"
	ToolTroubleshootIssue   ToolName = "troubleshoot_issue"
	ToolGetInstallationHelp ToolName = "get_installation_help"
	ToolCheckOrderStatus    ToolName = "check_order_status"
	ToolCreateSupportTicket ToolName = "create_support_ticket"
)

// ResponseStyle shapes how verbose the final reply is.
type ResponseStyle string

const (
	StyleBrief    ResponseStyle = "brief"
	StyleStandard ResponseStyle = "standard"
	StyleDetailed ResponseStyle = "detailed"
)

// SortField selects the product ordering.
type SortField string

const (
	SortRelevance SortField = "relevance"
	SortPrice     SortField = "price"
	SortRating    SortField = "rating"
	SortReviews   SortField = "reviews"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DefaultResultLimit is used when the user gives no quantity cue.
const DefaultResultLimit = 5

// MaxResultLimit caps any requested quantity.
const MaxResultLimit = 50

// Decision is the structured output of either decision engine.
type Decision struct {
	Intent                Intent            `json:"intent"`
	Tool                  ToolName          `json:"toolToUse,omitempty"`
	Parameters            map[string]string `json:"parameters"`
	Reasoning             string            `json:"reasoning"`
	NeedsClarification    bool              `json:"needsClarification"`
	ClarificationQuestion string            `json:"clarificationQuestion,omitempty"`
	NeedsTicketForm       bool              `json:"needsTicketForm,omitempty"`
	TicketReason          string            `json:"ticketReason,omitempty"`
	SuggestedPriority     TicketPriority    `json:"suggestedPriority,omitempty"`
	ResultLimit           int               `json:"resultLimit"`
	ResponseStyle         ResponseStyle     `json:"responseStyle"`
	SortBy                SortField         `json:"sortBy"`
	SortOrder             SortOrder         `json:"sortOrder"`
	ContextDepth          int               `json:"contextDepth"`
}

// Param returns the named parameter or "".
func (d Decision) Param(name string) string {
	if d.Parameters == nil {
		return ""
	}
	return d.Parameters[name]
}

// ParseSortField returns the sort field named by s, or "" when unknown.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortRelevance, SortPrice, SortRating, SortReviews:
		return f
	default:
		return ""
	}
}

// ParseSortOrder returns the order named by s, or "" when unknown.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortAsc, SortDesc:
		return o
	default:
		return ""
	}
}
