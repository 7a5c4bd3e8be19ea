package decision

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/extract"
)

// GreetingMenu is returned for bare greetings.
const GreetingMenu = "Hello! I'm the PartSelect assistant, here to help with refrigerator and dishwasher parts. How can I help you today?\n\n" +
	"- **Find parts** - \"Show me water filters\"\n" +
	"- **Check compatibility** - \"Is part PS11752778 compatible with my model?\"\n" +
	"- **Troubleshoot** - \"My ice maker isn't working\"\n" +
	"- **Installation help** - \"How do I install part PS11752778?\"\n" +
	"- **Track order** - \"Track order PS-2024-78542\""

var (
	greetingRe        = regexp.MustCompile(`^(hello|hi|hey|good morning|good afternoon|good evening|good night|hi there|hey there|howdy)[!.]*$`)
	farewellRe        = regexp.MustCompile(`^(thanks|thank you|thx|ty|bye|goodbye|see you|take care)[!.]*$`)
	applianceAnswerRe = regexp.MustCompile(`^(refrigerator|fridge|dishwasher)[!.]*$`)

	unsupportedApplianceRe = regexp.MustCompile(`\b(washer|dryer|oven|stove|microwave|range|vacuum|air conditioner|air ?con)\b`)
	offTopicSubjectRe      = regexp.MustCompile(`\b(weather|sports?|news|recipes?|movies?|jokes?|stock market|stocks|crypto(currency)?|bitcoin|traffic|what time is it|politics)\b`)
	trapRe                 = regexp.MustCompile(`\b(can you (dance|sing|play|tell me a joke|write|code|help me with homework)|what is (your name|the meaning of life|love|happiness)|how are you|who are you|are you (human|real|ai|a robot)|hello|hi there|hey|good morning|good night|thanks|thank you|bye|goodbye)\b`)
	applianceContextRe     = regexp.MustCompile(`part|model|install|fix|repair|troubleshoot|compatible|refrigerator|fridge|dishwasher|ice|water|filter|drain|spray|door|motor|pump|gasket|thermostat`)
	backReferenceRe        = regexp.MustCompile(`any of the above|these products|which one`)
	findModelRe            = regexp.MustCompile(`where.*find.*model|locate.*model|find.*my.*model`)
	orderLanguageRe        = regexp.MustCompile(`\b(order|orders|track|tracking|shipment|shipped|delivery|status)\b`)

	supportDirectRe = regexp.MustCompile(`support ticket|create (a )?ticket|talk to (a |someone|human|person)|speak to (a |someone|human|person)|customer service|contact support|need help from|real person`)
	frustrationRe   = regexp.MustCompile(`tried everything|nothing works|i'?m done|this is (ridiculous|frustrating|impossible)|give up|can'?t (do|figure|fix) this|waste of time|hours on this|still (not working|broken|doesn'?t work)`)
	escalationRe    = regexp.MustCompile(`refund|warranty|dangerous|fire|smoke|spark|electric|lawyer|\bsue\b|\bbbb\b|better business|complain`)
	safetyRe        = regexp.MustCompile(`fire|smoke|spark|dangerous`)

	installRe          = regexp.MustCompile(`\b(install|installation|instructions|steps|replace|remove|how\s+to)\b|\bput\b.+\bin\b|\bset\b.+\bup\b`)
	compatibilityRe    = regexp.MustCompile(`compatib|\bfits?\b|\bworks?\b.+\bwith\b`)
	compatiblePartsRe  = regexp.MustCompile(`what parts fit|compatible parts|parts fit|parts that fit|parts for (my |this |the )?model`)
	problemRe          = regexp.MustCompile(`not working|broken|problem|issue|won'?t|doesn'?t|isn'?t|\bfix|repair|leak|not draining|not cleaning|not cooling|noisy|noise|frost|build.?up|not dispensing|not making ice`)
	searchKeywordRe    = regexp.MustCompile(`refrigerator|fridge|dishwasher|parts|filter|ice|door|shelf|spray arm|drain pump|rack adjuster|water inlet valve`)
	priceFilterRe      = regexp.MustCompile(`under \$?\d+|\$\d+`)
	partsWordRe        = regexp.MustCompile(`parts\b`)
	helpRequestRe      = regexp.MustCompile(`help me|i need help|can you help|need help`)
)

// IsGreeting reports whether message is a bare greeting.
func IsGreeting(message string) bool {
	return greetingRe.MatchString(strings.TrimSpace(normalize(message)))
}

// IsFarewell reports whether message is a bare thanks or goodbye.
func IsFarewell(message string) bool {
	return farewellRe.MatchString(strings.TrimSpace(normalize(message)))
}

// GreetingDecision is the fixed decision for a greeting.
func GreetingDecision() domain.Decision {
	return domain.Decision{
		Intent:                domain.IntentGreeting,
		Parameters:            map[string]string{},
		Reasoning:             "User greeting",
		NeedsClarification:    true,
		ClarificationQuestion: GreetingMenu,
		ResultLimit:           domain.DefaultResultLimit,
		ResponseStyle:         domain.StyleStandard,
		SortBy:                domain.SortRelevance,
		SortOrder:             domain.SortDesc,
	}
}

// FarewellDecision is the fixed decision for thanks or goodbye.
func FarewellDecision() domain.Decision {
	return domain.Decision{
		Intent:        domain.IntentFarewell,
		Parameters:    map[string]string{},
		Reasoning:     "User saying thanks/goodbye",
		ResultLimit:   domain.DefaultResultLimit,
		ResponseStyle: domain.StyleStandard,
		SortBy:        domain.SortRelevance,
		SortOrder:     domain.SortDesc,
	}
}

// FallbackEngine is the deterministic rule-based decision engine.
type FallbackEngine struct{}

// NewFallbackEngine constructs the rule engine.
func NewFallbackEngine() *FallbackEngine {
	return &FallbackEngine{}
}

// turn holds everything derived from one message before the cascade runs.
type turn struct {
	message string
	lower   string
	history []domain.ChatMessage
	prev    PreviousIntent
	ids     extract.Params

	limit     int
	style     domain.ResponseStyle
	sortBy    domain.SortField
	sortOrder domain.SortOrder
	depth     int
}

func newTurn(message string, history []domain.ChatMessage) turn {
	depth := ContextDepth(message, len(history))
	sortBy, sortOrder := Sort(message)
	return turn{
		message:   message,
		lower:     normalize(message),
		history:   history,
		prev:      DetectPreviousIntent(history),
		ids:       extract.FromConversation(message, history, depth),
		limit:     ResultLimit(message, 0),
		style:     Style(message),
		sortBy:    sortBy,
		sortOrder: sortOrder,
		depth:     depth,
	}
}

// decide builds a complete decision for one branch of the cascade.
func (t turn) decide(intent domain.Intent, tool domain.ToolName, params map[string]string, reasoning string) domain.Decision {
	if params == nil {
		params = map[string]string{}
	}
	return domain.Decision{
		Intent:        intent,
		Tool:          tool,
		Parameters:    params,
		Reasoning:     reasoning,
		ResultLimit:   t.limit,
		ResponseStyle: t.style,
		SortBy:        t.sortBy,
		SortOrder:     t.sortOrder,
		ContextDepth:  t.depth,
	}
}

func (t turn) clarify(intent domain.Intent, params map[string]string, reasoning, question string) domain.Decision {
	d := t.decide(intent, "", params, reasoning)
	d.NeedsClarification = true
	d.ClarificationQuestion = question
	return d
}

func (t turn) ticket(reasoning string, priority domain.TicketPriority) domain.Decision {
	d := t.decide(domain.IntentSupportTicket, "", t.known(), reasoning)
	d.NeedsTicketForm = true
	d.TicketReason = reasoning
	d.SuggestedPriority = priority
	return d
}

// known returns the identifiers extracted so far.
func (t turn) known() map[string]string {
	params := map[string]string{}
	if t.ids.PartNumber != "" {
		params["partNumber"] = t.ids.PartNumber
	}
	if t.ids.ModelNumber != "" {
		params["modelNumber"] = t.ids.ModelNumber
	}
	if t.ids.Category != "" {
		params["category"] = string(t.ids.Category)
	}
	return params
}

func (t turn) searchParams(query string, category domain.Category) map[string]string {
	params := map[string]string{
		"query":     query,
		"limit":     strconv.Itoa(t.limit),
		"sortBy":    string(t.sortBy),
		"sortOrder": string(t.sortOrder),
	}
	if category != "" {
		params["category"] = string(category)
	}
	return params
}

// Analyze runs the ordered rule cascade. The same input always produces the
// same decision.
func (e *FallbackEngine) Analyze(message string, history []domain.ChatMessage) domain.Decision {
	t := newTurn(message, history)
	trimmed := strings.TrimSpace(t.lower)
	isApplianceAnswer := applianceAnswerRe.MatchString(trimmed)

	if t.prev == PrevOffTopic && isApplianceAnswer {
		appliance := domain.ParseCategory(strings.Trim(trimmed, "!."))
		return t.clarify(domain.IntentClarification, map[string]string{"category": string(appliance)},
			"User named an appliance after an off-topic redirect", categoryMenu(appliance))
	}

	if isApplianceAnswer && t.prev != PrevNone {
		if d, ok := t.resume(domain.ParseCategory(strings.Trim(trimmed, "!."))); ok {
			return d
		}
	}

	if unsupportedApplianceRe.MatchString(t.lower) && !strings.Contains(t.lower, "dishwasher") {
		return t.decide(domain.IntentOffTopic, "", nil, "User asked about an unsupported appliance")
	}

	if offTopicSubjectRe.MatchString(t.lower) {
		return t.decide(domain.IntentOffTopic, "", nil, "Non-appliance question")
	}

	if trapRe.MatchString(t.lower) && !applianceContextRe.MatchString(t.lower) {
		switch {
		case IsGreeting(message):
			return GreetingDecision()
		case IsFarewell(message):
			return FarewellDecision()
		default:
			return t.decide(domain.IntentOffTopic, "", nil, "Conversational probe with no appliance context")
		}
	}

	if backReferenceRe.MatchString(t.lower) {
		return t.clarify(domain.IntentClarification, t.known(),
			"User referred to earlier products without naming one",
			"Which specific product would you like help with? Please mention the part number.")
	}

	if findModelRe.MatchString(t.lower) {
		return t.decide(domain.IntentFindModelLocation, "", nil, "User wants to know where the model number is printed")
	}

	if d, ok := t.order(); ok {
		return d
	}

	if d, ok := t.support(); ok {
		return d
	}

	if installRe.MatchString(t.lower) {
		if t.ids.PartNumber == "" {
			return t.clarify(domain.IntentClarification, t.known(), "Installation request without a part number",
				"What is the part number (PS, WP or W format) or the exact part name you want to install?")
		}
		return t.decide(domain.IntentInstallation, domain.ToolGetInstallationHelp,
			map[string]string{"partNumber": t.ids.PartNumber}, "User wants installation help for a specific part")
	}

	if compatibilityRe.MatchString(t.lower) {
		if d, ok := t.compatibility(); ok {
			return d
		}
	}

	if problemRe.MatchString(t.lower) {
		if t.ids.Category == "" {
			return t.clarify(domain.IntentClarification, t.known(), "Problem described without an appliance type",
				"Is this for a refrigerator or a dishwasher?")
		}
		return t.decide(domain.IntentTroubleshooting, domain.ToolTroubleshootIssue,
			map[string]string{"symptom": message, "applianceType": string(t.ids.Category)},
			"User is describing a problem")
	}

	if searchKeywordRe.MatchString(t.lower) {
		if partsWordRe.MatchString(t.lower) && t.ids.Category == "" && priceFilterRe.MatchString(t.lower) {
			return t.clarify(domain.IntentClarification, t.known(), "Price filter without an appliance category",
				"Are you looking for refrigerator parts or dishwasher parts?")
		}
		return t.decide(domain.IntentSearch, domain.ToolSearchProducts,
			t.searchParams(message, t.ids.Category), "User is searching for parts")
	}

	if helpRequestRe.MatchString(t.lower) {
		return t.clarify(domain.IntentClarification, t.known(), "Vague request for help",
			"Are you looking for a part, a compatibility check, troubleshooting help, or installation instructions?")
	}

	return t.decide(domain.IntentGeneral, "", t.known(), "General query with no clear tool")
}

// resume continues a pending intent once the user names the appliance.
func (t turn) resume(category domain.Category) (domain.Decision, bool) {
	params := t.known()
	params["category"] = string(category)

	pending := t.prev
	earlier, hasEarlier := lastUserMessage(t.history)
	lowerEarlier := normalize(earlier)
	if pending == PrevAwaitingApplianceType && hasEarlier {
		switch {
		case compatibilityRe.MatchString(lowerEarlier):
			pending = PrevCompatibility
		case installRe.MatchString(lowerEarlier):
			pending = PrevInstallation
		}
	}

	switch pending {
	case PrevCompatibility, PrevAwaitingDetails:
		if t.ids.PartNumber != "" && t.ids.ModelNumber != "" {
			return t.decide(domain.IntentCompatibility, domain.ToolCheckCompatibility, params,
				"User answered the appliance type; continuing the compatibility check"), true
		}
		return t.clarify(domain.IntentCompatibility, params,
			"User answered the appliance type but part or model number is missing",
			compatibilityQuestion(category, t.ids)), true

	case PrevInstallation:
		if t.ids.PartNumber != "" {
			return t.decide(domain.IntentInstallation, domain.ToolGetInstallationHelp, params,
				"User answered the appliance type; continuing installation help"), true
		}
		return t.clarify(domain.IntentInstallation, params,
			"User answered the appliance type but the part number is missing",
			fmt.Sprintf("Great, you need installation help for a %s! What's the part number you want to install?", category)), true

	case PrevAwaitingApplianceType, PrevTroubleshooting:
		if !hasEarlier {
			break
		}
		switch {
		case problemRe.MatchString(lowerEarlier):
			return t.decide(domain.IntentTroubleshooting, domain.ToolTroubleshootIssue,
				map[string]string{"symptom": earlier, "applianceType": string(category)},
				"User answered the appliance type for an earlier problem"), true
		case searchKeywordRe.MatchString(lowerEarlier) || priceFilterRe.MatchString(lowerEarlier):
			return t.decide(domain.IntentSearch, domain.ToolSearchProducts,
				t.searchParams(earlier, category),
				"User answered the appliance type for an earlier search"), true
		}
		return t.clarify(domain.IntentClarification, params,
			"User answered the appliance type with no pending request", categoryMenu(category)), true
	}
	return domain.Decision{}, false
}

func (t turn) order() (domain.Decision, bool) {
	if number, ok := extract.OrderNumber(t.message); ok {
		return t.decide(domain.IntentOrderStatus, domain.ToolCheckOrderStatus,
			map[string]string{"orderNumber": number}, "User provided an order number"), true
	}
	if t.prev == PrevAwaitingOrderNumber || t.prev == PrevOrderStatus {
		if number, ok := extract.OrderNumberAnswer(t.message); ok {
			return t.decide(domain.IntentOrderStatus, domain.ToolCheckOrderStatus,
				map[string]string{"orderNumber": number}, "User answered the order number request"), true
		}
	}
	if orderLanguageRe.MatchString(t.lower) {
		return t.clarify(domain.IntentOrderStatus, map[string]string{}, "Order question without an order number",
			"I'd be happy to help track your order! Please provide your order number (format: PS-XXXX-XXXXX, e.g., PS-2024-78542)."), true
	}
	return domain.Decision{}, false
}

func (t turn) support() (domain.Decision, bool) {
	switch {
	case escalationRe.MatchString(t.lower):
		priority := domain.TicketPriorityHigh
		if safetyRe.MatchString(t.lower) {
			priority = domain.TicketPriorityUrgent
		}
		return t.ticket("User has an escalation concern (safety, warranty or refund)", priority), true
	case frustrationRe.MatchString(t.lower):
		return t.ticket("User is frustrated after multiple attempts", domain.TicketPriorityNormal), true
	case supportDirectRe.MatchString(t.lower):
		return t.ticket("User directly requested support", domain.TicketPriorityNormal), true
	}
	return domain.Decision{}, false
}

func (t turn) compatibility() (domain.Decision, bool) {
	part, model := t.ids.PartNumber, t.ids.ModelNumber
	if compatiblePartsRe.MatchString(t.lower) {
		if model == "" {
			return t.clarify(domain.IntentClarification, t.known(), "Compatible parts requested without a model number",
				"What is your appliance model number?"), true
		}
		return t.decide(domain.IntentCompatibility, domain.ToolGetCompatibleParts,
			map[string]string{"modelNumber": model}, "User wants the parts that fit a model"), true
	}
	switch {
	case part != "" && model != "":
		return t.decide(domain.IntentCompatibility, domain.ToolCheckCompatibility, t.known(),
			"Checking whether a specific part fits a specific model"), true
	case model != "":
		return t.clarify(domain.IntentClarification, t.known(), "Compatibility question without a part number",
			"Which part number are you checking for compatibility with this model?"), true
	case part != "":
		return t.clarify(domain.IntentClarification, t.known(), "Compatibility question without a model number",
			"What is your appliance model number?"), true
	}
	return domain.Decision{}, false
}

func compatibilityQuestion(category domain.Category, ids extract.Params) string {
	switch {
	case ids.PartNumber != "" && ids.ModelNumber == "":
		return fmt.Sprintf("Great, you want to check whether %s fits your %s! What is your model number (e.g., WRS325SDHZ)?", ids.PartNumber, category)
	case ids.ModelNumber != "" && ids.PartNumber == "":
		return fmt.Sprintf("Great, you want to check a part for your %s model %s! Which part number (e.g., PS11752778)?", category, ids.ModelNumber)
	default:
		return fmt.Sprintf("Great, you want to check compatibility for a %s! I need:\n\n1. **Part number** (e.g., PS11752778)\n2. **Model number** (e.g., WRS325SDHZ)\n\nWhat are your part and model numbers?", category)
	}
}

func categoryMenu(category domain.Category) string {
	return fmt.Sprintf("I'd be happy to help with your %[1]s! What do you need?\n\n"+
		"- **Find parts** - \"Show me %[1]s parts\"\n"+
		"- **Troubleshoot** - \"My %[1]s is not working\"\n"+
		"- **Check compatibility** - \"Is part X compatible with my model?\"\n"+
		"- **Installation help** - \"How do I install part X?\"", category)
}
