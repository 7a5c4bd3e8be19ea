package domain

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DataSource tells the caller where the answer came from.
type DataSource string

const (
	DataSourceDatabase         DataSource = "database"
	DataSourceExternalFallback DataSource = "external_fallback"
	DataSourceExternalEnhanced DataSource = "external_enhanced"
)

// ChatResponse is returned to the caller for every turn.
type ChatResponse struct {
	Message             string         `json:"message"`
	Products            []Part         `json:"products"`
	ToolUsed            ToolName       `json:"toolUsed,omitempty"`
	Intent              Intent         `json:"intent"`
	DataSource          DataSource     `json:"dataSource"`
	ShowTicketForm      bool           `json:"showTicketForm,omitempty"`
	PrefilledTicketData *TicketDraft   `json:"prefilledTicketData,omitempty"`
	TicketData          *SupportTicket `json:"ticketData,omitempty"`
}
