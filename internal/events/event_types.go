package events

import (
	"time"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketSuggested EventType = "ticket_suggested"
)

// ActorType identifies who caused an event.
type ActorType string

const (
	ActorCustomer  ActorType = "customer"
	ActorAssistant ActorType = "assistant"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type  ActorType `json:"type"`
	Email string    `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	TicketNumber string    `json:"ticket_number,omitempty"`
	Actor        Actor     `json:"actor"`
	Timestamp    time.Time `json:"timestamp"`
	Payload      any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID      string                `json:"ticket_id"`
	Priority      domain.TicketPriority `json:"priority"`
	IssueType     domain.IssueType      `json:"issue_type"`
	ApplianceType domain.Category       `json:"appliance_type,omitempty"`
	PartNumber    string                `json:"part_number,omitempty"`
}

// TicketSuggestedPayload is emitted when a conversation is routed to the
// ticket form.
type TicketSuggestedPayload struct {
	Reason   string                `json:"reason"`
	Priority domain.TicketPriority `json:"priority"`
}
