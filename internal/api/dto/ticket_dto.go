package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerName        string   `json:"customerName" validate:"notblank,max=200"`
	CustomerEmail       string   `json:"customerEmail" validate:"required,email,max=254"`
	CustomerPhone       string   `json:"customerPhone" validate:"max=40"`
	IssueType           string   `json:"issueType" validate:"notblank"`
	ApplianceType       string   `json:"applianceType" validate:"omitempty,oneof=refrigerator dishwasher"`
	ModelNumber         string   `json:"modelNumber" validate:"max=40"`
	PartNumber          string   `json:"partNumber" validate:"max=40"`
	IssueDescription    string   `json:"issueDescription" validate:"notblank,max=5000"`
	ConversationSummary string   `json:"conversationSummary" validate:"max=5000"`
	StepsAlreadyTried   []string `json:"stepsAlreadyTried" validate:"max=20,dive,max=500"`
	Priority            string   `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// Draft converts the payload into a ticket draft.
func (r CreateTicketRequest) Draft() domain.TicketDraft {
	return domain.TicketDraft{
		CustomerName:        r.CustomerName,
		CustomerEmail:       r.CustomerEmail,
		CustomerPhone:       r.CustomerPhone,
		IssueType:           domain.IssueType(r.IssueType),
		ApplianceType:       domain.Category(r.ApplianceType),
		ModelNumber:         r.ModelNumber,
		PartNumber:          r.PartNumber,
		IssueDescription:    r.IssueDescription,
		ConversationSummary: r.ConversationSummary,
		StepsAlreadyTried:   r.StepsAlreadyTried,
		Priority:            domain.TicketPriority(r.Priority),
	}
}

// TicketResponse is a ticket as returned over the API.
type TicketResponse struct {
	ID                  string                `json:"id"`
	TicketNumber        string                `json:"ticketNumber"`
	Status              domain.TicketStatus   `json:"status"`
	Priority            domain.TicketPriority `json:"priority"`
	CustomerName        string                `json:"customerName"`
	CustomerEmail       string                `json:"customerEmail"`
	CustomerPhone       string                `json:"customerPhone,omitempty"`
	IssueType           domain.IssueType      `json:"issueType"`
	ApplianceType       domain.Category       `json:"applianceType,omitempty"`
	ModelNumber         string                `json:"modelNumber,omitempty"`
	PartNumber          string                `json:"partNumber,omitempty"`
	IssueDescription    string                `json:"issueDescription"`
	ConversationSummary string                `json:"conversationSummary"`
	StepsAlreadyTried   []string              `json:"stepsAlreadyTried"`
	CreatedAt           time.Time             `json:"createdAt"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t domain.SupportTicket) TicketResponse {
	steps := t.StepsAlreadyTried
	if steps == nil {
		steps = []string{}
	}
	return TicketResponse{
		ID:                  t.ID,
		TicketNumber:        t.TicketNumber,
		Status:              t.Status,
		Priority:            t.Priority,
		CustomerName:        t.CustomerName,
		CustomerEmail:       t.CustomerEmail,
		CustomerPhone:       t.CustomerPhone,
		IssueType:           t.IssueType,
		ApplianceType:       t.ApplianceType,
		ModelNumber:         t.ModelNumber,
		PartNumber:          t.PartNumber,
		IssueDescription:    t.IssueDescription,
		ConversationSummary: t.ConversationSummary,
		StepsAlreadyTried:   steps,
		CreatedAt:           t.CreatedAt,
	}
}

// TicketCreatedMessage is the confirmation shown after a ticket is opened.
func TicketCreatedMessage(t domain.SupportTicket) string {
	return fmt.Sprintf("Support ticket %s created successfully. Our team will contact you at %s within 24 hours.",
		t.TicketNumber, t.CustomerEmail)
}

// TicketListQuery captures query filters for GET /api/tickets.
type TicketListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority string `query:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Email    string `query:"email" validate:"omitempty,email"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
	Offset   int    `query:"offset" validate:"gte=0"`
}
