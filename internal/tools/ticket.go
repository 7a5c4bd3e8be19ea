package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// CreateSupportTicket implements create_support_ticket. Input is assumed to be
// validated by the caller; only presence of the required fields is checked.
type CreateSupportTicket struct {
	base
	tickets TicketCreator
}

// NewCreateSupportTicket constructs the escalation tool.
func NewCreateSupportTicket(tickets TicketCreator, logger *zap.Logger) *CreateSupportTicket {
	issueTypes := make([]string, len(domain.IssueTypes))
	for i, it := range domain.IssueTypes {
		issueTypes[i] = string(it)
	}
	schema := Schema{
		Name:        domain.ToolCreateSupportTicket,
		Description: "Open a support ticket so a human agent follows up with the customer.",
		Params: []ParamSpec{
			{Name: "customerName", Type: "string", Description: "Customer's full name", Required: true, label: "name"},
			{Name: "customerEmail", Type: "string", Description: "Email address for follow-up", Required: true, label: "email address"},
			{Name: "customerPhone", Type: "string", Description: "Phone number"},
			{Name: "issueType", Type: "string", Description: "Type of issue", Required: true, Enum: issueTypes, label: "issue type", example: "part_defect"},
			{Name: "applianceType", Type: "string", Description: "Type of appliance", Enum: categoryEnum},
			{Name: "modelNumber", Type: "string", Description: "Appliance model number"},
			{Name: "partNumber", Type: "string", Description: "Part number"},
			{Name: "issueDescription", Type: "string", Description: "Detailed description of the issue", Required: true, label: "description of the issue"},
			{Name: "conversationSummary", Type: "string", Description: "Summary of the conversation so far"},
			{Name: "stepsAlreadyTried", Type: "string", Description: "Comma-separated steps already attempted"},
			{Name: "priority", Type: "string", Description: "Ticket priority", Enum: []string{"low", "normal", "high", "urgent"}},
		},
	}
	return &CreateSupportTicket{base: newBase(schema, logger), tickets: tickets}
}

// DraftFromParams converts tool arguments into a ticket draft.
func DraftFromParams(p Params) domain.TicketDraft {
	var steps []string
	for _, s := range strings.Split(p.get("stepsAlreadyTried"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	return domain.TicketDraft{
		CustomerName:        p.get("customerName"),
		CustomerEmail:       p.get("customerEmail"),
		CustomerPhone:       p.get("customerPhone"),
		IssueType:           domain.ParseIssueType(p.get("issueType")),
		ApplianceType:       domain.ParseCategory(p.get("applianceType")),
		ModelNumber:         strings.ToUpper(p.get("modelNumber")),
		PartNumber:          strings.ToUpper(p.get("partNumber")),
		IssueDescription:    p.get("issueDescription"),
		ConversationSummary: p.get("conversationSummary"),
		StepsAlreadyTried:   steps,
		Priority:            domain.ParseTicketPriority(p.get("priority")),
	}
}

// Execute opens the ticket.
func (t *CreateSupportTicket) Execute(ctx context.Context, params Params) Result {
	if res, ok := t.checkRequired(params); !ok {
		return res
	}
	if t.tickets == nil {
		return t.unavailable(fmt.Errorf("ticket service not configured"))
	}

	ticket, err := t.tickets.CreateTicket(ctx, DraftFromParams(params))
	if err != nil {
		t.logger.Error("creating ticket failed", zap.Error(err))
		return Result{
			Success: false,
			Message: "I wasn't able to create your support ticket just now. Please try again in a moment.",
		}
	}
	return Result{Success: true, Data: ticket, Message: TicketConfirmation(ticket)}
}

// TicketConfirmation renders the confirmation shown after a ticket is opened.
func TicketConfirmation(ticket domain.SupportTicket) string {
	return fmt.Sprintf(`## Support Ticket Created Successfully!

**Ticket Number:** %s
**Status:** %s
**Priority:** %s

### Issue Summary
%s

### What Happens Next
Our support team will review your ticket and contact you at **%s** within 24 hours.

If this is urgent, please call our support line at 1-800-PARTSELECT.

Is there anything else I can help you with?`,
		ticket.TicketNumber,
		capitalize(strings.ReplaceAll(string(ticket.Status), "_", " ")),
		capitalize(string(ticket.Priority)),
		ticket.IssueDescription,
		ticket.CustomerEmail,
	)
}
