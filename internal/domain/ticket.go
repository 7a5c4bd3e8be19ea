package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ParseTicketPriority returns the priority for s, defaulting to normal.
func ParseTicketPriority(s string) TicketPriority {
	switch p := TicketPriority(s); p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return p
	default:
		return TicketPriorityNormal
	}
}

// IssueType classifies what a support ticket is about.
type IssueType string

const (
	IssueTypeOrderIssue       IssueType = "order_issue"
	IssueTypePartDefect       IssueType = "part_defect"
	IssueTypeInstallationHelp IssueType = "installation_help"
	IssueTypeCompatibility    IssueType = "compatibility"
	IssueTypeWarranty         IssueType = "warranty"
	IssueTypeOther            IssueType = "other"
)

// IssueTypes lists the accepted issue types in display order.
var IssueTypes = []IssueType{
	IssueTypeOrderIssue,
	IssueTypePartDefect,
	IssueTypeInstallationHelp,
	IssueTypeCompatibility,
	IssueTypeWarranty,
	IssueTypeOther,
}

// ParseIssueType maps free-form input onto an IssueType. Legacy names are
// accepted; anything unrecognised becomes other.
func ParseIssueType(s string) IssueType {
	switch v := IssueType(strings.ToLower(strings.TrimSpace(s))); v {
	case IssueTypeOrderIssue, IssueTypePartDefect, IssueTypeInstallationHelp,
		IssueTypeCompatibility, IssueTypeWarranty, IssueTypeOther:
		return v
	case "product_issue", "defect":
		return IssueTypePartDefect
	case "refund", "return":
		return IssueTypeOrderIssue
	default:
		return IssueTypeOther
	}
}

// SupportTicket is an escalation to a human agent.
type SupportTicket struct {
	ID                  string         `json:"id"`
	TicketNumber        string         `json:"ticketNumber"`
	Status              TicketStatus   `json:"status"`
	Priority            TicketPriority `json:"priority"`
	CustomerName        string         `json:"customerName"`
	CustomerEmail       string         `json:"customerEmail"`
	CustomerPhone       string         `json:"customerPhone,omitempty"`
	IssueType           IssueType      `json:"issueType"`
	ApplianceType       Category       `json:"applianceType,omitempty"`
	ModelNumber         string         `json:"modelNumber,omitempty"`
	PartNumber          string         `json:"partNumber,omitempty"`
	IssueDescription    string         `json:"issueDescription"`
	ConversationSummary string         `json:"conversationSummary"`
	StepsAlreadyTried   []string       `json:"stepsAlreadyTried"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// TicketDraft carries the fields needed to open a ticket.
type TicketDraft struct {
	CustomerName        string         `json:"customerName,omitempty"`
	CustomerEmail       string         `json:"customerEmail,omitempty"`
	CustomerPhone       string         `json:"customerPhone,omitempty"`
	IssueType           IssueType      `json:"issueType,omitempty"`
	ApplianceType       Category       `json:"applianceType,omitempty"`
	ModelNumber         string         `json:"modelNumber,omitempty"`
	PartNumber          string         `json:"partNumber,omitempty"`
	IssueDescription    string         `json:"issueDescription,omitempty"`
	ConversationSummary string         `json:"conversationSummary,omitempty"`
	StepsAlreadyTried   []string       `json:"stepsAlreadyTried,omitempty"`
	Priority            TicketPriority `json:"priority,omitempty"`
}
