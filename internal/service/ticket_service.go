package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/events"
	"github.com/spec-kit/parts-assistant/internal/repository"
	apperrors "github.com/spec-kit/parts-assistant/pkg/util/errorutil"
)

const defaultConversationSummary = "Customer requested support via chat assistant"

// TicketService coordinates support ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTicket opens a ticket from draft. The ticket is stored whole or not
// at all; a cancelled context before the append leaves no ticket behind.
func (s *TicketService) CreateTicket(ctx context.Context, draft domain.TicketDraft) (domain.SupportTicket, error) {
	ticket := domain.SupportTicket{
		ID:                  uuid.NewString(),
		Status:              domain.TicketStatusOpen,
		Priority:            domain.ParseTicketPriority(string(draft.Priority)),
		CustomerName:        strings.TrimSpace(draft.CustomerName),
		CustomerEmail:       strings.TrimSpace(draft.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(draft.CustomerPhone),
		IssueType:           domain.ParseIssueType(string(draft.IssueType)),
		ApplianceType:       draft.ApplianceType,
		ModelNumber:         strings.ToUpper(strings.TrimSpace(draft.ModelNumber)),
		PartNumber:          strings.ToUpper(strings.TrimSpace(draft.PartNumber)),
		IssueDescription:    strings.TrimSpace(draft.IssueDescription),
		ConversationSummary: strings.TrimSpace(draft.ConversationSummary),
		StepsAlreadyTried:   cleanSteps(draft.StepsAlreadyTried),
		CreatedAt:           s.now().UTC(),
	}
	if ticket.ConversationSummary == "" {
		ticket.ConversationSummary = defaultConversationSummary
	}

	missing := map[string]any{}
	if ticket.CustomerName == "" {
		missing["customerName"] = "required"
	}
	if ticket.CustomerEmail == "" {
		missing["customerEmail"] = "required"
	}
	if ticket.IssueDescription == "" {
		missing["issueDescription"] = "required"
	}
	if len(missing) > 0 {
		return domain.SupportTicket{}, apperrors.NewValidationError("missing required ticket fields", missing)
	}

	if err := s.tickets.Create(ctx, &ticket); err != nil {
		return domain.SupportTicket{}, err
	}
	s.logger.Info("support ticket created",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("priority", string(ticket.Priority)),
		zap.String("issue_type", string(ticket.IssueType)))

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketNumber: ticket.TicketNumber,
		Actor:        events.Actor{Type: events.ActorCustomer, Email: ticket.CustomerEmail},
		Payload: events.TicketCreatedPayload{
			TicketID:      ticket.ID,
			Priority:      ticket.Priority,
			IssueType:     ticket.IssueType,
			ApplianceType: ticket.ApplianceType,
			PartNumber:    ticket.PartNumber,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by its number.
func (s *TicketService) GetTicket(ctx context.Context, number string) (domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return domain.SupportTicket{}, apperrors.NewNotFound("ticket", map[string]any{"ticketNumber": number})
		}
		return domain.SupportTicket{}, err
	}
	return *ticket, nil
}

// ListTickets returns tickets in creation order.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.SupportTicket, error) {
	return s.tickets.List(ctx, filter)
}

// SuggestTicket records that a conversation was routed to the ticket form.
func (s *TicketService) SuggestTicket(ctx context.Context, reason string, priority domain.TicketPriority) {
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketSuggested,
		Actor:   events.Actor{Type: events.ActorAssistant},
		Payload: events.TicketSuggestedPayload{Reason: reason, Priority: priority},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.String("ticket_number", event.TicketNumber),
			zap.Error(err))
	}
}

func cleanSteps(steps []string) []string {
	cleaned := make([]string, 0, len(steps))
	for _, step := range steps {
		if step = strings.TrimSpace(step); step != "" {
			cleaned = append(cleaned, step)
		}
	}
	return cleaned
}
