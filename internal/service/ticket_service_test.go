package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/events"
	"github.com/spec-kit/parts-assistant/internal/repository"
	apperrors "github.com/spec-kit/parts-assistant/pkg/util/errorutil"
)

func newTicketService() (*TicketService, events.Dispatcher) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository("ST-2024", 10001),
		Dispatcher: dispatcher,
	})
	return svc, dispatcher
}

func validDraft() domain.TicketDraft {
	return domain.TicketDraft{
		CustomerName:      " Jane Doe ",
		CustomerEmail:     "jane@example.com",
		IssueType:         "refund",
		ApplianceType:     domain.CategoryDishwasher,
		ModelNumber:       "wdt780saem1",
		IssueDescription:  "Pump is noisy",
		StepsAlreadyTried: []string{"cleaned filter", " ", "reset"},
		Priority:          "high",
	}
}

func TestCreateTicket(t *testing.T) {
	svc, dispatcher := newTicketService()

	var created []events.Event
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})

	ticket, err := svc.CreateTicket(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, "ST-2024-10001", ticket.TicketNumber)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Equal(t, "Jane Doe", ticket.CustomerName)
	assert.Equal(t, domain.IssueTypeOrderIssue, ticket.IssueType)
	assert.Equal(t, "WDT780SAEM1", ticket.ModelNumber)
	assert.Equal(t, []string{"cleaned filter", "reset"}, ticket.StepsAlreadyTried)
	assert.Equal(t, defaultConversationSummary, ticket.ConversationSummary)
	assert.False(t, ticket.CreatedAt.IsZero())

	require.Len(t, created, 1)
	assert.Equal(t, "ST-2024-10001", created[0].TicketNumber)
	assert.Equal(t, "jane@example.com", created[0].Actor.Email)
	assert.NotEmpty(t, created[0].ID)

	second, err := svc.CreateTicket(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, "ST-2024-10002", second.TicketNumber)

	got, err := svc.GetTicket(context.Background(), "ST-2024-10001")
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	all, err := svc.ListTickets(context.Background(), repository.TicketFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _ := newTicketService()

	draft := validDraft()
	draft.CustomerEmail = ""
	draft.IssueDescription = "  "
	_, err := svc.CreateTicket(context.Background(), draft)

	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "customerEmail")
	assert.Contains(t, domainErr.Details, "issueDescription")
	assert.NotContains(t, domainErr.Details, "customerName")
}

func TestGetTicketNotFound(t *testing.T) {
	svc, _ := newTicketService()

	_, err := svc.GetTicket(context.Background(), "ST-2024-1")
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

type notificationCounts map[string]int

func (c notificationCounts) RecordNotification(channel, eventType string) {
	c[channel+"/"+eventType]++
}

func TestNotificationServiceHandlesEvents(t *testing.T) {
	svc, dispatcher := newTicketService()
	core, logs := observer.New(zap.DebugLevel)
	counts := notificationCounts{}
	notifications := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "support@example.com",
		WebhookURL: "http://hooks.local/tickets",
	}).WithRecorder(counts)
	notifications.RegisterHandlers()

	_, err := svc.CreateTicket(context.Background(), validDraft())
	require.NoError(t, err)
	svc.SuggestTicket(context.Background(), "frustrated", domain.TicketPriorityNormal)

	assert.Equal(t, 1, logs.FilterMessage("TicketCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("email notification").Len())
	assert.Equal(t, 2, logs.FilterMessage("webhook notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("TicketSuggested").Len())
	assert.Equal(t, notificationCounts{
		"email/" + string(events.EventTicketCreated):     1,
		"webhook/" + string(events.EventTicketCreated):   1,
		"webhook/" + string(events.EventTicketSuggested): 1,
	}, counts)
}

func TestNotificationServiceSkipsUnconfiguredChannels(t *testing.T) {
	svc, dispatcher := newTicketService()
	counts := notificationCounts{}
	NewNotificationService(dispatcher, nil, config.NotificationConfig{}).WithRecorder(counts).RegisterHandlers()

	_, err := svc.CreateTicket(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

type failingDispatcher struct{}

func (failingDispatcher) Publish(context.Context, events.Event) error {
	return errors.New("bus down")
}

func (failingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func TestCreateTicketLogsPublishFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository("ST-2024", 10001),
		Dispatcher: failingDispatcher{},
		Logger:     zap.New(core),
	})

	ticket, err := svc.CreateTicket(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, "ST-2024-10001", ticket.TicketNumber)

	failures := logs.FilterMessage("failed to publish event").All()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	assert.Equal(t, string(events.EventTicketCreated), fields["event_type"])
	assert.Equal(t, "ST-2024-10001", fields["ticket_number"])
	assert.Equal(t, "bus down", fields["error"])
}
