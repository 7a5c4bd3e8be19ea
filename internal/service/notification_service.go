package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/config"
	"github.com/spec-kit/parts-assistant/internal/events"
)

// NotificationRecorder counts notifications by channel.
type NotificationRecorder interface {
	RecordNotification(channel, eventType string)
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	recorder   NotificationRecorder
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// WithRecorder reports every notification to r.
func (n *NotificationService) WithRecorder(r NotificationRecorder) *NotificationService {
	n.recorder = r
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketSuggested, n.handleTicketSuggested)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_number", event.TicketNumber), zap.Any("payload", event.Payload))
	n.notifyEmail(ctx, event)
	n.notifyWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketSuggested(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketSuggested", zap.Any("payload", event.Payload))
	n.notifyWebhook(ctx, event)
	return nil
}

// notifyEmail records the customer email for the event. Delivery is left to
// whatever consumes the notification log and metrics.
func (n *NotificationService) notifyEmail(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || event.Actor.Email == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Actor.Email),
		zap.String("ticket_number", event.TicketNumber),
		zap.String("event_type", string(event.Type)))
	n.record("email", event)
}

func (n *NotificationService) notifyWebhook(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_number", event.TicketNumber),
		zap.String("event_type", string(event.Type)))
	n.record("webhook", event)
}

func (n *NotificationService) record(channel string, event events.Event) {
	if n.recorder != nil {
		n.recorder.RecordNotification(channel, string(event.Type))
	}
}
