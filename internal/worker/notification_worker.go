package worker

import (
	"github.com/spec-kit/parts-assistant/internal/service"
)

// StartNotificationWorker registers ticket notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
