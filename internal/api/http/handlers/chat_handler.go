package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/api/dto"
	"github.com/spec-kit/parts-assistant/internal/service"
	apperrors "github.com/spec-kit/parts-assistant/pkg/util/errorutil"
)

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{chat: chat, logger: logger}
}

// Chat POST /api/chat. Failures keep the chat reply shape so the client can
// render them in the conversation.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ChatError("Invalid request body"))
	}
	if err := dto.Validate(req); err != nil {
		message := "Invalid request"
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			message = domainErr.Message
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ChatError(message))
	}

	resp, err := h.chat.Respond(c.UserContext(), req.Message, req.History())
	if err != nil {
		h.logger.Warn("chat turn aborted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ChatError(service.ApologyMessage))
	}
	return c.JSON(dto.NewChatResponse(resp))
}
