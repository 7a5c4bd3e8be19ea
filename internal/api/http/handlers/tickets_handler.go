package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-assistant/internal/api/dto"
	"github.com/spec-kit/parts-assistant/internal/domain"
	"github.com/spec-kit/parts-assistant/internal/repository"
	"github.com/spec-kit/parts-assistant/internal/service"
	apperrors "github.com/spec-kit/parts-assistant/pkg/util/errorutil"
)

// TicketsHandler manages support ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), req.Draft())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    dto.NewTicketResponse(ticket),
		"message": dto.TicketCreatedMessage(ticket),
	})
}

// ListTickets GET /api/tickets. A ticketNumber query parameter looks up a
// single ticket instead.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	if number := c.Query("ticketNumber"); number != "" {
		return h.respondWithTicket(c, number)
	}

	var query dto.TicketListQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := dto.Validate(query); err != nil {
		return err
	}

	tickets, err := h.service.ListTickets(c.UserContext(), repository.TicketFilter{
		Status:   domain.TicketStatus(query.Status),
		Priority: domain.TicketPriority(query.Priority),
		Email:    query.Email,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /api/tickets/:number.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	return h.respondWithTicket(c, c.Params("number"))
}

func (h *TicketsHandler) respondWithTicket(c *fiber.Ctx, number string) error {
	ticket, err := h.service.GetTicket(c.UserContext(), number)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
