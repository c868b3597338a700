package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-log/internal/api/dto"
	"github.com/spec-kit/helpdesk-log/internal/notify"
	"github.com/spec-kit/helpdesk-log/internal/service"
	"github.com/spec-kit/helpdesk-log/internal/view"
	apperrors "github.com/spec-kit/helpdesk-log/pkg/util/errorutil"
)

// TicketsHandler serves the JSON API.
type TicketsHandler struct {
	service *service.TicketService
	board   *view.Board
	feed    *notify.Feed
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, board *view.Board, feed *notify.Feed) *TicketsHandler {
	return &TicketsHandler{service: ticketService, board: board, feed: feed}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(h.service.Tickets())})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.UserContext(), createInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}

// DeleteTicket DELETE /api/tickets/:id?confirm=true.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	var confirm service.Confirmer
	if confirmed {
		confirm = service.Confirmed
	}
	deleted, err := h.service.Delete(c.UserContext(), c.Params("id"), confirm)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewValidationError("delete not confirmed", map[string]any{"confirm": "pass confirm=true"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Refresh POST /api/tickets/refresh.
func (h *TicketsHandler) Refresh(c *fiber.Ctx) error {
	tickets, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// Dashboard GET /api/dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(h.board.Page())})
}

// Notifications GET /api/notifications.
func (h *TicketsHandler) Notifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NotificationsResponse{Items: h.feed.Active()}})
}

func createInput(req dto.CreateTicketRequest) service.TicketCreateInput {
	return service.TicketCreateInput{
		Employee: req.Employee,
		Issue:    req.Issue,
		Action:   req.Action,
		Status:   req.Status,
	}
}
