package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-log/internal/api/dto"
	"github.com/spec-kit/helpdesk-log/internal/notify"
	"github.com/spec-kit/helpdesk-log/internal/service"
	"github.com/spec-kit/helpdesk-log/internal/view"
	apperrors "github.com/spec-kit/helpdesk-log/pkg/util/errorutil"
)

// DashboardHandler serves the HTML page and its form posts. Every successful
// or store-failed post redirects back to the page; the outcome shows up as a
// toast. Validation errors re-render the form inline.
type DashboardHandler struct {
	title    string
	service  *service.TicketService
	board    *view.Board
	feed     *notify.Feed
	renderer *view.HTMLRenderer
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(title string, ticketService *service.TicketService, board *view.Board, feed *notify.Feed, renderer *view.HTMLRenderer) *DashboardHandler {
	return &DashboardHandler{
		title:    title,
		service:  ticketService,
		board:    board,
		feed:     feed,
		renderer: renderer,
	}
}

// Show GET /.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, view.FormState{})
}

// Create POST /tickets.
func (h *DashboardHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	_, err := h.service.Create(c.UserContext(), createInput(req))
	return h.afterMutation(c, err, view.FormState{
		Employee: req.Employee,
		Issue:    req.Issue,
		Action:   req.Action,
		Status:   req.Status,
	})
}

// ChangeStatus POST /tickets/:id/status.
func (h *DashboardHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	_, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), req.Status)
	return h.afterMutation(c, err, view.FormState{})
}

// Delete POST /tickets/:id/delete. Only a form carrying confirm=yes deletes.
func (h *DashboardHandler) Delete(c *fiber.Ctx) error {
	var form dto.DeleteTicketForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	var confirm service.Confirmer
	if form.Confirm == "yes" {
		confirm = service.Confirmed
	}
	_, err := h.service.Delete(c.UserContext(), c.Params("id"), confirm)
	return h.afterMutation(c, err, view.FormState{})
}

func (h *DashboardHandler) afterMutation(c *fiber.Ctx, err error, form view.FormState) error {
	if apperrors.HasCode(err, apperrors.CodeValidation) {
		form.Error = apperrors.ToDomainError(err).Message
		return h.render(c, fiber.StatusUnprocessableEntity, form)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DashboardHandler) render(c *fiber.Ctx, status int, form view.FormState) error {
	page := h.board.Draw(view.ParseExpanded(c.Query("expand")))
	body, err := h.renderer.Render(view.Document{
		Title:  h.title,
		Page:   page,
		Toasts: h.feed.Active(),
		Form:   form,
	})
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(body)
}
