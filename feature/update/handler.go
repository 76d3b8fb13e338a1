package update

import (
	"context"
	"errors"
	"time"

	"content-manager/core/content"
	"content-manager/core/git"
	"content-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for content updates.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. A zero timeout disables the limit.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// RegisterRoutes registers the content routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/content")
	group.Get("/preview", h.HandlePreview)
	group.Post("/update", h.HandleUpdate)
}

// HandlePreview plans an update without running it.
// Query parameters: since, until, all.
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	req := Request{
		Since: c.Query("since"),
		Until: c.Query("until"),
		All:   c.QueryBool("all"),
	}
	l := logger.WithRayID(h.service.logger, c)

	ctx, cancel := h.context(c)
	defer cancel()

	resp, err := h.service.Preview(ctx, req)
	if err != nil {
		return h.fail(c, l, resp, err)
	}
	return c.JSON(resp)
}

// HandleUpdate runs an update. The body is a JSON Request.
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var req Request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body: " + err.Error(),
			})
		}
	}
	l := logger.WithRayID(h.service.logger, c)

	ctx, cancel := h.context(c)
	defer cancel()

	resp, err := h.service.Update(ctx, req)
	if err != nil {
		return h.fail(c, l, resp, err)
	}
	l.Info("Content updated",
		zap.String("run_id", resp.RunID),
		zap.String("until", resp.Until),
		zap.Bool("dry_run", req.DryRun))
	return c.JSON(resp)
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Context())
	}
	return context.WithTimeout(c.Context(), h.timeout)
}

// fail maps update errors to status codes. Per-path failures come back with
// the partial response so clients can show every error.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, resp *Response, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, content.ErrRunInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, git.ErrUnknownRevision):
		status = fiber.StatusBadRequest
	case errors.Is(err, content.ErrPlanFailed), errors.Is(err, content.ErrRunFailed):
		status = fiber.StatusUnprocessableEntity
	}

	if status == fiber.StatusInternalServerError {
		l.Error("Content update failed", zap.Error(err))
	} else {
		l.Warn("Content update rejected", zap.Error(err))
	}

	if resp != nil && resp.Errors != nil {
		return c.Status(status).JSON(fiber.Map{
			"error":  err.Error(),
			"run_id": resp.RunID,
			"errors": resp.Errors,
		})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
