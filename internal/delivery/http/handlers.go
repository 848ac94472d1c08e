package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cropprospector/backend/internal/domain"
	"github.com/cropprospector/backend/internal/service"
)

const (
	serviceName = "crop-prospector-backend"
	version     = "1.0.0"
)

// Handler contains all HTTP handlers
type Handler struct {
	advisorySvc *service.AdvisoryService
	log         *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(advisorySvc *service.AdvisoryService, log *zap.Logger) *Handler {
	return &Handler{
		advisorySvc: advisorySvc,
		log:         log,
	}
}

// BatchRequest is the body of POST /api/v1/recommendations/batch
type BatchRequest struct {
	Inputs []domain.FarmerInput `json:"inputs"`
}

// HealthCheck returns service health status; a broken history store
// degrades the report but never fails it.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status, history := "ok", "ok"
	if err := h.advisorySvc.Health(c.UserContext()); err != nil {
		h.log.Warn("history store unhealthy", zap.Error(err))
		status, history = "degraded", "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"service": serviceName,
		"version": version,
		"history": history,
	})
}

// Recommend handles POST /api/v1/recommendations
func (h *Handler) Recommend(c *fiber.Ctx) error {
	var in domain.FarmerInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return h.recommend(c, in)
}

// RecommendQuery handles GET /api/v1/recommendations with query parameters
func (h *Handler) RecommendQuery(c *fiber.Ctx) error {
	var in domain.FarmerInput
	if err := c.QueryParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return h.recommend(c, in)
}

func (h *Handler) recommend(c *fiber.Ctx, in domain.FarmerInput) error {
	result, err := h.advisorySvc.Recommend(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// RecommendBatch handles POST /api/v1/recommendations/batch
func (h *Handler) RecommendBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	results, err := h.advisorySvc.RecommendBatch(c.UserContext(), req.Inputs)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}

// GetOptions returns the values a client form should offer
func (h *Handler) GetOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.advisorySvc.Options(),
	})
}

// GetHistory returns the most recent queries
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	data, err := h.advisorySvc.History(c.UserContext(), limit)
	if err != nil {
		h.log.Error("failed to fetch history", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch query history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}
