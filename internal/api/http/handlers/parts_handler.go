package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-assistant/internal/api/dto"
	"github.com/spec-kit/parts-assistant/internal/catalog"
	"github.com/spec-kit/parts-assistant/internal/domain"
	apperrors "github.com/spec-kit/parts-assistant/pkg/util/errorutil"
)

// PartsHandler exposes catalog lookups and maintenance.
type PartsHandler struct {
	store  *catalog.Store
	logger *zap.Logger
}

// NewPartsHandler constructs handler.
func NewPartsHandler(store *catalog.Store, logger *zap.Logger) *PartsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartsHandler{store: store, logger: logger}
}

// GetPart GET /api/parts/:partNumber.
func (h *PartsHandler) GetPart(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("partNumber"))
	part, ok, err := h.store.FindByPartNumber(c.UserContext(), number)
	if err != nil {
		return catalogError(err)
	}
	if !ok {
		return apperrors.NewNotFound("part", map[string]any{"partNumber": number})
	}
	return c.JSON(fiber.Map{"data": dto.NewProduct(part)})
}

// SearchParts GET /api/parts?q=...&category=...&limit=...
func (h *PartsHandler) SearchParts(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return apperrors.NewValidationError("q is required", map[string]any{"q": "required"})
	}
	category := domain.Category(strings.ToLower(c.Query("category")))
	if category != "" && !category.Valid() {
		return apperrors.NewValidationError("category must be refrigerator or dishwasher", map[string]any{"category": "oneof"})
	}
	limit := c.QueryInt("limit", domain.DefaultResultLimit)
	if limit <= 0 || limit > domain.MaxResultLimit {
		limit = domain.DefaultResultLimit
	}

	matches, err := h.store.SearchByText(c.UserContext(), q, catalog.SearchOptions{
		Category:   category,
		MaxResults: limit,
	})
	if err != nil {
		return catalogError(err)
	}
	items := make([]dto.Product, 0, len(matches))
	for _, m := range matches {
		items = append(items, dto.NewProduct(m.Part))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ReloadCatalog POST /api/catalog/reload drops the loaded catalog and reads
// the source again.
func (h *PartsHandler) ReloadCatalog(c *fiber.Ctx) error {
	h.store.Invalidate()
	parts, err := h.store.LoadAll(c.UserContext())
	if err != nil {
		return catalogError(err)
	}
	models, err := h.store.Models(c.UserContext())
	if err != nil {
		return catalogError(err)
	}
	h.logger.Info("catalog reloaded", zap.Int("parts", len(parts)), zap.Int("models", len(models)))
	return c.JSON(fiber.Map{"data": fiber.Map{"parts": len(parts), "models": len(models)}})
}

func catalogError(err error) error {
	if apperrors.ToDomainError(err).Code == "TIMEOUT" {
		return err
	}
	return apperrors.NewUnavailable("catalog unavailable", err)
}
