package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/benchwise/labstock/internal/database"
	"github.com/benchwise/labstock/internal/middleware"
	"github.com/benchwise/labstock/internal/models"
	"github.com/benchwise/labstock/internal/services"
)

// ListMaterials returns the materials catalog with filters
// GET /api/materials
func (h *Handler) ListMaterials(c *fiber.Ctx) error {
	var lowStock, expiringSoon *bool
	if ls := c.Query("low_stock"); ls != "" {
		v := ls == "true"
		lowStock = &v
	}
	if es := c.Query("expiring_soon"); es != "" {
		v := es == "true"
		expiringSoon = &v
	}

	params := &models.MaterialListParams{
		Limit:        c.QueryInt("limit", 50),
		Offset:       c.QueryInt("offset", 0),
		Search:       c.Query("search"),
		Type:         c.Query("type"),
		LowStock:     lowStock,
		ExpiringSoon: expiringSoon,
		SortBy:       c.Query("sort_by", "updated"),
		SortOrder:    c.Query("sort_order", "desc"),
	}

	// Validate limits
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	materials, total, err := h.db.ListMaterials(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list materials")
	}

	return SuccessWithMeta(c, materials, total, params.Limit, params.Offset)
}

// GetMaterial returns a single material
// GET /api/materials/:id
func (h *Handler) GetMaterial(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid material id")
	}

	material, err := h.db.GetMaterialByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrMaterialNotFound) {
			return Error(c, fiber.StatusNotFound, "material not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get material")
	}

	return Success(c, material)
}

// CreateMaterial creates one material directly, without the import pipeline.
// Blank type and storage fields fall back through the same template defaults
// the pipeline uses.
// POST /api/materials
func (h *Handler) CreateMaterial(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.CreateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.CurrentAmount < 0 {
		return Error(c, fiber.StatusBadRequest, "current_amount cannot be negative")
	}

	mt := req.Type
	if !mt.IsValid() {
		mt = services.NewTypeClassifier().Classify(req.Name, deref(req.Description), string(req.Type))
	}

	templates := services.DefaultTypeTemplates()
	tpl := templates.Get(mt)

	unit := req.Unit
	if unit == "" {
		unit = tpl.DefaultUnit
	}
	minimum := services.NewFieldNormalizer(templates).MinimumAmount("", req.CurrentAmount, mt)
	if req.MinimumAmount != nil {
		minimum = *req.MinimumAmount
	}
	storage := req.StorageCondition
	if storage == "" {
		storage = tpl.DefaultStorage
	}

	material := &models.Material{
		Name:        req.Name,
		Type:        mt,
		Category:    string(mt),
		Description: req.Description,
		Location:    req.Location,
		Stock: models.StockInfo{
			CurrentAmount: req.CurrentAmount,
			Unit:          unit,
			MinimumAmount: minimum,
			Concentration: req.Concentration,
			Supplier:      req.Supplier,
			CatalogNumber: req.CatalogNumber,
			ExpiryDate:    req.ExpiryDate,
		},
		Properties: models.MaterialProperties{
			StorageCondition: storage,
			Tags:             req.Tags,
		},
		CreatedBy: &userID,
	}

	created, err := h.db.CreateMaterial(c.Context(), material)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create material")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    created,
	})
}

// DeleteMaterial removes one material
// DELETE /api/materials/:id
func (h *Handler) DeleteMaterial(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid material id")
	}

	if err := h.db.DeleteMaterial(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrMaterialNotFound) {
			return Error(c, fiber.StatusNotFound, "material not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete material")
	}

	return Success(c, fiber.Map{"deleted": id})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
