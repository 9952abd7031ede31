package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/benchwise/labstock/internal/database"
	"github.com/benchwise/labstock/internal/grid"
	"github.com/benchwise/labstock/internal/middleware"
	"github.com/benchwise/labstock/internal/models"
)

// CreateBox creates a new storage box with an empty grid
// POST /api/boxes
func (h *Handler) CreateBox(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.CreateBoxRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "box name is required")
	}
	if req.LabelStyle == "" {
		req.LabelStyle = grid.StyleAlnum
	}

	box, err := models.NewStorageBox(req.Name,
		models.BoxLayout{Rows: req.Rows, Columns: req.Columns, LabelStyle: req.LabelStyle},
		models.BoxLocation{Freezer: req.Freezer, Shelf: req.Shelf, Rack: req.Rack},
	)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	box.TemperatureClass = req.TemperatureClass
	box.CreatedBy = &userID

	created, err := h.db.CreateBox(c.Context(), box)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create box")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    created,
	})
}

// ListBoxes returns all storage boxes with their occupancy
// GET /api/boxes
func (h *Handler) ListBoxes(c *fiber.Ctx) error {
	boxes, occupied, err := h.db.ListBoxes(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list boxes")
	}

	type boxSummary struct {
		*models.StorageBox
		Occupancy models.Occupancy `json:"occupancy"`
	}

	summaries := make([]boxSummary, 0, len(boxes))
	for _, box := range boxes {
		capacity := box.Capacity()
		count := occupied[box.ID]
		pct := 0.0
		if capacity > 0 {
			pct = float64(count) / float64(capacity) * 100
		}
		summaries = append(summaries, boxSummary{
			StorageBox: box,
			Occupancy:  models.Occupancy{Occupied: count, Capacity: capacity, PercentFull: pct},
		})
	}

	return Success(c, summaries)
}

// GetBox returns one box with its full placement map and position labels
// GET /api/boxes/:id
func (h *Handler) GetBox(c *fiber.Ctx) error {
	box, ok := h.loadBox(c)
	if !ok {
		return nil
	}

	mapper, mErr := box.Mapper()
	if mErr != nil {
		return Error(c, fiber.StatusInternalServerError, "box has an invalid layout")
	}

	return Success(c, fiber.Map{
		"box":       box,
		"labels":    mapper.Labels(),
		"occupancy": box.Occupancy(),
	})
}

// GetBoxOccupancy returns the occupancy summary only
// GET /api/boxes/:id/occupancy
func (h *Handler) GetBoxOccupancy(c *fiber.Ctx) error {
	box, ok := h.loadBox(c)
	if !ok {
		return nil
	}
	return Success(c, box.Occupancy())
}

// DeleteBox removes a box and everything stored in it
// DELETE /api/boxes/:id
func (h *Handler) DeleteBox(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid box id")
	}

	if err := h.db.DeleteBox(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrBoxNotFound) {
			return Error(c, fiber.StatusNotFound, "box not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete box")
	}

	return Success(c, fiber.Map{"deleted": id})
}

// AssignPosition places a material into one grid cell. Unless overwrite is
// requested, an occupied cell is rejected with 409.
// PUT /api/boxes/:id/positions/:label
func (h *Handler) AssignPosition(c *fiber.Ctx) error {
	box, ok := h.loadBox(c)
	if !ok {
		return nil
	}
	label, err := box.CanonicalLabel(c.Params("label"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	var req models.AssignPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.MaterialName == "" {
		return Error(c, fiber.StatusBadRequest, "material_name is required")
	}
	if req.Amount < 0 {
		return Error(c, fiber.StatusBadRequest, "amount cannot be negative")
	}
	if req.MaterialType == "" {
		req.MaterialType = models.TypeOther
	}

	mp := models.MaterialPosition{
		MaterialID:   req.MaterialID,
		MaterialName: req.MaterialName,
		MaterialType: req.MaterialType,
		Amount:       req.Amount,
		Unit:         req.Unit,
		Notes:        req.Notes,
	}

	if req.Overwrite {
		err = box.SetPosition(label, mp)
	} else {
		err = box.SetPositionIfVacant(label, mp)
	}
	if err != nil {
		if errors.Is(err, models.ErrPositionOccupied) {
			return Error(c, fiber.StatusConflict, err.Error())
		}
		if errors.Is(err, grid.ErrLabelOutOfRange) {
			return Error(c, fiber.StatusBadRequest, err.Error())
		}
		return Error(c, fiber.StatusInternalServerError, "failed to assign position")
	}

	if err := h.db.SaveBoxPosition(c.Context(), box.ID, label, box.Position(label)); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save position")
	}

	return Success(c, fiber.Map{
		"label":     label,
		"position":  box.Position(label),
		"occupancy": box.Occupancy(),
	})
}

// RemovePosition clears one grid cell
// DELETE /api/boxes/:id/positions/:label
func (h *Handler) RemovePosition(c *fiber.Ctx) error {
	box, ok := h.loadBox(c)
	if !ok {
		return nil
	}
	label, err := box.CanonicalLabel(c.Params("label"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	if !box.RemovePosition(label) {
		return Error(c, fiber.StatusNotFound, "position is empty")
	}

	if _, err := h.db.DeleteBoxPosition(c.Context(), box.ID, label); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to remove position")
	}

	return Success(c, fiber.Map{
		"label":     label,
		"occupancy": box.Occupancy(),
	})
}

// MovePosition relocates an occupant to another cell in the same box
// POST /api/boxes/:id/positions/:label/move
func (h *Handler) MovePosition(c *fiber.Ctx) error {
	box, ok := h.loadBox(c)
	if !ok {
		return nil
	}
	from, err := box.CanonicalLabel(c.Params("label"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	var req models.MovePositionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.To == "" {
		return Error(c, fiber.StatusBadRequest, "target position is required")
	}
	to, err := box.CanonicalLabel(req.To)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := box.MovePosition(from, to, req.Overwrite); err != nil {
		if errors.Is(err, models.ErrPositionOccupied) {
			return Error(c, fiber.StatusConflict, err.Error())
		}
		if errors.Is(err, grid.ErrLabelOutOfRange) {
			return Error(c, fiber.StatusBadRequest, err.Error())
		}
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.SaveBoxPosition(c.Context(), box.ID, to, box.Position(to)); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save position")
	}
	if _, err := h.db.DeleteBoxPosition(c.Context(), box.ID, from); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to clear old position")
	}

	return Success(c, fiber.Map{
		"from":      from,
		"to":        to,
		"position":  box.Position(to),
		"occupancy": box.Occupancy(),
	})
}

// loadBox parses the :id parameter and loads the box. On failure it writes
// the error response itself and reports ok=false.
func (h *Handler) loadBox(c *fiber.Ctx) (*models.StorageBox, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		_ = Error(c, fiber.StatusBadRequest, "invalid box id")
		return nil, false
	}

	box, err := h.db.GetBoxByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrBoxNotFound) {
			_ = Error(c, fiber.StatusNotFound, "box not found")
		} else {
			_ = Error(c, fiber.StatusInternalServerError, "failed to load box")
		}
		return nil, false
	}
	return box, true
}
