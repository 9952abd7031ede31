package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benchwise/labstock/internal/middleware"
	"github.com/benchwise/labstock/internal/models"
	"github.com/benchwise/labstock/internal/services"
)

// ParseImport accepts an uploaded spreadsheet, runs the import pipeline and
// returns the full review set: every non-blank row with its warnings, valid
// or not, so nothing is silently dropped before the reviewer sees it.
// POST /api/import/parse
func (h *Handler) ParseImport(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > h.cfg.MaxImportFileSize {
		return Error(c, fiber.StatusRequestEntityTooLarge, "file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "failed to read uploaded file")
	}

	rows, err := services.ReadSheet(fileHeader.Filename, data)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "failed to decode spreadsheet")
	}
	if len(rows) > h.cfg.MaxImportRows+1 {
		return Error(c, fiber.StatusBadRequest,
			fmt.Sprintf("too many rows, maximum is %d", h.cfg.MaxImportRows))
	}

	pipeline := services.NewImportPipeline()
	if err := pipeline.Parse(rows); err != nil {
		if errors.Is(err, services.ErrEmptyFile) {
			return Error(c, fiber.StatusBadRequest, "file contains no data rows")
		}
		return Error(c, fiber.StatusBadRequest, "failed to parse spreadsheet")
	}

	resp := models.ImportParseResponse{
		Rows:      pipeline.Rows(),
		TotalRows: len(pipeline.Rows()),
	}
	for _, row := range resp.Rows {
		if row.IsValid {
			resp.ValidRows++
		}
		resp.WarningCount += len(row.Warnings)
	}

	// Keep the original file for audit when the archive is configured;
	// a failed archive never blocks the review flow.
	if h.archive != nil {
		key, err := h.archive.StoreImportFile(c.Context(), fileHeader.Filename, data,
			fileHeader.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("Warning: failed to archive import file: %v", err)
		} else {
			resp.ArchiveKey = key
		}
	}

	return Success(c, resp)
}

// CommitImport persists the reviewer's accepted rows as material records,
// in their original row order, and optionally assigns them to the next free
// positions of a storage box.
// POST /api/import/commit
func (h *Handler) CommitImport(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.ImportCommitRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Rows) == 0 {
		return Error(c, fiber.StatusBadRequest, "no rows to commit")
	}

	// Selection order does not matter; commits always happen in row order
	selected := append([]int(nil), req.Selected...)
	sort.Ints(selected)

	resp := models.ImportCommitResponse{}
	var created []models.Material
	seen := make(map[int]bool)
	for _, idx := range selected {
		if idx < 0 || idx >= len(req.Rows) || seen[idx] {
			continue
		}
		seen[idx] = true

		material := req.Rows[idx].Material
		if material.Name == "" {
			resp.Errors = append(resp.Errors,
				fmt.Sprintf("row %d: name is required", req.Rows[idx].RowNumber))
			continue
		}
		material.CreatedBy = &userID

		saved, err := h.db.CreateMaterial(c.Context(), &material)
		if err != nil {
			resp.Errors = append(resp.Errors,
				fmt.Sprintf("row %d (%s): %v", req.Rows[idx].RowNumber, material.Name, err))
			continue
		}
		created = append(created, *saved)
	}

	resp.Created = created
	resp.Committed = len(created)

	// Optional auto-assignment into a box, in the same row order
	if req.BoxID != nil && len(created) > 0 {
		assigned, err := h.autoAssign(c, *req.BoxID, created)
		if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
		}
		resp.Assigned = assigned
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    resp,
	})
}

// autoAssign places materials into the next free positions of a box
func (h *Handler) autoAssign(c *fiber.Ctx, boxID int, materials []models.Material) ([]string, error) {
	box, err := h.db.GetBoxByID(c.Context(), boxID)
	if err != nil {
		return nil, fmt.Errorf("auto-assignment failed: %w", err)
	}

	free := box.NextFreePositions(len(materials))
	if len(free) < len(materials) {
		return nil, fmt.Errorf("box %q has only %d free positions for %d materials",
			box.Name, len(free), len(materials))
	}

	var assigned []string
	for i, material := range materials {
		label := free[i]
		mp := models.MaterialPosition{
			MaterialID:   material.ID,
			MaterialName: material.Name,
			MaterialType: material.Type,
			Amount:       material.Stock.CurrentAmount,
			Unit:         material.Stock.Unit,
		}
		if err := box.SetPositionIfVacant(label, mp); err != nil {
			return assigned, fmt.Errorf("failed to assign %q to %s: %w", material.Name, label, err)
		}
		if err := h.db.SaveBoxPosition(c.Context(), box.ID, label, box.Position(label)); err != nil {
			return assigned, fmt.Errorf("failed to save position %s: %w", label, err)
		}
		assigned = append(assigned, label)
	}
	return assigned, nil
}

// GetArchivedImport returns a short-lived download URL for an archived
// import file.
// GET /api/import/archive/*
func (h *Handler) GetArchivedImport(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusNotFound, "import archive is disabled")
	}

	key := c.Params("*")
	if key == "" {
		return Error(c, fiber.StatusBadRequest, "archive key is required")
	}

	url, err := h.archive.GetPresignedURL(c.Context(), key, 15*time.Minute)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate download URL")
	}

	return Success(c, fiber.Map{
		"key": key,
		"url": url,
	})
}

// DeleteArchivedImport removes one archived import file
// DELETE /api/import/archive/*
func (h *Handler) DeleteArchivedImport(c *fiber.Ctx) error {
	if h.archive == nil {
		return Error(c, fiber.StatusNotFound, "import archive is disabled")
	}

	key := c.Params("*")
	if key == "" {
		return Error(c, fiber.StatusBadRequest, "archive key is required")
	}

	if err := h.archive.Delete(c.Context(), key); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete archived file")
	}

	return Success(c, fiber.Map{"deleted": key})
}

// DownloadTemplate serves the reference import template workbook. Its
// headers come from the same alias table the column resolver uses, so a
// filled-in template always round-trips.
// GET /api/import/template
func (h *Handler) DownloadTemplate(c *fiber.Ctx) error {
	data, err := services.BuildImportTemplate()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to build template")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="labstock_import_template.xlsx"`)
	return c.Send(data)
}

// GetTemplateColumns returns the template reference table as JSON
// GET /api/import/template/columns
func (h *Handler) GetTemplateColumns(c *fiber.Ctx) error {
	return Success(c, services.TemplateColumns())
}
