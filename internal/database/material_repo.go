package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/benchwise/labstock/internal/models"
)

var ErrMaterialNotFound = errors.New("material not found")

const materialColumns = `
	id, name, type, category, description,
	hint_freezer, hint_shelf, hint_box, hint_position,
	current_amount, unit, minimum_amount, concentration, supplier, catalog_number, expiry_date,
	storage_condition, tags, created_by, created_at, updated_at
`

func scanMaterial(row pgx.Row) (*models.Material, error) {
	m := &models.Material{}
	var category, freezer, shelf, box, position, storage *string
	var tags []string
	err := row.Scan(
		&m.ID, &m.Name, &m.Type, &category, &m.Description,
		&freezer, &shelf, &box, &position,
		&m.Stock.CurrentAmount, &m.Stock.Unit, &m.Stock.MinimumAmount,
		&m.Stock.Concentration, &m.Stock.Supplier, &m.Stock.CatalogNumber, &m.Stock.ExpiryDate,
		&storage, &tags, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		m.Category = *category
	}
	if freezer != nil {
		m.Location.Freezer = *freezer
	}
	if shelf != nil {
		m.Location.Shelf = *shelf
	}
	if box != nil {
		m.Location.Box = *box
	}
	if position != nil {
		m.Location.Position = *position
	}
	if storage != nil {
		m.Properties.StorageCondition = *storage
	}
	m.Properties.Tags = tags
	return m, nil
}

// CreateMaterial inserts one material record
func (db *DB) CreateMaterial(ctx context.Context, m *models.Material) (*models.Material, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO materials (
			name, type, category, description,
			hint_freezer, hint_shelf, hint_box, hint_position,
			current_amount, unit, minimum_amount, concentration, supplier, catalog_number, expiry_date,
			storage_condition, tags, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`,
		m.Name, m.Type, m.Category, m.Description,
		m.Location.Freezer, m.Location.Shelf, m.Location.Box, m.Location.Position,
		m.Stock.CurrentAmount, m.Stock.Unit, m.Stock.MinimumAmount,
		m.Stock.Concentration, m.Stock.Supplier, m.Stock.CatalogNumber, m.Stock.ExpiryDate,
		m.Properties.StorageCondition, m.Properties.Tags, m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return m, nil
}

// GetMaterialByID returns one material
func (db *DB) GetMaterialByID(ctx context.Context, id int) (*models.Material, error) {
	m, err := scanMaterial(db.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM materials WHERE id = $1", materialColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListMaterials returns paginated materials with filters
func (db *DB) ListMaterials(ctx context.Context, params *models.MaterialListParams) ([]*models.Material, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argCount := 0

	if params.Search != "" {
		argCount++
		whereClauses = append(whereClauses,
			fmt.Sprintf("LOWER(name) LIKE $%d", argCount))
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
	}

	if params.Type != "" {
		argCount++
		whereClauses = append(whereClauses, fmt.Sprintf("type = $%d", argCount))
		args = append(args, params.Type)
	}

	if params.LowStock != nil && *params.LowStock {
		whereClauses = append(whereClauses, "current_amount <= minimum_amount")
	}

	if params.ExpiringSoon != nil && *params.ExpiringSoon {
		whereClauses = append(whereClauses, "expiry_date IS NOT NULL AND expiry_date >= CURRENT_DATE AND expiry_date <= CURRENT_DATE + INTERVAL '30 days'")
	}

	whereClause := strings.Join(whereClauses, " AND ")

	// Determine sort order
	sortColumn := "updated_at"
	sortOrder := "DESC"
	switch params.SortBy {
	case "name":
		sortColumn = "name"
	case "type":
		sortColumn = "type"
	case "amount":
		sortColumn = "current_amount"
	case "expiry":
		sortColumn = "expiry_date"
	case "updated":
		sortColumn = "updated_at"
	}
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	// Get total count
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM materials WHERE %s", whereClause)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argCount++
	limitArg := argCount
	argCount++
	offsetArg := argCount
	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s FROM materials
		WHERE %s
		ORDER BY %s %s NULLS LAST
		LIMIT $%d OFFSET $%d
	`, materialColumns, whereClause, sortColumn, sortOrder, limitArg, offsetArg)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, 0, err
		}
		materials = append(materials, m)
	}
	return materials, total, rows.Err()
}

// DeleteMaterial removes one material record
func (db *DB) DeleteMaterial(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM materials WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}
	return nil
}
