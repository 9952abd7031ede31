package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/benchwise/labstock/internal/models"
)

var ErrBoxNotFound = errors.New("storage box not found")

// CreateBox inserts a box and returns it with an empty placement store
func (db *DB) CreateBox(ctx context.Context, box *models.StorageBox) (*models.StorageBox, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO storage_boxes (name, freezer, shelf, rack, rows, columns, label_style, temperature_class, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, box.Name, box.Location.Freezer, box.Location.Shelf, box.Location.Rack,
		box.Layout.Rows, box.Layout.Columns, box.Layout.LabelStyle,
		box.TemperatureClass, box.CreatedBy,
	).Scan(&box.ID, &box.CreatedAt, &box.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}
	if box.Positions == nil {
		box.Positions = make(map[string]*models.MaterialPosition)
	}
	return box, nil
}

// GetBoxByID loads a box together with its occupied positions
func (db *DB) GetBoxByID(ctx context.Context, id int) (*models.StorageBox, error) {
	box := &models.StorageBox{Positions: make(map[string]*models.MaterialPosition)}

	var freezer, shelf, rack, tempClass *string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, freezer, shelf, rack, rows, columns, label_style, temperature_class, created_by, created_at, updated_at
		FROM storage_boxes WHERE id = $1
	`, id).Scan(
		&box.ID, &box.Name, &freezer, &shelf, &rack,
		&box.Layout.Rows, &box.Layout.Columns, &box.Layout.LabelStyle,
		&tempClass, &box.CreatedBy, &box.CreatedAt, &box.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBoxNotFound
		}
		return nil, err
	}
	if freezer != nil {
		box.Location.Freezer = *freezer
	}
	if shelf != nil {
		box.Location.Shelf = *shelf
	}
	if rack != nil {
		box.Location.Rack = *rack
	}
	if tempClass != nil {
		box.TemperatureClass = *tempClass
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT label, material_id, material_name, material_type, amount, unit, notes, added_at
		FROM box_positions WHERE box_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		mp := &models.MaterialPosition{}
		if err := rows.Scan(&label, &mp.MaterialID, &mp.MaterialName, &mp.MaterialType,
			&mp.Amount, &mp.Unit, &mp.Notes, &mp.AddedAt); err != nil {
			return nil, err
		}
		box.Positions[label] = mp
	}
	return box, rows.Err()
}

// ListBoxes returns all boxes without their position maps, plus each box's
// occupied count so list views can show occupancy cheaply.
func (db *DB) ListBoxes(ctx context.Context) ([]*models.StorageBox, map[int]int, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT b.id, b.name, b.freezer, b.shelf, b.rack, b.rows, b.columns, b.label_style,
		       b.temperature_class, b.created_by, b.created_at, b.updated_at,
		       COUNT(p.label) AS occupied
		FROM storage_boxes b
		LEFT JOIN box_positions p ON p.box_id = b.id
		GROUP BY b.id
		ORDER BY b.name
	`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var boxes []*models.StorageBox
	occupied := make(map[int]int)
	for rows.Next() {
		box := &models.StorageBox{}
		var freezer, shelf, rack, tempClass *string
		var count int
		if err := rows.Scan(
			&box.ID, &box.Name, &freezer, &shelf, &rack,
			&box.Layout.Rows, &box.Layout.Columns, &box.Layout.LabelStyle,
			&tempClass, &box.CreatedBy, &box.CreatedAt, &box.UpdatedAt, &count,
		); err != nil {
			return nil, nil, err
		}
		if freezer != nil {
			box.Location.Freezer = *freezer
		}
		if shelf != nil {
			box.Location.Shelf = *shelf
		}
		if rack != nil {
			box.Location.Rack = *rack
		}
		if tempClass != nil {
			box.TemperatureClass = *tempClass
		}
		boxes = append(boxes, box)
		occupied[box.ID] = count
	}
	return boxes, occupied, rows.Err()
}

// DeleteBox removes a box and, via cascade, its positions. Deletion is
// always an explicit caller action, never implicit.
func (db *DB) DeleteBox(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM storage_boxes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBoxNotFound
	}
	return nil
}

// SaveBoxPosition upserts one occupied cell and bumps the box timestamp.
// The write is last-write-wins; overwrite intent is the caller's concern.
func (db *DB) SaveBoxPosition(ctx context.Context, boxID int, label string, mp *models.MaterialPosition) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO box_positions (box_id, label, material_id, material_name, material_type, amount, unit, notes, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (box_id, label) DO UPDATE SET
			material_id = EXCLUDED.material_id,
			material_name = EXCLUDED.material_name,
			material_type = EXCLUDED.material_type,
			amount = EXCLUDED.amount,
			unit = EXCLUDED.unit,
			notes = EXCLUDED.notes,
			added_at = EXCLUDED.added_at
	`, boxID, label, mp.MaterialID, mp.MaterialName, mp.MaterialType, mp.Amount, mp.Unit, mp.Notes, mp.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to save position %s: %w", label, err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE storage_boxes SET updated_at = NOW() WHERE id = $1", boxID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteBoxPosition clears one cell and bumps the box timestamp
func (db *DB) DeleteBoxPosition(ctx context.Context, boxID int, label string) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		"DELETE FROM box_positions WHERE box_id = $1 AND label = $2", boxID, label)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE storage_boxes SET updated_at = NOW() WHERE id = $1", boxID); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}
