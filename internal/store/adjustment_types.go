package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
)

// AdjustmentType returns a single adjustment type.
func (s *Store) AdjustmentType(ctx context.Context, id uint64) (*models.AdjustmentType, error) {
	var at models.AdjustmentType
	err := s.conn.QueryRowContext(ctx,
		s.rebind(`SELECT id, description, adjustment FROM adjustment_type WHERE id = ?`), id,
	).Scan(&at.ID, &at.Description, &at.Adjustment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: adjustment type %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get adjustment type: %w", err)
	}
	return &at, nil
}

// AdjustmentTypes lists adjustment types by id. A nil limit means models.DefaultLimit.
func (s *Store) AdjustmentTypes(ctx context.Context, limit *uint8) ([]models.AdjustmentType, error) {
	l := models.DefaultLimit
	if limit != nil {
		l = *limit
	}
	rows, err := s.conn.QueryContext(ctx,
		s.rebind(`SELECT id, description, adjustment FROM adjustment_type ORDER BY id LIMIT ?`), l)
	if err != nil {
		return nil, fmt.Errorf("store: list adjustment types: %w", err)
	}
	defer rows.Close()

	out := []models.AdjustmentType{}
	for rows.Next() {
		var at models.AdjustmentType
		if err := rows.Scan(&at.ID, &at.Description, &at.Adjustment); err != nil {
			return nil, fmt.Errorf("store: scan adjustment type: %w", err)
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

// AdjustmentTypesForIDs looks up all given ids in one query.
func (s *Store) AdjustmentTypesForIDs(ctx context.Context, ids []uint64) (map[uint64]models.AdjustmentType, error) {
	out := make(map[uint64]models.AdjustmentType, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.conn.QueryContext(ctx, s.rebind(
		`SELECT id, description, adjustment FROM adjustment_type WHERE id IN (`+placeholders(len(ids))+`)`), args...)
	if err != nil {
		return nil, fmt.Errorf("store: adjustment types for ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var at models.AdjustmentType
		if err := rows.Scan(&at.ID, &at.Description, &at.Adjustment); err != nil {
			return nil, fmt.Errorf("store: scan adjustment type: %w", err)
		}
		out[at.ID] = at
	}
	return out, rows.Err()
}

// AddAdjustmentType inserts a new adjustment type and returns it.
func (s *Store) AddAdjustmentType(ctx context.Context, in models.NewAdjustmentType) (*models.AdjustmentType, error) {
	var id uint64
	err := s.conn.QueryRowContext(ctx,
		s.rebind(`INSERT INTO adjustment_type (description, adjustment) VALUES (?, ?) RETURNING id`),
		in.Description, in.Adjustment,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("store: insert adjustment type: %w", err)
	}
	return &models.AdjustmentType{ID: id, Description: in.Description, Adjustment: in.Adjustment}, nil
}

// DeleteAdjustmentType removes the adjustment type and returns the number of deleted rows.
// Callers are expected to check for referencing adjustments first.
func (s *Store) DeleteAdjustmentType(ctx context.Context, id uint64) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.rebind(`DELETE FROM adjustment_type WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("store: delete adjustment type: %w", err)
	}
	return res.RowsAffected()
}
