package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
)

const adjustmentColumns = `id, adjustment_type_id, created, comment`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdjustment(row rowScanner) (models.Adjustment, error) {
	var (
		a       models.Adjustment
		created int64
		comment sql.NullString
	)
	if err := row.Scan(&a.ID, &a.AdjustmentTypeID, &created, &comment); err != nil {
		return a, err
	}
	a.Created = fromMillis(created)
	if comment.Valid {
		a.Comment = &comment.String
	}
	return a, nil
}

// Adjustments lists adjustments newest first (created, then id, descending).
func (s *Store) Adjustments(ctx context.Context, f models.AdjustmentFilter) ([]models.Adjustment, error) {
	var (
		where []string
		args  []any
	)
	if f.TypeID != nil {
		where = append(where, "adjustment_type_id = ?")
		args = append(args, *f.TypeID)
	}
	if f.Since != nil {
		where = append(where, "created >= ?")
		args = append(args, toMillisCeil(*f.Since))
	}

	q := `SELECT ` + adjustmentColumns + ` FROM adjustment`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created DESC, id DESC`
	if limit, ok := f.EffectiveLimit(); ok {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list adjustments: %w", err)
	}
	defer rows.Close()

	out := []models.Adjustment{}
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan adjustment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Adjustment returns a single adjustment.
func (s *Store) Adjustment(ctx context.Context, id uint64) (*models.Adjustment, error) {
	a, err := scanAdjustment(s.conn.QueryRowContext(ctx,
		s.rebind(`SELECT `+adjustmentColumns+` FROM adjustment WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: adjustment %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get adjustment: %w", err)
	}
	return &a, nil
}

// CountAdjustmentsForType returns how many adjustments reference the given type.
func (s *Store) CountAdjustmentsForType(ctx context.Context, typeID uint64) (int64, error) {
	var n int64
	err := s.conn.QueryRowContext(ctx,
		s.rebind(`SELECT count(*) FROM adjustment WHERE adjustment_type_id = ?`), typeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count adjustments: %w", err)
	}
	return n, nil
}

// AddAdjustment inserts a new adjustment and returns it.
func (s *Store) AddAdjustment(ctx context.Context, in models.NewAdjustment) (*models.Adjustment, error) {
	created := s.createdOrNow(in.Created)

	var comment sql.NullString
	if in.Comment != nil {
		comment = sql.NullString{String: *in.Comment, Valid: true}
	}

	var id uint64
	err := s.conn.QueryRowContext(ctx,
		s.rebind(`INSERT INTO adjustment (adjustment_type_id, created, comment) VALUES (?, ?, ?) RETURNING id`),
		in.AdjustmentTypeID, toMillis(created), comment,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("store: insert adjustment: %w", err)
	}
	return &models.Adjustment{
		ID:               id,
		AdjustmentTypeID: in.AdjustmentTypeID,
		Created:          created,
		Comment:          in.Comment,
	}, nil
}

// DeleteAdjustment removes the adjustment and returns the number of deleted rows.
func (s *Store) DeleteAdjustment(ctx context.Context, id uint64) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.rebind(`DELETE FROM adjustment WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("store: delete adjustment: %w", err)
	}
	return res.RowsAffected()
}
