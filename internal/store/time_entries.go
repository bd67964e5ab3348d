package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
)

func scanTimeEntry(row rowScanner) (models.TimeEntry, error) {
	var (
		e       models.TimeEntry
		created int64
	)
	if err := row.Scan(&e.ID, &e.Time, &created); err != nil {
		return e, err
	}
	e.Created = fromMillis(created)
	return e, nil
}

// CurrentTimeEntry returns the most recently created time entry, or nil when there is none.
func (s *Store) CurrentTimeEntry(ctx context.Context) (*models.TimeEntry, error) {
	e, err := scanTimeEntry(s.conn.QueryRowContext(ctx,
		`SELECT id, time, created FROM time_entry ORDER BY created DESC, id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: current time entry: %w", err)
	}
	return &e, nil
}

// TimeEntry returns a single time entry.
func (s *Store) TimeEntry(ctx context.Context, id uint64) (*models.TimeEntry, error) {
	e, err := scanTimeEntry(s.conn.QueryRowContext(ctx,
		s.rebind(`SELECT id, time, created FROM time_entry WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: time entry %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get time entry: %w", err)
	}
	return &e, nil
}

// TimeEntries lists time entries newest first. A nil limit means models.DefaultLimit.
func (s *Store) TimeEntries(ctx context.Context, limit *uint8) ([]models.TimeEntry, error) {
	l := models.DefaultLimit
	if limit != nil {
		l = *limit
	}
	rows, err := s.conn.QueryContext(ctx,
		s.rebind(`SELECT id, time, created FROM time_entry ORDER BY created DESC, id DESC LIMIT ?`), l)
	if err != nil {
		return nil, fmt.Errorf("store: list time entries: %w", err)
	}
	defer rows.Close()

	out := []models.TimeEntry{}
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan time entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddTimeEntry inserts a new time entry and returns it.
func (s *Store) AddTimeEntry(ctx context.Context, in models.NewTimeEntry) (*models.TimeEntry, error) {
	created := s.createdOrNow(in.Created)

	var id uint64
	err := s.conn.QueryRowContext(ctx,
		s.rebind(`INSERT INTO time_entry (time, created) VALUES (?, ?) RETURNING id`),
		in.Time, toMillis(created),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("store: insert time entry: %w", err)
	}
	return &models.TimeEntry{ID: id, Time: in.Time, Created: created}, nil
}

// DeleteTimeEntry removes the time entry and returns the number of deleted rows.
func (s *Store) DeleteTimeEntry(ctx context.Context, id uint64) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.rebind(`DELETE FROM time_entry WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("store: delete time entry: %w", err)
	}
	return res.RowsAffected()
}
