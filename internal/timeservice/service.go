// Package timeservice coordinates the store and the adjusted-time resolver
// behind the CLI, HTTP and MCP surfaces.
package timeservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/timecalc"
)

// Store is the persistence the service depends on.
type Store interface {
	timecalc.Source

	AdjustmentType(ctx context.Context, id uint64) (*models.AdjustmentType, error)
	AdjustmentTypes(ctx context.Context, limit *uint8) ([]models.AdjustmentType, error)
	AddAdjustmentType(ctx context.Context, in models.NewAdjustmentType) (*models.AdjustmentType, error)
	DeleteAdjustmentType(ctx context.Context, id uint64) (int64, error)

	Adjustment(ctx context.Context, id uint64) (*models.Adjustment, error)
	CountAdjustmentsForType(ctx context.Context, typeID uint64) (int64, error)
	AddAdjustment(ctx context.Context, in models.NewAdjustment) (*models.Adjustment, error)
	DeleteAdjustment(ctx context.Context, id uint64) (int64, error)

	TimeEntry(ctx context.Context, id uint64) (*models.TimeEntry, error)
	TimeEntries(ctx context.Context, limit *uint8) ([]models.TimeEntry, error)
	AddTimeEntry(ctx context.Context, in models.NewTimeEntry) (*models.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id uint64) (int64, error)
}

// Notifier receives the adjusted time after it may have changed.
type Notifier interface {
	PublishTime(minutes uint16)
}

// AdjustedTime is the resolved time with its H:MM rendering.
type AdjustedTime struct {
	Time          uint16 `json:"time"`
	FormattedTime string `json:"formatted_time"`
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier registers n to be told about the adjusted time after every mutation.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the logger used for non-fatal notification failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// Service implements the screentime use cases.
type Service struct {
	store    Store
	resolver *timecalc.Resolver
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a new service over st.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		resolver: timecalc.NewResolver(st),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdjustedTime resolves the current adjusted time.
func (s *Service) AdjustedTime(ctx context.Context) (AdjustedTime, error) {
	minutes, err := s.resolver.Resolve(ctx)
	if err != nil {
		return AdjustedTime{}, err
	}
	return AdjustedTime{Time: minutes, FormattedTime: models.FormatMinutes(minutes)}, nil
}

// Refresh recomputes the adjusted time and hands it to the notifier, if any.
// Failures are logged, not returned.
func (s *Service) Refresh(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	minutes, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.logger.Warn("refresh adjusted time failed", slog.String("error", err.Error()))
		return
	}
	s.notifier.PublishTime(minutes)
}

// ListAdjustmentTypes lists adjustment types by id.
func (s *Service) ListAdjustmentTypes(ctx context.Context, limit *uint8) ([]models.AdjustmentType, error) {
	return s.store.AdjustmentTypes(ctx, limit)
}

// GetAdjustmentType returns one adjustment type.
func (s *Service) GetAdjustmentType(ctx context.Context, id uint64) (*models.AdjustmentType, error) {
	return s.store.AdjustmentType(ctx, id)
}

// CreateAdjustmentType validates and stores a new adjustment type.
func (s *Service) CreateAdjustmentType(ctx context.Context, in models.NewAdjustmentType) (*models.AdjustmentType, error) {
	if err := validateNewAdjustmentType(&in); err != nil {
		return nil, err
	}
	return s.store.AddAdjustmentType(ctx, in)
}

// DeleteAdjustmentType removes an adjustment type that no adjustment references.
func (s *Service) DeleteAdjustmentType(ctx context.Context, id uint64) (int64, error) {
	if _, err := s.store.AdjustmentType(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.store.CountAdjustmentsForType(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, fmt.Errorf("there are still adjustments referencing adjustment type %d: %w", id, apperr.ErrConflict)
	}
	return s.store.DeleteAdjustmentType(ctx, id)
}

// ListAdjustments lists adjustments newest first.
func (s *Service) ListAdjustments(ctx context.Context, f models.AdjustmentFilter) ([]models.Adjustment, error) {
	return s.store.Adjustments(ctx, f)
}

// GetAdjustment returns one adjustment.
func (s *Service) GetAdjustment(ctx context.Context, id uint64) (*models.Adjustment, error) {
	return s.store.Adjustment(ctx, id)
}

// CreateAdjustment applies an existing adjustment type.
func (s *Service) CreateAdjustment(ctx context.Context, in models.NewAdjustment) (*models.Adjustment, error) {
	if err := validateNewAdjustment(&in); err != nil {
		return nil, err
	}
	if _, err := s.store.AdjustmentType(ctx, in.AdjustmentTypeID); err != nil {
		return nil, err
	}
	a, err := s.store.AddAdjustment(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Refresh(ctx)
	return a, nil
}

// DeleteAdjustment removes one adjustment.
func (s *Service) DeleteAdjustment(ctx context.Context, id uint64) (int64, error) {
	if _, err := s.store.Adjustment(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteAdjustment(ctx, id)
	if err != nil {
		return 0, err
	}
	s.Refresh(ctx)
	return n, nil
}

// ListTimeEntries lists time entries newest first.
func (s *Service) ListTimeEntries(ctx context.Context, limit *uint8) ([]models.TimeEntry, error) {
	return s.store.TimeEntries(ctx, limit)
}

// GetTimeEntry returns one time entry.
func (s *Service) GetTimeEntry(ctx context.Context, id uint64) (*models.TimeEntry, error) {
	return s.store.TimeEntry(ctx, id)
}

// CreateTimeEntry records a new base time.
func (s *Service) CreateTimeEntry(ctx context.Context, in models.NewTimeEntry) (*models.TimeEntry, error) {
	e, err := s.store.AddTimeEntry(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Refresh(ctx)
	return e, nil
}

// DeleteTimeEntry removes one time entry.
func (s *Service) DeleteTimeEntry(ctx context.Context, id uint64) (int64, error) {
	if _, err := s.store.TimeEntry(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteTimeEntry(ctx, id)
	if err != nil {
		return 0, err
	}
	s.Refresh(ctx)
	return n, nil
}
