// Package timecalc computes the adjusted screen time from the time entry and
// adjustment logs.
//
// The current value is the latest time entry replayed forward through every
// adjustment created at or after it, in chronological order. The running
// total is floored at zero after each step, so a negative excursion is never
// carried as debt into later positive adjustments.
package timecalc

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
)

// ErrOutOfRange is returned when the running total does not fit in uint16 minutes.
var ErrOutOfRange = errors.New("adjusted time out of range")

// Source is the read side of the store the resolver depends on.
type Source interface {
	CurrentTimeEntry(ctx context.Context) (*models.TimeEntry, error)
	Adjustments(ctx context.Context, f models.AdjustmentFilter) ([]models.Adjustment, error)
	AdjustmentTypesForIDs(ctx context.Context, ids []uint64) (map[uint64]models.AdjustmentType, error)
}

// Resolver computes the adjusted time. It holds no state between calls.
type Resolver struct {
	src Source
}

// NewResolver creates a Resolver reading from src.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the current adjusted time in minutes.
func (r *Resolver) Resolve(ctx context.Context) (uint16, error) {
	entry, err := r.src.CurrentTimeEntry(ctx)
	if err != nil {
		return 0, fmt.Errorf("timecalc: current time entry: %w", err)
	}

	var base uint16
	filter := models.AdjustmentFilter{Unbounded: true}
	if entry != nil {
		base = entry.Time
		since := entry.Created
		filter.Since = &since
	}

	adjustments, err := r.src.Adjustments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("timecalc: adjustments: %w", err)
	}
	if len(adjustments) == 0 {
		return base, nil
	}

	SortChronological(adjustments)

	types, err := r.src.AdjustmentTypesForIDs(ctx, typeIDs(adjustments))
	if err != nil {
		return 0, fmt.Errorf("timecalc: adjustment types: %w", err)
	}

	deltas := make([]int8, len(adjustments))
	for i, a := range adjustments {
		at, ok := types[a.AdjustmentTypeID]
		if !ok {
			return 0, fmt.Errorf("timecalc: adjustment %d references unknown adjustment type %d: %w",
				a.ID, a.AdjustmentTypeID, apperr.ErrIntegrity)
		}
		deltas[i] = at.Adjustment
	}

	return Fold(base, deltas)
}

// Fold applies deltas to base in order, clamping the running total to zero
// after every step.
func Fold(base uint16, deltas []int8) (uint16, error) {
	running := int64(base)
	for i, d := range deltas {
		running = max(running+int64(d), 0)
		if running > math.MaxUint16 {
			return 0, fmt.Errorf("%w: %d minutes after step %d", ErrOutOfRange, running, i+1)
		}
	}
	return uint16(running), nil
}

// SortChronological orders adjustments by creation time, oldest first.
// Adjustments sharing a timestamp are replayed in insertion (id) order.
func SortChronological(adjustments []models.Adjustment) {
	slices.SortStableFunc(adjustments, func(a, b models.Adjustment) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func typeIDs(adjustments []models.Adjustment) []uint64 {
	set := make(map[uint64]struct{}, len(adjustments))
	for _, a := range adjustments {
		set[a.AdjustmentTypeID] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}
