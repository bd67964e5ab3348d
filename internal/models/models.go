// Package models defines the domain types for screentime.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultLimit is the number of records returned by listings when no limit is given.
const DefaultLimit uint8 = 10

// AdjustmentType is a named, reusable signed point value.
type AdjustmentType struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Adjustment  int8   `json:"adjustment"`
}

// NewAdjustmentType is the input for creating an adjustment type.
type NewAdjustmentType struct {
	Description string `json:"description"`
	Adjustment  int8   `json:"adjustment"`
}

// Adjustment is one application of an AdjustmentType at a point in time.
type Adjustment struct {
	ID               uint64    `json:"id"`
	AdjustmentTypeID uint64    `json:"adjustment_type_id"`
	Created          time.Time `json:"created"`
	Comment          *string   `json:"comment"`
}

// NewAdjustment is the input for creating an adjustment.
// Created defaults to the insertion time when nil.
type NewAdjustment struct {
	AdjustmentTypeID uint64     `json:"type"`
	Comment          *string    `json:"comment,omitempty"`
	Created          *time.Time `json:"created,omitempty"`
}

// TimeEntry is an authoritative snapshot of the tracked duration, in minutes.
type TimeEntry struct {
	ID      uint64    `json:"id"`
	Time    uint16    `json:"time"`
	Created time.Time `json:"created"`
}

// FormattedTime returns Time as H:MM.
func (e TimeEntry) FormattedTime() string {
	return FormatMinutes(e.Time)
}

// String implements fmt.Stringer.
func (e TimeEntry) String() string {
	return e.FormattedTime()
}

// MarshalJSON adds the human-readable time_formatted field.
func (e TimeEntry) MarshalJSON() ([]byte, error) {
	type plain TimeEntry
	return json.Marshal(struct {
		plain
		TimeFormatted string `json:"time_formatted"`
	}{plain(e), e.FormattedTime()})
}

// NewTimeEntry is the input for creating a time entry.
// Created defaults to the insertion time when nil.
type NewTimeEntry struct {
	Time    uint16     `json:"time"`
	Created *time.Time `json:"created,omitempty"`
}

// AdjustmentFilter narrows an adjustment listing.
//
// Limit defaults to DefaultLimit. Unbounded drops the limit altogether and is
// meant for computations that need the complete set rather than a page.
type AdjustmentFilter struct {
	Limit     *uint8
	TypeID    *uint64
	Since     *time.Time
	Unbounded bool
}

// EffectiveLimit returns the row limit to apply, or false when the filter is unbounded.
func (f AdjustmentFilter) EffectiveLimit() (uint8, bool) {
	if f.Unbounded {
		return 0, false
	}
	if f.Limit == nil {
		return DefaultLimit, true
	}
	return *f.Limit, true
}

// FormatMinutes renders minutes as H:MM. Hours are not padded.
func FormatMinutes(minutes uint16) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
