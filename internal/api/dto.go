package api

import (
	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/timeservice"
)

// IndexResponse is returned by GET /api/.
type IndexResponse struct {
	Version string `json:"version" example:"0.3.0" validate:"required"`
}

// TimeResponse is the adjusted time (aliased from the domain layer).
type TimeResponse = timeservice.AdjustedTime

// CreateAdjustmentTypeRequest is the request body for creating an adjustment type.
type CreateAdjustmentTypeRequest = models.NewAdjustmentType

// CreateAdjustmentRequest is the request body for applying an adjustment type.
// Created is optional and defaults to now.
type CreateAdjustmentRequest = models.NewAdjustment

// CreateTimeEntryRequest is the request body for recording a base time.
type CreateTimeEntryRequest = models.NewTimeEntry

// DeletedResponse reports how many rows a delete removed.
type DeletedResponse struct {
	Deleted int64 `json:"deleted" example:"1" validate:"required"`
}
