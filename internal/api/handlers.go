package api

import (
	"net/http"

	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/timeservice"
	"github.com/starford/screentime/internal/version"
)

// Handler holds API route handlers.
type Handler struct {
	svc *timeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *timeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Index handles GET /api/.
//
//	@Summary		Service version
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	IndexResponse
//	@Router			/ [get]
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{Version: version.Version})
}

// Time handles GET /api/time.
//
//	@Summary		Current adjusted screen time
//	@Tags			time
//	@Produce		json
//	@Success		200	{object}	TimeResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/time [get]
func (h *Handler) Time(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.AdjustedTime(r.Context())
	if err != nil {
		writeError(w, "adjusted time", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListAdjustmentTypes handles GET /api/adjustment-types.
//
//	@Summary		List adjustment types
//	@Tags			adjustment-types
//	@Produce		json
//	@Param			limit	query		int	false	"Max results (default 10)"
//	@Success		200		{array}		models.AdjustmentType
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustment-types [get]
func (h *Handler) ListAdjustmentTypes(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	types, err := h.svc.ListAdjustmentTypes(r.Context(), limit)
	if err != nil {
		writeError(w, "list adjustment types", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(types))
}

// GetAdjustmentType handles GET /api/adjustment-types/{id}.
//
//	@Summary		Get an adjustment type
//	@Tags			adjustment-types
//	@Produce		json
//	@Param			id	path		int	true	"Adjustment type id"
//	@Success		200	{object}	models.AdjustmentType
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustment-types/{id} [get]
func (h *Handler) GetAdjustmentType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	at, err := h.svc.GetAdjustmentType(r.Context(), id)
	if err != nil {
		writeError(w, "get adjustment type", err)
		return
	}
	writeJSON(w, http.StatusOK, at)
}

// CreateAdjustmentType handles POST /api/adjustment-types.
//
//	@Summary		Create an adjustment type
//	@Tags			adjustment-types
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateAdjustmentTypeRequest	true	"Adjustment type"
//	@Success		201		{object}	models.AdjustmentType
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustment-types [post]
func (h *Handler) CreateAdjustmentType(w http.ResponseWriter, r *http.Request) {
	var req CreateAdjustmentTypeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	at, err := h.svc.CreateAdjustmentType(r.Context(), req)
	if err != nil {
		writeError(w, "create adjustment type", err)
		return
	}
	writeJSON(w, http.StatusCreated, at)
}

// DeleteAdjustmentType handles DELETE /api/adjustment-types/{id}.
//
//	@Summary		Delete an unreferenced adjustment type
//	@Tags			adjustment-types
//	@Produce		json
//	@Param			id	path		int	true	"Adjustment type id"
//	@Success		200	{object}	DeletedResponse
//	@Failure		404	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustment-types/{id} [delete]
func (h *Handler) DeleteAdjustmentType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	n, err := h.svc.DeleteAdjustmentType(r.Context(), id)
	if err != nil {
		writeError(w, "delete adjustment type", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}

// ListAdjustments handles GET /api/adjustments.
//
//	@Summary		List adjustments, newest first
//	@Tags			adjustments
//	@Produce		json
//	@Param			limit	query		int		false	"Max results (default 10)"
//	@Param			type	query		int		false	"Filter by adjustment type id"
//	@Param			since	query		string	false	"RFC3339 lower bound on created (inclusive)"
//	@Success		200		{array}		models.Adjustment
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustments [get]
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	var (
		f   models.AdjustmentFilter
		err error
	)
	if f.Limit, err = limitParam(r); err == nil {
		if f.TypeID, err = typeParam(r); err == nil {
			f.Since, err = sinceParam(r)
		}
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	adjustments, err := h.svc.ListAdjustments(r.Context(), f)
	if err != nil {
		writeError(w, "list adjustments", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(adjustments))
}

// GetAdjustment handles GET /api/adjustments/{id}.
//
//	@Summary		Get an adjustment
//	@Tags			adjustments
//	@Produce		json
//	@Param			id	path		int	true	"Adjustment id"
//	@Success		200	{object}	models.Adjustment
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustments/{id} [get]
func (h *Handler) GetAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	a, err := h.svc.GetAdjustment(r.Context(), id)
	if err != nil {
		writeError(w, "get adjustment", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAdjustment handles POST /api/adjustments.
//
//	@Summary		Apply an adjustment type
//	@Tags			adjustments
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateAdjustmentRequest	true	"Adjustment"
//	@Success		201		{object}	models.Adjustment
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustments [post]
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req CreateAdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.CreateAdjustment(r.Context(), req)
	if err != nil {
		writeError(w, "create adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// DeleteAdjustment handles DELETE /api/adjustments/{id}.
//
//	@Summary		Delete an adjustment
//	@Tags			adjustments
//	@Produce		json
//	@Param			id	path		int	true	"Adjustment id"
//	@Success		200	{object}	DeletedResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/adjustments/{id} [delete]
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	n, err := h.svc.DeleteAdjustment(r.Context(), id)
	if err != nil {
		writeError(w, "delete adjustment", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}

// ListTimeEntries handles GET /api/time-entries.
//
//	@Summary		List time entries, newest first
//	@Tags			time-entries
//	@Produce		json
//	@Param			limit	query		int	false	"Max results (default 10)"
//	@Success		200		{array}		models.TimeEntry
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/time-entries [get]
func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entries, err := h.svc.ListTimeEntries(r.Context(), limit)
	if err != nil {
		writeError(w, "list time entries", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

// GetTimeEntry handles GET /api/time-entries/{id}.
//
//	@Summary		Get a time entry
//	@Tags			time-entries
//	@Produce		json
//	@Param			id	path		int	true	"Time entry id"
//	@Success		200	{object}	models.TimeEntry
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/time-entries/{id} [get]
func (h *Handler) GetTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	e, err := h.svc.GetTimeEntry(r.Context(), id)
	if err != nil {
		writeError(w, "get time entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateTimeEntry handles POST /api/time-entries.
//
//	@Summary		Record a new base time
//	@Tags			time-entries
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateTimeEntryRequest	true	"Time entry"
//	@Success		201		{object}	models.TimeEntry
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/time-entries [post]
func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := h.svc.CreateTimeEntry(r.Context(), req)
	if err != nil {
		writeError(w, "create time entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// DeleteTimeEntry handles DELETE /api/time-entries/{id}.
//
//	@Summary		Delete a time entry
//	@Tags			time-entries
//	@Produce		json
//	@Param			id	path		int	true	"Time entry id"
//	@Success		200	{object}	DeletedResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/time-entries/{id} [delete]
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	n, err := h.svc.DeleteTimeEntry(r.Context(), id)
	if err != nil {
		writeError(w, "delete time entry", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
