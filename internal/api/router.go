package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/screentime/internal/timeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authMode and secret configure AuthMiddleware.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *timeservice.Service, authMode, secret string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Get("/", h.Index)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authMode, secret))

		r.Get("/time", h.Time)

		r.Get("/adjustment-types", h.ListAdjustmentTypes)
		r.Post("/adjustment-types", h.CreateAdjustmentType)
		r.Get("/adjustment-types/{id}", h.GetAdjustmentType)
		r.Delete("/adjustment-types/{id}", h.DeleteAdjustmentType)

		r.Get("/adjustments", h.ListAdjustments)
		r.Post("/adjustments", h.CreateAdjustment)
		r.Get("/adjustments/{id}", h.GetAdjustment)
		r.Delete("/adjustments/{id}", h.DeleteAdjustment)

		r.Get("/time-entries", h.ListTimeEntries)
		r.Post("/time-entries", h.CreateTimeEntry)
		r.Get("/time-entries/{id}", h.GetTimeEntry)
		r.Delete("/time-entries/{id}", h.DeleteTimeEntry)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
