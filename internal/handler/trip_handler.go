package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"wayfarer/internal/middleware"
	"wayfarer/internal/models"
	"wayfarer/internal/service"
)

type TripRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Destination string     `json:"destination" validate:"max=200"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Notes       string     `json:"notes" validate:"max=10000"`
}

func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	trip, err := h.TripService.CreateTrip(r.Context(), userID, service.TripRequest{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, trip)
}

func (h *Handlers) GetTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	trips, err := h.TripService.ListTrips(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, trips)
}

func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	trip, err := h.TripService.GetTrip(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, trip)
}

func (h *Handlers) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	trip, err := h.TripService.UpdateTrip(r.Context(), mux.Vars(r)["id"], userID, service.TripRequest{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, trip)
}

func (h *Handlers) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	if err := h.TripService.DeleteTrip(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
