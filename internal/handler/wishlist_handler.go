package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wayfarer/internal/middleware"
	"wayfarer/internal/models"
)

type WishlistRequest struct {
	PostID string `json:"postId" validate:"required,uuid"`
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	var req WishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	if err := h.WishlistService.Add(r.Context(), userID, req.PostID); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	if err := h.WishlistService.Remove(r.Context(), userID, mux.Vars(r)["postId"]); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	posts, err := h.WishlistService.List(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, posts)
}
