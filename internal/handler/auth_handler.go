package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wayfarer/internal/middleware"
	"wayfarer/internal/models"
	"wayfarer/internal/service"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type SocialLoginRequest struct {
	Provider      string `json:"provider" validate:"required,oneof=google github"`
	ProviderToken string `json:"providerToken" validate:"required"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	user, pair, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, pair)
}

// Logout always reports success so callers cannot probe token validity.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.Logger.Error().Err(err).Msg("logout failed")
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req SocialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	user, pair, err := h.AuthService.SocialLogin(r.Context(), req.Provider, req.ProviderToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	if err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		WriteError(w, err)
		return
	}

	// identical response whether or not the account exists
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	if err := h.AuthService.ValidateResetToken(r.Context(), token); err != nil {
		WriteJSON(w, http.StatusOK, map[string]bool{"valid": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, models.ErrUnauthorized)
		return
	}

	var req struct {
		Name      string  `json:"name" validate:"required,min=1,max=100"`
		AvatarURL *string `json:"avatarUrl"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, models.ErrValidation)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), userID, service.UpdateProfileRequest{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
