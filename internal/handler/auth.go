package handler

import (
	"encoding/json"
	"net/http"

	"github.com/authgate/authgate-go/internal/apperror"
	"github.com/authgate/authgate-go/internal/middleware"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication. Bodies reaching it
// have already been normalized by middleware.Validate.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup handles POST /api/v1/auth/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) error {
	var req model.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", resp)
	return nil
}

// HandleLogin handles POST /api/v1/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "Login successful", resp)
	return nil
}

// HandlePasswordReset handles POST /api/v1/auth/password-reset requests.
func (h *AuthHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) error {
	var req model.PasswordResetRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	if err := h.service.RequestPasswordReset(r.Context(), req); err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "If the email is registered, password reset instructions have been sent", nil)
	return nil
}

// HandleMe handles GET /api/v1/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) error {
	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		return apperror.Unauthorized("Unauthorized")
	}

	user, err := h.service.GetUser(r.Context(), payload.UserID)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
	return nil
}

// HandleUpdateMe handles PATCH /api/v1/auth/me requests.
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) error {
	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		return apperror.Unauthorized("Unauthorized")
	}

	var req model.ProfileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(r.Context(), payload.UserID, req)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", user)
	return nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.BadRequest("Invalid request data")
	}
	return nil
}
