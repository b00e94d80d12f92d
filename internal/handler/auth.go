package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/msomdec/gatekeep/internal/domain"
	"github.com/msomdec/gatekeep/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleSignup processes a JSON signup request.
// POST /api/auth/signup
// Request:  {"name":"...","surname":"...","email":"...","password":"..."}
// Response: 201 {"data":"..."}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Name == "" || req.Surname == "" || req.Password == "" || !validEmail(req.Email) {
		writeError(w, http.StatusUnprocessableEntity, "Name, surname, password, and a valid email are required.")
		return
	}

	if err := h.auth.Signup(r.Context(), req.Name, req.Surname, req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "An account with that email already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("signup user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"data": "User successfully created.",
	})
}

// HandleSignin processes a JSON signin request.
// POST /api/auth/signin
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","user":{...}}
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Password == "" || !validEmail(req.Email) {
		writeError(w, http.StatusUnprocessableEntity, "Email and password are required.")
		return
	}

	token, user, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		slog.Error("signin user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// HandleResetPasswordDemand starts a password reset.
// POST /api/auth/reset-password
// Request:  {"email":"..."}
// Response: {"data":"..."}
func (h *AuthHandler) HandleResetPasswordDemand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if !validEmail(req.Email) {
		writeError(w, http.StatusUnprocessableEntity, "A valid email is required.")
		return
	}

	if err := h.auth.ResetPasswordDemand(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		slog.Error("reset password demand", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"data": "Reset password mail has been sent.",
	})
}

// HandleResetPasswordConfirmation completes a password reset.
// POST /api/auth/reset-password-confirmation
// Request:  {"email":"...","code":"...","password":"..."}
// Response: {"data":"..."}
func (h *AuthHandler) HandleResetPasswordConfirmation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Code == "" || req.Password == "" || !validEmail(req.Email) {
		writeError(w, http.StatusUnprocessableEntity, "Email, code, and password are required.")
		return
	}

	if err := h.auth.ResetPasswordConfirmation(r.Context(), req.Email, req.Code, req.Password); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired code.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("reset password confirmation", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"data": "Password has been changed successfully.",
	})
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user":{...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
