package handler

import (
	"net/http"

	"github.com/msomdec/gatekeep/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService) {
	authHandler := NewAuthHandler(auth)

	mux.HandleFunc("POST /api/auth/signup", authHandler.HandleSignup)
	mux.HandleFunc("POST /api/auth/signin", authHandler.HandleSignin)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.HandleResetPasswordDemand)
	mux.HandleFunc("POST /api/auth/reset-password-confirmation", authHandler.HandleResetPasswordConfirmation)

	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	mux.HandleFunc("GET /healthz", HandleHealthz)
}
