package handlers

import (
	"log/slog"
	"net/http"
)

// Sessions verifies the admin credential and manages the admin session.
type Sessions interface {
	Authenticate(email, password string) bool
	Login(w http.ResponseWriter, r *http.Request) error
	Logout(w http.ResponseWriter, r *http.Request) error
	IsAdmin(r *http.Request) bool
}

// Login handles POST /api/login with {"email", "password"}.
func Login(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if !sessions.Authenticate(body.Email, body.Password) {
			slog.Warn("admin login failed", "remote", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":            "Invalid credentials",
				"errorDescription": "Please check your email and password.",
			})
			return
		}

		if err := sessions.Login(w, r); err != nil {
			slog.Error("failed to start admin session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to start session")
			return
		}

		slog.Info("admin logged in", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
	}
}

// Logout handles POST /api/logout.
func Logout(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Logout(w, r); err != nil {
			slog.Error("failed to clear admin session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to clear session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
	}
}

// Session handles GET /api/session. It reports whether the caller holds an
// admin session.
func Session(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": sessions.IsAdmin(r)})
	}
}
