/*
auth.go - Credential check for the dashboard roles.

The dashboard has three fixed roles, each with a password taken from the
environment (falling back to the well-known dev default). Passwords are
compared by SHA-256 digest. This is deliberately minimal - the engine has no
session machinery; the UI keeps its own login state.
*/
package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

// roleUsers maps display roles to their expected usernames.
var roleUsers = map[string]string{
	"Operations Manager":        "ops_manager",
	"Event Coordinator":         "event_coordinator",
	"Sustainability Consultant": "sustain_consultant",
}

// envPasswords maps usernames to the environment variable holding their
// password.
var envPasswords = map[string]string{
	"ops_manager":        "OPS_MANAGER_PASSWORD",
	"event_coordinator":  "EVENT_COORDINATOR_PASSWORD",
	"sustain_consultant": "SUSTAIN_CONSULTANT_PASSWORD",
}

const defaultPassword = "admin123"

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// defaultCredentials builds the username -> password-hash table from the
// environment.
func defaultCredentials() map[string]string {
	creds := make(map[string]string, len(envPasswords))
	for user, envVar := range envPasswords {
		password := os.Getenv(envVar)
		if password == "" {
			password = defaultPassword
		}
		creds[user] = hashPassword(password)
	}
	return creds
}

// Login validates a role/username/password triple.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required", nil)
		return
	}

	expectedUser, ok := roleUsers[req.Role]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid role, username, or password", nil)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	expectedHash := h.creds[expectedUser]
	suppliedHash := hashPassword(req.Password)

	if username != expectedUser ||
		subtle.ConstantTimeCompare([]byte(suppliedHash), []byte(expectedHash)) != 1 {
		h.Log.Warn().Str("username", username).Msg("failed login attempt")
		writeError(w, http.StatusUnauthorized, "Invalid role, username, or password", nil)
		return
	}

	h.Log.Info().Str("username", username).Msg("login succeeded")
	writeJSON(w, http.StatusOK, LoginResponse{User: username, Role: req.Role})
}
