package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kaskelas/kas-kelas-be/internal/auth"
	"github.com/kaskelas/kas-kelas-be/internal/models"
	"github.com/kaskelas/kas-kelas-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login, logout and password management.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	NIM      string `json:"nim"`
	Password string `json:"password"`
}

type userResponse struct {
	ID                  string      `json:"id"`
	NIM                 string      `json:"nim"`
	Nama                string      `json:"nama"`
	Role                models.Role `json:"role"`
	NeedsPasswordChange bool        `json:"needs_password_change"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:                  u.ID,
		NIM:                 u.NIM,
		Nama:                u.Nama,
		Role:                u.Role,
		NeedsPasswordChange: u.NeedsPasswordChange(),
	}
}

// Login authenticates by NIM and password and returns a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.NIM == "" || payload.Password == "" {
		writeMessage(w, http.StatusBadRequest, "nim and password are required")
		return
	}

	user, err := h.service.Authenticate(payload.NIM, payload.Password)
	if err != nil {
		log.Warn().Str("nim", payload.NIM).Msg("Failed authentication attempt")
		writeMessage(w, http.StatusUnauthorized, "NIM atau password salah")
		return
	}

	token, err := auth.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// Logout acknowledges a logout. Tokens are stateless; the client
// discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logout berhasil")
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		writeServiceError(w, err, "User from token not found")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ChangePassword replaces the caller's password. Required after first
// login while still on the seeded default.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(payload.NewPassword) < 6 {
		writeMessage(w, http.StatusBadRequest, "new_password must be at least 6 characters")
		return
	}

	if err := h.service.ChangePassword(claims.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		writeServiceError(w, err, "Failed to change password")
		return
	}
	writeMessage(w, http.StatusOK, "Password berhasil diubah")
}

// ResetPassword sets a member's password back to their NIM. Admin only.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		writeMessage(w, http.StatusBadRequest, "user_id is required")
		return
	}

	user, err := h.service.ResetPassword(payload.UserID)
	if err != nil {
		writeServiceError(w, err, "Failed to reset password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Password berhasil direset ke NIM",
		"user":    map[string]string{"nim": user.NIM, "nama": user.Nama},
	})
}
