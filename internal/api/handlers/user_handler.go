package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// UserHandler handles the admin roster endpoints.
type UserHandler struct {
	users    services.UserServiceProvider
	payments services.PaymentServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, payments services.PaymentServiceProvider) *UserHandler {
	return &UserHandler{users: users, payments: payments}
}

// List returns the full roster ordered by NIM.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers()
	if err != nil {
		writeServiceError(w, err, "Failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns one user with their full payment history.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.users.GetUserByID(id)
	if err != nil {
		writeServiceError(w, err, "Failed to get user")
		return
	}
	payments, err := h.payments.ListByUser(id)
	if err != nil {
		writeServiceError(w, err, "Failed to load user payments")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":               user.ID,
		"nim":              user.NIM,
		"nama":             user.Nama,
		"role":             user.Role,
		"password_changed": user.PasswordChanged,
		"pemasukan":        payments,
	})
}
