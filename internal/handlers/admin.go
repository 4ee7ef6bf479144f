package handlers

import (
	"net/http"

	"astrotalk/internal/money"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	rendered := make([]map[string]any, 0, len(users))
	for _, user := range users {
		rendered = append(rendered, map[string]any{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"role":       user.Role,
			"wallet":     money.FormatMinor(user.WalletBalance),
			"created_at": user.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, rendered)
}

func (h *Handler) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	bookings, err := h.bookings.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	rendered := make([]map[string]any, 0, len(bookings))
	for _, booking := range bookings {
		rendered = append(rendered, renderBooking(booking))
	}
	respondJSON(w, http.StatusOK, rendered)
}

func (h *Handler) AdminListAudit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
