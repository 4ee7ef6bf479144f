package handlers

import (
	"encoding/json"
	"net/http"

	"astrotalk/internal/middleware"
	"astrotalk/internal/money"
	"astrotalk/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.users.GetWalletBalance(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"balance":       money.FormatMinor(balance),
		"balance_minor": balance,
	})
}

type addToWalletRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) AddToWallet(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req addToWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := money.ParseMinor(req.Amount)
	if err != nil || amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	var balance int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		newBalance, err := h.users.CreditWallet(r.Context(), tx, identity.ID, amount)
		if err != nil {
			return err
		}
		balance = newBalance
		return h.entries.Insert(r.Context(), tx, store.WalletEntryInput{
			ID:          uuid.NewString(),
			UserID:      identity.ID,
			Amount:      amount,
			Kind:        "topup",
			Description: "Wallet top-up",
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"balance":       money.FormatMinor(balance),
		"balance_minor": balance,
		"message":       "Wallet updated successfully",
	})
}

func (h *Handler) ListWalletEntries(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	entries, err := h.entries.ListByUser(r.Context(), identity.ID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}
	rendered := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		item := map[string]any{
			"id":           entry.ID,
			"amount":       money.FormatMinor(entry.Amount),
			"amount_minor": entry.Amount,
			"kind":         entry.Kind,
			"description":  entry.Description,
			"created_at":   entry.CreatedAt,
		}
		if entry.BookingID != nil {
			item["booking_id"] = *entry.BookingID
		}
		rendered = append(rendered, item)
	}
	respondJSON(w, http.StatusOK, rendered)
}
