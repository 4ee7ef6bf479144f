package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"astrotalk/internal/money"
	"astrotalk/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func renderProfile(p store.Profile) map[string]any {
	languages := p.Languages
	if languages == nil {
		languages = []string{}
	}
	expertise := p.Expertise
	if expertise == nil {
		expertise = []string{}
	}
	return map[string]any{
		"id":              p.ID,
		"user_id":         p.UserID,
		"display_name":    p.DisplayName,
		"bio":             p.Bio,
		"languages":       languages,
		"expertise":       expertise,
		"per_minute_rate": p.PerMinuteRate,
		"is_online":       p.IsOnline,
		"created_at":      p.CreatedAt,
		"user": map[string]string{
			"username": p.Username,
			"email":    p.Email,
		},
	}
}

func renderBooking(b store.BookingDetail) map[string]any {
	rendered := map[string]any{
		"id":            b.ID,
		"user_id":       b.UserID,
		"astrologer_id": b.AstrologerID,
		"kind":          b.Kind,
		"minutes":       b.Minutes,
		"amount":        money.FormatMinor(b.Amount),
		"amount_minor":  b.Amount,
		"currency":      b.Currency,
		"status":        b.Status,
		"created_at":    b.CreatedAt,
	}
	if b.RazorpayOrderID != nil {
		rendered["razorpay_order_id"] = *b.RazorpayOrderID
	}
	if b.RazorpayPaymentID != nil {
		rendered["razorpay_payment_id"] = *b.RazorpayPaymentID
	}
	if b.DisplayName != nil {
		astrologer := map[string]any{"display_name": *b.DisplayName}
		if b.PerMinuteRate != nil {
			astrologer["per_minute_rate"] = *b.PerMinuteRate
		}
		rendered["astrologer"] = astrologer
	}
	if b.Username != nil {
		user := map[string]any{"username": *b.Username}
		if b.Email != nil {
			user["email"] = *b.Email
		}
		rendered["user"] = user
	}
	return rendered
}
