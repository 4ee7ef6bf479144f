package handlers

import (
	"encoding/json"
	"net/http"

	"astrotalk/internal/middleware"
	"astrotalk/internal/models"
	"astrotalk/internal/services"
	"astrotalk/internal/store"

	"github.com/go-chi/chi/v5"
)

type createBookingRequest struct {
	AstrologerID string `json:"astrologer_id"`
	Kind         string `json:"kind"`
	Minutes      int    `json:"minutes"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.AstrologerID == "" || req.Kind == "" || req.Minutes == 0 {
		respondError(w, http.StatusBadRequest, "astrologer_id, kind, minutes required")
		return
	}
	result, err := h.service.Create(r.Context(), services.CreateBookingRequest{
		UserID:       identity.ID,
		AstrologerID: req.AstrologerID,
		Kind:         req.Kind,
		Minutes:      req.Minutes,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidBooking:
			respondError(w, http.StatusBadRequest, "invalid booking request")
		case services.ErrAstrologerNotFound:
			respondError(w, http.StatusNotFound, "astrologer not found")
		default:
			respondError(w, http.StatusInternalServerError, "booking failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"booking": renderBooking(result.Booking),
		"order":   result.Order,
	})
}

// ListOwnBookings dispatches on the authenticated role: consumers see
// their own requests, astrologers see bookings against their profiles,
// anyone else gets an empty list.
func (h *Handler) ListOwnBookings(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var (
		bookings []store.BookingDetail
		err      error
	)
	switch identity.Role {
	case models.RoleUser:
		bookings, err = h.bookings.ListByUser(r.Context(), identity.ID)
	case models.RoleAstrologer:
		bookings, err = h.bookings.ListByAstrologerUser(r.Context(), identity.ID)
	default:
		respondJSON(w, http.StatusOK, []map[string]any{})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch bookings")
		return
	}
	rendered := make([]map[string]any, 0, len(bookings))
	for _, booking := range bookings {
		rendered = append(rendered, renderBooking(booking))
	}
	respondJSON(w, http.StatusOK, rendered)
}

type confirmBookingRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req confirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	booking, err := h.service.Confirm(r.Context(), services.ConfirmBookingRequest{
		UserID:    identity.ID,
		BookingID: chi.URLParam(r, "id"),
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	})
	if err != nil {
		switch err {
		case services.ErrBookingNotFound:
			respondError(w, http.StatusNotFound, "booking not found")
		case services.ErrBookingNotCreated:
			respondError(w, http.StatusBadRequest, "booking is not awaiting payment")
		case services.ErrInsufficientFunds:
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "confirmation failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, renderBooking(booking))
}
