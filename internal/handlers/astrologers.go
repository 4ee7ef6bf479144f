package handlers

import (
	"encoding/json"
	"net/http"

	"astrotalk/internal/middleware"
	"astrotalk/internal/money"
	"astrotalk/internal/store"
	"astrotalk/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListAstrologers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	includeOffline := query.Get("all") != ""
	profiles, err := h.astrologers.List(r.Context(), includeOffline, query.Get("q"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch astrologers")
		return
	}
	rendered := make([]map[string]any, 0, len(profiles))
	for _, profile := range profiles {
		rendered = append(rendered, renderProfile(profile))
	}
	respondJSON(w, http.StatusOK, rendered)
}

func (h *Handler) GetAstrologer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.astrologers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "astrologer not found")
		return
	}
	respondJSON(w, http.StatusOK, renderProfile(profile))
}

type updateProfileRequest struct {
	DisplayName   string   `json:"display_name"`
	Bio           string   `json:"bio"`
	Languages     []string `json:"languages"`
	Expertise     []string `json:"expertise"`
	PerMinuteRate string   `json:"per_minute_rate"`
	IsOnline      *bool    `json:"is_online"`
}

func (h *Handler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = identity.Username
	}
	if req.Languages == nil {
		req.Languages = []string{}
	}
	if req.Expertise == nil {
		req.Expertise = []string{}
	}
	if req.PerMinuteRate == "" {
		req.PerMinuteRate = "0"
	}
	rate, err := money.ParseRate(req.PerMinuteRate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid per_minute_rate")
		return
	}
	online := true
	if req.IsOnline != nil {
		online = *req.IsOnline
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.astrologers.Upsert(r.Context(), tx, store.UpsertProfileInput{
			ID:            uuid.NewString(),
			UserID:        identity.ID,
			DisplayName:   req.DisplayName,
			Bio:           req.Bio,
			Languages:     req.Languages,
			Expertise:     req.Expertise,
			PerMinuteRate: rate.StringFixed(2),
			IsOnline:      online,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	profile, err := h.astrologers.GetByUserID(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	h.hub.BroadcastPresence(profileToPresence(profile))
	respondJSON(w, http.StatusOK, renderProfile(profile))
}

func profileToPresence(profile store.Profile) websocket.PresenceUpdate {
	return websocket.PresenceUpdate{
		AstrologerID: profile.ID,
		DisplayName:  profile.DisplayName,
		IsOnline:     profile.IsOnline,
	}
}
