package handlers

import (
	"encoding/json"
	"net/http"

	"astrotalk/internal/assistant"
)

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := h.chatter.Chat(r.Context(), req.Message)
	if err != nil {
		if err == assistant.ErrEmptyMessage {
			respondError(w, http.StatusBadRequest, "message is required")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
