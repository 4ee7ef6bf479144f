package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"astrotalk/internal/auth"
	"astrotalk/internal/middleware"
	"astrotalk/internal/models"
	"astrotalk/internal/money"
	"astrotalk/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateUsername(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if err := validator.ValidateSignupRole(role); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	userID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.Create(r.Context(), tx, userID, req.Username, req.Email, passwordHash, role); err != nil {
			return err
		}
		if role == models.RoleAstrologer {
			if err := h.astrologers.Create(r.Context(), tx, uuid.NewString(), userID, req.Username); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]string{
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
			"role":       role,
		})
		return h.audit.Log(r.Context(), tx, userID, "signup", "user", userID, string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "username or email already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, userID, req.Username, role, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":       userID,
			"username": req.Username,
			"email":    req.Email,
			"role":     role,
		},
	})
}

type loginRequest struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.users.GetByHandle(r.Context(), req.EmailOrUsername)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if user.Role == models.RoleAstrologer {
			if err := h.astrologers.SetOnlineByUserID(r.Context(), tx, user.ID, true); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]string{
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
		})
		return h.audit.Log(r.Context(), tx, user.ID, "login", "user", user.ID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user.Role == models.RoleAstrologer {
		h.broadcastPresence(r, user.ID)
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Username, user.Role, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if identity.Role == models.RoleAstrologer {
		err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
			return h.astrologers.SetOnlineByUserID(r.Context(), tx, identity.ID, false)
		})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "logout failed")
			return
		}
		h.broadcastPresence(r, identity.ID)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":           identity.ID,
		"username":     identity.Username,
		"email":        identity.Email,
		"role":         identity.Role,
		"wallet":       money.FormatMinor(identity.WalletBalance),
		"wallet_minor": identity.WalletBalance,
		"created_at":   identity.CreatedAt,
	})
}

func (h *Handler) broadcastPresence(r *http.Request, userID string) {
	profile, err := h.astrologers.GetByUserID(r.Context(), userID)
	if err != nil {
		return
	}
	h.hub.BroadcastPresence(profileToPresence(profile))
}
