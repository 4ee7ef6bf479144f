package handlers

import (
	"net/http"

	"astrotalk/internal/assistant"
	"astrotalk/internal/config"
	"astrotalk/internal/db"
	"astrotalk/internal/middleware"
	"astrotalk/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner    db.TxRunner
	cfg         config.Config
	users       UserStore
	astrologers AstrologerStore
	bookings    BookingStore
	entries     WalletEntryStore
	audit       AuditStore
	service     BookingService
	chatter     assistant.Chatter
	hub         *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, astrologers AstrologerStore, bookings BookingStore, entries WalletEntryStore, audit AuditStore, service BookingService, chatter assistant.Chatter, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:    txRunner,
		cfg:         cfg,
		users:       users,
		astrologers: astrologers,
		bookings:    bookings,
		entries:     entries,
		audit:       audit,
		service:     service,
		chatter:     chatter,
		hub:         hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret, h.users)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.With(authed).Post("/logout", h.Logout)
		r.With(authed).Get("/me", h.Me)
	})

	router.Route("/astrologers", func(r chi.Router) {
		r.Get("/", h.ListAstrologers)
		r.With(authed, middleware.RequireRole("astrologer")).Put("/me", h.UpdateOwnProfile)
		r.Get("/{id}", h.GetAstrologer)
	})

	router.Route("/bookings", func(r chi.Router) {
		r.With(authed, middleware.RequireRole("user")).Post("/", h.CreateBooking)
		r.With(authed).Get("/me", h.ListOwnBookings)
		r.With(authed, middleware.RequireRole("user")).Post("/{id}/confirm", h.ConfirmBooking)
	})

	router.Route("/wallet", func(r chi.Router) {
		r.Use(authed)
		r.Get("/me", h.GetWallet)
		r.Post("/add", h.AddToWallet)
		r.Get("/entries", h.ListWalletEntries)
	})
	// Path kept for clients of the older payments surface.
	router.With(authed).Post("/payments/add-to-wallet", h.AddToWallet)

	router.With(authed).Post("/ai/chat", h.Chat)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole("admin"))
		r.Get("/users", h.AdminListUsers)
		r.Get("/bookings", h.AdminListBookings)
		r.Get("/audit", h.AdminListAudit)
	})

	router.Get("/ws/presence", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWS(w, r, h.hub)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "astrotalk-api"})
	})
	return router
}
