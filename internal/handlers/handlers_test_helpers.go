package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"astrotalk/internal/assistant"
	"astrotalk/internal/auth"
	"astrotalk/internal/config"
	"astrotalk/internal/middleware"
	"astrotalk/internal/models"
	"astrotalk/internal/services"
	"astrotalk/internal/store"
	"astrotalk/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn           func(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error
	getByHandleFn      func(ctx context.Context, handle string) (models.User, error)
	getByIDFn          func(ctx context.Context, userID string) (models.User, error)
	getWalletBalanceFn func(ctx context.Context, userID string) (int64, error)
	creditWalletFn     func(ctx context.Context, tx store.Tx, userID string, amount int64) (int64, error)
	listAllFn          func(ctx context.Context) ([]models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash, role)
}

func (s stubUserStore) GetByHandle(ctx context.Context, handle string) (models.User, error) {
	if s.getByHandleFn == nil {
		return models.User{}, nil
	}
	return s.getByHandleFn(ctx, handle)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetWalletBalance(ctx context.Context, userID string) (int64, error) {
	if s.getWalletBalanceFn == nil {
		return 0, nil
	}
	return s.getWalletBalanceFn(ctx, userID)
}

func (s stubUserStore) CreditWallet(ctx context.Context, tx store.Tx, userID string, amount int64) (int64, error) {
	if s.creditWalletFn == nil {
		return amount, nil
	}
	return s.creditWalletFn(ctx, tx, userID, amount)
}

func (s stubUserStore) ListAll(ctx context.Context) ([]models.User, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

type stubAstrologerStore struct {
	createFn            func(ctx context.Context, tx store.Execer, id, userID, displayName string) error
	upsertFn            func(ctx context.Context, tx store.Execer, input store.UpsertProfileInput) error
	getByIDFn           func(ctx context.Context, profileID string) (store.Profile, error)
	getByUserIDFn       func(ctx context.Context, userID string) (store.Profile, error)
	listFn              func(ctx context.Context, includeOffline bool, query string) ([]store.Profile, error)
	setOnlineByUserIDFn func(ctx context.Context, tx store.Execer, userID string, online bool) error
}

func (s stubAstrologerStore) Create(ctx context.Context, tx store.Execer, id, userID, displayName string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, displayName)
}

func (s stubAstrologerStore) Upsert(ctx context.Context, tx store.Execer, input store.UpsertProfileInput) error {
	if s.upsertFn == nil {
		return nil
	}
	return s.upsertFn(ctx, tx, input)
}

func (s stubAstrologerStore) GetByID(ctx context.Context, profileID string) (store.Profile, error) {
	if s.getByIDFn == nil {
		return store.Profile{}, nil
	}
	return s.getByIDFn(ctx, profileID)
}

func (s stubAstrologerStore) GetByUserID(ctx context.Context, userID string) (store.Profile, error) {
	if s.getByUserIDFn == nil {
		return store.Profile{}, nil
	}
	return s.getByUserIDFn(ctx, userID)
}

func (s stubAstrologerStore) List(ctx context.Context, includeOffline bool, query string) ([]store.Profile, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, includeOffline, query)
}

func (s stubAstrologerStore) SetOnlineByUserID(ctx context.Context, tx store.Execer, userID string, online bool) error {
	if s.setOnlineByUserIDFn == nil {
		return nil
	}
	return s.setOnlineByUserIDFn(ctx, tx, userID, online)
}

type stubBookingStore struct {
	listByUserFn           func(ctx context.Context, userID string) ([]store.BookingDetail, error)
	listByAstrologerUserFn func(ctx context.Context, userID string) ([]store.BookingDetail, error)
	listAllFn              func(ctx context.Context, limit, offset int) ([]store.BookingDetail, error)
}

func (s stubBookingStore) ListByUser(ctx context.Context, userID string) ([]store.BookingDetail, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubBookingStore) ListByAstrologerUser(ctx context.Context, userID string) ([]store.BookingDetail, error) {
	if s.listByAstrologerUserFn == nil {
		return nil, nil
	}
	return s.listByAstrologerUserFn(ctx, userID)
}

func (s stubBookingStore) ListAll(ctx context.Context, limit, offset int) ([]store.BookingDetail, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubWalletEntryStore struct {
	insertFn     func(ctx context.Context, tx store.Execer, entry store.WalletEntryInput) error
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]models.WalletEntry, error)
}

func (s stubWalletEntryStore) Insert(ctx context.Context, tx store.Execer, entry store.WalletEntryInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, entry)
}

func (s stubWalletEntryStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WalletEntry, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubBookingService struct {
	createFn  func(ctx context.Context, req services.CreateBookingRequest) (services.CreateBookingResult, error)
	confirmFn func(ctx context.Context, req services.ConfirmBookingRequest) (store.BookingDetail, error)
}

func (s stubBookingService) Create(ctx context.Context, req services.CreateBookingRequest) (services.CreateBookingResult, error) {
	if s.createFn == nil {
		return services.CreateBookingResult{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubBookingService) Confirm(ctx context.Context, req services.ConfirmBookingRequest) (store.BookingDetail, error) {
	if s.confirmFn == nil {
		return store.BookingDetail{}, nil
	}
	return s.confirmFn(ctx, req)
}

type stubChatter struct {
	chatFn func(ctx context.Context, message string) (string, error)
}

func (s stubChatter) Chat(ctx context.Context, message string) (string, error) {
	if s.chatFn == nil {
		return "", nil
	}
	return s.chatFn(ctx, message)
}

func newTestHandler(txRunner fakeTxRunner, users UserStore, astrologers AstrologerStore, bookings BookingStore, entries WalletEntryStore, audit AuditStore, service BookingService, chatter assistant.Chatter) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: []string{"*"},
	}
	return New(txRunner, cfg, users, astrologers, bookings, entries, audit, service, chatter, websocket.NewHub())
}

// serveAs runs the request through the auth middleware with a token minted
// for the given identity, so handlers observe the same context shape as in
// production.
func serveAs(t *testing.T, identity models.User, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", identity.ID, identity.Username, identity.Role, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resolver := stubUserStore{
		getByIDFn: func(context.Context, string) (models.User, error) {
			return identity, nil
		},
	}
	rr := httptest.NewRecorder()
	middleware.Auth("secret", resolver)(handler).ServeHTTP(rr, req)
	return rr
}
