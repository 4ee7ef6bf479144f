package handlers

import (
	"context"

	"astrotalk/internal/models"
	"astrotalk/internal/services"
	"astrotalk/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error
	GetByHandle(ctx context.Context, handle string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetWalletBalance(ctx context.Context, userID string) (int64, error)
	CreditWallet(ctx context.Context, tx store.Tx, userID string, amount int64) (int64, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

type AstrologerStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, displayName string) error
	Upsert(ctx context.Context, tx store.Execer, input store.UpsertProfileInput) error
	GetByID(ctx context.Context, profileID string) (store.Profile, error)
	GetByUserID(ctx context.Context, userID string) (store.Profile, error)
	List(ctx context.Context, includeOffline bool, query string) ([]store.Profile, error)
	SetOnlineByUserID(ctx context.Context, tx store.Execer, userID string, online bool) error
}

type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]store.BookingDetail, error)
	ListByAstrologerUser(ctx context.Context, userID string) ([]store.BookingDetail, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.BookingDetail, error)
}

type WalletEntryStore interface {
	Insert(ctx context.Context, tx store.Execer, entry store.WalletEntryInput) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WalletEntry, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type BookingService interface {
	Create(ctx context.Context, req services.CreateBookingRequest) (services.CreateBookingResult, error)
	Confirm(ctx context.Context, req services.ConfirmBookingRequest) (store.BookingDetail, error)
}
