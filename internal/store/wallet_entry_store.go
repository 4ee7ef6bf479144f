package store

import (
	"context"

	"astrotalk/internal/models"
)

type WalletEntryStore struct {
	db DB
}

func NewWalletEntryStore(db DB) *WalletEntryStore {
	return &WalletEntryStore{db: db}
}

type WalletEntryInput struct {
	ID          string
	UserID      string
	Amount      int64
	Kind        string
	BookingID   *string
	Description string
}

func (s *WalletEntryStore) Insert(ctx context.Context, tx Execer, entry WalletEntryInput) error {
	query := `
		INSERT INTO wallet_entries (id, user_id, amount, kind, booking_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Amount, entry.Kind, entry.BookingID, entry.Description)
	return err
}

func (s *WalletEntryStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WalletEntry, error) {
	var rows []models.WalletEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, kind, booking_id, description, created_at
		FROM wallet_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
