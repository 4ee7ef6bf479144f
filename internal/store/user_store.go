package store

import (
	"context"
	"database/sql"

	"astrotalk/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash, role string) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, username, email, passwordHash, role)
	return err
}

// GetByHandle resolves a login handle against both username and email.
// The returned record includes the password hash; callers outside the
// login path must not expose it.
func (s *UserStore) GetByHandle(ctx context.Context, handle string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, role, wallet_balance, created_at
		FROM users
		WHERE username = $1 OR email = $1
	`, handle)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, '' AS password_hash, role, wallet_balance, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetWalletBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.GetContext(ctx, &balance, `
		SELECT COALESCE(wallet_balance, 0) FROM users WHERE id = $1
	`, userID)
	return balance, err
}

// CreditWallet increments the balance by amount (minor units) and returns
// the new balance. The increment happens in a single statement so
// concurrent top-ups cannot lose updates.
func (s *UserStore) CreditWallet(ctx context.Context, tx Tx, userID string, amount int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE users
		SET wallet_balance = wallet_balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING wallet_balance
	`, amount, userID)
	return balance, err
}

// DebitWallet subtracts amount only if the balance covers it; returns
// sql.ErrNoRows when funds are insufficient or the user is unknown.
func (s *UserStore) DebitWallet(ctx context.Context, tx Tx, userID string, amount int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE users
		SET wallet_balance = wallet_balance - $1, updated_at = NOW()
		WHERE id = $2 AND wallet_balance >= $1
		RETURNING wallet_balance
	`, amount, userID)
	if err == sql.ErrNoRows {
		return 0, sql.ErrNoRows
	}
	return balance, err
}

func (s *UserStore) ListAll(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, email, '' AS password_hash, role, wallet_balance, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
