package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"astrotalk/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[0] != "user-1" || args[4] != "astrologer" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.Create(ctx, execer, "user-1", "name", "email@example.com", "hash", "astrologer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreGetByHandle(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE username = $1 OR email = $1") {
				t.Fatalf("query must match both handle columns: %s", query)
			}
			if len(args) != 1 || args[0] != "rama1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			row := dest.(*models.User)
			*row = models.User{ID: "user-1", Username: "rama1", PasswordHash: "hash"}
			return nil
		},
	})
	row, err := store.GetByHandle(ctx, "rama1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "user-1" || row.PasswordHash != "hash" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestUserStoreGetByIDStripsHash(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "'' AS password_hash") {
				t.Fatalf("GetByID must not select the password hash: %s", query)
			}
			row := dest.(*models.User)
			*row = models.User{ID: "user-1"}
			return nil
		},
	})
	row, err := store.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.PasswordHash != "" {
		t.Fatalf("hash leaked: %#v", row)
	}
}

func TestUserStoreCreditWallet(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "wallet_balance = wallet_balance + $1") {
				t.Fatalf("credit must be a single-statement increment: %s", query)
			}
			if args[0] != int64(5000) || args[1] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*(dest.(*int64)) = 15000
			return nil
		},
	}
	store := NewUserStore(stubDB{})
	balance, err := store.CreditWallet(ctx, tx, "user-1", 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 15000 {
		t.Fatalf("unexpected balance: %d", balance)
	}
}

func TestUserStoreDebitWalletInsufficient(t *testing.T) {
	ctx := context.Background()
	tx := stubTx{
		getFn: func(_ context.Context, _ any, query string, _ ...any) error {
			if !strings.Contains(query, "wallet_balance >= $1") {
				t.Fatalf("debit must guard against overdraft: %s", query)
			}
			return sql.ErrNoRows
		},
	}
	store := NewUserStore(stubDB{})
	if _, err := store.DebitWallet(ctx, tx, "user-1", 99999); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
