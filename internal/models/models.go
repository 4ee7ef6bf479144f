package models

import "time"

const (
	RoleUser       = "user"
	RoleAstrologer = "astrologer"
	RoleAdmin      = "admin"
)

const (
	BookingCreated   = "created"
	BookingPaid      = "paid"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

const (
	KindCall = "call"
	KindChat = "chat"
)

type User struct {
	ID            string    `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Role          string    `db:"role" json:"role"`
	WalletBalance int64     `db:"wallet_balance" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type WalletEntry struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Amount      int64     `db:"amount" json:"amount_minor"`
	Kind        string    `db:"kind" json:"kind"`
	BookingID   *string   `db:"booking_id" json:"booking_id,omitempty"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
