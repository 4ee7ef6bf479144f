package store

import (
	"context"
	"time"
)

type BookingStore struct {
	db DB
}

func NewBookingStore(db DB) *BookingStore {
	return &BookingStore{db: db}
}

type CreateBookingInput struct {
	ID           string
	UserID       string
	AstrologerID string
	Kind         string
	Minutes      int
	Amount       int64
	Currency     string
}

// BookingDetail is a booking joined with the counterparty's display fields:
// the astrologer profile for a consumer's view, the requesting user for an
// astrologer's view.
type BookingDetail struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	AstrologerID      string    `db:"astrologer_id"`
	Kind              string    `db:"kind"`
	Minutes           int       `db:"minutes"`
	Amount            int64     `db:"amount"`
	Currency          string    `db:"currency"`
	Status            string    `db:"status"`
	RazorpayOrderID   *string   `db:"razorpay_order_id"`
	RazorpayPaymentID *string   `db:"razorpay_payment_id"`
	CreatedAt         time.Time `db:"created_at"`
	DisplayName       *string   `db:"display_name"`
	PerMinuteRate     *string   `db:"per_minute_rate"`
	Username          *string   `db:"username"`
	Email             *string   `db:"email"`
}

func (s *BookingStore) Create(ctx context.Context, tx Execer, input CreateBookingInput) error {
	query := `
		INSERT INTO bookings (id, user_id, astrologer_id, kind, minutes, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'created')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.AstrologerID, input.Kind,
		input.Minutes, input.Amount, input.Currency)
	return err
}

func (s *BookingStore) SetOrderID(ctx context.Context, tx Execer, bookingID, orderID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bookings SET razorpay_order_id = $1 WHERE id = $2
	`, orderID, bookingID)
	return err
}

func (s *BookingStore) GetByID(ctx context.Context, bookingID string) (BookingDetail, error) {
	var row BookingDetail
	err := s.db.GetContext(ctx, &row, `
		SELECT b.id, b.user_id, b.astrologer_id, b.kind, b.minutes, b.amount,
		       b.currency, b.status, b.razorpay_order_id, b.razorpay_payment_id,
		       b.created_at,
		       p.display_name, p.per_minute_rate::text AS per_minute_rate,
		       NULL AS username, NULL AS email
		FROM bookings b
		JOIN astrologer_profiles p ON p.id = b.astrologer_id
		WHERE b.id = $1
	`, bookingID)
	if err != nil {
		return BookingDetail{}, err
	}
	return row, nil
}

// MarkPaid records the gateway callback and moves the booking from
// created to paid. Returns rows affected; 0 means the booking was not in
// the created state.
func (s *BookingStore) MarkPaid(ctx context.Context, tx Execer, bookingID, paymentID, signature string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'paid', razorpay_payment_id = $1, razorpay_signature = $2
		WHERE id = $3 AND status = 'created'
	`, paymentID, signature, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BookingStore) ListByUser(ctx context.Context, userID string) ([]BookingDetail, error) {
	var rows []BookingDetail
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.id, b.user_id, b.astrologer_id, b.kind, b.minutes, b.amount,
		       b.currency, b.status, b.razorpay_order_id, b.razorpay_payment_id,
		       b.created_at,
		       p.display_name, p.per_minute_rate::text AS per_minute_rate,
		       NULL AS username, NULL AS email
		FROM bookings b
		JOIN astrologer_profiles p ON p.id = b.astrologer_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByAstrologerUser returns bookings against any profile owned by the
// given identity, with the requesting user's public fields embedded.
func (s *BookingStore) ListByAstrologerUser(ctx context.Context, userID string) ([]BookingDetail, error) {
	var rows []BookingDetail
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.id, b.user_id, b.astrologer_id, b.kind, b.minutes, b.amount,
		       b.currency, b.status, b.razorpay_order_id, b.razorpay_payment_id,
		       b.created_at,
		       NULL AS display_name, NULL AS per_minute_rate,
		       u.username, u.email
		FROM bookings b
		JOIN astrologer_profiles p ON p.id = b.astrologer_id
		JOIN users u ON u.id = b.user_id
		WHERE p.user_id = $1
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BookingStore) ListAll(ctx context.Context, limit, offset int) ([]BookingDetail, error) {
	var rows []BookingDetail
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.id, b.user_id, b.astrologer_id, b.kind, b.minutes, b.amount,
		       b.currency, b.status, b.razorpay_order_id, b.razorpay_payment_id,
		       b.created_at,
		       p.display_name, p.per_minute_rate::text AS per_minute_rate,
		       u.username, u.email
		FROM bookings b
		JOIN astrologer_profiles p ON p.id = b.astrologer_id
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
