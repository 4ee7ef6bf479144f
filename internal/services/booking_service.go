package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"astrotalk/internal/db"
	"astrotalk/internal/models"
	"astrotalk/internal/money"
	"astrotalk/internal/payments"
	"astrotalk/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAstrologerNotFound = errors.New("astrologer not found")
	ErrInvalidBooking     = errors.New("invalid booking request")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingNotCreated  = errors.New("booking is not awaiting payment")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

const bookingCurrency = "INR"

type AstrologerStore interface {
	GetByID(ctx context.Context, profileID string) (store.Profile, error)
}

type BookingStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CreateBookingInput) error
	SetOrderID(ctx context.Context, tx store.Execer, bookingID, orderID string) error
	GetByID(ctx context.Context, bookingID string) (store.BookingDetail, error)
	MarkPaid(ctx context.Context, tx store.Execer, bookingID, paymentID, signature string) (int64, error)
}

type WalletStore interface {
	DebitWallet(ctx context.Context, tx store.Tx, userID string, amount int64) (int64, error)
}

type WalletEntryStore interface {
	Insert(ctx context.Context, tx store.Execer, entry store.WalletEntryInput) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BookingService struct {
	txRunner    db.TxRunner
	astrologers AstrologerStore
	bookings    BookingStore
	wallets     WalletStore
	entries     WalletEntryStore
	audit       AuditStore
	orders      payments.OrderCreator
}

// NewBookingService wires the booking lifecycle. orders is nil in dummy
// payment mode; the service then synthesizes test orders itself.
func NewBookingService(txRunner db.TxRunner, astrologers AstrologerStore, bookings BookingStore, wallets WalletStore, entries WalletEntryStore, audit AuditStore, orders payments.OrderCreator) *BookingService {
	return &BookingService{
		txRunner:    txRunner,
		astrologers: astrologers,
		bookings:    bookings,
		wallets:     wallets,
		entries:     entries,
		audit:       audit,
		orders:      orders,
	}
}

type CreateBookingRequest struct {
	UserID       string
	AstrologerID string
	Kind         string
	Minutes      int
}

type CreateBookingResult struct {
	Booking store.BookingDetail
	Order   payments.Order
}

// Create snapshots the astrologer's rate into a priced booking and
// produces a payment order. A zero rate never reaches the gateway.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (CreateBookingResult, error) {
	if req.AstrologerID == "" || req.Minutes < 1 {
		return CreateBookingResult{}, ErrInvalidBooking
	}
	if req.Kind != models.KindCall && req.Kind != models.KindChat {
		return CreateBookingResult{}, ErrInvalidBooking
	}
	astrologer, err := s.astrologers.GetByID(ctx, req.AstrologerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return CreateBookingResult{}, ErrAstrologerNotFound
		}
		return CreateBookingResult{}, err
	}
	rate, err := money.ParseRate(astrologer.PerMinuteRate)
	if err != nil {
		return CreateBookingResult{}, err
	}
	amount := money.RateAmountMinor(rate, req.Minutes)

	bookingID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookings.Create(ctx, tx, store.CreateBookingInput{
			ID:           bookingID,
			UserID:       req.UserID,
			AstrologerID: astrologer.ID,
			Kind:         req.Kind,
			Minutes:      req.Minutes,
			Amount:       amount,
			Currency:     bookingCurrency,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"astrologer_id": astrologer.ID,
			"kind":          req.Kind,
			"minutes":       req.Minutes,
			"amount_minor":  amount,
		})
		return s.audit.Log(ctx, tx, req.UserID, "booking_create", "booking", bookingID, string(data))
	})
	if err != nil {
		return CreateBookingResult{}, err
	}

	var order payments.Order
	if s.orders != nil && amount > 0 {
		order, err = s.orders.CreateOrder(ctx, payments.CreateOrderInput{
			AmountMinor: amount,
			Currency:    bookingCurrency,
			Receipt:     "booking_" + bookingID,
			Notes: map[string]string{
				"booking_id": bookingID,
				"kind":       req.Kind,
			},
		})
		if err != nil {
			return CreateBookingResult{}, err
		}
		if err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
			return s.bookings.SetOrderID(ctx, tx, bookingID, order.ID)
		}); err != nil {
			return CreateBookingResult{}, err
		}
	} else {
		order = payments.DummyOrder(amount, bookingCurrency)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return CreateBookingResult{}, err
	}
	return CreateBookingResult{Booking: booking, Order: order}, nil
}

type ConfirmBookingRequest struct {
	UserID    string
	BookingID string
	PaymentID string
	Signature string
}

// Confirm records the gateway callback: the booking moves created → paid
// and the wallet is debited by the snapshot amount, all in one
// transaction so the debit and the wallet entry cannot diverge.
func (s *BookingService) Confirm(ctx context.Context, req ConfirmBookingRequest) (store.BookingDetail, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return store.BookingDetail{}, ErrBookingNotFound
		}
		return store.BookingDetail{}, err
	}
	if booking.UserID != req.UserID {
		return store.BookingDetail{}, ErrBookingNotFound
	}
	if booking.Status != models.BookingCreated {
		return store.BookingDetail{}, ErrBookingNotCreated
	}

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.bookings.MarkPaid(ctx, tx, req.BookingID, req.PaymentID, req.Signature)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBookingNotCreated
		}
		if booking.Amount > 0 {
			if _, err := s.wallets.DebitWallet(ctx, tx, req.UserID, booking.Amount); err != nil {
				if err == sql.ErrNoRows {
					return ErrInsufficientFunds
				}
				return err
			}
			if err := s.entries.Insert(ctx, tx, store.WalletEntryInput{
				ID:          uuid.NewString(),
				UserID:      req.UserID,
				Amount:      -booking.Amount,
				Kind:        "booking",
				BookingID:   &req.BookingID,
				Description: "Booking settlement",
			}); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]string{
			"payment_id": req.PaymentID,
		})
		return s.audit.Log(ctx, tx, req.UserID, "booking_confirm", "booking", req.BookingID, string(data))
	})
	if err != nil {
		return store.BookingDetail{}, err
	}
	return s.bookings.GetByID(ctx, req.BookingID)
}
