package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrotalk/internal/models"
	"astrotalk/internal/store"
)

func TestGetWallet(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getWalletBalanceFn: func(_ context.Context, userID string) (int64, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %q", userID)
			}
			return 123450, nil
		},
	}, stubAstrologerStore{}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	req := httptest.NewRequest(http.MethodGet, "/wallet/me", nil)
	rr := serveAs(t, models.User{ID: "user-1", Role: "user"}, http.HandlerFunc(handler.GetWallet), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["balance"] != "1234.50" || payload["balance_minor"] != float64(123450) {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestAddToWalletSuccess(t *testing.T) {
	var credited int64
	var entry store.WalletEntryInput
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		creditWalletFn: func(_ context.Context, _ store.Tx, _ string, amount int64) (int64, error) {
			credited = amount
			return 60000, nil
		},
	}, stubAstrologerStore{}, stubBookingStore{}, stubWalletEntryStore{
		insertFn: func(_ context.Context, _ store.Execer, input store.WalletEntryInput) error {
			entry = input
			return nil
		},
	}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	body := []byte(`{"amount":"500.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/wallet/add", bytes.NewReader(body))
	rr := serveAs(t, models.User{ID: "user-1", Role: "user"}, http.HandlerFunc(handler.AddToWallet), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if credited != 50000 {
		t.Fatalf("expected credit of 50000 minor units, got %d", credited)
	}
	if entry.Amount != 50000 || entry.Kind != "topup" {
		t.Fatalf("unexpected wallet entry: %#v", entry)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["balance"] != "600.00" {
		t.Fatalf("unexpected balance: %#v", payload["balance"])
	}
}

func TestAddToWalletRejectsNonPositive(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		creditWalletFn: func(context.Context, store.Tx, string, int64) (int64, error) {
			t.Fatal("wallet must not be touched on invalid input")
			return 0, nil
		},
	}, stubAstrologerStore{}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	cases := []string{`{"amount":"0"}`, `{"amount":"-10"}`, `{"amount":"abc"}`, `{"amount":""}`}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/wallet/add", bytes.NewReader([]byte(body)))
		rr := serveAs(t, models.User{ID: "user-1", Role: "user"}, http.HandlerFunc(handler.AddToWallet), req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestListWalletEntriesPagination(t *testing.T) {
	var gotLimit, gotOffset int
	bookingID := "booking-1"
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAstrologerStore{}, stubBookingStore{}, stubWalletEntryStore{
		listByUserFn: func(_ context.Context, _ string, limit, offset int) ([]models.WalletEntry, error) {
			gotLimit = limit
			gotOffset = offset
			return []models.WalletEntry{
				{ID: "entry-1", Amount: 50000, Kind: "topup", Description: "Wallet top-up"},
				{ID: "entry-2", Amount: -50000, Kind: "booking", BookingID: &bookingID, Description: "Booking settlement"},
			}, nil
		},
	}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	req := httptest.NewRequest(http.MethodGet, "/wallet/entries?page=3&limit=10", nil)
	rr := serveAs(t, models.User{ID: "user-1", Role: "user"}, http.HandlerFunc(handler.ListWalletEntries), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("unexpected pagination: limit=%d offset=%d", gotLimit, gotOffset)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(payload))
	}
	if payload[1]["amount"] != "-500.00" || payload[1]["booking_id"] != "booking-1" {
		t.Fatalf("unexpected entry rendering: %#v", payload[1])
	}
}
