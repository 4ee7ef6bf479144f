package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrotalk/internal/models"
	"astrotalk/internal/store"

	"github.com/go-chi/chi/v5"
)

func TestListAstrologersDefaultsToOnline(t *testing.T) {
	var gotIncludeOffline bool
	var gotQuery string
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAstrologerStore{
		listFn: func(_ context.Context, includeOffline bool, query string) ([]store.Profile, error) {
			gotIncludeOffline = includeOffline
			gotQuery = query
			return []store.Profile{{ID: "profile-1", DisplayName: "Pandit Rama", PerMinuteRate: "50.00", IsOnline: true}}, nil
		},
	}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	req := httptest.NewRequest(http.MethodGet, "/astrologers?q=tarot", nil)
	rr := httptest.NewRecorder()
	handler.ListAstrologers(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotIncludeOffline {
		t.Fatal("without ?all the listing must stay online-only")
	}
	if gotQuery != "tarot" {
		t.Fatalf("search term not forwarded: %q", gotQuery)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["display_name"] != "Pandit Rama" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestListAstrologersAllFlag(t *testing.T) {
	var gotIncludeOffline bool
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAstrologerStore{
		listFn: func(_ context.Context, includeOffline bool, _ string) ([]store.Profile, error) {
			gotIncludeOffline = includeOffline
			return nil, nil
		},
	}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	req := httptest.NewRequest(http.MethodGet, "/astrologers?all=1", nil)
	rr := httptest.NewRecorder()
	handler.ListAstrologers(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !gotIncludeOffline {
		t.Fatal("?all must include offline astrologers")
	}
}

func TestGetAstrologerNotFound(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAstrologerStore{
		getByIDFn: func(context.Context, string) (store.Profile, error) {
			return store.Profile{}, sql.ErrNoRows
		},
	}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	router := chi.NewRouter()
	router.Get("/astrologers/{id}", handler.GetAstrologer)
	req := httptest.NewRequest(http.MethodGet, "/astrologers/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateOwnProfileDefaults(t *testing.T) {
	var upserted store.UpsertProfileInput
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAstrologerStore{
		upsertFn: func(_ context.Context, _ store.Execer, input store.UpsertProfileInput) error {
			upserted = input
			return nil
		},
		getByUserIDFn: func(_ context.Context, userID string) (store.Profile, error) {
			return store.Profile{ID: "profile-1", UserID: userID, DisplayName: upserted.DisplayName, PerMinuteRate: upserted.PerMinuteRate, IsOnline: upserted.IsOnline}, nil
		},
	}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})

	req := httptest.NewRequest(http.MethodPut, "/astrologers/me", bytes.NewReader([]byte(`{}`)))
	rr := serveAs(t, models.User{ID: "astro-1", Username: "vedika", Role: "astrologer"}, http.HandlerFunc(handler.UpdateOwnProfile), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if upserted.DisplayName != "vedika" {
		t.Fatalf("display name must default to username, got %q", upserted.DisplayName)
	}
	if upserted.PerMinuteRate != "0.00" {
		t.Fatalf("rate must default to zero, got %q", upserted.PerMinuteRate)
	}
	if !upserted.IsOnline {
		t.Fatal("online must default to true")
	}
	if upserted.Languages == nil || upserted.Expertise == nil {
		t.Fatal("tag slices must never be nil")
	}
}

func TestUpdateOwnProfileRejectsBadRate(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubAstrologerStore{}, stubBookingStore{}, stubWalletEntryStore{}, stubAuditStore{}, stubBookingService{}, stubChatter{})
	cases := []string{"-5", "abc", "1.234"}
	for _, rate := range cases {
		body, _ := json.Marshal(map[string]any{"per_minute_rate": rate})
		req := httptest.NewRequest(http.MethodPut, "/astrologers/me", bytes.NewReader(body))
		rr := serveAs(t, models.User{ID: "astro-1", Username: "vedika", Role: "astrologer"}, http.HandlerFunc(handler.UpdateOwnProfile), req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("rate %q: expected 400, got %d", rate, rr.Code)
		}
	}
}
