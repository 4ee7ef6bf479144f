package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Order is the gateway (or dummy) order handed back to the client so it
// can drive checkout. Amount is in minor units, as Razorpay expects.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Receipt  string `json:"receipt,omitempty"`
	TestMode bool   `json:"test_mode,omitempty"`
}

type CreateOrderInput struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error)
}

// Client talks to the Razorpay orders API with key-pair basic auth.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL exists for tests pointed at a local server.
func NewClientWithBaseURL(keyID, keySecret, baseURL string) *Client {
	client := NewClient(keyID, keySecret)
	client.baseURL = baseURL
	return client
}

func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   input.AmountMinor,
		"currency": input.Currency,
		"receipt":  input.Receipt,
		"notes":    input.Notes,
	})
	if err != nil {
		return Order{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return Order{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return Order{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Order{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Order{}, fmt.Errorf("razorpay order failed: %s: %s", resp.Status, body)
	}
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return Order{}, err
	}
	order.Receipt = input.Receipt
	return order, nil
}

// DummyOrder synthesizes the no-gateway order used when payment keys are
// absent or the astrologer's rate is zero. Nothing about the booking is
// mutated afterward.
func DummyOrder(amountMinor int64, currency string) Order {
	return Order{
		ID:       "dummy_order_" + uuid.NewString(),
		Amount:   amountMinor,
		Currency: currency,
		Status:   "created",
		TestMode: true,
	}
}
