package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable marks any failure to reach the remote gateway or a
// non-success answer from it. Callers must fail closed: no local order id
// is ever fabricated in place of a remote one.
var ErrUnavailable = errors.New("payment gateway unavailable")

// RemoteOrder is the gateway's view of a payment to be collected.
type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
}

// Gateway mints remote payment orders. The production implementation talks
// to the Razorpay-compatible REST API; tests inject a double explicitly.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (RemoteOrder, error)
}

type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderReq struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (RemoteOrder, error) {
	body, err := json.Marshal(createOrderReq{Amount: amount, Currency: currency, Receipt: receipt, PaymentCapture: 1})
	if err != nil {
		return RemoteOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return RemoteOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return RemoteOrder{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little for the diagnostic without trusting the size.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return RemoteOrder{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, snippet)
	}

	var out RemoteOrder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return RemoteOrder{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if out.ID == "" {
		return RemoteOrder{}, fmt.Errorf("%w: empty order id", ErrUnavailable)
	}
	return out, nil
}
