package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"shopease/internal/domain"
	"shopease/internal/gateway"
	"shopease/internal/metrics"

	"github.com/google/uuid"
)

// PaymentService is the gateway adapter: it mints remote payment intents,
// verifies checkout callbacks and processes async webhooks. Intents live in
// memory for the lifetime of the process, keyed by gateway order id.
type PaymentService struct {
	Gateway       gateway.Gateway // nil when no credentials are configured
	KeySecret     string
	WebhookSecret string
	Metrics       *metrics.PaymentMetrics

	mu      sync.RWMutex
	intents map[string]*domain.PaymentIntent
}

func NewPaymentService(gw gateway.Gateway, keySecret, webhookSecret string, m *metrics.PaymentMetrics) *PaymentService {
	if webhookSecret == "" {
		webhookSecret = keySecret
	}
	return &PaymentService{
		Gateway:       gw,
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		Metrics:       m,
		intents:       make(map[string]*domain.PaymentIntent),
	}
}

// CreateIntent opens a remote payment order for the amount and records the
// intent locally. It fails closed: with no gateway configured or on any
// upstream failure the caller gets gateway.ErrUnavailable, never a
// fabricated local id.
func (s *PaymentService) CreateIntent(ctx context.Context, amount int64, items []domain.CartItem) (domain.PaymentIntent, error) {
	if amount <= 0 {
		return domain.PaymentIntent{}, ErrInvalidAmount
	}
	if s.Gateway == nil || s.KeySecret == "" {
		s.Metrics.IntentFailed()
		return domain.PaymentIntent{}, gateway.ErrUnavailable
	}

	remote, err := s.Gateway.CreateOrder(ctx, amount, "INR", "rcpt_"+uuid.NewString())
	if err != nil {
		s.Metrics.IntentFailed()
		return domain.PaymentIntent{}, err
	}

	intent := &domain.PaymentIntent{
		ID:        remote.ID,
		Amount:    remote.Amount,
		Items:     items,
		Status:    domain.IntentCreated,
		CreatedAt: time.Now().UnixMilli(),
	}
	s.mu.Lock()
	s.intents[intent.ID] = intent
	s.mu.Unlock()

	s.Metrics.IntentCreated()
	return *intent, nil
}

// Intent returns a copy of the locally recorded intent, if any.
func (s *PaymentService) Intent(id string) (domain.PaymentIntent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.intents[id]
	if !ok {
		return domain.PaymentIntent{}, false
	}
	return *it, true
}

// Forget drops an intent once its order is finalized.
func (s *PaymentService) Forget(id string) {
	s.mu.Lock()
	delete(s.intents, id)
	s.mu.Unlock()
}

// VerifyCallback recomputes the checkout signature over
// "<intentID>|<paymentID>" and compares it in constant time. Local and
// synchronous; no gateway round trip. On success a locally known intent is
// marked completed.
func (s *PaymentService) VerifyCallback(intentID, paymentID, signature string) error {
	if intentID == "" || paymentID == "" || signature == "" {
		s.Metrics.VerifyFailed()
		return ErrMissingPaymentFields
	}

	expected := signHex(s.KeySecret, []byte(intentID+"|"+paymentID))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.Metrics.VerifyFailed()
		return ErrSignatureMismatch
	}

	s.mu.Lock()
	if it, ok := s.intents[intentID]; ok {
		it.Status = domain.IntentCompleted
		it.PaymentID = paymentID
	}
	s.mu.Unlock()

	s.Metrics.VerifyOK()
	return nil
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity  json.RawMessage `json:"entity"`
			ID      string          `json:"id"`
			OrderID string          `json:"order_id"`
		} `json:"payment"`
	} `json:"payload"`
}

type webhookPaymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
}

// HandleWebhook verifies the HMAC over the exact raw request bytes — never
// over a re-serialized structure, since any re-encoding changes the digest —
// then applies the event. payment.captured completes the referenced intent
// and attaches the raw payment payload; unknown events are acknowledged
// no-ops.
func (s *PaymentService) HandleWebhook(rawBody []byte, signature string) error {
	expected := signHex(s.WebhookSecret, rawBody)
	if signature == "" || !hmac.Equal([]byte(expected), []byte(signature)) {
		s.Metrics.WebhookRejected()
		return ErrSignatureMismatch
	}

	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		s.Metrics.WebhookRejected()
		return ErrMalformedPayload
	}

	if env.Event == "payment.captured" {
		entity := webhookPaymentEntity{ID: env.Payload.Payment.ID, OrderID: env.Payload.Payment.OrderID}
		raw := env.Payload.Payment.Entity
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &entity); err != nil {
				s.Metrics.WebhookRejected()
				return ErrMalformedPayload
			}
		}
		if entity.OrderID != "" {
			s.mu.Lock()
			if it, ok := s.intents[entity.OrderID]; ok {
				it.Status = domain.IntentCompleted
				it.PaymentID = entity.ID
				it.Payment = raw
			}
			s.mu.Unlock()
		}
	}

	s.Metrics.WebhookAccepted()
	return nil
}

func signHex(secret string, msg []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}
