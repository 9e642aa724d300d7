package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics counts the payment flow: intent creation, callback
// verification, webhook handling and order finalization.
type PaymentMetrics struct {
	intentsCreated   prometheus.Counter
	intentsFailed    prometheus.Counter
	verifyOK         prometheus.Counter
	verifyFailed     prometheus.Counter
	webhooksAccepted prometheus.Counter
	webhooksRejected prometheus.Counter
	ordersFinalized  prometheus.Counter

	finalizeDuration prometheus.Histogram
}

func NewPaymentMetrics() *PaymentMetrics {
	return newPaymentMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewPaymentMetricsForTesting registers into a private registry so parallel
// tests do not collide on the default one.
func NewPaymentMetricsForTesting() *PaymentMetrics {
	return newPaymentMetricsWithRegisterer(prometheus.NewRegistry())
}

func newPaymentMetricsWithRegisterer(registerer prometheus.Registerer) *PaymentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &PaymentMetrics{
		intentsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_payment_intents_created_total",
			Help: "Total number of payment intents created at the gateway",
		}),
		intentsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_payment_intents_failed_total",
			Help: "Total number of intent creations rejected or failed upstream",
		}),
		verifyOK: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_payment_verify_ok_total",
			Help: "Total number of callback signatures verified successfully",
		}),
		verifyFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_payment_verify_failed_total",
			Help: "Total number of callback verifications rejected",
		}),
		webhooksAccepted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_payment_webhooks_accepted_total",
			Help: "Total number of webhook deliveries accepted (including ignored event types)",
		}),
		webhooksRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_payment_webhooks_rejected_total",
			Help: "Total number of webhook deliveries rejected on signature or payload",
		}),
		ordersFinalized: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopease_orders_finalized_total",
			Help: "Total number of durable orders created from verified payments",
		}),
		finalizeDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shopease_order_finalize_duration_seconds",
			Help:    "Duration of order finalization in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *PaymentMetrics) IntentCreated() { m.intentsCreated.Inc() }
func (m *PaymentMetrics) IntentFailed()  { m.intentsFailed.Inc() }

func (m *PaymentMetrics) VerifyOK()     { m.verifyOK.Inc() }
func (m *PaymentMetrics) VerifyFailed() { m.verifyFailed.Inc() }

func (m *PaymentMetrics) WebhookAccepted() { m.webhooksAccepted.Inc() }
func (m *PaymentMetrics) WebhookRejected() { m.webhooksRejected.Inc() }

func (m *PaymentMetrics) OrderFinalized(took time.Duration) {
	m.ordersFinalized.Inc()
	m.finalizeDuration.Observe(took.Seconds())
}

// register* keep re-registration (repeated wiring in tests) from panicking.

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := registerer.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		panic(err)
	}
	return h
}
