package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the checkout and notification flow.
type SettlementMetrics struct {
	CheckoutsInitiatedTotal prometheus.Counter
	CheckoutsRejectedTotal  *prometheus.CounterVec

	NotificationsTotal       *prometheus.CounterVec
	SignatureFailuresTotal   prometheus.Counter
	OrdersCompletedTotal     prometheus.Counter
	OrdersFailedTotal        prometheus.Counter
	CompletedAmountTotal     prometheus.Counter
	GatewayValidateDuration  prometheus.Histogram
	ProductStockGauge        *prometheus.GaugeVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		CheckoutsInitiatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "checkouts_initiated_total",
			Help: "Pending orders created by checkout",
		}),

		CheckoutsRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "checkouts_rejected_total",
			Help: "Checkout attempts rejected before an order was written",
		}, []string{"reason"}),

		NotificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Inbound payment notifications by handling result",
		}, []string{"result"}),

		SignatureFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "notification_signature_failures_total",
			Help: "Notifications rejected on signature mismatch",
		}),

		OrdersCompletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orders_completed_total",
			Help: "Orders settled to COMPLETED",
		}),

		OrdersFailedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "Orders settled to FAILED",
		}),

		CompletedAmountTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orders_completed_amount_cents_total",
			Help: "Total settled amount in cents",
		}),

		GatewayValidateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gateway_validate_duration_seconds",
			Help:    "Latency of the server-to-server validate call",
			Buckets: prometheus.DefBuckets,
		}),

		ProductStockGauge: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "product_stock",
			Help: "Current stock per product",
		}, []string{"product_id"}),
	}
}
