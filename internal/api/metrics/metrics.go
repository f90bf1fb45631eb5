// Package metrics defines the custom Prometheus metrics of the trading API.
// Metrics are registered on the default registry at package init through
// promauto and exposed by the /metrics route.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

const namespace = "trading"

// ── Trade metrics ─────────────────────────────────────────────────────────────

// TradesTotal counts finished trades.
// Labels:
//   - kind: "buy" or "sell"
//   - outcome: "ok" or a short failure reason (see TradeOutcome)
var TradesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_total",
		Help:      "Total number of trades, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// TradeAttempts observes how many optimistic attempts a successful trade took.
var TradeAttempts = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "trade_attempts",
		Help:      "Read-validate-write attempts needed per successful trade.",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
	},
	[]string{"kind"},
)

// TradeDuration measures a trade from dequeue to result.
var TradeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "trade_duration_seconds",
		Help:      "Duration of trade execution inside the dispatcher.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// TradeQueueDepth tracks trades waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var TradeQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "trade_queue_depth",
		Help:      "Current number of trades pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// PartialTradesTotal counts buys that debited an account without a confirmed
// planet write. Every increment needs reconciliation.
var PartialTradesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "partial_trades_total",
		Help:      "Buys left partially applied after a store failure.",
	},
)

// IdempotencyTotal counts Idempotency-Key decisions.
// Label:
//   - result: "hit" (duplicate, rejected) or "miss" (first use)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Idempotency-Key checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Catalog / account metrics ─────────────────────────────────────────────────

// PlanetsSeededTotal counts planets written by catalog seeds.
// Label:
//   - result: "added" or "updated"
var PlanetsSeededTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "planets_seeded_total",
		Help:      "Planets written by catalog seeding.",
	},
	[]string{"result"},
)

// AccountsOpenedTotal counts trading accounts opened at registration.
var AccountsOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_opened_total",
		Help:      "Trading accounts opened at registration.",
	},
)

// TradeOutcome maps a trade result to the outcome label of TradesTotal.
func TradeOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInsufficientResources):
		return "insufficient_resources"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrUnknownResource):
		return "invalid"
	case errors.Is(err, domain.ErrTradeConflict):
		return "conflict"
	case errors.Is(err, domain.ErrPartialTrade):
		return "partial"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
