package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records counters for the pricing and checkout paths. All methods
// are nil-safe so services can run without a registry in tests.
type POSMetrics struct {
	priceLookups  *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
	stockMoves    *prometheus.CounterVec
	writeFailures prometheus.Counter
	checkoutTime  prometheus.Histogram
}

// NewPOSMetrics registers the POS metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	priceLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_lookups_total",
		Help: "Price resolutions by kind (stock, external) and outcome (hit, miss).",
	}, []string{"kind", "outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Completed checkouts by payment status.",
	}, []string{"status"})
	stockMoves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Stock mutations by item kind and direction.",
	}, []string{"item", "direction"})
	writeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sheet_write_failures_total",
		Help: "Failed appends or cell updates against the workbook.",
	})
	checkoutTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Wall time of checkout persistence, dominated by sheet round trips.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(priceLookups, checkouts, stockMoves, writeFailures, checkoutTime)
	return &POSMetrics{
		priceLookups:  priceLookups,
		checkouts:     checkouts,
		stockMoves:    stockMoves,
		writeFailures: writeFailures,
		checkoutTime:  checkoutTime,
	}
}

// IncPriceLookup counts one price resolution.
func (m *POSMetrics) IncPriceLookup(kind string, hit bool) {
	if m == nil || m.priceLookups == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.priceLookups.WithLabelValues(normalizeLabel(kind), outcome).Inc()
}

// IncCheckout counts one completed checkout by payment status.
func (m *POSMetrics) IncCheckout(status string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncStockMove counts one stock mutation.
func (m *POSMetrics) IncStockMove(item, direction string) {
	if m == nil || m.stockMoves == nil {
		return
	}
	m.stockMoves.WithLabelValues(normalizeLabel(item), normalizeLabel(direction)).Inc()
}

// IncWriteFailure counts one failed workbook write.
func (m *POSMetrics) IncWriteFailure() {
	if m == nil || m.writeFailures == nil {
		return
	}
	m.writeFailures.Inc()
}

// ObserveCheckout records the duration of checkout persistence.
func (m *POSMetrics) ObserveCheckout(d time.Duration) {
	if m == nil || m.checkoutTime == nil {
		return
	}
	m.checkoutTime.Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
