// Package observability provides the machine's metrics and logging.
//
// This provides:
//   - Prometheus collectors on a private registry, fed by machine events
//   - A zap logger factory and an event sink that logs machine events
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tutu-network/brew/internal/domain"
)

const namespace = "brew"

// stockLabels maps ledger fields to metric label values.
var stockLabels = map[domain.Resource]string{
	domain.ResourceWater: "water",
	domain.ResourceMilk:  "milk",
	domain.ResourceBeans: "beans",
	domain.ResourceCups:  "cups",
	domain.ResourceMoney: "money",
}

// Metrics holds the machine collectors. Collectors are safe for concurrent
// use, so the HTTP endpoint may scrape while the interpreter records.
type Metrics struct {
	registry *prometheus.Registry

	Commands  *prometheus.CounterVec
	Sales     *prometheus.CounterVec
	Shortages *prometheus.CounterVec
	Rejected  prometheus.Counter
	Refills   prometheus.Counter
	Revenue   prometheus.Counter
	PaidOut   prometheus.Counter
	Stock     *prometheus.GaugeVec
}

// NewMetrics registers the machine collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// ─── Dialogue ───────────────────────────────────────────────────
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "commands_total",
			Help:      "Main-menu commands received, by keyword.",
		}, []string{"command"}),

		// ─── Sales ──────────────────────────────────────────────────────
		Sales: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "sales_total",
			Help:      "Beverages brewed and paid, by beverage.",
		}, []string{"beverage"}),
		Shortages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "shortages_total",
			Help:      "Purchases refused for lack of a resource.",
		}, []string{"resource"}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "rejected_total",
			Help:      "Selections outside the catalog.",
		}),
		Revenue: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "revenue_total",
			Help:      "Money collected from sales.",
		}),

		// ─── Maintenance ────────────────────────────────────────────────
		Refills: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "refills_total",
			Help:      "Completed fill dialogues.",
		}),
		PaidOut: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "payout_total",
			Help:      "Money handed out by take.",
		}),
		Stock: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "machine",
			Name:      "stock",
			Help:      "Current ledger level (water ml, milk ml, beans g, cups, money).",
		}, []string{"resource"}),
	}
}

// Registry exposes the underlying registry (for tests and custom handlers).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetStock publishes a full ledger snapshot.
func (m *Metrics) SetStock(r domain.Resources) {
	for _, res := range domain.AllResources() {
		m.Stock.WithLabelValues(stockLabels[res]).Set(float64(r.Level(res)))
	}
}

// Record implements domain.EventSink.
func (m *Metrics) Record(ev domain.Event) error {
	switch ev.Kind {
	case domain.EventCommand:
		m.Commands.WithLabelValues(ev.Command).Inc()
	case domain.EventSale:
		m.Sales.WithLabelValues(ev.Beverage).Inc()
		m.Revenue.Add(float64(ev.Amount))
	case domain.EventShortage:
		m.Shortages.WithLabelValues(stockLabels[ev.Resource]).Inc()
	case domain.EventRejected:
		m.Rejected.Inc()
	case domain.EventRefill:
		m.Refills.Inc()
	case domain.EventPayout:
		m.PaidOut.Add(float64(ev.Amount))
	}
	m.SetStock(ev.Ledger)
	return nil
}
