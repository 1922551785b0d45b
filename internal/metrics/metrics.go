// Package metrics collects Prometheus metrics for logins and food item
// freshness bookkeeping.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is used by the services to record domain events.
type MetricsCollector interface {
	RecordLogin(result string)
	RecordItemCreated(status string)
	RecordStatusTransition(from, to string)
	RecordStatusSyncFailure()
}

const (
	LoginSuccess      = "success"
	LoginInvalidInput = "invalid_input"
	LoginUnknownUser  = "unknown_user"
	LoginBadPassword  = "bad_password"
	LoginError        = "error"
)

type Collector struct {
	logins            *prometheus.CounterVec
	itemsCreated      *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	statusSyncFail    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "food_inventory_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		itemsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "food_inventory_items_created_total",
			Help: "Food items created, by initial status.",
		}, []string{"status"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "food_inventory_status_transitions_total",
			Help: "Persisted food item status changes.",
		}, []string{"from", "to"}),
		statusSyncFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "food_inventory_status_sync_failures_total",
			Help: "Food item status writes that failed during reconciliation.",
		}),
	}

	reg.MustRegister(
		c.logins,
		c.itemsCreated,
		c.statusTransitions,
		c.statusSyncFail,
	)

	return c
}

func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordItemCreated(status string) {
	c.itemsCreated.WithLabelValues(status).Inc()
}

func (c *Collector) RecordStatusTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	c.statusTransitions.WithLabelValues(from, to).Inc()
}

func (c *Collector) RecordStatusSyncFailure() {
	c.statusSyncFail.Inc()
}

// Handler exposes gatherer for Prometheus scraping on a Fiber route.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
