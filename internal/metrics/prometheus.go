package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "gemini_exec_bridge"

type promCounter struct {
	counter prometheus.Counter
}

func (p promCounter) Inc() {
	p.counter.Inc()
}

type Prometheus struct {
	Metrics *Metrics

	registry *prometheus.Registry
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "orders_placed_total",
		Help:      "Total number of limit orders placed.",
	})
	ordersFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "orders_failed_total",
		Help:      "Total number of order placements that exhausted all retries.",
	})
	orderRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "order_retries_total",
		Help:      "Total number of failed order submission attempts.",
	})
	webhooksRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "webhooks_rejected_total",
		Help:      "Total number of webhook requests rejected before execution.",
	})
	sweepsRun := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "sweeps_total",
		Help:      "Total number of cancel-all sweeps issued.",
	})
	sweepFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "sweep_failures_total",
		Help:      "Total number of cancel-all sweeps that errored.",
	})
	reportsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "reports_sent_total",
		Help:      "Total number of bookkeeping reports submitted.",
	})
	reportFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "report_failures_total",
		Help:      "Total number of bookkeeping report failures.",
	})

	registry.MustRegister(ordersPlaced, ordersFailed, orderRetries, webhooksRejected,
		sweepsRun, sweepFailures, reportsSent, reportFailures)

	m := &Metrics{
		OrdersPlaced:     promCounter{ordersPlaced},
		OrdersFailed:     promCounter{ordersFailed},
		OrderRetries:     promCounter{orderRetries},
		WebhooksRejected: promCounter{webhooksRejected},
		SweepsRun:        promCounter{sweepsRun},
		SweepFailures:    promCounter{sweepFailures},
		ReportsSent:      promCounter{reportsSent},
		ReportFailures:   promCounter{reportFailures},
	}

	return &Prometheus{
		Metrics:  m,
		registry: registry,
	}
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
