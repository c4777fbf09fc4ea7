package metrics

type Counter interface {
	Inc()
}

type Metrics struct {
	OrdersPlaced     Counter
	OrdersFailed     Counter
	OrderRetries     Counter
	WebhooksRejected Counter
	SweepsRun        Counter
	SweepFailures    Counter
	ReportsSent      Counter
	ReportFailures   Counter
}

type noopCounter struct{}

func (noopCounter) Inc() {}

func NewNoop() *Metrics {
	n := noopCounter{}
	return &Metrics{
		OrdersPlaced:     n,
		OrdersFailed:     n,
		OrderRetries:     n,
		WebhooksRejected: n,
		SweepsRun:        n,
		SweepFailures:    n,
		ReportsSent:      n,
		ReportFailures:   n,
	}
}
