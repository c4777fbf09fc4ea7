package engine

import (
	"context"
	"fmt"
	"time"

	"gemini-exec-bridge/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubmitFunc submits one limit order to the exchange.
type SubmitFunc func(ctx context.Context, symbol string, amount, price decimal.Decimal) (OrderResult, error)

// Executor submits orders with bounded retry and a fixed inter-attempt
// delay. It is deliberately error-agnostic: a logical rejection and a
// network blip are retried identically. Error classification would
// belong here if a future revision wants to branch on it.
type Executor struct {
	retries int
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewExecutor(retries int, delay time.Duration, log *zap.Logger, m *metrics.Metrics) *Executor {
	if retries < 1 {
		retries = 1
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Executor{
		retries: retries,
		delay:   delay,
		sleep:   sleepCtx,
		log:     log,
		metrics: m,
	}
}

// Execute attempts submit up to the configured number of times. Every
// failure is followed by the fixed delay, including the last one, and
// exhaustion wraps both ErrExecutionFailed and the final underlying
// error.
func (e *Executor) Execute(ctx context.Context, submit SubmitFunc, symbol string, amount, price decimal.Decimal) (OrderResult, error) {
	var lastErr error
	for attempt := 1; attempt <= e.retries; attempt++ {
		result, err := submit(ctx, symbol, amount, price)
		if err == nil {
			e.metrics.OrdersPlaced.Inc()
			e.log.Info("order placed",
				zap.String("symbol", symbol),
				zap.String("amount", amount.String()),
				zap.String("price", price.String()),
				zap.Int("attempt", attempt),
			)
			return result, nil
		}
		lastErr = err
		e.metrics.OrderRetries.Inc()
		e.log.Error("order attempt failed",
			zap.Int("attempt", attempt),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		if err := e.sleep(ctx, e.delay); err != nil {
			return nil, err
		}
	}
	e.metrics.OrdersFailed.Inc()
	return nil, fmt.Errorf("%w: all %d attempts exhausted: %w", ErrExecutionFailed, e.retries, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
