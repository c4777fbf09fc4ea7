package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gemini-exec-bridge/internal/config"
	"gemini-exec-bridge/internal/metrics"
	"gemini-exec-bridge/internal/report"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Scheduler defers a task by a fixed delay on a detached execution
// context.
type Scheduler interface {
	Schedule(name string, delay time.Duration, fn func(ctx context.Context) error)
}

// Reporter submits bookkeeping records for executed trades.
type Reporter interface {
	Submit(ctx context.Context, rec report.Record) error
}

// Engine drives one webhook intent from validation through sizing,
// execution and post-trade scheduling. It holds no mutable state
// between requests; everything it operates on is fetched per call.
type Engine struct {
	ex       Exchange
	executor *Executor
	sched    Scheduler
	reporter Reporter
	log      *zap.Logger
	metrics  *metrics.Metrics

	cancelSweepDelay time.Duration
	reportDelay      time.Duration
}

func New(ex Exchange, executor *Executor, sch Scheduler, reporter Reporter, cfg config.TradingConfig, log *zap.Logger, m *metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Engine{
		ex:               ex,
		executor:         executor,
		sched:            sch,
		reporter:         reporter,
		log:              log,
		metrics:          m,
		cancelSweepDelay: cfg.CancelSweepDelay,
		reportDelay:      cfg.ReportDelay,
	}
}

// HandleIntent is the per-request state machine. Balance queries return
// the raw snapshot; buys and sells return the exchange's order record.
// Sizing failures leave no partial state behind.
func (e *Engine) HandleIntent(ctx context.Context, intent Intent) (any, error) {
	switch intent.Kind {
	case KindBalance:
		return e.ex.FetchBalance(ctx)
	case KindBuy, KindSell:
	case "":
		return nil, fmt.Errorf("%w: 'type' field is required", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrValidation, intent.Kind)
	}
	if intent.Symbol == "" {
		return nil, fmt.Errorf("%w: 'symbol' field is required", ErrValidation)
	}

	price, err := e.resolvePrice(ctx, intent)
	if err != nil {
		return nil, err
	}
	snapshot, err := e.ex.FetchBalance(ctx)
	if err != nil {
		return nil, err
	}

	if intent.Kind == KindBuy {
		return e.executeBuy(ctx, intent, price, snapshot)
	}
	return e.executeSell(ctx, intent, price, snapshot)
}

// TotalBalanceUSD values the full account in USD using fresh balance
// and ticker data.
func (e *Engine) TotalBalanceUSD(ctx context.Context) (decimal.Decimal, error) {
	snapshot, err := e.ex.FetchBalance(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return TotalUSD(ctx, snapshot, e.lastPrice)
}

func (e *Engine) resolvePrice(ctx context.Context, intent Intent) (decimal.Decimal, error) {
	if intent.Price != nil {
		return RoundPrice(*intent.Price), nil
	}
	quote, err := e.ex.FetchTicker(ctx, intent.Symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return BasePrice(intent, quote), nil
}

func (e *Engine) executeBuy(ctx context.Context, intent Intent, price decimal.Decimal, snapshot BalanceSnapshot) (any, error) {
	sized, err := SizeBuy(intent, price, snapshot)
	if err != nil {
		e.metrics.WebhooksRejected.Inc()
		return nil, err
	}
	e.log.Info("placing limit buy order",
		zap.String("symbol", sized.Symbol),
		zap.String("amount", sized.Amount.String()),
		zap.String("price", sized.LimitPrice.String()),
	)
	result, err := e.executor.Execute(ctx, e.ex.CreateLimitBuyOrder, sized.Symbol, sized.Amount, sized.LimitPrice)
	if err != nil {
		return nil, err
	}
	e.scheduleCancelSweep()
	e.scheduleReport(sized)
	return result, nil
}

func (e *Engine) executeSell(ctx context.Context, intent Intent, price decimal.Decimal, snapshot BalanceSnapshot) (any, error) {
	sized, err := SizeSell(intent, price, snapshot)
	if err != nil {
		e.metrics.WebhooksRejected.Inc()
		return nil, err
	}
	e.log.Info("placing limit sell order",
		zap.String("symbol", sized.Symbol),
		zap.String("amount", sized.Amount.String()),
		zap.String("price", sized.LimitPrice.String()),
	)
	result, err := e.executor.Execute(ctx, e.ex.CreateLimitSellOrder, sized.Symbol, sized.Amount, sized.LimitPrice)
	if err != nil {
		return nil, err
	}
	e.scheduleReport(sized)
	return result, nil
}

// scheduleCancelSweep queues the unconditional cancel-all sweep. It
// does not check whether this particular order is still open; every
// unfilled order on the account is swept.
func (e *Engine) scheduleCancelSweep() {
	e.sched.Schedule("cancel-sweep", e.cancelSweepDelay, func(ctx context.Context) error {
		e.metrics.SweepsRun.Inc()
		if err := e.ex.CancelAllOrders(ctx); err != nil {
			e.metrics.SweepFailures.Inc()
			return err
		}
		e.log.Info("canceled all unfilled orders")
		return nil
	})
}

// scheduleReport queues the bookkeeping record. The balance column is
// recomputed from a fresh fetch when the task fires, not captured at
// order time, so it reflects the post-settlement account.
func (e *Engine) scheduleReport(sized SizedOrder) {
	e.sched.Schedule("trade-report", e.reportDelay, func(ctx context.Context) error {
		snapshot, err := e.ex.FetchBalance(ctx)
		if err != nil {
			e.metrics.ReportFailures.Inc()
			return err
		}
		total, err := TotalUSD(ctx, snapshot, e.lastPrice)
		if err != nil {
			e.metrics.ReportFailures.Inc()
			return err
		}
		rec := report.Record{
			OrderType: capitalize(string(sized.Side)),
			Symbol:    sized.Symbol,
			Strike:    sized.LimitPrice.StringFixed(PriceDecimals),
			Amount:    sized.Amount.String(),
			Value:     sized.EstimatedValueUSD.StringFixed(2),
			Balance:   FormatUSD(total),
		}
		if err := e.reporter.Submit(ctx, rec); err != nil {
			e.metrics.ReportFailures.Inc()
			return err
		}
		e.metrics.ReportsSent.Inc()
		return nil
	})
}

func (e *Engine) lastPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	quote, err := e.ex.FetchTicker(ctx, USDPair(asset))
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Last, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
