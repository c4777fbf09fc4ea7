package report

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gemini-exec-bridge/internal/config"

	"go.uber.org/zap"
)

// Record is one bookkeeping row for an executed trade.
type Record struct {
	OrderType string
	Symbol    string
	Strike    string
	Amount    string
	Value     string
	Balance   string
}

// Sink submits trade records to an external form endpoint. Delivery is
// best effort: the response status is logged, never validated, and
// nothing is retried.
type Sink struct {
	enabled bool
	formURL string
	fields  config.ReportFields
	client  *http.Client
	log     *zap.Logger
}

func NewSink(cfg config.ReportConfig, log *zap.Logger) *Sink {
	return newSink(cfg, log, &http.Client{Timeout: 10 * time.Second})
}

func newSink(cfg config.ReportConfig, log *zap.Logger, client *http.Client) *Sink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Sink{
		enabled: cfg.Enabled,
		formURL: strings.TrimSpace(cfg.FormURL),
		fields:  cfg.Fields,
		client:  client,
		log:     log,
	}
}

func (s *Sink) Submit(ctx context.Context, rec Record) error {
	if !s.enabled {
		return nil
	}
	if s.formURL == "" {
		return errors.New("report form url is required")
	}
	form := url.Values{}
	form.Set(s.fields.OrderType, rec.OrderType)
	form.Set(s.fields.Symbol, rec.Symbol)
	form.Set(s.fields.Strike, rec.Strike)
	form.Set(s.fields.Amount, rec.Amount)
	form.Set(s.fields.Value, rec.Value)
	form.Set(s.fields.Balance, rec.Balance)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.formURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	s.log.Info("report submitted",
		zap.Int("status", resp.StatusCode),
		zap.String("order_type", rec.OrderType),
		zap.String("symbol", rec.Symbol),
		zap.Int("response_bytes", len(body)),
	)
	return nil
}
