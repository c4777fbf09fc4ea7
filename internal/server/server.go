package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gemini-exec-bridge/internal/config"
	"gemini-exec-bridge/internal/engine"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the engine surface the transport needs.
type Service interface {
	HandleIntent(ctx context.Context, intent engine.Intent) (any, error)
	TotalBalanceUSD(ctx context.Context) (decimal.Decimal, error)
}

type handler struct {
	svc Service
	log *zap.Logger
}

// New builds the HTTP app. The transport stays a thin shim: parse,
// dispatch to the engine, map the error taxonomy to status codes.
func New(svc Service, cfg config.ServerConfig, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	h := &handler{svc: svc, log: log}
	app.Post("/webhook", h.webhook)
	app.Post("/total_balance", h.totalBalance)
	return app
}

type webhookRequest struct {
	Type   string          `json:"type"`
	Symbol string          `json:"symbol"`
	Amount json.RawMessage `json:"amount"`
	Price  json.RawMessage `json:"price"`
}

func (h *handler) webhook(c *fiber.Ctx) error {
	var req webhookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request body"})
	}
	h.log.Info("webhook received",
		zap.String("type", req.Type),
		zap.String("symbol", req.Symbol),
	)
	if strings.TrimSpace(req.Type) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "'type' field is required"})
	}
	intent, err := parseIntent(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	result, err := h.svc.HandleIntent(c.Context(), intent)
	if err != nil {
		status := fiber.StatusInternalServerError
		if engine.IsRejection(err) {
			status = fiber.StatusBadRequest
		}
		h.log.Error("webhook failed", zap.String("type", req.Type), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func (h *handler) totalBalance(c *fiber.Ctx) error {
	total, err := h.svc.TotalBalanceUSD(c.Context())
	if err != nil {
		h.log.Error("total balance failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendString(engine.FormatUSD(total))
}

func parseIntent(req webhookRequest) (engine.Intent, error) {
	intent := engine.Intent{
		Kind:   engine.IntentKind(strings.ToLower(strings.TrimSpace(req.Type))),
		Symbol: strings.TrimSpace(req.Symbol),
	}
	if len(req.Amount) > 0 && string(req.Amount) != "null" {
		var all string
		if err := json.Unmarshal(req.Amount, &all); err == nil && strings.EqualFold(all, "ALL") {
			intent.AmountAll = true
		} else {
			var amount decimal.Decimal
			if err := json.Unmarshal(req.Amount, &amount); err != nil {
				return engine.Intent{}, errors.New("'amount' must be \"ALL\" or a number")
			}
			intent.Amount = amount
		}
	}
	if len(req.Price) > 0 && string(req.Price) != "null" {
		var price decimal.Decimal
		if err := json.Unmarshal(req.Price, &price); err != nil {
			return engine.Intent{}, errors.New("'price' must be a number")
		}
		intent.Price = &price
	}
	return intent, nil
}
