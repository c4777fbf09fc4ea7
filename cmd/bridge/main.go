package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemini-exec-bridge/internal/config"
	"gemini-exec-bridge/internal/engine"
	"gemini-exec-bridge/internal/gemini"
	"gemini-exec-bridge/internal/logging"
	"gemini-exec-bridge/internal/metrics"
	"gemini-exec-bridge/internal/report"
	"gemini-exec-bridge/internal/sched"
	"gemini-exec-bridge/internal/server"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.Log)
	log.Info("config loaded", zap.String("path", *configPath))

	m := metrics.NewNoop()
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus()
		m = prom.Metrics
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", prom.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	signer, err := gemini.NewSigner(cfg.Exchange.APIKey, cfg.Exchange.APISecret)
	if err != nil {
		log.Error("failed to initialize signer", zap.Error(err))
		os.Exit(1)
	}
	exchange, err := gemini.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.Timeout, signer, log)
	if err != nil {
		log.Error("failed to initialize exchange client", zap.Error(err))
		os.Exit(1)
	}

	executor := engine.NewExecutor(cfg.Trading.RetryAttempts, cfg.Trading.RetryDelay, log, m)
	scheduler := sched.New(log)
	sink := report.NewSink(cfg.Report, log)
	eng := engine.New(exchange, executor, scheduler, sink, cfg.Trading, log, m)

	app := server.New(eng, cfg.Server, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Server.Addr))
	if err := app.Listen(cfg.Server.Addr); err != nil {
		log.Error("server terminated", zap.Error(err))
		os.Exit(1)
	}
}
