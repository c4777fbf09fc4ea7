package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTradingDefaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Trading.RetryAttempts != 3 {
		t.Fatalf("expected 3 retry attempts, got %d", cfg.Trading.RetryAttempts)
	}
	if cfg.Trading.RetryDelay != 2*time.Second {
		t.Fatalf("expected 2s retry delay, got %v", cfg.Trading.RetryDelay)
	}
	if cfg.Trading.CancelSweepDelay != 300*time.Second {
		t.Fatalf("expected 300s sweep delay, got %v", cfg.Trading.CancelSweepDelay)
	}
	if cfg.Trading.ReportDelay != 360*time.Second {
		t.Fatalf("expected 360s report delay, got %v", cfg.Trading.ReportDelay)
	}
}

func TestServerAndExchangeDefaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Server.Addr != ":5001" {
		t.Fatalf("expected :5001, got %q", cfg.Server.Addr)
	}
	if cfg.Exchange.BaseURL != "https://api.gemini.com" {
		t.Fatalf("expected gemini base url, got %q", cfg.Exchange.BaseURL)
	}
	if cfg.Exchange.Timeout <= 0 {
		t.Fatalf("expected exchange timeout default, got %v", cfg.Exchange.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected info level, got %q", cfg.Log.Level)
	}
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := defaultConfig()
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	cfg.Exchange.APIKey = "key"
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for missing secret")
	}
	cfg.Exchange.APISecret = "secret"
	if err := validate(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateReportFields(t *testing.T) {
	cfg := defaultConfig()
	cfg.Exchange.APIKey = "key"
	cfg.Exchange.APISecret = "secret"
	cfg.Report.Enabled = true
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for missing form url")
	}
	cfg.Report.FormURL = "https://example.com/formResponse"
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for missing field ids")
	}
	cfg.Report.Fields = ReportFields{
		OrderType: "entry.1",
		Symbol:    "entry.2",
		Strike:    "entry.3",
		Amount:    "entry.4",
		Value:     "entry.5",
		Balance:   "entry.6",
	}
	if err := validate(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadReadsCredentialsFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "account-key")
	t.Setenv("GEMINI_API_SECRET", "account-secret")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "" +
		"log:\n" +
		"  level: debug\n" +
		"trading:\n" +
		"  retry_delay: 1s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Exchange.APIKey != "account-key" {
		t.Fatalf("expected api key from env, got %q", cfg.Exchange.APIKey)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Log.Level)
	}
	if cfg.Trading.RetryDelay != time.Second {
		t.Fatalf("expected 1s retry delay, got %v", cfg.Trading.RetryDelay)
	}
	if cfg.Trading.RetryAttempts != 3 {
		t.Fatalf("expected default retry attempts, got %d", cfg.Trading.RetryAttempts)
	}
}

func TestLoadKeepsExplicitZeroRetryDelay(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "account-key")
	t.Setenv("GEMINI_API_SECRET", "account-secret")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "" +
		"trading:\n" +
		"  retry_delay: 0s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Trading.RetryDelay != 0 {
		t.Fatalf("expected 0 retry delay, got %v", cfg.Trading.RetryDelay)
	}
	if cfg.Trading.CancelSweepDelay != 300*time.Second {
		t.Fatalf("absent keys must keep defaults, got %v", cfg.Trading.CancelSweepDelay)
	}
}
