package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LoggingConfig  `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Trading  TradingConfig  `yaml:"trading"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`

	// Format selects the encoder: "json" (default) or "console".
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type ExchangeConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// Loaded from the environment, never from the YAML file.
	APIKey    string `yaml:"-"`
	APISecret string `yaml:"-"`
}

type TradingConfig struct {
	RetryAttempts    int           `yaml:"retry_attempts"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	CancelSweepDelay time.Duration `yaml:"cancel_sweep_delay"`
	ReportDelay      time.Duration `yaml:"report_delay"`
}

type ReportConfig struct {
	Enabled bool         `yaml:"enabled"`
	FormURL string       `yaml:"form_url"`
	Fields  ReportFields `yaml:"fields"`
}

// ReportFields maps report columns to the form's entry identifiers.
type ReportFields struct {
	OrderType string `yaml:"order_type"`
	Symbol    string `yaml:"symbol"`
	Strike    string `yaml:"strike"`
	Amount    string `yaml:"amount"`
	Value     string `yaml:"value"`
	Balance   string `yaml:"balance"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Exchange.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.Exchange.APISecret = strings.TrimSpace(os.Getenv("GEMINI_API_SECRET"))
	return &cfg, validate(&cfg)
}

// defaultConfig is the config the file is unmarshaled over. Absent keys
// keep these values; explicit zeros in the file stick, so a deliberate
// retry_delay of 0s is expressible.
func defaultConfig() Config {
	return Config{
		Log: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:        ":5001",
			ReadTimeout: 10 * time.Second,
		},
		Exchange: ExchangeConfig{
			BaseURL: "https://api.gemini.com",
			Timeout: 15 * time.Second,
		},
		Trading: TradingConfig{
			RetryAttempts:    3,
			RetryDelay:       2 * time.Second,
			CancelSweepDelay: 300 * time.Second,
			ReportDelay:      360 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

func validate(cfg *Config) error {
	if cfg.Exchange.APIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	if cfg.Exchange.APISecret == "" {
		return errors.New("GEMINI_API_SECRET is required")
	}
	if cfg.Trading.RetryAttempts < 1 {
		return errors.New("trading.retry_attempts must be >= 1")
	}
	if cfg.Trading.RetryDelay < 0 {
		return errors.New("trading.retry_delay must be >= 0")
	}
	if cfg.Report.Enabled {
		if cfg.Report.FormURL == "" {
			return errors.New("report.form_url is required when report.enabled")
		}
		for name, id := range map[string]string{
			"order_type": cfg.Report.Fields.OrderType,
			"symbol":     cfg.Report.Fields.Symbol,
			"strike":     cfg.Report.Fields.Strike,
			"amount":     cfg.Report.Fields.Amount,
			"value":      cfg.Report.Fields.Value,
			"balance":    cfg.Report.Fields.Balance,
		} {
			if id == "" {
				return fmt.Errorf("report.fields.%s is required when report.enabled", name)
			}
		}
	}
	return nil
}
