// Package config loads reconciliation run configuration from a YAML
// file or command-line flags. Tolerance and threshold parameters are
// explicit named values with documented defaults; only secrets (API
// keys) come from the environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Built-in defaults.
const (
	defaultAbsoluteTolerance  = "0.01"
	defaultRelativeTolerance  = "0.0001"
	defaultMaxTimeDrift       = time.Second
	defaultLargeDeviation     = "0.01"
	defaultNegligibleNotional = "1000"

	defaultLLMAPIURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel         = "openai/gpt-oss-120b"
	defaultLLMFallbackModel = "llama-3.3-70b-versatile"
)

// Config one reconciliation run configuration.
type Config struct {
	// BrokerCSV path to the broker-reported records.
	BrokerCSV string
	// ExchangeCSV path to the exchange-reported records. Ignored when
	// ExchangeSource is "binance".
	ExchangeCSV string
	// ExchangeSource "csv" or "binance".
	ExchangeSource string
	// Symbol, Currency and AccountID describe the Binance trade
	// history pull when ExchangeSource is "binance".
	Symbol    string
	Currency  string
	AccountID string

	AbsoluteTolerance decimal.Decimal
	RelativeTolerance decimal.Decimal
	MaxTimeDrift      time.Duration

	LargeDeviation     decimal.Decimal
	NegligibleNotional decimal.Decimal

	// UseLLM enables the LLM exception analyzer; the fallback analyzer
	// is used otherwise.
	UseLLM           bool
	LLMAPIURL        string
	LLMModel         string
	LLMFallbackModel string

	// ReportPath and ExceptionsCSVPath are output destinations;
	// empty values print the report to stdout and skip the CSV export.
	ReportPath        string
	ExceptionsCSVPath string
}

// ConfigTmp string-typed YAML image of Config.
type ConfigTmp struct {
	BrokerCSV      string `yaml:"broker_csv"`
	ExchangeCSV    string `yaml:"exchange_csv"`
	ExchangeSource string `yaml:"exchange_source,omitempty"`
	Symbol         string `yaml:"symbol,omitempty"`
	Currency       string `yaml:"currency,omitempty"`
	AccountID      string `yaml:"account_id,omitempty"`

	AbsoluteToleranceStr  string        `yaml:"absolute_tolerance,omitempty"`
	RelativeToleranceStr  string        `yaml:"relative_tolerance,omitempty"`
	MaxTimeDrift          time.Duration `yaml:"max_time_drift,omitempty"`
	LargeDeviationStr     string        `yaml:"large_deviation,omitempty"`
	NegligibleNotionalStr string        `yaml:"negligible_notional,omitempty"`

	UseLLM           bool   `yaml:"use_llm,omitempty"`
	LLMAPIURL        string `yaml:"llm_api_url,omitempty"`
	LLMModel         string `yaml:"llm_model,omitempty"`
	LLMFallbackModel string `yaml:"llm_fallback_model,omitempty"`

	ReportPath        string `yaml:"report_path,omitempty"`
	ExceptionsCSVPath string `yaml:"exceptions_csv_path,omitempty"`
}

// Get loads the configuration from --config YAML when given, from
// flags otherwise.
func Get() (*Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	brokerCSV := flag.String("broker", "", "path to broker trades CSV")
	exchangeCSV := flag.String("exchange", "", "path to exchange trades CSV")
	reportPath := flag.String("report", "", "compliance report output path (stdout when empty)")
	exceptionsCSV := flag.String("exceptions", "", "exceptions CSV export path (skipped when empty)")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	if *brokerCSV == "" || *exchangeCSV == "" {
		return nil, fmt.Errorf("either --config or both --broker and --exchange must be provided")
	}

	cfg := defaults()
	cfg.BrokerCSV = *brokerCSV
	cfg.ExchangeCSV = *exchangeCSV
	cfg.ReportPath = *reportPath
	cfg.ExceptionsCSVPath = *exceptionsCSV

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ExchangeSource:     "csv",
		AbsoluteTolerance:  mustDecimal(defaultAbsoluteTolerance),
		RelativeTolerance:  mustDecimal(defaultRelativeTolerance),
		MaxTimeDrift:       defaultMaxTimeDrift,
		LargeDeviation:     mustDecimal(defaultLargeDeviation),
		NegligibleNotional: mustDecimal(defaultNegligibleNotional),
		LLMAPIURL:          defaultLLMAPIURL,
		LLMModel:           defaultLLMModel,
		LLMFallbackModel:   defaultLLMFallbackModel,
	}
}

func getYaml(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return nil, err
	}

	if tmp.BrokerCSV == "" {
		return nil, fmt.Errorf("missing 'broker_csv' param in yaml config")
	}

	cfg := defaults()
	cfg.BrokerCSV = tmp.BrokerCSV
	cfg.ExchangeCSV = tmp.ExchangeCSV
	cfg.Symbol = tmp.Symbol
	cfg.Currency = tmp.Currency
	cfg.AccountID = tmp.AccountID
	cfg.UseLLM = tmp.UseLLM
	cfg.ReportPath = tmp.ReportPath
	cfg.ExceptionsCSVPath = tmp.ExceptionsCSVPath

	switch tmp.ExchangeSource {
	case "":
		// keep csv default
	case "csv", "binance":
		cfg.ExchangeSource = tmp.ExchangeSource
	default:
		return nil, fmt.Errorf("incorrect 'exchange_source' param in yaml config: %s (must be csv or binance)", tmp.ExchangeSource)
	}

	if cfg.ExchangeSource == "csv" && cfg.ExchangeCSV == "" {
		return nil, fmt.Errorf("missing 'exchange_csv' param in yaml config")
	}
	if cfg.ExchangeSource == "binance" && cfg.Symbol == "" {
		return nil, fmt.Errorf("missing 'symbol' param in yaml config (required for binance exchange_source)")
	}

	if err := setDecimal(&cfg.AbsoluteTolerance, tmp.AbsoluteToleranceStr, "absolute_tolerance"); err != nil {
		return nil, err
	}
	if err := setDecimal(&cfg.RelativeTolerance, tmp.RelativeToleranceStr, "relative_tolerance"); err != nil {
		return nil, err
	}
	if err := setDecimal(&cfg.LargeDeviation, tmp.LargeDeviationStr, "large_deviation"); err != nil {
		return nil, err
	}
	if err := setDecimal(&cfg.NegligibleNotional, tmp.NegligibleNotionalStr, "negligible_notional"); err != nil {
		return nil, err
	}

	if tmp.MaxTimeDrift > 0 {
		cfg.MaxTimeDrift = tmp.MaxTimeDrift
	}
	if tmp.LLMAPIURL != "" {
		cfg.LLMAPIURL = tmp.LLMAPIURL
	}
	if tmp.LLMModel != "" {
		cfg.LLMModel = tmp.LLMModel
	}
	if tmp.LLMFallbackModel != "" {
		cfg.LLMFallbackModel = tmp.LLMFallbackModel
	}

	if cfg.AbsoluteTolerance.IsNegative() || cfg.RelativeTolerance.IsNegative() {
		return nil, fmt.Errorf("tolerances must not be negative")
	}
	if !cfg.LargeDeviation.IsPositive() {
		return nil, fmt.Errorf("'large_deviation' must be positive")
	}

	return cfg, nil
}

func setDecimal(dst *decimal.Decimal, raw, name string) error {
	if raw == "" {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("incorrect '%s' param in yaml config (must be a decimal), error: %w", name, err)
	}
	*dst = v
	return nil
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
