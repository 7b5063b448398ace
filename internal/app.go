// Package internal wires record sources, the reconciliation engine,
// the exception analyzer and the report renderers into one run.
package internal

import (
	"context"
	"os"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/traderecon/config"
	"github.com/vadiminshakov/traderecon/internal/domain"
	"github.com/vadiminshakov/traderecon/internal/services/analyzer"
	"github.com/vadiminshakov/traderecon/internal/services/recon"
	"github.com/vadiminshakov/traderecon/internal/services/report"
	"github.com/vadiminshakov/traderecon/internal/services/source"
)

// App represents a single reconciliation run instance.
type App struct {
	broker   source.RecordSource
	exchange source.RecordSource
	engine   *recon.Engine
	analyzer analyzer.ExceptionAnalyzer
	cfg      *config.Config
	l        *zap.Logger
}

// NewApp builds the run from configuration.
func NewApp(l *zap.Logger, cfg *config.Config) (*App, error) {
	exchangeSource, err := createExchangeSource(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create exchange record source")
	}

	engine := recon.NewEngine(l,
		recon.Tolerances{
			Absolute:     cfg.AbsoluteTolerance,
			Relative:     cfg.RelativeTolerance,
			MaxTimeDrift: cfg.MaxTimeDrift,
		},
		recon.Thresholds{
			LargeRelative:      cfg.LargeDeviation,
			NegligibleNotional: cfg.NegligibleNotional,
		})

	return &App{
		broker:   source.NewCSVSource(cfg.BrokerCSV),
		exchange: exchangeSource,
		engine:   engine,
		analyzer: createAnalyzer(l, cfg),
		cfg:      cfg,
		l:        l,
	}, nil
}

func createExchangeSource(cfg *config.Config) (source.RecordSource, error) {
	switch cfg.ExchangeSource {
	case "csv", "":
		return source.NewCSVSource(cfg.ExchangeCSV), nil
	case "binance":
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		client := binance.NewClient(apiKey, apiSecret)
		return source.NewBinanceSource(client, cfg.Symbol, cfg.Currency, cfg.AccountID), nil
	default:
		return nil, errors.Errorf("unsupported exchange source: %s", cfg.ExchangeSource)
	}
}

func createAnalyzer(l *zap.Logger, cfg *config.Config) analyzer.ExceptionAnalyzer {
	if !cfg.UseLLM {
		return analyzer.NewFallbackAnalyzer()
	}
	return analyzer.NewLLMAnalyzer(l, cfg.LLMAPIURL, os.Getenv("LLM_API_KEY"), cfg.LLMModel, cfg.LLMFallbackModel)
}

// Run executes one reconciliation pass: load both sides, reconcile,
// enrich every exception and render the audit artifacts.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.New()
	l := a.l.With(zap.String("run_id", runID.String()))

	brokerRecords, err := a.broker.Records(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load broker records")
	}
	exchangeRecords, err := a.exchange.Records(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load exchange records")
	}

	l.Info("Records loaded",
		zap.Int("broker", len(brokerRecords)),
		zap.Int("exchange", len(exchangeRecords)))

	result, err := a.engine.Reconcile(brokerRecords, exchangeRecords)
	if err != nil {
		return errors.Wrap(err, "reconciliation failed")
	}

	analyzed := a.enrichExceptions(ctx, l, result)

	if err := a.writeReport(runID, result, analyzed); err != nil {
		return err
	}

	if a.cfg.ExceptionsCSVPath != "" {
		if err := a.exportExceptions(result); err != nil {
			return err
		}
		l.Info("Exceptions exported", zap.String("path", a.cfg.ExceptionsCSVPath))
	}

	return nil
}

// enrichExceptions runs the analyzer over every exception. Analysis
// failures downgrade to the deterministic fallback enrichment and
// never abort the run; the engine's classification is already final.
func (a *App) enrichExceptions(ctx context.Context, l *zap.Logger, result *domain.ReconciliationResult) []report.AnalyzedException {
	exceptions := result.Exceptions()
	analyzed := make([]report.AnalyzedException, 0, len(exceptions))

	for _, exc := range exceptions {
		enrichment, err := a.analyzer.Analyze(ctx, exc)
		if err != nil {
			l.Warn("Exception analysis failed, using fallback",
				zap.Error(err),
				zap.String("trade_id", exc.TradeID))
			enrichment = analyzer.FallbackEnrichment(exc)
		}

		analyzed = append(analyzed, report.AnalyzedException{Exception: exc, Enrichment: enrichment})
	}

	return analyzed
}

func (a *App) writeReport(runID uuid.UUID, result *domain.ReconciliationResult, analyzed []report.AnalyzedException) error {
	text := report.Compliance(runID, time.Now(), result, analyzed)

	if a.cfg.ReportPath == "" {
		_, err := os.Stdout.WriteString(text)
		return errors.Wrap(err, "failed to print report")
	}

	return errors.Wrap(os.WriteFile(a.cfg.ReportPath, []byte(text), 0o644), "failed to write report")
}

func (a *App) exportExceptions(result *domain.ReconciliationResult) error {
	f, err := os.Create(a.cfg.ExceptionsCSVPath)
	if err != nil {
		return errors.Wrap(err, "failed to create exceptions CSV")
	}
	defer f.Close()

	return report.WriteExceptionsCSV(f, result.Exceptions())
}
