// Command traderecon reconciles broker-reported and exchange-reported
// trade records, classifies every discrepancy by severity and renders
// a compliance audit report.
//
// Usage:
//
//	traderecon --config config.yaml
//	traderecon --broker broker.csv --exchange exchange.csv
//	traderecon --setup (interactive configuration wizard)
//
// Optional environment variables:
//
//	LLM_API_KEY when the LLM exception analyzer is enabled
//	BINANCE_API_KEY, BINANCE_API_SECRET when the exchange side is
//	pulled from Binance trade history
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/vadiminshakov/traderecon/config"
	"github.com/vadiminshakov/traderecon/internal"
	"github.com/vadiminshakov/traderecon/internal/setup"
)

func main() {
	runSetup := flag.Bool("setup", false, "run the interactive configuration wizard")

	cfg, err := config.Get()
	if *runSetup {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app, err := internal.NewApp(logger, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
