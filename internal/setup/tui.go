// Package setup provides the interactive terminal wizard that writes
// a reconciliation run configuration.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/traderecon/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	var (
		brokerCSV       string
		exchangeSource  string
		exchangeCSV     string
		symbol          string
		currency        string
		accountID       string
		preset          string
		absToleranceStr string
		relToleranceStr string
		driftStr        string
		largeStr        string
		negligibleStr   string
		useLLM          bool
		apiURL          string
		model           string
		confirm         bool
	)

	// defaults
	exchangeSource = "csv"
	absToleranceStr = "0.01"
	relToleranceStr = "0.0001"
	driftStr = "1s"
	largeStr = "0.01"
	negligibleStr = "1000"
	apiURL = "https://openrouter.ai/api/v1/chat/completions"
	model = "openai/gpt-oss-120b"

	// step 1: record sets
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("TRADERECON CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up a reconciliation pass in a few steps.\n"))

	fmt.Println(stepStyle.Render("STEP 1: RECORD SETS"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Broker Trades CSV").
				Description("Path to the broker-reported record set").
				Value(&brokerCSV).
				Validate(validatePath),
			huh.NewSelect[string]().
				Title("Exchange Record Source").
				Options(
					huh.NewOption("CSV file", "csv"),
					huh.NewOption("Binance trade history", "binance"),
				).
				Value(&exchangeSource),
		),
	).Run()
	if err != nil {
		return err
	}

	if exchangeSource == "csv" {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Exchange Trades CSV").
					Description("Path to the exchange-reported record set").
					Value(&exchangeCSV).
					Validate(validatePath),
			),
		).Run()
	} else {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Symbol").
					Description("Instrument to pull history for (e.g. BTCUSDT)").
					Value(&symbol).
					Validate(validateNotEmpty),
				huh.NewInput().
					Title("Quote Currency").
					Description("Currency reported in the records (e.g. USDT)").
					Value(&currency),
				huh.NewInput().
					Title("Account ID").
					Description("Account the records are attributed to").
					Value(&accountID),
			),
		).Run()
	}
	if err != nil {
		return err
	}

	// step 2: tolerances
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TRADERECON CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: TOLERANCES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tolerance Preset").
				Options(
					huh.NewOption("Defaults (0.01 abs, 1bp rel, 1s drift)", "defaults"),
					huh.NewOption("Custom", "custom"),
				).
				Value(&preset),
		),
	).Run()
	if err != nil {
		return err
	}

	if preset == "custom" {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Absolute Tolerance").
					Description("Flat quantity/price allowance (e.g. 0.01)").
					Value(&absToleranceStr).
					Validate(validateDecimal),
				huh.NewInput().
					Title("Relative Tolerance").
					Description("Fractional allowance (e.g. 0.0001)").
					Value(&relToleranceStr).
					Validate(validateDecimal),
				huh.NewInput().
					Title("Max Time Drift").
					Description("Duration string (e.g. 1s, 500ms)").
					Value(&driftStr).
					Validate(func(s string) error {
						_, err := time.ParseDuration(s)
						return err
					}),
				huh.NewInput().
					Title("Large Deviation Threshold").
					Description("Relative deviation classifying High (e.g. 0.01 for 1%)").
					Value(&largeStr).
					Validate(validateDecimal),
				huh.NewInput().
					Title("Negligible Notional").
					Description("Missing trades below this classify Medium").
					Value(&negligibleStr).
					Validate(validateDecimal),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// step 3: exception analysis
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TRADERECON CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: EXCEPTION ANALYSIS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable LLM exception analysis?").
				Description("Requires LLM_API_KEY in the environment").
				Value(&useLLM),
		),
	).Run()
	if err != nil {
		return err
	}

	if useLLM {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("LLM API URL").
					Value(&apiURL),
				huh.NewInput().
					Title("Model Name").
					Value(&model),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TRADERECON CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Broker: %s\nExchange: %s\nTolerances: abs=%s rel=%s drift=%s\nLLM analysis: %t\n",
		brokerCSV, exchangeSummary(exchangeSource, exchangeCSV, symbol), absToleranceStr, relToleranceStr, driftStr, useLLM,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	drift, _ := time.ParseDuration(driftStr)

	cfgTmp := config.ConfigTmp{
		BrokerCSV:             brokerCSV,
		ExchangeCSV:           exchangeCSV,
		ExchangeSource:        exchangeSource,
		Symbol:                symbol,
		Currency:              currency,
		AccountID:             accountID,
		AbsoluteToleranceStr:  absToleranceStr,
		RelativeToleranceStr:  relToleranceStr,
		MaxTimeDrift:          drift,
		LargeDeviationStr:     largeStr,
		NegligibleNotionalStr: negligibleStr,
		UseLLM:                useLLM,
	}

	if useLLM {
		cfgTmp.LLMAPIURL = apiURL
		cfgTmp.LLMModel = model
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\nConfiguration saved to %s", filename)))
	return nil
}

func exchangeSummary(source, csv, symbol string) string {
	if source == "binance" {
		return "binance:" + symbol
	}
	return csv
}

func validatePath(s string) error {
	if s == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

func validateNotEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validateDecimal(s string) error {
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("must be a valid number")
	}
	return nil
}
