package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

var csvColumns = []string{
	"trade_id", "symbol", "side", "quantity", "price", "currency", "trade_time", "account_id",
}

// accepted trade_time layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// CSVSource reads trade records from a CSV file with a header row.
// Columns may appear in any order; all required columns must be
// present.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source reading from the given file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Records parses the file into trade records.
func (s *CSVSource) Records(_ context.Context) ([]domain.TradeRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", s.path)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	return records, errors.Wrapf(err, "failed to parse %s", s.path)
}

// ParseCSV reads TradeRecords from CSV content with a header row.
func ParseCSV(r io.Reader) ([]domain.TradeRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.TradeRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CSV line %d", line)
		}

		record, err := parseRow(row, columns)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid record at line %d", line)
		}

		records = append(records, record)
	}

	return records, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range csvColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRow(row []string, columns map[string]int) (domain.TradeRecord, error) {
	get := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	side, ok := domain.ParseSide(get("side"))
	if !ok {
		return domain.TradeRecord{}, errors.Errorf("unrecognized side %q", get("side"))
	}

	quantity, err := decimal.NewFromString(get("quantity"))
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "invalid quantity %q", get("quantity"))
	}

	price, err := decimal.NewFromString(get("price"))
	if err != nil {
		return domain.TradeRecord{}, errors.Wrapf(err, "invalid price %q", get("price"))
	}

	tradeTime, err := parseTime(get("trade_time"))
	if err != nil {
		return domain.TradeRecord{}, err
	}

	return domain.TradeRecord{
		TradeID:   get("trade_id"),
		Symbol:    get("symbol"),
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Currency:  strings.ToUpper(get("currency")),
		TradeTime: tradeTime,
		AccountID: get("account_id"),
	}, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized trade_time %q", raw)
}
