package report

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/traderecon/internal/domain"
)

var exceptionsHeader = []string{
	"trade_id", "exception_type", "mismatched_fields", "broker_values", "exchange_values", "severity",
}

// WriteExceptionsCSV exports the exception list in the exchange-ready
// exceptions format: one row per exception, differing values rendered
// per field.
func WriteExceptionsCSV(w io.Writer, exceptions []domain.Exception) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exceptionsHeader); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	for _, exc := range exceptions {
		if err := cw.Write(exceptionRow(exc)); err != nil {
			return errors.Wrapf(err, "failed to write CSV row for trade %s", exc.TradeID)
		}
	}

	cw.Flush()

	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

func exceptionRow(exc domain.Exception) []string {
	if exc.Type.IsMissing() {
		brokerValues := "NOT FOUND"
		exchangeValues := "NOT FOUND"
		if exc.BrokerRecord != nil {
			brokerValues = recordValues(exc.BrokerRecord)
		}
		if exc.ExchangeRecord != nil {
			exchangeValues = recordValues(exc.ExchangeRecord)
		}
		return []string{exc.TradeID, string(exc.Type), "", brokerValues, exchangeValues, string(exc.Severity)}
	}

	brokerVals := make([]string, 0, len(exc.FieldDiffs))
	exchangeVals := make([]string, 0, len(exc.FieldDiffs))
	for _, d := range exc.FieldDiffs {
		brokerVals = append(brokerVals, d.Field+"="+d.Broker)
		exchangeVals = append(exchangeVals, d.Field+"="+d.Exchange)
	}

	return []string{
		exc.TradeID,
		string(exc.Type),
		strings.Join(exc.DiffFields(), ", "),
		strings.Join(brokerVals, " | "),
		strings.Join(exchangeVals, " | "),
		string(exc.Severity),
	}
}

func recordValues(r *domain.TradeRecord) string {
	return "symbol=" + r.Symbol + ", quantity=" + r.Quantity.String() + ", price=" + r.Price.String()
}
