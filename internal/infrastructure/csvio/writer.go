package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/supplyshield/riskengine/internal/application/dto"
)

var reportHeader = []string{"Supplier", "Amount", "Risk", "Date"}

// WriteTransactionReport writes rows as the transaction report.
func WriteTransactionReport(w io.Writer, rows []dto.TransactionRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Supplier,
			row.Amount,
			strconv.Itoa(row.Risk),
			row.Date.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
