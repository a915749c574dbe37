// Package csvio reads financing batches and writes transaction reports as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/supplyshield/riskengine/internal/application/dto"
)

// FinancingColumns is the required header of a financing batch, in any order.
var FinancingColumns = []string{"invoice_no", "amount", "supplier", "buyer", "lender"}

// ErrMissingHeader is returned for an empty batch.
var ErrMissingHeader = errors.New("csv header is missing")

// ReadFinancingRows parses a financing batch. Header problems and malformed CSV
// fail the whole batch; a data line with the wrong number of fields becomes a
// row with ParseError set so the remaining lines still run.
func ReadFinancingRows(r io.Reader) ([]dto.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []dto.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		row := dto.ImportRow{Line: line}
		if len(record) != len(header) {
			row.ParseError = fmt.Sprintf("expected %d fields, got %d", len(header), len(record))
			rows = append(rows, row)
			continue
		}

		field := func(name string) string {
			return strings.TrimSpace(record[index[name]])
		}
		row.Request = dto.ScoreFinancingRequest{
			InvoiceNo: field("invoice_no"),
			Amount:    field("amount"),
			Supplier:  field("supplier"),
			Buyer:     field("buyer"),
			Lender:    field("lender"),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate csv column %q", name)
		}
		index[name] = i
	}

	var missing []string
	for _, col := range FinancingColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}
