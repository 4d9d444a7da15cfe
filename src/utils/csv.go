package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// HoldingRow is a single normalized line item parsed from an uploaded CSV.
type HoldingRow struct {
	Symbol       string
	Exchange     string
	Sector       string
	Quantity     float64
	AveragePrice float64
	LastPrice    float64
}

// RowError describes a validation failure for one CSV row. Row numbers are
// spreadsheet style: the header is row 1, the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

var requiredColumns = []string{"symbol", "quantity", "average_price", "last_price"}

// ParseHoldingsCSV reads a holdings CSV and returns the valid rows plus a
// row-indexed list of errors for the invalid ones. A bad row never aborts the
// remaining rows; only an unreadable file or a bad header returns a non-nil
// error.
func ParseHoldingsCSV(r io.Reader) ([]HoldingRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var holdings []HoldingRow
	var rowErrors []RowError

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: "malformed row"})
			continue
		}

		row, rowErr := parseHoldingRecord(record, colIndex)
		if rowErr != "" {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: rowErr})
			continue
		}
		holdings = append(holdings, row)
	}

	return holdings, rowErrors, nil
}

func parseHoldingRecord(record []string, colIndex map[string]int) (HoldingRow, string) {
	field := func(name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := HoldingRow{
		Symbol:   strings.ToUpper(field("symbol")),
		Exchange: strings.ToUpper(field("exchange")),
		Sector:   field("sector"),
	}
	if row.Symbol == "" {
		return row, "symbol is required"
	}
	if row.Exchange == "" {
		row.Exchange = "NSE"
	}

	quantity, err := strconv.ParseFloat(field("quantity"), 64)
	if err != nil {
		return row, "quantity is not a number"
	}
	if quantity <= 0 {
		return row, "quantity must be positive"
	}
	row.Quantity = quantity

	avgPrice, err := strconv.ParseFloat(field("average_price"), 64)
	if err != nil {
		return row, "average_price is not a number"
	}
	if avgPrice < 0 {
		return row, "average_price must not be negative"
	}
	row.AveragePrice = avgPrice

	lastPrice, err := strconv.ParseFloat(field("last_price"), 64)
	if err != nil {
		return row, "last_price is not a number"
	}
	if lastPrice < 0 {
		return row, "last_price must not be negative"
	}
	row.LastPrice = lastPrice

	return row, ""
}
