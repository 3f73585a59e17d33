// Package parser reads brokerage statement exports into raw rows for
// the journal core. The supported format is the thinkorswim "Account
// Trade History" CSV: twelve fixed columns, optionally preceded by
// account banner lines.
package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"trade-journal-go/internal/journal"
)

const sectionHeader = "Account Trade History"

// ExpectedColumns is the exact header the export must carry, in order.
var ExpectedColumns = []string{
	"Exec Time", "Spread", "Side", "Qty", "Pos Effect", "Symbol",
	"Exp", "Strike", "Type", "Price", "Net Price", "Order Type",
}

type row struct {
	ExecTime  string `csv:"Exec Time"`
	Spread    string `csv:"Spread"`
	Side      string `csv:"Side"`
	Qty       string `csv:"Qty"`
	PosEffect string `csv:"Pos Effect"`
	Symbol    string `csv:"Symbol"`
	Exp       string `csv:"Exp"`
	Strike    string `csv:"Strike"`
	Type      string `csv:"Type"`
	Price     string `csv:"Price"`
	NetPrice  string `csv:"Net Price"`
	OrderType string `csv:"Order Type"`
}

// Parse reads a statement file and returns its executions as raw rows
// in file order. The header must match ExpectedColumns exactly; a
// mismatch fails the whole file.
func Parse(r io.Reader) ([]journal.RawOrder, error) {
	section, err := tradeHistorySection(r)
	if err != nil {
		return nil, err
	}

	if err := checkHeader(section); err != nil {
		return nil, err
	}

	var rows []row
	if err := gocsv.UnmarshalBytes(section, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	raw := make([]journal.RawOrder, 0, len(rows))
	for i, rec := range rows {
		raw = append(raw, journal.RawOrder{
			RowIndex:       i,
			ExecTime:       rec.ExecTime,
			Spread:         rec.Spread,
			Side:           rec.Side,
			Quantity:       rec.Qty,
			PositionEffect: rec.PosEffect,
			Symbol:         rec.Symbol,
			Expiration:     rec.Exp,
			Strike:         rec.Strike,
			OptionType:     rec.Type,
			Price:          rec.Price,
			NetPrice:       rec.NetPrice,
			OrderType:      rec.OrderType,
		})
	}
	return raw, nil
}

// tradeHistorySection strips everything before (and including) the
// "Account Trade History" banner when present, and stops at the first
// blank line after the data, mirroring how full statement exports embed
// the section among other report blocks.
func tradeHistorySection(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		buf      bytes.Buffer
		inBody   bool
		sawTitle bool
	)
	for scanner.Scan() {
		line := scanner.Text()
		if !inBody {
			if strings.Contains(line, sectionHeader) {
				sawTitle = true
				inBody = true
				continue
			}
			if !sawTitle && strings.Contains(line, "Exec Time") {
				// Bare export with the header as the first line.
				inBody = true
			} else {
				continue
			}
		}
		if strings.TrimSpace(strings.ReplaceAll(line, ",", "")) == "" {
			if buf.Len() > 0 {
				break
			}
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("could not find %q section in the file", sectionHeader)
	}
	return buf.Bytes(), nil
}

func checkHeader(section []byte) error {
	header, err := csv.NewReader(bytes.NewReader(section)).Read()
	if err != nil {
		return fmt.Errorf("error reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// Full statement exports prefix the section with an unnamed index column.
	if len(header) == len(ExpectedColumns)+1 && header[0] == "" {
		header = header[1:]
	}
	if len(header) != len(ExpectedColumns) {
		return fmt.Errorf("invalid CSV format: expected columns %v", ExpectedColumns)
	}
	for i, col := range ExpectedColumns {
		if header[i] != col {
			return fmt.Errorf("invalid CSV format: expected columns %v", ExpectedColumns)
		}
	}
	return nil
}
