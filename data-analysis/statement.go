package data_analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ordersbot/parser"

	ex "github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Podsumowanie"
	NoPlateSheet = "Bez tablicy"
	totalLabel   = "RAZEM"
)

var summaryHeaders = []string{"Tablica", "Zlecenia", "Fracht (EUR)", "Średnio (EUR)"}

// CreateOrdersStatement writes a workbook with a summary sheet, one sheet per
// license plate and a sheet for orders without a plate. It returns the path
// of the saved file.
func CreateOrdersStatement(orders []*parser.Order, dir string) (string, error) {
	grouped, noPlate, err := parser.GroupByPlate(orders)
	if err != nil {
		return "", fmt.Errorf("ERR: grouping orders: %w", err)
	}

	f := ex.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		return "", fmt.Errorf("ERR: creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := writeSummary(f, parser.FreightTotals(grouped)); err != nil {
		return "", err
	}

	for _, plate := range parser.Plates(grouped) {
		if err := writeOrdersSheet(f, SheetName(plate), grouped[plate]); err != nil {
			return "", err
		}
	}
	if len(noPlate) > 0 {
		if err := writeOrdersSheet(f, NoPlateSheet, noPlate); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ERR: creating %s: %w", dir, err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("orders_%s.xlsx", time.Now().Format("02-01-2006_150405")))
	if err := f.SaveAs(filename); err != nil {
		return "", fmt.Errorf("ERR: saving orders xlsx: %w", err)
	}

	return filename, nil
}

func writeSummary(f *ex.File, totals []parser.PlateTotal) error {
	if err := WriteHeaders(f, SummarySheet, summaryHeaders); err != nil {
		return fmt.Errorf("ERR: writing headers: %w", err)
	}

	row := 2
	var sum float64
	var count int
	for _, t := range totals {
		if err := writeRow(f, SummarySheet, row, []any{t.Plate, t.Count, t.Total, t.Average}); err != nil {
			return fmt.Errorf("ERR: writing summary row %d: %w", row, err)
		}
		sum += t.Total
		count += t.Count
		row++
	}
	if err := writeRow(f, SummarySheet, row, []any{totalLabel, count, sum}); err != nil {
		return fmt.Errorf("ERR: writing summary total: %w", err)
	}

	setWidths(f, SummarySheet, len(summaryHeaders))
	return nil
}

func writeOrdersSheet(f *ex.File, sheet string, orders []*parser.Order) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ERR: creating sheet %s: %w", sheet, err)
	}

	headers := GetHeaders(parser.Order{})
	if err := WriteHeaders(f, sheet, headers); err != nil {
		return fmt.Errorf("ERR: writing headers: %w", err)
	}

	row := 2
	var total float64
	for _, o := range orders {
		if err := writeOrderRow(f, sheet, row, o); err != nil {
			return fmt.Errorf("ERR: writing row %d: %w", row, err)
		}
		total += o.Freight
		row++
	}

	if col := headerColumn(parser.Order{}, "Freight"); col > 0 {
		label, _ := ex.CoordinatesToCellName(1, row)
		cell, _ := ex.CoordinatesToCellName(col, row)
		if err := f.SetCellValue(sheet, label, totalLabel); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, total); err != nil {
			return err
		}
	}

	setWidths(f, sheet, len(headers))
	return nil
}

// writeOrderRow leaves a missing freight blank instead of writing 0.
func writeOrderRow(f *ex.File, sheet string, row int, o *parser.Order) error {
	if err := writeStructRow(f, sheet, row, o); err != nil {
		return err
	}
	if o.Freight > 0 {
		return nil
	}
	if col := headerColumn(parser.Order{}, "Freight"); col > 0 {
		cell, _ := ex.CoordinatesToCellName(col, row)
		return f.SetCellValue(sheet, cell, "")
	}
	return nil
}
