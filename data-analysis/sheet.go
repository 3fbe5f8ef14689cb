package data_analysis

import (
	"fmt"
	"strings"

	"ordersbot/utils"

	ex "github.com/xuri/excelize/v2"
)

const (
	excelTag     = "excel"
	columnWidth  = 20
	maxSheetName = 31
)

var sheetNameReplacer = strings.NewReplacer(
	"[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-",
)

// GetHeaders returns the `excel` tag values of s in field order.
func GetHeaders[T any](s T) []string {
	fields, err := utils.GetTaggedFields(s, excelTag)
	if err != nil {
		return nil
	}
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Value
	}
	return headers
}

// headerColumn is the 1-based column of the field at path, 0 if it has no
// excel tag.
func headerColumn[T any](s T, path string) int {
	fields, err := utils.GetTaggedFields(s, excelTag)
	if err != nil {
		return 0
	}
	for i, f := range fields {
		if f.Path == path {
			return i + 1
		}
	}
	return 0
}

func WriteHeaders(f *ex.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&ex.Style{Font: &ex.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("ERR: creating header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := ex.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("ERR: setting header %q: %w", h, err)
		}
	}

	last, _ := ex.CoordinatesToCellName(max(len(headers), 1), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *ex.File, sheet string, row int, values []any) error {
	for i, value := range values {
		cell, _ := ex.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("ERR: setting cell value at col %d row %d: %w", i+1, row, err)
		}
	}
	return nil
}

// writeStructRow writes the excel-tagged fields of s as one row.
func writeStructRow[T any](f *ex.File, sheet string, row int, s T) error {
	values, err := utils.GetTaggedValues(s, excelTag)
	if err != nil {
		return err
	}
	return writeRow(f, sheet, row, values)
}

func setWidths(f *ex.File, sheet string, columns int) {
	for i := 0; i < columns; i++ {
		col, _ := ex.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, columnWidth)
	}
}

// SheetName makes s usable as a worksheet name.
func SheetName(s string) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(s))
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
