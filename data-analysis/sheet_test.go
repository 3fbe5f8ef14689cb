package data_analysis

import (
	"testing"

	"ordersbot/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ex "github.com/xuri/excelize/v2"
)

func TestGetHeaders(t *testing.T) {
	headers := GetHeaders(parser.Order{})
	assert.Equal(t, []string{
		"Nr zlecenia", "Termin rozładunku", "Tablica", "Fracht (EUR)",
		"Miejsce załadunku", "Miejsce rozładunku", "Plik",
	}, headers)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "WGM 1234", SheetName("WGM 1234"))
	assert.Equal(t, "AB-12", SheetName("AB/12"))
	assert.Equal(t, "Sheet", SheetName("[]"))
	assert.Len(t, []rune(SheetName("ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEFGHIJ")), 31)
}

func TestCreateOrdersStatement(t *testing.T) {
	orders := []*parser.Order{
		{
			OrderNumber:   "ZL/1",
			UnloadingDate: "2024-03-02",
			LicensePlate:  "WGM1234",
			Freight:       1000,
			LoadingCity:   "Rokietnica",
			UnloadingCity: "Hamburg",
			SourceFile:    "a.pdf",
		},
		{
			OrderNumber:   "ZL/2",
			UnloadingDate: "2024-03-01",
			LicensePlate:  "WGM1234",
			Freight:       500,
			LoadingCity:   "Poznań",
			UnloadingCity: "Berlin",
			SourceFile:    "b.pdf",
		},
		{OrderNumber: "ZL/3", SourceFile: "c.pdf"},
	}

	path, err := CreateOrdersStatement(orders, t.TempDir())
	require.NoError(t, err)

	f, err := ex.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{SummarySheet, "WGM1234", NoPlateSheet}, f.GetSheetList())

	rows, err := f.GetRows("WGM1234")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Nr zlecenia", rows[0][0])
	assert.Equal(t, "ZL/2", rows[1][0], "sorted by unloading date")
	assert.Equal(t, "ZL/1", rows[2][0])
	assert.Equal(t, "Hamburg", rows[2][5])
	assert.Equal(t, totalLabel, rows[3][0])
	assert.Equal(t, "1500", rows[3][3])

	rows, err = f.GetRows(NoPlateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ZL/3", rows[1][0])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "c.pdf", rows[1][6])

	rows, err = f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"WGM1234", "2", "1500", "750"}, rows[1])
	assert.Equal(t, totalLabel, rows[2][0])
}
