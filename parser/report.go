package parser

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// noDate sorts orders without an unloading date after every dated one.
const noDate = "9999-99-99"

// Summary counts one batch run.
type Summary struct {
	TotalPdfs    int `json:"total_pdfs"`
	Successful   int `json:"successful"`
	Failed       int `json:"failed"`
	UniquePlates int `json:"unique_plates"`
}

func (s Summary) Incomplete() int {
	return s.TotalPdfs - s.Successful - s.Failed
}

// PlateTotal is the freight earned by one truck.
type PlateTotal struct {
	Plate   string
	Total   float64
	Count   int
	Average float64
}

// GroupByPlate copies the orders into per-plate groups sorted by unloading
// date. Orders without a plate are returned separately, also by date.
func GroupByPlate(orders []*Order) (map[string][]*Order, []*Order, error) {
	grouped := make(map[string][]*Order)
	noPlate := make([]*Order, 0)

	for _, order := range orders {
		if order == nil {
			continue
		}
		c := new(Order)
		if err := deepcopy.Copy(c, order); err != nil {
			return nil, nil, fmt.Errorf("err making a deepcopy: %v", err)
		}
		c.CreatedAt = order.CreatedAt

		if c.LicensePlate == "" {
			noPlate = append(noPlate, c)
			continue
		}
		grouped[c.LicensePlate] = append(grouped[c.LicensePlate], c)
	}

	for _, group := range grouped {
		slices.SortStableFunc(group, byUnloadingDate)
	}
	slices.SortStableFunc(noPlate, byUnloadingDate)

	return grouped, noPlate, nil
}

func byUnloadingDate(a, b *Order) int {
	return cmp.Compare(sortDate(a), sortDate(b))
}

func sortDate(o *Order) string {
	if o.UnloadingDate == "" {
		return noDate
	}
	return o.UnloadingDate
}

// Plates returns the group keys in alphabetical order.
func Plates(grouped map[string][]*Order) []string {
	plates := make([]string, 0, len(grouped))
	for plate := range grouped {
		plates = append(plates, plate)
	}
	slices.Sort(plates)
	return plates
}

// FreightTotals sums freight per plate, highest total first.
func FreightTotals(grouped map[string][]*Order) []PlateTotal {
	totals := make([]PlateTotal, 0, len(grouped))
	for _, plate := range Plates(grouped) {
		t := PlateTotal{Plate: plate, Count: len(grouped[plate])}
		for _, order := range grouped[plate] {
			t.Total += order.Freight
		}
		if t.Count > 0 {
			t.Average = t.Total / float64(t.Count)
		}
		totals = append(totals, t)
	}
	slices.SortStableFunc(totals, func(a, b PlateTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return totals
}

type report struct {
	Summary        Summary             `json:"summary"`
	GroupedByPlate map[string][]*Order `json:"grouped_by_plate"`
	NoPlate        []*Order            `json:"no_plate"`
}

// SaveJSON writes the batch result document to path.
func SaveJSON(path string, grouped map[string][]*Order, noPlate []*Order, summary Summary) error {
	if grouped == nil {
		grouped = map[string][]*Order{}
	}
	if noPlate == nil {
		noPlate = []*Order{}
	}

	data, err := json.MarshalIndent(report{Summary: summary, GroupedByPlate: grouped, NoPlate: noPlate}, "", "  ")
	if err != nil {
		return fmt.Errorf("ERR: marshal results: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ERR: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ERR: write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a document written by SaveJSON.
func LoadJSON(path string) (map[string][]*Order, []*Order, Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, Summary{}, fmt.Errorf("ERR: read %s: %w", path, err)
	}
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, nil, Summary{}, fmt.Errorf("ERR: decode %s: %w", path, err)
	}
	return r.GroupedByPlate, r.NoPlate, r.Summary, nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// PrintGrouped writes the per-plate tables.
func PrintGrouped(w io.Writer, grouped map[string][]*Order, noPlate []*Order) {
	separator := strings.Repeat("=", 70)
	rule := strings.Repeat("-", 70)

	fmt.Fprintf(w, "\n%s\nRESULTS BY LICENSE PLATE\n%s\n", separator, separator)

	for _, plate := range Plates(grouped) {
		orders := grouped[plate]
		fmt.Fprintf(w, "\n%s\nPLATE: %s (%d orders)\n%s\n", separator, plate, len(orders), separator)
		fmt.Fprintf(w, "%-15s %-40s %-60s %-12s %-10s %-30s\n", "Order", "Loading City", "Unloading City", "Date", "Freight", "File")
		fmt.Fprintln(w, rule)

		var total float64
		for _, o := range orders {
			fmt.Fprintf(w, "%-15s %-40s %-60s %-12s %-10.2f %-30s\n",
				orNA(o.OrderNumber), orDash(o.LoadingCity), orDash(o.UnloadingCity),
				orNA(o.UnloadingDate), o.Freight, truncate(orNA(o.SourceFile), 28))
			total += o.Freight
		}
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-15s %-12s %-10.2f EUR\n", "TOTAL:", "", total)
	}

	if len(noPlate) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\nWITHOUT PLATE (%d orders)\n%s\n", separator, len(noPlate), separator)
	for _, o := range noPlate {
		fmt.Fprintf(w, "  • %-15s %s -> %s | %s - %s\n",
			orNA(o.OrderNumber), orDash(o.LoadingCity), orDash(o.UnloadingCity), orNA(o.UnloadingDate), orNA(o.SourceFile))
	}
}

func PrintSummary(w io.Writer, summary Summary, noPlate int) {
	fmt.Fprintf(w, "\nTotal PDFs processed: %d\n", summary.TotalPdfs)
	fmt.Fprintf(w, "Successful: %d\n", summary.Successful)
	fmt.Fprintf(w, "Incomplete: %d\n", summary.Incomplete())
	fmt.Fprintf(w, "Failed: %d\n", summary.Failed)
	fmt.Fprintf(w, "\nUnique license plates: %d\n", summary.UniquePlates)
	fmt.Fprintf(w, "Documents without plate: %d\n", noPlate)
}

func PrintFreightTotals(w io.Writer, totals []PlateTotal) {
	fmt.Fprintln(w, "\nTOTAL FREIGHT BY PLATE")
	for _, t := range totals {
		fmt.Fprintf(w, "%-12s : %8.2f EUR (%d orders, avg: %.2f EUR)\n", t.Plate, t.Total, t.Count, t.Average)
	}
}
