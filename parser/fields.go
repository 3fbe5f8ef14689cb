package parser

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultFreightMin = 50
	DefaultFreightMax = 5000
)

var orderNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Zlecenie\s+Nr\.?\s*(\d{2}/\d{4}[A-Z])`),
	regexp.MustCompile(`(?i)Speditionsauftrag\s+Nr\.?\s*(\d{2}/\d{4}[A-Z])`),
	regexp.MustCompile(`(?i)Nr\.?\s*(\d{2}/\d{4}[A-Z])`),
}

var unloadingDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Termin\s+rozładunku[:\s]+(\d{2}\.\d{2}\.\d{4})`),
	regexp.MustCompile(`(?i)Termin\s+rozladunku[:\s]+(\d{2}\.\d{2}\.\d{4})`),
	regexp.MustCompile(`(?i)Entladetermin\s*:?\s*(\d{2}\.\d{2}\.\d{4})`),
	regexp.MustCompile(`(?i)(?:Entlade|rozlad)[^\d]*(\d{2}\.\d{2}\.\d{4})`),
}

var licensePlatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Samoch[oó]d\s*:\s*(P[LPN]\d{4,5}[A-Z]?)`),
	regexp.MustCompile(`(?is)Samoch[oó]d\s*:.*?(P[LPN]\d{4,5}[A-Z])`),
	regexp.MustCompile(`(?is)LKW-Nr\.?\s*:?\s*(P[LPN]\d{4,5}[A-Z]?)`),
	regexp.MustCompile(`(?is)\b(P[LPN]\d{4,5}[A-Z]?)(?:/[A-Z0-9]+)?\b`),
}

var freightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Vereinbarter\s+Frachtpreis.*?(\d{1,2}[.\s]?\d{3},\d{2})\s*€`),
	regexp.MustCompile(`(?is)uzgodniony\s+Fracht.*?(\d{1,2}[.\s]?\d{3},\d{2})\s*€`),
	regexp.MustCompile(`(?is)Vereinbarter\s+Frachtpreis.*?(\d{3,4},\d{2})\s*€`),
	regexp.MustCompile(`(?is)uzgodniony\s+Fracht.*?(\d{3,4},\d{2})\s*€`),
	regexp.MustCompile(`(?is)Frachtpreis.*?(\d{1,2}[.\s]?\d{3},\d{2})\s*€`),
	regexp.MustCompile(`(?is)Frachtpreis.*?(\d{3,4},\d{2})\s*€`),
}

// Fields are the single-value fields of an order. Zero values mean absent.
type Fields struct {
	OrderNumber   string
	UnloadingDate string // YYYY-MM-DD
	LicensePlate  string
	Freight       float64
}

// FieldExtractor scrapes the simple fields with direct pattern matches.
type FieldExtractor struct {
	FreightMin float64
	FreightMax float64
	Logger     *zap.Logger
}

func NewFieldExtractor(freightMin, freightMax float64, logger *zap.Logger) *FieldExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if freightMax <= 0 {
		freightMin, freightMax = DefaultFreightMin, DefaultFreightMax
	}
	return &FieldExtractor{FreightMin: freightMin, FreightMax: freightMax, Logger: logger}
}

func (f *FieldExtractor) Extract(text string) Fields {
	fields := Fields{
		OrderNumber:   f.orderNumber(text),
		UnloadingDate: f.unloadingDate(text),
		LicensePlate:  f.licensePlate(text),
		Freight:       f.freight(text),
	}
	f.logger().Debug("Fields extracted",
		zap.String("order_number", fields.OrderNumber),
		zap.String("unloading_date", fields.UnloadingDate),
		zap.String("license_plate", fields.LicensePlate),
		zap.Float64("freight", fields.Freight))
	return fields
}

func (f *FieldExtractor) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

func (f *FieldExtractor) orderNumber(text string) string {
	for _, pattern := range orderNumberPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func (f *FieldExtractor) unloadingDate(text string) string {
	for _, pattern := range unloadingDatePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return formatDate(m[1])
		}
	}
	return ""
}

func (f *FieldExtractor) licensePlate(text string) string {
	for _, pattern := range licensePlatePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return cleanPlate(m[1])
		}
	}
	return ""
}

// freight accepts "1.234,56 €", "1 234,56 €" and "950,00 €" inside the
// configured range. An out of range price lets the next pattern try.
func (f *FieldExtractor) freight(text string) float64 {
	for _, pattern := range freightPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.NewReplacer(".", "", " ", "", "\t", "", "\n", "", ",", ".").Replace(m[1])
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			f.logger().Debug("Freight price not a number", zap.String("raw", m[1]), zap.Error(err))
			continue
		}
		if value >= f.FreightMin && value <= f.FreightMax {
			return value
		}
	}
	return 0
}

// formatDate turns DD.MM.YYYY into YYYY-MM-DD.
func formatDate(date string) string {
	parts := strings.Split(date, ".")
	if len(parts) != 3 {
		return ""
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

func cleanPlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	plate, _, _ = strings.Cut(plate, "/")
	return plate
}
