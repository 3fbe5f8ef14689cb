package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ordersbot/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofrs/uuid"
)

// Order is one resolved transport order. Empty strings and a zero freight
// mean the field was not found.
type Order struct {
	Id               uuid.UUID
	OrderNumber      string  `excel:"Nr zlecenia"`
	UnloadingDate    string  `excel:"Termin rozładunku"`
	LicensePlate     string  `excel:"Tablica"`
	Freight          float64 `excel:"Fracht (EUR)"`
	LoadingCity      string  `excel:"Miejsce załadunku"`
	UnloadingCity    string  `excel:"Miejsce rozładunku"`
	LoadingCountry   string
	UnloadingCountry string
	SourceFile       string `excel:"Plik"`
	DocId            int
	ChatId           int64
	CreatedAt        time.Time
}

const (
	KeyOrderNumber   = "zlecenie_nr"
	KeyUnloadingDate = "termin_rozladunku"
	KeyLicensePlate  = "tablica_rejestracyjna"
	KeyFreight       = "fracht"
	KeyLoadingCity   = "miejsce_zaladunku"
	KeyUnloadingCity = "miejsce_rozladunku"
)

type orderJSON struct {
	Id            string   `json:"id"`
	OrderNumber   *string  `json:"zlecenie_nr"`
	UnloadingDate *string  `json:"termin_rozladunku"`
	LicensePlate  *string  `json:"tablica_rejestracyjna"`
	Freight       *float64 `json:"fracht"`
	LoadingCity   *string  `json:"miejsce_zaladunku"`
	UnloadingCity *string  `json:"miejsce_rozladunku"`
	SourceFile    string   `json:"source_file"`
}

// MarshalJSON writes absent fields as null.
func (o *Order) MarshalJSON() ([]byte, error) {
	out := orderJSON{
		OrderNumber:   nullable(o.OrderNumber),
		UnloadingDate: nullable(o.UnloadingDate),
		LicensePlate:  nullable(o.LicensePlate),
		LoadingCity:   nullable(o.LoadingCity),
		UnloadingCity: nullable(o.UnloadingCity),
		SourceFile:    o.SourceFile,
	}
	if o.Id != uuid.Nil {
		out.Id = o.Id.String()
	}
	if o.Freight > 0 {
		freight := o.Freight
		out.Freight = &freight
	}
	return json.Marshal(out)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var in orderJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*o = Order{SourceFile: in.SourceFile}
	if in.Id != "" {
		id, err := uuid.FromString(in.Id)
		if err != nil {
			return fmt.Errorf("order id: %w", err)
		}
		o.Id = id
	}
	o.OrderNumber = deref(in.OrderNumber)
	o.UnloadingDate = deref(in.UnloadingDate)
	o.LicensePlate = deref(in.LicensePlate)
	o.LoadingCity = deref(in.LoadingCity)
	o.UnloadingCity = deref(in.UnloadingCity)
	if in.Freight != nil {
		o.Freight = *in.Freight
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Missing lists the JSON keys of every absent field.
func (o *Order) Missing() []string {
	missing := make([]string, 0)
	if o.OrderNumber == "" {
		missing = append(missing, KeyOrderNumber)
	}
	if o.UnloadingDate == "" {
		missing = append(missing, KeyUnloadingDate)
	}
	if o.LicensePlate == "" {
		missing = append(missing, KeyLicensePlate)
	}
	if o.Freight <= 0 {
		missing = append(missing, KeyFreight)
	}
	if o.LoadingCity == "" {
		missing = append(missing, KeyLoadingCity)
	}
	if o.UnloadingCity == "" {
		missing = append(missing, KeyUnloadingCity)
	}
	return missing
}

func (o *Order) Complete() bool {
	return len(o.Missing()) == 0
}

// Extractor combines the simple-field scraper with city resolution.
type Extractor struct {
	fields *FieldExtractor
	cities *CityExtractor
}

func NewExtractor(fields *FieldExtractor, cities *CityExtractor) *Extractor {
	if fields == nil {
		fields = NewFieldExtractor(DefaultFreightMin, DefaultFreightMax, nil)
	}
	if cities == nil {
		cities = NewCityExtractor(CityExtractorConfig{})
	}
	return &Extractor{fields: fields, cities: cities}
}

func (x *Extractor) Cities() *CityExtractor {
	return x.cities
}

// ExtractOrder builds an Order from a document's text. Fields that cannot be
// found stay empty; only id generation can fail.
func (x *Extractor) ExtractOrder(ctx context.Context, text, sourceFile string) (*Order, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("ERR: generate order id: %w", err)
	}

	fields := x.fields.Extract(text)
	cities := x.cities.Extract(ctx, text)
	loadingCountry, unloadingCountry := x.cities.SectionCountries(text)

	return &Order{
		Id:               id,
		OrderNumber:      fields.OrderNumber,
		UnloadingDate:    fields.UnloadingDate,
		LicensePlate:     fields.LicensePlate,
		Freight:          fields.Freight,
		LoadingCity:      cities.Loading,
		UnloadingCity:    cities.Unloading,
		LoadingCountry:   loadingCountry,
		UnloadingCountry: unloadingCountry,
		SourceFile:       sourceFile,
		CreatedAt:        time.Now(),
	}, nil
}

// ReadOrder formats an order as an HTML bot message.
func ReadOrder(o *Order, lang config.LangCode) string {
	var b strings.Builder
	placeholder := config.Translate(lang, "field_missing")

	value := func(s string) string {
		if s == "" {
			return placeholder
		}
		return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
	}
	place := func(city, country string) string {
		if city == "" {
			return placeholder
		}
		city = tgbotapi.EscapeText(tgbotapi.ModeHTML, city)
		if c, ok := GetCountryByCode(country); ok {
			return fmt.Sprintf("%s %s", city, c.Emoji)
		}
		return city
	}

	fmt.Fprintf(&b, "<b>%s</b>: %s\n", config.Translate(lang, "order_number"), value(o.OrderNumber))
	fmt.Fprintf(&b, "<b>%s</b>: %s\n", config.Translate(lang, "unloading_date"), value(o.UnloadingDate))
	fmt.Fprintf(&b, "<b>%s</b>: %s\n", config.Translate(lang, "license_plate"), value(o.LicensePlate))
	if o.Freight > 0 {
		fmt.Fprintf(&b, "<b>%s</b>: %.2f EUR\n", config.Translate(lang, "freight"), o.Freight)
	} else {
		fmt.Fprintf(&b, "<b>%s</b>: %s\n", config.Translate(lang, "freight"), placeholder)
	}
	fmt.Fprintf(&b, "<b>%s</b>: %s\n", config.Translate(lang, "loading_city"), place(o.LoadingCity, o.LoadingCountry))
	fmt.Fprintf(&b, "<b>%s</b>: %s\n", config.Translate(lang, "unloading_city"), place(o.UnloadingCity, o.UnloadingCountry))

	if missing := o.Missing(); len(missing) > 0 {
		fmt.Fprintf(&b, "\n<i>%s</i>\n", config.Translate(lang, "order_incomplete", len(missing)))
	}
	return b.String()
}
