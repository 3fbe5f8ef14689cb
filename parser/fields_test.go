package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldExtractorOrders(t *testing.T) {
	f := NewFieldExtractor(DefaultFreightMin, DefaultFreightMax, nil)

	assert.Equal(t, Fields{
		OrderNumber:   "12/2024A",
		UnloadingDate: "2024-03-12",
		LicensePlate:  "PN12345A",
		Freight:       1250,
	}, f.Extract(plOrder))

	assert.Equal(t, Fields{
		OrderNumber:   "05/2024B",
		UnloadingDate: "2024-04-03",
		LicensePlate:  "PN1234A",
		Freight:       980,
	}, f.Extract(deOrder))
}

func TestFieldExtractorVariants(t *testing.T) {
	f := NewFieldExtractor(0, 0, nil)
	assert.Equal(t, float64(DefaultFreightMin), f.FreightMin)
	assert.Equal(t, float64(DefaultFreightMax), f.FreightMax)

	tests := []struct {
		name string
		text string
		want Fields
	}{
		{
			name: "plain spelling",
			text: "Termin rozladunku 01.02.2024",
			want: Fields{UnloadingDate: "2024-02-01"},
		},
		{
			name: "bare order number",
			text: "Nr 07/2023Z",
			want: Fields{OrderNumber: "07/2023Z"},
		},
		{
			name: "space grouped freight",
			text: "Vereinbarter Frachtpreis: 1 234,56 €",
			want: Fields{Freight: 1234.56},
		},
		{
			name: "plate with trailer",
			text: "Ciągnik PL54321/NAC",
			want: Fields{LicensePlate: "PL54321"},
		},
		{
			name: "nothing",
			text: "",
			want: Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Extract(tt.text))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-12", formatDate("12.03.2024"))
	assert.Equal(t, "", formatDate("12-03-2024"))
}
