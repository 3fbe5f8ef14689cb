package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `excel:"City"`
	Zip  string
}

type row struct {
	Name    string `excel:"Name"`
	Count   int    `excel:"Count"`
	Address address
	When    time.Time `excel:"When"`
	hidden  string
}

func TestGetTaggedFields(t *testing.T) {
	fields, err := GetTaggedFields(row{}, "excel")
	require.NoError(t, err)

	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"Name", "Count", "Address.City", "When"}, paths)
}

func TestGetTaggedValues(t *testing.T) {
	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &row{Name: "a", Count: 2, Address: address{City: "Poznań", Zip: "60-001"}, When: when, hidden: "x"}

	values, err := GetTaggedValues(r, "excel")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", 2, "Poznań", when}, values)
}

func TestGetTagValue(t *testing.T) {
	v, err := GetTagValue(row{}, "Address.City", "excel")
	require.NoError(t, err)
	assert.Equal(t, "City", v)

	_, err = GetTagValue(row{}, "Missing", "excel")
	assert.Error(t, err)

	_, err = GetTagValue(42, "Name", "excel")
	assert.Error(t, err)
}

func TestGetAllTags(t *testing.T) {
	tags, err := GetAllTags(row{}, "excel")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Name": "Name", "Count": "Count", "Address.City": "City", "When": "When"}, tags)
}
