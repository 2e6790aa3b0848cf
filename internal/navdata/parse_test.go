package navdata

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fund-calculator/internal/domain"
)

func TestParseCatalog(t *testing.T) {
	payload := []byte(`[
		{"schemeCode": 119551, "schemeName": "Aditya Birla Sun Life Banking & PSU Debt Fund - Direct - IDCW"},
		{"schemeCode": "120503", "schemeName": "Axis ELSS Tax Saver Fund - Direct Growth"},
		{"meta": {"scheme_code": 118989, "scheme_name": "HDFC Mid-Cap Opportunities Fund - Direct Growth"}},
		{"schemeCode": 1},
		{"schemeName": "No code"}
	]`)

	instruments, err := ParseCatalog(payload)
	require.NoError(t, err)
	require.Len(t, instruments, 3)
	assert.Equal(t, domain.Instrument{Code: "119551", Name: "Aditya Birla Sun Life Banking & PSU Debt Fund - Direct - IDCW"}, instruments[0])
	assert.Equal(t, "120503", instruments[1].Code)
	assert.Equal(t, "118989", instruments[2].Code)
	assert.Equal(t, "HDFC Mid-Cap Opportunities Fund - Direct Growth", instruments[2].Name)
}

func TestParseCatalog_NotAnArray(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"status":"error"}`))
	assert.True(t, errors.Is(err, domain.ErrDataFormat))
}

func TestParseHistory_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bare array", `[{"date":"03-01-2023","nav":"11.5"},{"date":"02-01-2023","nav":"10.25"}]`},
		{"wrapped object", `{"meta":{"scheme_code":100},"data":[{"date":"03-01-2023","nav":"11.5"},{"date":"02-01-2023","nav":"10.25"}],"status":"SUCCESS"}`},
		{"numeric nav", `{"data":[{"date":"03-01-2023","nav":11.5},{"date":"02-01-2023","nav":10.25}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := ParseHistory([]byte(tt.payload), "100")
			require.NoError(t, err)
			require.Equal(t, 2, series.Len())
			first, err := series.First()
			require.NoError(t, err)
			assert.True(t, first.Date.Equal(day(2023, 1, 2)))
			assert.True(t, first.Price.Equal(decimal.RequireFromString("10.25")))
		})
	}
}

func TestParseHistory_DropsBadEntries(t *testing.T) {
	payload := `{"data":[
		{"date":"03-01-2023","nav":"11.5"},
		{"date":"not-a-date","nav":"9"},
		{"date":"04-01-2023","nav":"N.A."},
		{"date":"05-01-2023","nav":"0.0000"},
		{"date":"06-01-2023","nav":"-3"}
	]}`
	series, err := ParseHistory([]byte(payload), "100")
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestParseHistory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		target  error
	}{
		{"empty payload", ``, domain.ErrDataFormat},
		{"scalar", `"nope"`, domain.ErrDataFormat},
		{"object without data", `{"meta":{}}`, domain.ErrDataFormat},
		{"no usable samples", `{"data":[]}`, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHistory([]byte(tt.payload), "100")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}
