package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/internal/navdata"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// buildSeries creates a series from alternating date, NAV pairs.
func buildSeries(t *testing.T, points ...any) *navdata.PriceSeries {
	t.Helper()
	require.Zero(t, len(points)%2, "points must be date, nav pairs")
	var samples []domain.PriceSample
	for i := 0; i < len(points); i += 2 {
		samples = append(samples, domain.PriceSample{
			Date:  points[i].(time.Time),
			Price: dec(points[i+1].(string)),
		})
	}
	series, err := navdata.NewPriceSeries("TEST", samples)
	require.NoError(t, err)
	return series
}

// dailySeries returns one sample per day from start for days days, with the
// NAV produced by nav(i).
func dailySeries(t *testing.T, start time.Time, days int, nav func(i int) decimal.Decimal) *navdata.PriceSeries {
	t.Helper()
	samples := make([]domain.PriceSample, days)
	for i := range samples {
		samples[i] = domain.PriceSample{Date: start.AddDate(0, 0, i), Price: nav(i)}
	}
	series, err := navdata.NewPriceSeries("DAILY", samples)
	require.NoError(t, err)
	return series
}

func constantNAV(v string) func(int) decimal.Decimal {
	p := dec(v)
	return func(int) decimal.Decimal { return p }
}

func risingNAV(base string, perDay string) func(int) decimal.Decimal {
	b, step := dec(base), dec(perDay)
	return func(i int) decimal.Decimal { return b.Add(step.Mul(decimal.NewFromInt(int64(i)))) }
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
