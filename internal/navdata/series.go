package navdata

import (
	"sort"
	"time"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// PriceSeries is the NAV history of one instrument: non-empty, sorted by
// date, one sample per calendar day. It is immutable after construction.
type PriceSeries struct {
	instrumentID string
	samples      []domain.PriceSample
}

// NewPriceSeries sorts and deduplicates samples (the later of two samples
// for the same day wins) and validates that every price is positive.
func NewPriceSeries(instrumentID string, samples []domain.PriceSample) (*PriceSeries, error) {
	if len(samples) == 0 {
		return nil, domain.NewInvalidInput("price series", "no NAV samples").WithInstrument(instrumentID)
	}

	byDay := make(map[time.Time]int, len(samples))
	deduped := make([]domain.PriceSample, 0, len(samples))
	for _, s := range samples {
		if !s.Price.IsPositive() {
			return nil, domain.NewInvalidInput("price series", "non-positive NAV %s", s.Price).
				WithInstrument(instrumentID).WithDate(s.Date)
		}
		s.Date = dateutil.Day(s.Date)
		if i, ok := byDay[s.Date]; ok {
			deduped[i] = s
			continue
		}
		byDay[s.Date] = len(deduped)
		deduped = append(deduped, s)
	}

	sort.SliceStable(deduped, func(i, j int) bool { return deduped[i].Date.Before(deduped[j].Date) })
	return &PriceSeries{instrumentID: instrumentID, samples: deduped}, nil
}

// InstrumentID returns the scheme code the series belongs to.
func (ps *PriceSeries) InstrumentID() string {
	if ps == nil {
		return ""
	}
	return ps.instrumentID
}

// Len returns the number of samples.
func (ps *PriceSeries) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.samples)
}

// Samples returns a copy of the samples in ascending date order.
func (ps *PriceSeries) Samples() []domain.PriceSample {
	if ps == nil {
		return nil
	}
	out := make([]domain.PriceSample, len(ps.samples))
	copy(out, ps.samples)
	return out
}

// First returns the earliest sample.
func (ps *PriceSeries) First() (domain.PriceSample, error) {
	if ps.Len() == 0 {
		return domain.PriceSample{}, domain.NewInvalidInput("first sample", "price series is empty").WithInstrument(ps.InstrumentID())
	}
	return ps.samples[0], nil
}

// Latest returns the most recent sample.
func (ps *PriceSeries) Latest() (domain.PriceSample, error) {
	if ps.Len() == 0 {
		return domain.PriceSample{}, domain.NewInvalidInput("latest sample", "price series is empty").WithInstrument(ps.InstrumentID())
	}
	return ps.samples[len(ps.samples)-1], nil
}

// ResolvePrice returns the NAV on date, carrying the last known NAV forward
// over days without a quote. Dates before the first sample resolve to the
// first sample's NAV.
func (ps *PriceSeries) ResolvePrice(date time.Time) (decimal.Decimal, error) {
	if ps.Len() == 0 {
		return decimal.Zero, domain.NewInvalidInput("resolve price", "price series is empty").
			WithInstrument(ps.InstrumentID()).WithDate(date)
	}
	day := dateutil.Day(date)
	// first index whose date is after day
	idx := sort.Search(len(ps.samples), func(i int) bool {
		return ps.samples[i].Date.After(day)
	})
	if idx == 0 {
		return ps.samples[0].Price, nil
	}
	return ps.samples[idx-1].Price, nil
}
