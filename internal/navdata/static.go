package navdata

import (
	"context"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// StaticSource serves preloaded series, such as CSV imports, through the
// Source interface. Each series becomes a catalog entry named after its id.
type StaticSource struct {
	series map[string]*PriceSeries
	order  []string
}

// NewStaticSource indexes series by instrument id.
func NewStaticSource(series ...*PriceSeries) *StaticSource {
	s := &StaticSource{series: make(map[string]*PriceSeries, len(series))}
	for _, ps := range series {
		id := ps.InstrumentID()
		if _, ok := s.series[id]; !ok {
			s.order = append(s.order, id)
		}
		s.series[id] = ps
	}
	return s
}

func (s *StaticSource) FetchCatalog(context.Context) ([]domain.Instrument, error) {
	instruments := make([]domain.Instrument, 0, len(s.order))
	for _, id := range s.order {
		instruments = append(instruments, domain.Instrument{Code: id, Name: id})
	}
	return instruments, nil
}

func (s *StaticSource) FetchHistory(_ context.Context, instrumentID string) (*PriceSeries, error) {
	ps, ok := s.series[instrumentID]
	if !ok {
		return nil, &domain.NotFoundError{Query: instrumentID}
	}
	return ps, nil
}
