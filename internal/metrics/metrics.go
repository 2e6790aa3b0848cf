package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// APIFetches counts requests to the NAV API by endpoint and outcome.
	APIFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navcalc_api_fetches_total",
			Help: "Requests made to the NAV API",
		},
		[]string{"endpoint", "status"},
	)

	// CacheLookups counts series cache lookups by result (hit, miss, stale, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navcalc_cache_lookups_total",
			Help: "NAV history cache lookups",
		},
		[]string{"result"},
	)

	// Calculations counts calculator runs by type and outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navcalc_calculations_total",
			Help: "Calculator invocations",
		},
		[]string{"type", "status"},
	)
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteText dumps every registered metric in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
