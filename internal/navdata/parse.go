package navdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// historyEntry is one row of the history payload: {"date":"DD-MM-YYYY","nav":"12.34"}.
type historyEntry struct {
	Date string     `json:"date"`
	NAV  flexString `json:"nav"`
}

// flexString accepts either a JSON number or a string (scheme codes and NAVs
// arrive in both forms).
type flexString string

func (c *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = flexString(n.String())
	return nil
}

type catalogEntry struct {
	SchemeName string     `json:"schemeName"`
	SchemeCode flexString `json:"schemeCode"`
	Meta       *struct {
		SchemeName string     `json:"scheme_name"`
		SchemeCode flexString `json:"scheme_code"`
	} `json:"meta"`
}

// ParseCatalog decodes the scheme list. Entries may carry the name and code
// at the top level or nested under "meta"; entries missing either are dropped.
func ParseCatalog(payload []byte) ([]domain.Instrument, error) {
	var entries []catalogEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, &domain.DataFormatError{Source: "catalog", Detail: "expected an array of schemes", Err: err}
	}

	instruments := make([]domain.Instrument, 0, len(entries))
	for _, e := range entries {
		name, code := strings.TrimSpace(e.SchemeName), string(e.SchemeCode)
		if e.Meta != nil {
			if name == "" {
				name = strings.TrimSpace(e.Meta.SchemeName)
			}
			if code == "" {
				code = string(e.Meta.SchemeCode)
			}
		}
		if name == "" || code == "" {
			continue
		}
		instruments = append(instruments, domain.Instrument{Code: code, Name: name})
	}
	return instruments, nil
}

// ParseHistory normalizes a history payload into a PriceSeries. The payload is
// either a bare array of entries or an object holding them under "data".
// Entries with an unparseable date or NAV, or a non-positive NAV, are dropped.
func ParseHistory(payload []byte, instrumentID string) (*PriceSeries, error) {
	entries, err := decodeHistoryEntries(payload, instrumentID)
	if err != nil {
		return nil, err
	}

	samples := make([]domain.PriceSample, 0, len(entries))
	for _, e := range entries {
		if s, ok := parseSample(e.Date, string(e.NAV)); ok {
			samples = append(samples, s)
		}
	}
	return NewPriceSeries(instrumentID, samples)
}

func decodeHistoryEntries(payload []byte, instrumentID string) ([]historyEntry, error) {
	trimmed := bytes.TrimSpace(payload)
	source := fmt.Sprintf("history of %s", instrumentID)
	if len(trimmed) == 0 {
		return nil, &domain.DataFormatError{Source: source, Detail: "empty payload"}
	}

	switch trimmed[0] {
	case '[':
		var entries []historyEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, &domain.DataFormatError{Source: source, Detail: "malformed entry array", Err: err}
		}
		return entries, nil
	case '{':
		var wrapped struct {
			Data *[]historyEntry `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, &domain.DataFormatError{Source: source, Detail: "malformed object", Err: err}
		}
		if wrapped.Data == nil {
			return nil, &domain.DataFormatError{Source: source, Detail: `object has no "data" array`}
		}
		return *wrapped.Data, nil
	default:
		return nil, &domain.DataFormatError{Source: source, Detail: "expected an array or an object with a data array"}
	}
}

func parseSample(rawDate, rawNAV string) (domain.PriceSample, bool) {
	d, err := dateutil.ParseDate(rawDate)
	if err != nil {
		return domain.PriceSample{}, false
	}
	nav, err := decimal.NewFromString(strings.TrimSpace(rawNAV))
	if err != nil || !nav.IsPositive() {
		return domain.PriceSample{}, false
	}
	return domain.PriceSample{Date: d, Price: nav}, true
}
