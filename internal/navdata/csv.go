package navdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// LoadCSVFile reads a NAV history exported as CSV. The instrument id defaults
// to the file name without extension when empty.
func LoadCSVFile(path, instrumentID string) (*PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	if instrumentID == "" {
		instrumentID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ReadCSV(file, instrumentID)
}

// ReadCSV parses "date,nav" rows after a header line. Dates may be
// YYYY-MM-DD or DD-MM-YYYY. Malformed rows are skipped.
func ReadCSV(r io.Reader, instrumentID string) (*PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.DataFormatError{Source: "csv " + instrumentID, Detail: "failed to read header", Err: err}
	}
	if len(header) < 2 {
		return nil, &domain.DataFormatError{Source: "csv " + instrumentID, Detail: "expected at least 2 columns (date,nav)"}
	}

	var samples []domain.PriceSample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.DataFormatError{Source: "csv " + instrumentID, Detail: "failed to read data row", Err: err}
		}
		if len(record) < 2 {
			continue
		}
		if s, ok := parseSample(record[0], record[1]); ok {
			samples = append(samples, s)
		}
	}

	return NewPriceSeries(instrumentID, samples)
}

// WriteCSV writes the series in the format ReadCSV accepts.
func WriteCSV(w io.Writer, series *PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "nav"}); err != nil {
		return err
	}
	for _, s := range series.Samples() {
		if err := cw.Write([]string{s.Date.Format("2006-01-02"), s.Price.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
