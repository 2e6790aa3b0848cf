package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// GenerateReport writes the report in the named format to a timestamped file
// in dir and returns the file names. "all" writes the verbose console text
// and the detailed CSV.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if report == nil {
		return nil, fmt.Errorf("no report to write")
	}
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			name, err := WriteFormatted(f, report, dir, extensionFor(f.Name()))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}

	f, err := lookup(format)
	if err != nil {
		return nil, err
	}
	name, err := WriteFormatted(f, report, dir, extensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// Render formats the report and writes it to w.
func Render(w io.Writer, report *domain.Report, format string) error {
	f, err := lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

func lookup(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	// enrich error with available formatters and aliases
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// IsBinaryFormat reports whether the named format should not go to a terminal.
func IsBinaryFormat(format string) bool {
	return NormalizeFormatName(format) == "pdf"
}

// SavePlan writes a plan as YAML so it can be loaded back with the input parser.
func SavePlan(plan *domain.Plan, filename string) error {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
