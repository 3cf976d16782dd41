package output

import (
	"fmt"

	"github.com/chaitu5981/money-lender/internal/domain"
)

// GenerateReport writes report in the named format to dir and returns the
// written paths. "all" writes every registered format.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no calculation to report")
	}
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, name := range AvailableFormatterNames() {
			path, err := WriteFormatted(GetFormatterByName(name), report, dir, ExtensionFor(name))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, UnsupportedFormatError(format)
	}
	path, err := WriteFormatted(f, report, dir, ExtensionFor(format))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
