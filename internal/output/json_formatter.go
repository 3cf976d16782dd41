package output

import (
	"encoding/json"

	"github.com/chaitu5981/money-lender/internal/domain"
)

// JSONFormatter serializes the report as pretty-printed JSON. Amounts keep
// their full precision as decimal strings.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
