package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/chaitu5981/money-lender/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"amt":  FormatAmount,
	"pct":  FormatPercentage,
	"date": FormatDate,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	open, hasOpen := openYear(report.Result)
	data := struct {
		*domain.Report
		OpenYear    domain.YearSummary
		HasOpenYear bool
	}{report, open, hasOpen}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
