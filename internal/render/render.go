// Package render writes a PivotTable for people: a terminal table or a standalone HTML page.
package render

import (
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"

	"github.com/staffhours/backend/internal/model"
	"github.com/staffhours/backend/internal/pkg/apperr"
)

type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", apperr.ErrInvalidArgument.Msg("unknown report format %q: expected text or html", s)
}

const (
	headerPerson   = "Person"
	headerTotal    = "Total"
	headerProjects = "Projects"
	footerTotal    = "Total"
)

func Write(w io.Writer, format Format, pivot *model.PivotTable) error {
	switch format {
	case FormatHTML:
		return writeHTML(w, pivot)
	default:
		return writeText(w, pivot)
	}
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

func writeText(w io.Writer, pivot *model.PivotTable) error {
	headers := append([]string{headerPerson}, pivot.Days...)
	headers = append(headers, headerTotal, headerProjects)

	rows := make([][]string, 0, len(pivot.Rows)+1)
	for _, row := range pivot.Rows {
		cells := []string{row.Label}
		for _, h := range row.Hours {
			cells = append(cells, hours(h))
		}
		cells = append(cells, hours(row.Total), strings.Join(row.Projects, ", "))
		rows = append(rows, cells)
	}
	footer := []string{footerTotal}
	for _, h := range pivot.DayTotals {
		footer = append(footer, hours(h))
	}
	footer = append(footer, hours(pivot.GrandTotal), "")
	rows = append(rows, footer)

	lastNumeric := len(pivot.Days) + 1
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 1 && col <= lastNumeric:
				return numberStyle
			default:
				return labelStyle
			}
		})

	title := titleStyle.Render("Hours by person, organization " + strconv.FormatInt(pivot.OrganizationID, 10))
	if len(pivot.Days) > 0 {
		title += " (" + pivot.Days[0] + " to " + pivot.Days[len(pivot.Days)-1] + ")"
	}

	_, err := io.WriteString(w, title+"\n"+t.String()+"\n")
	return errors.Wrap(err, "failed to write text report")
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"hours": hours,
	"join":  strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Hours by person, organization {{.OrganizationID}}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
tfoot td { font-weight: bold; }
</style>
</head>
<body>
<h1>Hours by person, organization {{.OrganizationID}}</h1>
<table>
<thead>
<tr><th>Person</th>{{range .Days}}<th>{{.}}</th>{{end}}<th>Total</th><th>Projects</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Label}}</td>{{range .Hours}}<td class="num">{{hours .}}</td>{{end}}<td class="num">{{hours .Total}}</td><td>{{join .Projects ", "}}</td></tr>
{{- end}}
</tbody>
<tfoot>
<tr><td>Total</td>{{range .DayTotals}}<td class="num">{{hours .}}</td>{{end}}<td class="num">{{hours .GrandTotal}}</td><td></td></tr>
</tfoot>
</table>
</body>
</html>
`))

func writeHTML(w io.Writer, pivot *model.PivotTable) error {
	return errors.Wrap(htmlReport.Execute(w, pivot), "failed to write html report")
}
