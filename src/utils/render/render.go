package render

import (
	"bytes"
	"fmt"

	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderWidgetChart renders a chart widget's data rows to a standalone HTML
// page. Only chart kinds are renderable; table and card widgets are served as
// JSON by the data endpoint.
func RenderWidgetChart(kind, title string, rows []schemas.WidgetDataRow) (string, error) {
	switch kind {
	case "pie":
		return renderPie(title, rows)
	case "bar", "line":
		return renderBar(title, rows)
	default:
		return "", fmt.Errorf("chart kind %q is not renderable", kind)
	}
}

func renderPie(title string, rows []schemas.WidgetDataRow) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	items := make([]opts.PieData, 0, len(rows))
	for i, row := range rows {
		items = append(items, opts.PieData{
			Name:  row.Label,
			Value: row.Value,
			ItemStyle: &opts.ItemStyle{
				Color: utils.GetChartColor(i),
			},
		})
	}
	pie.AddSeries(title, items)

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderBar(title string, rows []schemas.WidgetDataRow) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	items := make([]opts.BarData, 0, len(rows))
	labels := make([]string, 0, len(rows))
	for i, row := range rows {
		items = append(items, opts.BarData{
			Value: row.Value,
			ItemStyle: &opts.ItemStyle{
				Color: utils.GetChartColor(i),
			},
		})
		labels = append(labels, row.Label)
	}
	bar.SetXAxis(labels).AddSeries(title, items)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
