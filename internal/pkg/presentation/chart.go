package presentation

import (
	"fmt"
	"io"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	lineWidth  float32 = 2
	symbolSize int     = 2
)

// RenderLineChart writes chart as a standalone HTML page with a time x-axis
// labelled HH:mm and a y-axis starting at zero.
func RenderLineChart(w io.Writer, chart domain.Chart) error {
	for _, s := range chart.Series {
		if len(s.Data) != len(chart.Timestamps) {
			return fmt.Errorf("series %q has %d values but there are %d timestamps", s.Label, len(s.Data), len(chart.Timestamps))
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Wind 24h",
			ChartID:   chart.ID,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "time",
			AxisLabel: &opts.AxisLabel{Formatter: "{HH}:{mm}"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Min:  0,
		}),
	)

	for _, s := range chart.Series {
		line.AddSeries(s.Label, lineData(chart, s),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: lineWidth}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	return line.Render(w)
}

func lineData(chart domain.Chart, s domain.Series) []opts.LineData {
	data := make([]opts.LineData, 0, len(s.Data))

	for i, v := range s.Data {
		data = append(data, opts.LineData{
			Value:      []interface{}{chart.Timestamps[i].UnixMilli(), v},
			SymbolSize: symbolSize,
		})
	}

	return data
}
