package presentation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application"
	"github.com/matryer/is"
)

func TestThatBoardKeepsTheLastWrittenText(t *testing.T) {
	is := is.New(t)

	b := NewBoard()
	b.WriteText(application.WindAverage, "10 km/h")
	b.WriteText(application.WindAverage, "18 km/h")

	is.Equal(b.Text(application.WindAverage), "18 km/h")
	is.Equal(b.Text(application.WindMax), "")

	s := b.Snapshot()
	is.Equal(s.Regions["wind_avg"], "18 km/h")
	is.True(s.Updated != nil)
	is.True(s.Chart == nil)
}

func TestThatBoardStoresTheRenderedChart(t *testing.T) {
	is := is.New(t)

	b := NewBoard()

	_, ok := b.Chart()
	is.True(!ok)

	b.RenderChart(testChart())

	c, ok := b.Chart()
	is.True(ok)
	is.Equal(c.ID, "chart24h")

	s := b.Snapshot()
	is.Equal(len(s.Chart.Series), 2)
	is.Equal(s.Chart.Series[1].Label, "Windspitzen (km/h)")
}

func TestRenderLineChart(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	err := RenderLineChart(buf, testChart())
	is.NoErr(err)

	html := buf.String()
	is.True(strings.Contains(html, "Windspitzen"))
	is.True(strings.Contains(html, "chart24h"))
}

func TestThatRenderLineChartRejectsMisalignedSeries(t *testing.T) {
	is := is.New(t)

	c := testChart()
	c.Series[0].Data = c.Series[0].Data[:1]

	err := RenderLineChart(&bytes.Buffer{}, c)
	is.True(err != nil)
}

func testChart() domain.Chart {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	return domain.Chart{
		ID:         "chart24h",
		Timestamps: []time.Time{now.Add(-10 * time.Minute), now},
		Series: []domain.Series{
			{Label: "Wind (km/h)", Color: "rgba(75, 192, 192, 1)", Data: []float64{3.6, 7.2}},
			{Label: "Windspitzen (km/h)", Color: "rgba(255, 99, 132, 1)", Data: []float64{10.8, 14.4}},
		},
	}
}
