package application

import (
	"context"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application/formatting"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

const (
	ChartID     string = "chart24h"
	HistorySpan        = 24 * time.Hour

	averageLabel string = "Wind (km/h)"
	averageColor string = "rgba(75, 192, 192, 1)"
	gustLabel    string = "Windspitzen (km/h)"
	gustColor    string = "rgba(255, 99, 132, 1)"
)

func (i *integrationGeosphere) UpdateHistory(ctx context.Context) error {
	var err error

	ctx, span := tracer.Start(ctx, "update-history")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := i.logger.With().Str("station_id", i.client.StationID()).Logger()

	end := i.now()
	start := end.Add(-HistorySpan)

	var data *domain.StationResponse
	data, err = i.client.Historical(ctx, start, end)
	if err != nil {
		return i.fail(logger, err, "failed to load wind history")
	}

	var chart domain.Chart
	chart, err = NewWindChart(data)
	if err != nil {
		return i.fail(logger, err, "failed to build wind chart")
	}

	i.chart.RenderChart(chart)

	logger.Debug().Int("samples", len(chart.Timestamps)).Msg("wind history updated")

	return nil
}

// NewWindChart converts the average and gust speed series of a validated
// historical response to km/h and drops a trailing sample that is zero in both.
func NewWindChart(data *domain.StationResponse) (domain.Chart, error) {
	timestamps := make([]time.Time, 0, len(data.Timestamps))
	for _, ts := range data.Timestamps {
		t, err := formatting.ParseTimestamp(ts)
		if err != nil {
			return domain.Chart{}, err
		}
		timestamps = append(timestamps, t)
	}

	var average, gust []float64
	if len(data.Features) > 0 {
		parameters := data.Features[0].Properties.Parameters
		average = toKilometersPerHour(parameters[domain.AverageWindSpeed].Data)
		gust = toKilometersPerHour(parameters[domain.GustWindSpeed].Data)
	}

	timestamps, average, gust = TrimTrailingZero(timestamps, average, gust)

	return domain.Chart{
		ID:         ChartID,
		Timestamps: timestamps,
		Series: []domain.Series{
			{Label: averageLabel, Color: averageColor, Data: average},
			{Label: gustLabel, Color: gustColor, Data: gust},
		},
	}, nil
}

// TrimTrailingZero drops the last timestamp and value of both series when the
// last value of both series is exactly zero. The upstream reports the interval
// that is still in progress that way.
func TrimTrailingZero(timestamps []time.Time, average, gust []float64) ([]time.Time, []float64, []float64) {
	last := len(timestamps) - 1
	if last < 0 || len(average) != len(timestamps) || len(gust) != len(timestamps) {
		return timestamps, average, gust
	}

	if average[last] == 0 && gust[last] == 0 {
		return timestamps[:last], average[:last], gust[:last]
	}

	return timestamps, average, gust
}

func toKilometersPerHour(data []float64) []float64 {
	result := make([]float64, 0, len(data))
	for _, v := range data {
		result = append(result, formatting.KilometersPerHour(v))
	}
	return result
}
