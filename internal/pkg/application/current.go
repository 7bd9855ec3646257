package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application/formatting"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/rs/zerolog"
)

type DisplayValues struct {
	Header           string
	AverageSpeed     string
	GustSpeed        string
	AverageDirection string
	GustDirection    string
}

func NewDisplayValues(c domain.Conditions) DisplayValues {
	return DisplayValues{
		Header:           fmt.Sprintf("Letzte Aktualisierung: %s", formatting.FormatTimestamp(c.Observed)),
		AverageSpeed:     formatting.FormatSpeed(c.AverageWindSpeed),
		GustSpeed:        formatting.FormatSpeed(c.GustWindSpeed),
		AverageDirection: formatting.FormatDirection(c.AverageWindDirection),
		GustDirection:    formatting.FormatDirection(c.GustWindDirection),
	}
}

func (i *integrationGeosphere) UpdateCurrent(ctx context.Context) error {
	var err error

	ctx, span := tracer.Start(ctx, "update-current")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := i.logger.With().Str("station_id", i.client.StationID()).Logger()

	var data *domain.StationResponse
	data, err = i.client.Current(ctx)
	if err != nil {
		return i.fail(logger, err, "failed to load current conditions")
	}

	var conditions domain.Conditions
	conditions, err = CurrentConditions(i.client.StationID(), data)
	if err != nil {
		return i.fail(logger, err, "failed to read current conditions")
	}

	values := NewDisplayValues(conditions)

	i.text.WriteText(SubHeader, values.Header)
	i.text.WriteText(WindAverage, values.AverageSpeed)
	i.text.WriteText(WindMax, values.GustSpeed)
	i.text.WriteText(DirectionAverage, values.AverageDirection)
	i.text.WriteText(DirectionMax, values.GustDirection)

	logger.Debug().Str("observed", values.Header).Str("wind_avg", values.AverageSpeed).Str("wind_max", values.GustSpeed).Msg("current conditions updated")

	err = i.publish(ctx, logger, conditions)
	if err != nil && i.policy == Propagate {
		return err
	}

	return nil
}

// CurrentConditions extracts the first sample of a validated current response.
func CurrentConditions(stationID string, data *domain.StationResponse) (domain.Conditions, error) {
	if len(data.Timestamps) == 0 || len(data.Features) == 0 {
		return domain.Conditions{}, fmt.Errorf("response contains no samples")
	}

	observed, err := formatting.ParseTimestamp(data.Timestamps[0])
	if err != nil {
		return domain.Conditions{}, err
	}

	feature := data.Features[0]
	first := func(code string) (float64, error) {
		p, ok := feature.Properties.Parameters[code]
		if !ok || len(p.Data) == 0 {
			return 0, fmt.Errorf("parameter %s has no data", code)
		}
		return p.Data[0], nil
	}

	c := domain.Conditions{
		StationID: stationID,
		Observed:  observed,
		Latitude:  feature.Geometry.Latitude(),
		Longitude: feature.Geometry.Longitude(),
	}

	for code, dst := range map[string]*float64{
		domain.AverageWindSpeed:     &c.AverageWindSpeed,
		domain.GustWindSpeed:        &c.GustWindSpeed,
		domain.AverageWindDirection: &c.AverageWindDirection,
		domain.GustWindDirection:    &c.GustWindDirection,
	} {
		*dst, err = first(code)
		if err != nil {
			return domain.Conditions{}, err
		}
	}

	return c, nil
}

func (i *integrationGeosphere) publish(ctx context.Context, logger zerolog.Logger, conditions domain.Conditions) error {
	var errs []error

	for _, p := range i.publishers {
		err := p.Publish(ctx, conditions)
		if err != nil {
			logger.Error().Err(err).Msg("failed to publish current conditions")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
