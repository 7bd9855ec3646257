package geosphere

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diwise/integration-geosphere/domain"
)

const (
	DefaultBaseURL   string = "https://dataset.api.hub.geosphere.at/v1"
	DefaultStationID string = "11241"

	dataset string = "tawes-v1-10min"
)

// timestamps are sent with millisecond precision in UTC, e.g. 2024-01-01T12:00:00.000Z
const isoLayout string = "2006-01-02T15:04:05.000Z07:00"

type Client interface {
	StationID() string
	Current(ctx context.Context) (*domain.StationResponse, error)
	Historical(ctx context.Context, start, end time.Time) (*domain.StationResponse, error)
}

type client struct {
	fetcher   Fetcher
	baseURL   string
	stationID string
}

func NewClient(fetcher Fetcher, baseURL, stationID string) Client {
	return &client{
		fetcher:   fetcher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		stationID: stationID,
	}
}

func (c *client) StationID() string {
	return c.stationID
}

func (c *client) CurrentURL() string {
	return fmt.Sprintf(
		"%s/station/current/%s?parameters=%s&station_ids=%s&output_format=geojson",
		c.baseURL, dataset, parameterList(domain.AverageWindSpeed, domain.GustWindSpeed, domain.AverageWindDirection, domain.GustWindDirection), c.stationID,
	)
}

func (c *client) HistoricalURL(start, end time.Time) string {
	return fmt.Sprintf(
		"%s/station/historical/%s?parameters=%s&station_ids=%s&output_format=geojson&start=%s&end=%s",
		c.baseURL, dataset, parameterList(domain.GustWindSpeed, domain.AverageWindSpeed, domain.AverageWindDirection, domain.GustWindDirection), c.stationID,
		start.UTC().Format(isoLayout), end.UTC().Format(isoLayout),
	)
}

func (c *client) Current(ctx context.Context) (*domain.StationResponse, error) {
	data := &domain.StationResponse{}

	err := c.fetcher.Fetch(ctx, c.CurrentURL(), data)
	if err != nil {
		return nil, err
	}

	err = Validate(data, 1)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (c *client) Historical(ctx context.Context, start, end time.Time) (*domain.StationResponse, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	data := &domain.StationResponse{}

	err := c.fetcher.Fetch(ctx, c.HistoricalURL(start, end), data)
	if err != nil {
		return nil, err
	}

	err = Validate(data, 0)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Validate checks that the response carries one feature with all wind parameters
// and that every data array is index aligned with the timestamps.
func Validate(data *domain.StationResponse, minSamples int) error {
	if data == nil {
		return fmt.Errorf("%w: empty response", ErrDecode)
	}

	if len(data.Timestamps) < minSamples {
		return fmt.Errorf("%w: expected at least %d timestamps, got %d", ErrDecode, minSamples, len(data.Timestamps))
	}

	if len(data.Features) == 0 {
		return fmt.Errorf("%w: response contains no features", ErrDecode)
	}

	parameters := data.Features[0].Properties.Parameters

	for _, code := range []string{domain.AverageWindSpeed, domain.GustWindSpeed, domain.AverageWindDirection, domain.GustWindDirection} {
		p, ok := parameters[code]
		if !ok {
			return fmt.Errorf("%w: parameter %s missing from response", ErrDecode, code)
		}
		if len(p.Data) != len(data.Timestamps) {
			return fmt.Errorf("%w: parameter %s has %d values but there are %d timestamps", ErrDecode, code, len(p.Data), len(data.Timestamps))
		}
	}

	return nil
}

func parameterList(codes ...string) string {
	return strings.Join(codes, ",")
}
