package lwm2m

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/farshidtz/senml/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tlsSkipVerify bool

func init() {
	tlsSkipVerify = env.GetVariableOrDefault(zerolog.Logger{}, "TLS_SKIP_VERIFY", "0") == "1"
}

var tracer = otel.Tracer("integration-geosphere/lwm2m")

// GenericSensorURN is the IPSO generic sensor object, 5700 holds the value and 5701 the unit.
const GenericSensorURN string = "urn:oma:lwm2m:ext:3300"

const (
	UnitMetersPerSecond string = "m/s"
	UnitDegrees         string = "deg"
)

type SenderFunc = func(context.Context, string, senml.Pack) error

type publisher struct {
	url    string
	sender SenderFunc
}

func NewPublisher(url string) *publisher {
	return &publisher{url: url, sender: Send}
}

func (p *publisher) Publish(ctx context.Context, conditions domain.Conditions) error {
	return CreateAndSendAsLWM2M(ctx, conditions, p.url, p.sender)
}

// CreateAndSendAsLWM2M sends one generic sensor pack per wind measurement.
func CreateAndSendAsLWM2M(ctx context.Context, conditions domain.Conditions, url string, sender SenderFunc) error {
	logger := logging.GetFromContext(ctx)
	log := logger.With().Str("station_id", conditions.StationID).Logger()

	measurements := []struct {
		name  string
		value float64
		unit  string
	}{
		{"windSpeed", conditions.AverageWindSpeed, UnitMetersPerSecond},
		{"gustSpeed", conditions.GustWindSpeed, UnitMetersPerSecond},
		{"windDirection", conditions.AverageWindDirection, UnitDegrees},
		{"gustDirection", conditions.GustWindDirection, UnitDegrees},
	}

	var errs []error

	for _, m := range measurements {
		deviceID := fmt.Sprintf("%s:%s", conditions.StationID, m.name)
		pack := newPack(GenericSensorURN, deviceID, m.value, m.unit, conditions.Observed)

		err := sender(ctx, url, pack)
		if err != nil {
			log.Error().Err(err).Str("measurement", m.name).Msg("could not send pack")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func newPack(baseName, id string, v float64, u string, t time.Time) senml.Pack {
	return senml.Pack{
		senml.Record{
			BaseName:    baseName,
			BaseTime:    float64(t.Unix()),
			Name:        "0",
			StringValue: id,
		},
		senml.Record{
			Name:  "5700",
			Value: &v,
			Unit:  u,
		},
		senml.Record{
			Name:        "5701",
			StringValue: u,
		},
	}
}

func Send(ctx context.Context, url string, pack senml.Pack) error {
	var err error

	ctx, span := tracer.Start(ctx, "send-object")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var httpClient http.Client

	if tlsSkipVerify {
		customTransport := http.DefaultTransport.(*http.Transport).Clone()
		customTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		httpClient = http.Client{
			Transport: otelhttp.NewTransport(customTransport),
		}
	} else {
		httpClient = http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	var b []byte
	b, err = json.Marshal(pack)
	if err != nil {
		return err
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(b))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/senml+json")

	var resp *http.Response
	resp, err = httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf("unexpected response code %d", resp.StatusCode)
	}

	return err
}
