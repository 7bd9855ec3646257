package geosphere

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const DefaultRelayURL string = "https://corsproxy.io/?"

// NoRelay disables the relay when used as CORS_RELAY_URL.
const NoRelay string = "none"

var (
	ErrNetwork = errors.New("network error")
	ErrDecode  = errors.New("decode error")
)

var tracer = otel.Tracer("integration-geosphere/geosphere")

type Fetcher interface {
	Fetch(ctx context.Context, uri string, v any) error
}

type relayFetcher struct {
	relayURL   string
	httpClient http.Client
}

// NewFetcher returns a Fetcher that routes every request through relayURL, with
// the target uri query escaped and appended to it. An empty relayURL calls the
// target directly.
func NewFetcher(relayURL string) Fetcher {
	return &relayFetcher{
		relayURL: relayURL,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// RelayURLFromEnv reads CORS_RELAY_URL. An unset variable selects DefaultRelayURL,
// while an empty value or NoRelay selects direct calls.
func RelayURLFromEnv() string {
	value, ok := os.LookupEnv("CORS_RELAY_URL")
	if !ok {
		return DefaultRelayURL
	}

	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, NoRelay) {
		return ""
	}

	return value
}

func (f *relayFetcher) RequestURL(uri string) string {
	if f.relayURL == "" {
		return uri
	}
	return f.relayURL + url.QueryEscape(uri)
}

func (f *relayFetcher) Fetch(ctx context.Context, uri string, v any) error {
	var err error

	ctx, span := tracer.Start(ctx, "fetch")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := logging.GetFromContext(ctx)

	defer func() {
		if err != nil {
			logger.Debug().Err(err).Str("uri", uri).Msg("error fetching data")
		}
	}()

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, f.RequestURL(uri), nil)
	if err != nil {
		err = fmt.Errorf("failed to create request: %s", err.Error())
		return err
	}
	req.Header.Add("Accept", "application/json")

	var resp *http.Response
	resp, err = f.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: request failed: %s", ErrNetwork, err.Error())
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("%w: network response was not ok, got status code %d", ErrNetwork, resp.StatusCode)
		return err
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("%w: failed to read response body: %s", ErrNetwork, err.Error())
		return err
	}

	err = json.Unmarshal(body, v)
	if err != nil {
		err = fmt.Errorf("%w: failed to unmarshal response body: %s", ErrDecode, err.Error())
		return err
	}

	return nil
}
