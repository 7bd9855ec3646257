package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application"
	"github.com/diwise/integration-geosphere/internal/pkg/presentation"
	"github.com/go-chi/chi"
	"github.com/matryer/is"
	"github.com/rs/zerolog/log"
)

func TestThatHealthEndpointReturns204(t *testing.T) {
	is := is.New(t)

	r := newRouterForTesting(presentation.NewBoard())
	ts := httptest.NewServer(r.router)
	defer ts.Close()

	resp, _ := testRequest(is, ts, "GET", "/health", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent) // health endpoint status code not ok
}

func TestThatIndexShowsTheBoardRegions(t *testing.T) {
	is := is.New(t)

	board := presentation.NewBoard()
	board.WriteText(application.WindAverage, "18 km/h")
	board.WriteText(application.DirectionMax, "W (270°)")

	r := newRouterForTesting(board)
	ts := httptest.NewServer(r.router)
	defer ts.Close()

	resp, body := testRequest(is, ts, "GET", "/", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `<dd id="wind_avg">18 km/h</dd>`))
	is.True(strings.Contains(body, `<dd id="dir_max">W (270°)</dd>`))
}

func TestThatChartIsNotFoundBeforeFirstRender(t *testing.T) {
	is := is.New(t)

	r := newRouterForTesting(presentation.NewBoard())
	ts := httptest.NewServer(r.router)
	defer ts.Close()

	resp, _ := testRequest(is, ts, "GET", "/chart24h", nil)

	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestThatChartIsServedAfterRender(t *testing.T) {
	is := is.New(t)

	board := presentation.NewBoard()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	board.RenderChart(domain.Chart{
		ID:         "chart24h",
		Timestamps: []time.Time{now},
		Series:     []domain.Series{{Label: "Windspitzen (km/h)", Data: []float64{36}}},
	})

	r := newRouterForTesting(board)
	ts := httptest.NewServer(r.router)
	defer ts.Close()

	resp, body := testRequest(is, ts, "GET", "/chart24h", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "Windspitzen"))
}

func TestThatCurrentReturnsSnapshot(t *testing.T) {
	is := is.New(t)

	board := presentation.NewBoard()
	board.WriteText(application.WindMax, "36 km/h")

	r := newRouterForTesting(board)
	ts := httptest.NewServer(r.router)
	defer ts.Close()

	resp, body := testRequest(is, ts, "GET", "/api/current", nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	snapshot := presentation.Snapshot{}
	err := json.Unmarshal([]byte(body), &snapshot)
	is.NoErr(err)
	is.Equal(snapshot.Regions["wind_max"], "36 km/h")
}

func newRouterForTesting(board *presentation.Board) *routerStruct {
	r := chi.NewRouter()
	log := log.Logger

	return SetupRouter(r, board, log)
}

func testRequest(is *is.I, ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}
