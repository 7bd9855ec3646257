package router

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/diwise/integration-geosphere/internal/pkg/application"
	"github.com/diwise/integration-geosphere/internal/pkg/presentation"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
)

type Router interface {
	Start(port string) error
}

type routerStruct struct {
	router chi.Router
	board  *presentation.Board
	log    zerolog.Logger
}

func SetupRouter(chiRouter chi.Router, board *presentation.Board, log zerolog.Logger) *routerStruct {
	r := &routerStruct{
		router: chiRouter,
		board:  board,
		log:    log,
	}

	chiRouter.Use(middleware.Logger)
	chiRouter.Get("/health", r.health)
	chiRouter.Get("/", r.index)
	chiRouter.Get("/chart24h", r.chart)
	chiRouter.Get("/api/current", r.current)

	return r
}

func (r *routerStruct) Start(port string) error {
	r.log.Info().Str("port", port).Msg("starting to listen for connections")
	return http.ListenAndServe(fmt.Sprintf(":%s", port), r.router)
}

func (router *routerStruct) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Wind</title></head>
<body>
<p id="subHeader">{{.SubHeader}}</p>
<dl>
<dt>Wind</dt><dd id="wind_avg">{{.WindAverage}}</dd>
<dt>Windspitzen</dt><dd id="wind_max">{{.WindMax}}</dd>
<dt>Windrichtung</dt><dd id="dir_avg">{{.DirectionAverage}}</dd>
<dt>Windrichtung Spitzen</dt><dd id="dir_max">{{.DirectionMax}}</dd>
</dl>
<iframe src="/chart24h" width="960" height="540" frameborder="0"></iframe>
</body>
</html>
`))

func (router *routerStruct) index(w http.ResponseWriter, r *http.Request) {
	page := struct {
		SubHeader        string
		WindAverage      string
		WindMax          string
		DirectionAverage string
		DirectionMax     string
	}{
		SubHeader:        router.board.Text(application.SubHeader),
		WindAverage:      router.board.Text(application.WindAverage),
		WindMax:          router.board.Text(application.WindMax),
		DirectionAverage: router.board.Text(application.DirectionAverage),
		DirectionMax:     router.board.Text(application.DirectionMax),
	}

	w.Header().Add("Content-Type", "text/html; charset=utf-8")

	err := indexTemplate.Execute(w, page)
	if err != nil {
		router.log.Error().Err(err).Msg("failed to render index page")
	}
}

func (router *routerStruct) chart(w http.ResponseWriter, r *http.Request) {
	chart, ok := router.board.Chart()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Add("Content-Type", "text/html; charset=utf-8")

	err := presentation.RenderLineChart(w, chart)
	if err != nil {
		router.log.Error().Err(err).Msg("failed to render chart")
	}
}

func (router *routerStruct) current(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(router.board.Snapshot())
	if err != nil {
		router.log.Error().Err(err).Msg("failed to marshal snapshot")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
