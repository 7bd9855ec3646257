package domain

import "time"

const (
	AverageWindSpeed     string = "FFAM"
	GustWindSpeed        string = "FFX"
	AverageWindDirection string = "DD"
	GustWindDirection    string = "DDX"
)

type StationResponse struct {
	Type       string    `json:"type"`
	Version    string    `json:"version"`
	Timestamps []string  `json:"timestamps"`
	Features   []Feature `json:"features"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type Properties struct {
	Station    string               `json:"station"`
	Parameters map[string]Parameter `json:"parameters"`
}

type Parameter struct {
	Name string    `json:"name"`
	Unit string    `json:"unit"`
	Data []float64 `json:"data"`
}

func (g Geometry) Latitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

func (g Geometry) Longitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[0]
}

// Conditions is the latest reading of one station in upstream units (m/s, degrees).
type Conditions struct {
	StationID            string
	Observed             time.Time
	Latitude             float64
	Longitude            float64
	AverageWindSpeed     float64
	GustWindSpeed        float64
	AverageWindDirection float64
	GustWindDirection    float64
}

type Chart struct {
	ID         string
	Timestamps []time.Time
	Series     []Series
}

type Series struct {
	Label string
	Color string
	Data  []float64
}
