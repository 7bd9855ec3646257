package presentation

import (
	"sync"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application"
)

// Board is an in-memory presentation surface. It holds the latest text of every
// region and the latest chart. Concurrent writers race and the last write wins.
type Board struct {
	mu      sync.RWMutex
	regions map[application.Region]string
	chart   *domain.Chart
	updated time.Time
}

type Snapshot struct {
	Regions map[string]string `json:"regions"`
	Chart   *ChartData        `json:"chart,omitempty"`
	Updated *time.Time        `json:"updated,omitempty"`
}

type ChartData struct {
	ID         string       `json:"id"`
	Timestamps []time.Time  `json:"timestamps"`
	Series     []SeriesData `json:"series"`
}

type SeriesData struct {
	Label string    `json:"label"`
	Color string    `json:"color"`
	Data  []float64 `json:"data"`
}

func NewBoard() *Board {
	return &Board{
		regions: map[application.Region]string{},
	}
}

func (b *Board) WriteText(region application.Region, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.regions[region] = text
	b.updated = time.Now()
}

func (b *Board) RenderChart(chart domain.Chart) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.chart = &chart
	b.updated = time.Now()
}

func (b *Board) Text(region application.Region) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.regions[region]
}

func (b *Board) Chart() (domain.Chart, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.chart == nil {
		return domain.Chart{}, false
	}

	return *b.chart, true
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Regions: make(map[string]string, len(b.regions)),
	}

	for r, text := range b.regions {
		s.Regions[string(r)] = text
	}

	if b.chart != nil {
		cd := &ChartData{
			ID:         b.chart.ID,
			Timestamps: b.chart.Timestamps,
		}
		for _, series := range b.chart.Series {
			cd.Series = append(cd.Series, SeriesData{Label: series.Label, Color: series.Color, Data: series.Data})
		}
		s.Chart = cd
	}

	if !b.updated.IsZero() {
		updated := b.updated
		s.Updated = &updated
	}

	return s
}
