package formatting

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

var compassLabels = [16]string{
	"N", "NNO", "NO", "ONO", "O", "OSO", "SO", "SSO",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// FormatTimestamp renders t as DD.MM.YYYY HH:MM in the local time zone.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format("02.01.2006 15:04")
}

// FormatBearing maps a heading in degrees to the nearest of 16 compass sectors.
func FormatBearing(degrees float64) string {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return compassLabels[0]
	}

	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}

	index := int(math.Floor(d/22.5+0.5)) % len(compassLabels)
	return compassLabels[index]
}

func KilometersPerHour(metersPerSecond float64) float64 {
	return metersPerSecond * 3.6
}

func RoundOneDecimal(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// FormatSpeed converts m/s to km/h, rounded to one decimal, e.g. "36.1 km/h".
func FormatSpeed(metersPerSecond float64) string {
	kmh := RoundOneDecimal(KilometersPerHour(metersPerSecond))
	return fmt.Sprintf("%s km/h", formatNumber(kmh))
}

// FormatDirection renders a heading as label and degrees, e.g. "O (90°)".
func FormatDirection(degrees float64) string {
	return fmt.Sprintf("%s (%s°)", FormatBearing(degrees), formatNumber(degrees))
}

func ParseTimestamp(s string) (time.Time, error) {
	var err error

	for _, layout := range timestampLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse timestamp %q: %w", s, err)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
