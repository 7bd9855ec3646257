package formatting

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestFormatBearing(t *testing.T) {
	is := is.New(t)

	is.Equal(FormatBearing(0), "N")
	is.Equal(FormatBearing(360), "N")
	is.Equal(FormatBearing(720), "N")
	is.Equal(FormatBearing(11.25), "NNO")
	is.Equal(FormatBearing(11.24), "N")
	is.Equal(FormatBearing(90), "O")
	is.Equal(FormatBearing(180), "S")
	is.Equal(FormatBearing(270), "W")
	is.Equal(FormatBearing(354), "N")
	is.Equal(FormatBearing(-90), "W")
}

func TestThatEveryBearingMapsToAKnownLabel(t *testing.T) {
	is := is.New(t)

	known := map[string]bool{}
	for _, l := range compassLabels {
		known[l] = true
	}

	seen := map[string]bool{}
	for d := 0.0; d < 360; d += 0.25 {
		label := FormatBearing(d)
		is.True(known[label]) // label must be one of the 16 sectors
		seen[label] = true
	}

	is.Equal(len(seen), 16)
}

func TestThatSectorCentersMapToTheirOwnLabel(t *testing.T) {
	is := is.New(t)

	for i, l := range compassLabels {
		is.Equal(FormatBearing(float64(i)*22.5), l)
	}
}

func TestFormatTimestampPadsWithZeros(t *testing.T) {
	is := is.New(t)

	ts := time.Date(2024, time.February, 7, 3, 5, 0, 0, time.Local)
	is.Equal(FormatTimestamp(ts), "07.02.2024 03:05")
}

func TestFormatTimestampUsesLocalTime(t *testing.T) {
	is := is.New(t)

	ts := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	is.Equal(FormatTimestamp(ts), ts.Local().Format("02.01.2006 15:04"))
}

func TestUnitConversion(t *testing.T) {
	is := is.New(t)

	is.Equal(KilometersPerHour(10), 36.0)
	is.Equal(RoundOneDecimal(KilometersPerHour(10)), 36.0)
	is.Equal(RoundOneDecimal(KilometersPerHour(10.033)), 36.1)
}

func TestFormatSpeed(t *testing.T) {
	is := is.New(t)

	is.Equal(FormatSpeed(5), "18 km/h")
	is.Equal(FormatSpeed(10), "36 km/h")
	is.Equal(FormatSpeed(10.033), "36.1 km/h")
	is.Equal(FormatSpeed(0), "0 km/h")
}

func TestFormatDirection(t *testing.T) {
	is := is.New(t)

	is.Equal(FormatDirection(90), "O (90°)")
	is.Equal(FormatDirection(270), "W (270°)")
	is.Equal(FormatDirection(202.5), "SSW (202.5°)")
}

func TestParseTimestamp(t *testing.T) {
	is := is.New(t)

	expected := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ts, err := ParseTimestamp("2024-01-01T12:00:00Z")
	is.NoErr(err)
	is.True(ts.Equal(expected))

	ts, err = ParseTimestamp("2024-01-01T12:00+00:00")
	is.NoErr(err)
	is.True(ts.Equal(expected))

	_, err = ParseTimestamp("yesterday")
	is.True(err != nil)
}
