package location

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Raw GPS strings arrive as "(lat, lng)" with signed decimal degrees.
var coordinatePattern = regexp.MustCompile(`\(([^,]+),\s*([^)]+)\)`)

// Coordinate is a parsed GPS position, as decimals and as formatted
// degrees-minutes-seconds strings.
type Coordinate struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	LatDMS string  `json:"latDMS"`
	LngDMS string  `json:"lngDMS"`
}

// Parse decodes a raw location string. It returns nil when the string is
// empty, does not match the "(lat, lng)" pattern, or a component is not
// numeric. Parse failures are non-fatal: the record just has no coordinate.
func Parse(raw string) *Coordinate {
	if raw == "" {
		return nil
	}
	m := coordinatePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if latErr != nil || lngErr != nil {
		return nil
	}

	return &Coordinate{
		Lat:    lat,
		Lng:    lng,
		LatDMS: toDMS(lat, true),
		LngDMS: toDMS(lng, false),
	}
}

func toDMS(decimal float64, isLat bool) string {
	var direction string
	switch {
	case isLat && decimal >= 0:
		direction = "N"
	case isLat:
		direction = "S"
	case decimal >= 0:
		direction = "E"
	default:
		direction = "W"
	}

	abs := math.Abs(decimal)
	degrees := math.Floor(abs)
	minutesFloat := (abs - degrees) * 60
	minutes := math.Floor(minutesFloat)
	seconds := (minutesFloat - minutes) * 60

	return fmt.Sprintf("%d°%d'%.2f\" %s", int(degrees), int(minutes), seconds, direction)
}
