// README: Geographic coordinate shared by the presence, assignment and realtime layers.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the point as a "lat,lng" pair, the form the distance
// service accepts alongside free-text addresses.
func (p Point) String() string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

// ParsePoint parses a "lat,lng" string. ok is false for anything that is
// not a coordinate pair, e.g. a street address or a phone number.
func ParsePoint(s string) (Point, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Point{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return Point{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, false
	}
	return Point{Lat: lat, Lng: lng}, true
}
