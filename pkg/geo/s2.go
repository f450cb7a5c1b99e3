package geo

import (
	"github.com/golang/geo/s2"
)

// LineGeometry is the shape of one edge or route, length in meters.
type LineGeometry struct {
	Points []Coordinate `json:"points"`
	Length float64      `json:"length"`
}

// NewLineGeometry measures points along the sphere.
func NewLineGeometry(points []Coordinate) LineGeometry {
	return LineGeometry{Points: points, Length: PolylineLength(points)}
}

// Reversed returns a copy with the points in opposite order.
func (l LineGeometry) Reversed() LineGeometry {
	points := make([]Coordinate, len(l.Points))
	for i, p := range l.Points {
		points[len(points)-1-i] = p
	}
	return LineGeometry{Points: points, Length: l.Length}
}

func toS2Point(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// PolylineLength returns the length of the polyline in meters.
func PolylineLength(points []Coordinate) float64 {
	if len(points) < 2 {
		return 0
	}
	line := make(s2.Polyline, len(points))
	for i, p := range points {
		line[i] = toS2Point(p)
	}
	return line.Length().Radians() * earthRadiusM
}
