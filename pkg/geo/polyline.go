package geo

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// EncodePolyline encodes points with the google polyline algorithm, precision 1e-5.
func EncodePolyline(points []Coordinate) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

func DecodePolyline(encoded string) ([]Coordinate, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("polyline: %d trailing bytes", len(rest))
	}
	points := make([]Coordinate, len(coords))
	for i, c := range coords {
		points[i] = NewCoordinate(c[0], c[1])
	}
	return points, nil
}
