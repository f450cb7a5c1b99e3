package geo

import "math"

type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	return BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

// BoundingBoxAround returns the box that contains the circle of radius km around c.
func BoundingBoxAround(c Coordinate, radius float64) BoundingBox {
	diagonal := radius * math.Sqrt2
	lowerLat, lowerLon := GetDestinationPoint(c.Lat, c.Lon, 225, diagonal)
	upperLat, upperLon := GetDestinationPoint(c.Lat, c.Lon, 45, diagonal)
	return NewBoundingBox(lowerLat, lowerLon, upperLat, upperLon)
}

func (b BoundingBox) GetMin() [2]float64 {
	return [2]float64{b.minLat, b.minLon}
}

func (b BoundingBox) GetMax() [2]float64 {
	return [2]float64{b.maxLat, b.maxLon}
}

func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.minLat && c.Lat <= b.maxLat && c.Lon >= b.minLon && c.Lon <= b.maxLon
}
