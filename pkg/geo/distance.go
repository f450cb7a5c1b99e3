package geo

import (
	"math"

	"github.com/lintang-b-s/roadsearch/pkg/util"
)

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

func (c Coordinate) radians() (float64, float64) {
	return util.DegreeToRadians(c.Lat), util.DegreeToRadians(c.Lon)
}

const (
	earthRadiusKM = 6371.0
	earthRadiusM  = earthRadiusKM * 1000
)

func hav(theta float64) float64 {
	return (1 - math.Cos(theta)) / 2.0
}

// centralAngle is the angle in radians subtended by a and b at the center of the earth.
func centralAngle(a, b Coordinate) float64 {
	latA, lonA := a.radians()
	latB, lonB := b.radians()
	h := hav(latA-latB) + math.Cos(latA)*math.Cos(latB)*hav(lonA-lonB)
	return 2.0 * math.Asin(math.Sqrt(math.Min(h, 1)))
}

// HaversineKm is the great-circle distance between a and b in km.
func HaversineKm(a, b Coordinate) float64 {
	return earthRadiusKM * centralAngle(a, b)
}

// HaversineMeters is the great-circle distance between a and b in meters.
func HaversineMeters(a, b Coordinate) float64 {
	return earthRadiusM * centralAngle(a, b)
}

// GetDestinationPoint returns the point reached from (lat, lon) after dist km along bearing degrees.
func GetDestinationPoint(lat, lon float64, bearing float64, dist float64) (float64, float64) {
	delta := dist / earthRadiusKM
	theta := util.DegreeToRadians(bearing)
	phi1, lambda1 := NewCoordinate(lat, lon).radians()

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return util.RadiansToDegree(phi2), normalizeLongitude(util.RadiansToDegree(lambda2))
}

// normalizeLongitude maps degrees into [-180, 180).
func normalizeLongitude(lon float64) float64 {
	return math.Mod(lon+540, 360) - 180.0
}
