package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	// monas -> bundaran hi, jakarta
	monas := NewCoordinate(-6.175392, 106.827153)
	hi := NewCoordinate(-6.195000, 106.823000)

	d := HaversineMeters(monas, hi)
	assert.InDelta(t, 2228, d, 30)
	assert.Equal(t, 0.0, HaversineMeters(monas, monas))
	assert.InDelta(t, d/1000, HaversineKm(monas, hi), 1e-9)
}

func TestPolylineLengthMatchesHaversine(t *testing.T) {
	points := []Coordinate{
		NewCoordinate(-7.7956, 110.3695),
		NewCoordinate(-7.7970, 110.3705),
		NewCoordinate(-7.8000, 110.3710),
	}

	want := HaversineMeters(points[0], points[1]) + HaversineMeters(points[1], points[2])
	assert.InDelta(t, want, PolylineLength(points), 0.5)
	assert.Equal(t, 0.0, PolylineLength(points[:1]))

	line := NewLineGeometry(points)
	rev := line.Reversed()
	assert.Equal(t, line.Length, rev.Length)
	assert.Equal(t, points[2], rev.Points[0])
	assert.Equal(t, points[0], line.Points[0])
}

func TestPolylineRoundTrip(t *testing.T) {
	points := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}

	encoded := EncodePolyline(points)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	got, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, got, len(points))
	for i := range points {
		assert.InDelta(t, points[i].Lat, got[i].Lat, 1e-5)
		assert.InDelta(t, points[i].Lon, got[i].Lon, 1e-5)
	}
}

func TestBoundingBoxAround(t *testing.T) {
	c := NewCoordinate(-6.2, 106.8)
	bb := BoundingBoxAround(c, 1)

	assert.True(t, bb.Contains(c))
	north, _ := GetDestinationPoint(c.Lat, c.Lon, 0, 0.99)
	assert.True(t, bb.Contains(NewCoordinate(north, c.Lon)))
	far, _ := GetDestinationPoint(c.Lat, c.Lon, 0, 3)
	assert.False(t, bb.Contains(NewCoordinate(far, c.Lon)))
}
