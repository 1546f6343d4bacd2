package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	kl := Point{Latitude: 3.1390, Longitude: 101.6869}
	penang := Point{Latitude: 5.4164, Longitude: 100.3327}

	d := HaversineDistance(kl, penang)
	assert.InDelta(t, 290, d, 15)

	assert.Zero(t, HaversineDistance(kl, kl))

	// symmetric
	assert.InDelta(t, d, HaversineDistance(penang, kl), 1e-9)
}

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{MinLatitude: 3.0, MaxLatitude: 3.5, MinLongitude: 101.0, MaxLongitude: 102.0}

	assert.True(t, box.Contains(Point{Latitude: 3.1390, Longitude: 101.6869}))
	assert.True(t, box.Contains(Point{Latitude: 3.0, Longitude: 101.0}), "edges are inside")
	assert.False(t, box.Contains(Point{Latitude: 5.4164, Longitude: 100.3327}))
}
