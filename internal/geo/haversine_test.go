package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKmZeroDistance(t *testing.T) {
	d := HaversineKm(40.7829, -73.9654, 40.7829, -73.9654)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestHaversineKmSymmetry(t *testing.T) {
	a := HaversineKm(40.7829, -73.9654, 40.7489, -73.9680)
	b := HaversineKm(40.7489, -73.9680, 40.7829, -73.9654)
	assert.InDelta(t, a, b, 1e-9)
	assert.Greater(t, a, 0.0)
}

func TestHaversineKmKnownDistances(t *testing.T) {
	// One degree of latitude along a meridian is roughly 111.2 km on a
	// 6371 km sphere.
	d := HaversineKm(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.1)

	// New York to London, roughly 5570 km.
	d = HaversineKm(40.7128, -74.0060, 51.5074, -0.1278)
	assert.InDelta(t, 5570, d, 20)
}

func TestHaversineKmAntipodal(t *testing.T) {
	// Half the Earth's circumference.
	d := HaversineKm(0, 0, 0, 180)
	assert.InDelta(t, 20015, d, 5)
}
