package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMetersZeroDistance(t *testing.T) {
	assert.Equal(t, 0.0, HaversineMeters(48.8584, 2.2945, 48.8584, 2.2945))
}

func TestHaversineMetersKnownDistances(t *testing.T) {
	// Eiffel Tower to Louvre, roughly 3.2 km.
	d := HaversineMeters(48.8584, 2.2945, 48.8606, 2.3376)
	assert.InDelta(t, 3160, d, 100)

	// Paris to Lyon, roughly 392 km.
	d = HaversineMeters(48.8566, 2.3522, 45.7640, 4.8357)
	assert.InDelta(t, 392000, d, 5000)
}

func TestHaversineMetersIsSymmetric(t *testing.T) {
	a := HaversineMeters(41.3851, 2.1734, 41.4036, 2.1744)
	b := HaversineMeters(41.4036, 2.1744, 41.3851, 2.1734)
	assert.InDelta(t, a, b, 1e-9)
}
