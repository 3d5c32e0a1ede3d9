package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/woozymasta/georoute/internal/geo"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	// Paris to London is roughly 344 km.
	assert.InDelta(t, 344, geo.Distance(48.8566, 2.3522, 51.5074, -0.1278), 2)
	assert.Zero(t, geo.Distance(10, 20, 10, 20))
}

func TestPathLength(t *testing.T) {
	t.Parallel()

	assert.Zero(t, geo.PathLength(nil))
	assert.Zero(t, geo.PathLength([][2]float64{{1, 1}}))

	points := [][2]float64{{0, 0}, {0, 1}, {0, 2}}
	assert.InDelta(t, 2*geo.Distance(0, 0, 0, 1), geo.PathLength(points), 1e-9)
}

func TestClampLat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, geo.MaxLat, geo.ClampLat(89))
	assert.Equal(t, -geo.MaxLat, geo.ClampLat(-90))
	assert.Equal(t, 45.0, geo.ClampLat(45))
}
