package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	// one degree of longitude along the equator
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 1)
	require.InDelta(t, 111.19, HaversineDistance(a, b), 0.05)

	require.Zero(t, HaversineDistance(a, a))
	require.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-9)
}

func TestMidPoint(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 2)
	mid := MidPoint(a, b)
	require.InDelta(t, 0.0, mid.GetLat(), 1e-9)
	require.InDelta(t, 1.0, mid.GetLon(), 1e-9)
}

func TestBoundingBoxContainsCenter(t *testing.T) {
	center := NewCoordinate(-7.79, 110.36)
	min, max := BoundingBox(center, 0.5)
	require.Less(t, min[0], center.Lon)
	require.Less(t, min[1], center.Lat)
	require.Greater(t, max[0], center.Lon)
	require.Greater(t, max[1], center.Lat)
}

func TestODKey(t *testing.T) {
	o := NewCoordinate(-7.7829, 110.3671)
	d := NewCoordinate(-7.8014, 110.3648)

	require.Equal(t, ODKey(o, d), ODKey(o, d))
	require.NotEqual(t, ODKey(o, d), ODKey(d, o))

	far := NewCoordinate(o.Lat+0.01, o.Lon)
	require.NotEqual(t, ODKey(o, d), ODKey(far, d))
}
