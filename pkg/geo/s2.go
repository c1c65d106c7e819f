package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// odKeyCellLevel ~ level 23 cells are roughly 5m across, matching the node
// merge radius, so two requests for the "same" origin/destination snap to the
// same cache key.
const odKeyCellLevel = 23

// CellToken returns a stable token for the s2 cell containing c.
func CellToken(c Coordinate) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)).Parent(odKeyCellLevel).ToToken()
}

// ODKey normalizes an origin-destination coordinate pair into a cache key.
func ODKey(origin, destination Coordinate) string {
	return fmt.Sprintf("%s:%s", CellToken(origin), CellToken(destination))
}
