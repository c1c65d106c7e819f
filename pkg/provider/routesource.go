package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/graphbuilder"
	"github.com/lukman-h/routewise/pkg/metrics"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// RouteSource fetches candidate driving polylines for an origin-destination
// pair: the direct route plus up to waypointCount detours through points of
// interest near the corridor, which forces the upstream provider onto
// different streets.
type RouteSource interface {
	FetchCandidateRoutes(ctx context.Context, origin, destination geo.Coordinate,
		waypointCount int) ([]graphbuilder.CandidateRoute, error)
}

type HTTPRouteSource struct {
	cfg     clientConfig
	client  *http.Client
	retries int
	backoff time.Duration
	mets    *metrics.Metrics
	log     *zap.Logger
}

func NewHTTPRouteSource(baseURL, apiKey string, timeout time.Duration, rps float64,
	mets *metrics.Metrics, log *zap.Logger) *HTTPRouteSource {
	return &HTTPRouteSource{
		cfg:     newClientConfig(baseURL, apiKey, timeout, rps),
		client:  &http.Client{},
		retries: defaultRetries,
		backoff: defaultBackoffBase,
		mets:    mets,
		log:     log,
	}
}

type drivingResponse struct {
	Status string `json:"status"`
	Info   string `json:"info"`
	Route  struct {
		Paths []struct {
			Distance     float64 `json:"distance"` // meters
			Duration     float64 `json:"duration"` // seconds
			Polyline     string  `json:"polyline"` // encoded
			Congestion   float64 `json:"congestion,omitempty"`
			Construction bool    `json:"construction,omitempty"`
		} `json:"paths"`
	} `json:"route"`
}

type poiResponse struct {
	Status string `json:"status"`
	POIs   []struct {
		Name     string `json:"name"`
		Location string `json:"location"` // "lng,lat"
	} `json:"pois"`
}

func (rs *HTTPRouteSource) FetchCandidateRoutes(ctx context.Context, origin, destination geo.Coordinate,
	waypointCount int) ([]graphbuilder.CandidateRoute, error) {

	direct, err := rs.fetchRoute(ctx, origin, destination, nil)
	if err != nil {
		return nil, err
	}
	direct.Name = "direct"

	candidates := []graphbuilder.CandidateRoute{direct}

	if waypointCount > 0 {
		waypoints := rs.discoverWaypoints(ctx, origin, destination, waypointCount)
		for _, wp := range waypoints {
			detour, err := rs.fetchRoute(ctx, origin, destination, &wp.coord)
			if err != nil {
				// one failed detour does not spoil the request; the
				// direct candidate is already in hand
				if rs.log != nil {
					rs.log.Warn("detour candidate fetch failed",
						zap.String("waypoint", wp.name), zap.Error(err))
				}
				continue
			}
			detour.Detour = true
			detour.Name = "via " + wp.name
			candidates = append(candidates, detour)
		}
	}

	return candidates, nil
}

type waypoint struct {
	name  string
	coord geo.Coordinate
}

// discoverWaypoints POIs near the corridor midpoint. Best effort: a failure
// here only reduces the number of detour candidates.
func (rs *HTTPRouteSource) discoverWaypoints(ctx context.Context, origin, destination geo.Coordinate,
	count int) []waypoint {
	mid := geo.MidPoint(origin, destination)
	radiusM := int(geo.HaversineDistance(origin, destination) * 1000 / 2)

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", mid.Lon, mid.Lat))
	q.Set("radius", fmt.Sprintf("%d", radiusM))
	q.Set("key", rs.cfg.apiKey)
	endpoint := rs.cfg.baseURL + "/v3/place/around?" + q.Encode()

	var resp poiResponse
	if err := getJSON(ctx, rs.client, rs.cfg, endpoint, &resp); err != nil || resp.Status != "1" {
		if rs.log != nil {
			rs.log.Warn("waypoint discovery failed, using direct route only", zap.Error(err))
		}
		return nil
	}

	wps := make([]waypoint, 0, count)
	for _, poi := range resp.POIs {
		coord, err := parseLocation(poi.Location)
		if err != nil {
			continue
		}
		wps = append(wps, waypoint{name: poi.Name, coord: coord})
		if len(wps) >= count {
			break
		}
	}
	return wps
}

// fetchRoute one driving-directions call, retried a bounded number of times
// with doubling backoff before the failure is surfaced.
func (rs *HTTPRouteSource) fetchRoute(ctx context.Context, origin, destination geo.Coordinate,
	via *geo.Coordinate) (graphbuilder.CandidateRoute, error) {

	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lon, origin.Lat))
	q.Set("destination", fmt.Sprintf("%f,%f", destination.Lon, destination.Lat))
	if via != nil {
		q.Set("waypoints", fmt.Sprintf("%f,%f", via.Lon, via.Lat))
	}
	q.Set("key", rs.cfg.apiKey)
	endpoint := rs.cfg.baseURL + "/v3/direction/driving?" + q.Encode()

	var lastErr error
	backoff := rs.backoff
	for attempt := 0; attempt < rs.retries; attempt++ {
		if attempt > 0 {
			if rs.mets != nil {
				rs.mets.ProviderRetry()
			}
			select {
			case <-ctx.Done():
				return graphbuilder.CandidateRoute{}, util.WrapErrorf(ctx.Err(), util.ErrRouteSource,
					"route fetch cancelled")
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		var resp drivingResponse
		if err := getJSON(ctx, rs.client, rs.cfg, endpoint, &resp); err != nil {
			lastErr = err
			continue
		}
		if resp.Status != "1" || len(resp.Route.Paths) == 0 {
			lastErr = fmt.Errorf("route source returned no path (%s)", resp.Info)
			continue
		}

		path := resp.Route.Paths[0]
		coords, _, err := polyline.DecodeCoords([]byte(path.Polyline))
		if err != nil {
			lastErr = fmt.Errorf("malformed polyline: %w", err)
			continue
		}

		route := graphbuilder.CandidateRoute{
			Coords:       make([]geo.Coordinate, 0, len(coords)),
			Congestion:   path.Congestion,
			Construction: path.Construction,
			DistanceM:    path.Distance,
			DurationS:    path.Duration,
		}
		for _, c := range coords {
			route.Coords = append(route.Coords, geo.NewCoordinate(c[0], c[1]))
		}
		return route, nil
	}

	return graphbuilder.CandidateRoute{}, util.WrapErrorf(lastErr, util.ErrRouteSource,
		"route fetch failed after %d attempts", rs.retries)
}
