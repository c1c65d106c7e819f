package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

func TestGeocoderResolveAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/geocode/geo", r.URL.Path)
		require.Equal(t, "Jl. Malioboro 1", r.URL.Query().Get("address"))
		fmt.Fprint(w, `{"status":"1","geocodes":[{"location":"110.3671,-7.7829","formatted_address":"Jl. Malioboro No.1"}]}`)
	}))
	defer srv.Close()

	gc := NewHTTPGeocoder(srv.URL, "test-key", time.Second, 0, nil)
	coord, formatted, err := gc.ResolveAddress(context.Background(), "Jl. Malioboro 1")
	require.NoError(t, err)
	require.InDelta(t, -7.7829, coord.GetLat(), 1e-9)
	require.InDelta(t, 110.3671, coord.GetLon(), 1e-9)
	require.Equal(t, "Jl. Malioboro No.1", formatted)
}

func TestGeocoderUnresolvedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","info":"INVALID_ADDRESS","geocodes":[]}`)
	}))
	defer srv.Close()

	gc := NewHTTPGeocoder(srv.URL, "test-key", time.Second, 0, nil)
	_, _, err := gc.ResolveAddress(context.Background(), "nowhere at all")
	require.Error(t, err)
	require.Equal(t, util.ErrAddressResolution, util.CodeOf(err))
}

func TestGeocoderUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gc := NewHTTPGeocoder(srv.URL, "test-key", time.Second, 0, nil)
	_, _, err := gc.ResolveAddress(context.Background(), "Jl. Malioboro 1")
	require.Error(t, err)
	require.Equal(t, util.ErrAddressResolution, util.CodeOf(err))
}

func TestParseLocation(t *testing.T) {
	coord, err := parseLocation("110.3671,-7.7829")
	require.NoError(t, err)
	require.InDelta(t, -7.7829, coord.GetLat(), 1e-9)
	require.InDelta(t, 110.3671, coord.GetLon(), 1e-9)

	_, err = parseLocation("garbage")
	require.Error(t, err)
}

func encodedPolyline(coords [][]float64) string {
	return string(polyline.EncodeCoords(coords))
}

func TestRouteSourceFetchCandidates(t *testing.T) {
	direct := encodedPolyline([][]float64{{0, 0}, {0, 0.01}, {0, 0.02}})
	detour := encodedPolyline([][]float64{{0, 0}, {0.01, 0.01}, {0, 0.02}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/place/around":
			fmt.Fprint(w, `{"status":"1","pois":[{"name":"city park","location":"0.010000,0.010000"}]}`)
		case "/v3/direction/driving":
			pl := direct
			if r.URL.Query().Get("waypoints") != "" {
				pl = detour
			}
			fmt.Fprintf(w, `{"status":"1","route":{"paths":[{"distance":2224,"duration":240,"polyline":%q}]}}`, pl)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	rs := NewHTTPRouteSource(srv.URL, "test-key", time.Second, 0, nil, nil)
	candidates, err := rs.FetchCandidateRoutes(context.Background(),
		geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0.02), 3)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	require.Equal(t, "direct", candidates[0].Name)
	require.False(t, candidates[0].Detour)
	require.Len(t, candidates[0].Coords, 3)
	require.InDelta(t, 2224.0, candidates[0].DistanceM, 1e-9)

	require.Equal(t, "via city park", candidates[1].Name)
	require.True(t, candidates[1].Detour)
	require.InDelta(t, 0.01, candidates[1].Coords[1].GetLat(), 1e-5)
}

func TestRouteSourceRetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	rs := NewHTTPRouteSource(srv.URL, "test-key", time.Second, 0, nil, nil)
	rs.backoff = time.Millisecond

	_, err := rs.FetchCandidateRoutes(context.Background(),
		geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0.02), 0)
	require.Error(t, err)
	require.Equal(t, util.ErrRouteSource, util.CodeOf(err))
	require.Equal(t, defaultRetries, attempts)
}

func TestRouteSourceRecoversAfterRetry(t *testing.T) {
	direct := encodedPolyline([][]float64{{0, 0}, {0, 0.02}})

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"status":"1","route":{"paths":[{"distance":2224,"duration":240,"polyline":%q}]}}`, direct)
	}))
	defer srv.Close()

	rs := NewHTTPRouteSource(srv.URL, "test-key", time.Second, 0, nil, nil)
	rs.backoff = time.Millisecond

	candidates, err := rs.FetchCandidateRoutes(context.Background(),
		geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0.02), 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, 2, attempts)
}

func TestRouteSourceWaypointDiscoveryFailureIsBestEffort(t *testing.T) {
	direct := encodedPolyline([][]float64{{0, 0}, {0, 0.02}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/place/around":
			w.WriteHeader(http.StatusInternalServerError)
		case "/v3/direction/driving":
			fmt.Fprintf(w, `{"status":"1","route":{"paths":[{"distance":2224,"duration":240,"polyline":%q}]}}`, direct)
		}
	}))
	defer srv.Close()

	rs := NewHTTPRouteSource(srv.URL, "test-key", time.Second, 0, nil, nil)
	candidates, err := rs.FetchCandidateRoutes(context.Background(),
		geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0.02), 3)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "direct", candidates[0].Name)
}
