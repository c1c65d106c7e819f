package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/util"
	"go.uber.org/zap"
)

// Geocoder resolves a free-form address into a coordinate. Resolution
// failures are surfaced to the caller, never retried internally: the same
// unrecognized address will not resolve better the second time.
type Geocoder interface {
	ResolveAddress(ctx context.Context, address string) (geo.Coordinate, string, error)
}

type HTTPGeocoder struct {
	cfg    clientConfig
	client *http.Client
	log    *zap.Logger
}

func NewHTTPGeocoder(baseURL, apiKey string, timeout time.Duration, rps float64, log *zap.Logger) *HTTPGeocoder {
	return &HTTPGeocoder{
		cfg:    newClientConfig(baseURL, apiKey, timeout, rps),
		client: &http.Client{},
		log:    log,
	}
}

type geocodeResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location         string `json:"location"` // "lng,lat"
		FormattedAddress string `json:"formatted_address"`
	} `json:"geocodes"`
}

func (gc *HTTPGeocoder) ResolveAddress(ctx context.Context, address string) (geo.Coordinate, string, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", gc.cfg.apiKey)
	endpoint := gc.cfg.baseURL + "/v3/geocode/geo?" + q.Encode()

	var resp geocodeResponse
	if err := getJSON(ctx, gc.client, gc.cfg, endpoint, &resp); err != nil {
		return geo.Coordinate{}, "", util.WrapErrorf(err, util.ErrAddressResolution,
			"geocode request failed for %q", address)
	}

	if resp.Status != "1" || len(resp.Geocodes) == 0 {
		return geo.Coordinate{}, "", util.WrapErrorf(nil, util.ErrAddressResolution,
			"address %q not recognized by geocoder (%s)", address, resp.Info)
	}

	coord, err := parseLocation(resp.Geocodes[0].Location)
	if err != nil {
		return geo.Coordinate{}, "", util.WrapErrorf(err, util.ErrAddressResolution,
			"malformed location for %q", address)
	}

	return coord, resp.Geocodes[0].FormattedAddress, nil
}

// parseLocation "lng,lat" as the geocoder returns it.
func parseLocation(loc string) (geo.Coordinate, error) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, util.WrapErrorf(nil, util.ErrBadParamInput, "location %q not lng,lat", loc)
	}
	lon, err := util.StringToFloat64(strings.TrimSpace(parts[0]))
	if err != nil {
		return geo.Coordinate{}, err
	}
	lat, err := util.StringToFloat64(strings.TrimSpace(parts[1]))
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.NewCoordinate(lat, lon), nil
}
