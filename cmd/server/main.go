package main

import (
	"context"
	"flag"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/cache"
	"github.com/lukman-h/routewise/pkg/costfunction"
	"github.com/lukman-h/routewise/pkg/engine/routing"
	"github.com/lukman-h/routewise/pkg/http"
	"github.com/lukman-h/routewise/pkg/logger"
	"github.com/lukman-h/routewise/pkg/metrics"
	"github.com/lukman-h/routewise/pkg/planner"
	"github.com/lukman-h/routewise/pkg/provider"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("use_rate_limit", false, "rate limit incoming api requests")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		logger.Warn("config file not found, using defaults", zap.Error(err))
	}

	viper.SetDefault("GEOCODER_TIMEOUT", "5s")
	viper.SetDefault("ROUTE_SOURCE_TIMEOUT", "5s")
	viper.SetDefault("PROVIDER_RPS", 10.0)
	viper.SetDefault("ADDRESS_CACHE_SIZE", 4096)
	viper.SetDefault("ADDRESS_CACHE_TTL", "168h")
	viper.SetDefault("ROUTE_CACHE_SIZE", 1024)
	viper.SetDefault("ROUTE_CACHE_TTL", "168h")
	viper.SetDefault("MERGE_EPSILON_KM", pkg.DEFAULT_MERGE_EPSILON_KM)
	viper.SetDefault("WAYPOINT_COUNT", pkg.DEFAULT_WAYPOINT_COUNT)
	viper.SetDefault("DISTANCE_WEIGHT", pkg.DEFAULT_DISTANCE_WEIGHT)
	viper.SetDefault("CONGESTION_WEIGHT", pkg.DEFAULT_CONGESTION_WEIGHT)
	viper.SetDefault("CONSTRUCTION_WEIGHT", pkg.DEFAULT_CONSTRUCTION_WEIGHT)

	mets := metrics.New()

	addrCache, err := cache.NewAddressCache(viper.GetInt("ADDRESS_CACHE_SIZE"),
		viper.GetDuration("ADDRESS_CACHE_TTL"), nil, mets)
	if err != nil {
		panic(err)
	}
	routeCache, err := cache.NewRouteCache(viper.GetInt("ROUTE_CACHE_SIZE"),
		viper.GetDuration("ROUTE_CACHE_TTL"), nil, mets, logger, viper.GetString("SNAPSHOT_DIR"))
	if err != nil {
		panic(err)
	}

	geocoder := provider.NewHTTPGeocoder(viper.GetString("GEOCODER_BASE_URL"),
		viper.GetString("GEOCODER_API_KEY"), viper.GetDuration("GEOCODER_TIMEOUT"),
		viper.GetFloat64("PROVIDER_RPS"), logger)
	routeSource := provider.NewHTTPRouteSource(viper.GetString("ROUTE_SOURCE_BASE_URL"),
		viper.GetString("ROUTE_SOURCE_API_KEY"), viper.GetDuration("ROUTE_SOURCE_TIMEOUT"),
		viper.GetFloat64("PROVIDER_RPS"), mets, logger)

	plannerCfg := planner.DefaultConfig()
	plannerCfg.Weights = costfunction.Weights{
		Distance:     viper.GetFloat64("DISTANCE_WEIGHT"),
		Congestion:   viper.GetFloat64("CONGESTION_WEIGHT"),
		Construction: viper.GetFloat64("CONSTRUCTION_WEIGHT"),
	}
	plannerCfg.EpsilonKM = viper.GetFloat64("MERGE_EPSILON_KM")
	plannerCfg.WaypointCount = viper.GetInt("WAYPOINT_COUNT")
	plannerCfg.PSO = routing.DefaultPSOConfig(0)

	plannerService := planner.NewPlanner(logger, geocoder, routeSource,
		addrCache, routeCache, mets, plannerCfg)

	api := http.NewServer(logger)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, logger, *useRateLimit, plannerService, mets)

	signal := http.GracefulShutdown()

	logger.Info("Routewise Route Planner Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
