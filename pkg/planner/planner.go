// Package planner implements the route planning usecases: resolve the
// addresses, obtain candidate polylines, merge them into one graph, run the
// requested search engines, and keep the two-tier cache warm.
package planner

import (
	"context"
	"time"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/cache"
	"github.com/lukman-h/routewise/pkg/costfunction"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/engine/routing"
	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/graphbuilder"
	"github.com/lukman-h/routewise/pkg/metrics"
	"github.com/lukman-h/routewise/pkg/provider"
	"github.com/lukman-h/routewise/pkg/util"
	"go.uber.org/zap"
)

type Config struct {
	Weights        costfunction.Weights
	EpsilonKM      float64
	WaypointCount  int
	PSO            routing.PSOConfig
	ResolveTimeout time.Duration
	FetchTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Weights:        costfunction.DefaultWeights(),
		EpsilonKM:      pkg.DEFAULT_MERGE_EPSILON_KM,
		WaypointCount:  pkg.DEFAULT_WAYPOINT_COUNT,
		PSO:            routing.DefaultPSOConfig(0),
		ResolveTimeout: 5 * time.Second,
		FetchTimeout:   10 * time.Second,
	}
}

type Planner struct {
	log         *zap.Logger
	geocoder    provider.Geocoder
	routeSource provider.RouteSource
	addrCache   *cache.AddressCache
	routeCache  *cache.RouteCache
	builder     *graphbuilder.Builder
	comparator  *routing.Comparator
	mets        *metrics.Metrics
	cfg         Config
}

func NewPlanner(log *zap.Logger, geocoder provider.Geocoder, routeSource provider.RouteSource,
	addrCache *cache.AddressCache, routeCache *cache.RouteCache, mets *metrics.Metrics, cfg Config) *Planner {
	return &Planner{
		log:         log,
		geocoder:    geocoder,
		routeSource: routeSource,
		addrCache:   addrCache,
		routeCache:  routeCache,
		builder:     graphbuilder.NewBuilder(cfg.EpsilonKM, log),
		comparator:  routing.NewComparator(log),
		mets:        mets,
		cfg:         cfg,
	}
}

type AlgorithmInfo struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (p *Planner) ListAlgorithms() []AlgorithmInfo {
	infos := make([]AlgorithmInfo, 0, len(pkg.Algorithms()))
	for _, a := range pkg.Algorithms() {
		infos = append(infos, AlgorithmInfo{Id: string(a), Name: a.DisplayName()})
	}
	return infos
}

// PlanRoute plans one route with the chosen algorithm. A cached result for
// the same origin-destination pair is returned directly; a cached graph
// missing only this algorithm's slot is re-searched without refetching.
func (p *Planner) PlanRoute(ctx context.Context, startAddr, endAddr string, algorithm pkg.Algorithm) (da.RouteResult, error) {
	if !algorithm.Valid() {
		return da.RouteResult{}, util.WrapErrorf(nil, util.ErrBadParamInput,
			"unknown algorithm %q", algorithm)
	}

	origin, destination, err := p.resolveEndpoints(ctx, startAddr, endAddr)
	if err != nil {
		return da.RouteResult{}, err
	}

	key := p.routeCache.Key(origin, destination)
	if entry, ok := p.routeCache.Get(key); ok {
		if res, ok := entry.Result(algorithm); ok {
			return res, nil
		}

		res, err := p.runEngine(ctx, entry.Graph, algorithm)
		if err != nil {
			return res, err
		}
		if ctx.Err() == nil {
			p.routeCache.MergeResult(key, res)
		}
		return res, nil
	}

	graph, direct, err := p.fetchAndBuild(ctx, origin, destination)
	if err != nil {
		return da.RouteResult{}, err
	}

	res, err := p.runEngine(ctx, graph, algorithm)
	if err != nil {
		return res, err
	}

	if ctx.Err() == nil {
		p.routeCache.Put(key, origin, destination, graph, direct.DistanceM/1000.0,
			time.Duration(direct.DurationS*float64(time.Second)),
			map[pkg.Algorithm]da.RouteResult{algorithm: res})
	}
	return res, nil
}

// CompareRoutes runs every algorithm against one graph snapshot and ranks
// the outcomes. Individual engine failures appear in the report; only the
// address, fetch and graph build stages can fail the request.
func (p *Planner) CompareRoutes(ctx context.Context, startAddr, endAddr string) (da.ComparisonReport, error) {
	origin, destination, err := p.resolveEndpoints(ctx, startAddr, endAddr)
	if err != nil {
		return da.ComparisonReport{}, err
	}

	key := p.routeCache.Key(origin, destination)
	if entry, ok := p.routeCache.Get(key); ok {
		return p.compareCached(ctx, key, entry)
	}

	graph, direct, err := p.fetchAndBuild(ctx, origin, destination)
	if err != nil {
		return da.ComparisonReport{}, err
	}

	report := p.comparator.Compare(ctx, graph, p.allEngines())
	p.observe(report.Results)

	if ctx.Err() == nil {
		p.routeCache.Put(key, origin, destination, graph, direct.DistanceM/1000.0,
			time.Duration(direct.DurationS*float64(time.Second)), successfulResults(report.Results))
	}
	return report, nil
}

// compareCached reuses cached per-algorithm results and only runs the
// engines whose slots are still empty.
func (p *Planner) compareCached(ctx context.Context, key string, entry cache.RouteEntry) (da.ComparisonReport, error) {
	var missing []routing.SearchEngine
	for _, a := range pkg.Algorithms() {
		if _, ok := entry.Result(a); !ok {
			missing = append(missing, p.engineFor(a))
		}
	}

	results := make([]da.RouteResult, 0, len(pkg.Algorithms()))
	if len(missing) > 0 {
		fresh := p.comparator.Compare(ctx, entry.Graph, missing)
		p.observe(fresh.Results)
		if ctx.Err() == nil {
			for _, res := range fresh.Results {
				if res.Found {
					p.routeCache.MergeResult(key, res)
				}
			}
		}
		for _, a := range pkg.Algorithms() {
			if res, ok := entry.Result(a); ok {
				results = append(results, res)
				continue
			}
			for _, res := range fresh.Results {
				if res.Algorithm == a {
					results = append(results, res)
				}
			}
		}
	} else {
		for _, a := range pkg.Algorithms() {
			res, _ := entry.Result(a)
			results = append(results, res)
		}
	}

	return da.NewComparisonReport(results), nil
}

func (p *Planner) resolveEndpoints(ctx context.Context, startAddr, endAddr string) (geo.Coordinate, geo.Coordinate, error) {
	origin, err := p.resolve(ctx, startAddr)
	if err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	destination, err := p.resolve(ctx, endAddr)
	if err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, err
	}
	return origin, destination, nil
}

func (p *Planner) resolve(ctx context.Context, address string) (geo.Coordinate, error) {
	if entry, ok := p.addrCache.Get(address); ok {
		return entry.Coordinate, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.ResolveTimeout)
	defer cancel()

	coord, formatted, err := p.geocoder.ResolveAddress(ctx, address)
	if err != nil {
		return geo.Coordinate{}, err
	}
	if ctx.Err() == nil {
		p.addrCache.Put(address, coord, formatted)
	}
	return coord, nil
}

func (p *Planner) fetchAndBuild(ctx context.Context, origin, destination geo.Coordinate) (*da.Graph, graphbuilder.CandidateRoute, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	candidates, err := p.routeSource.FetchCandidateRoutes(fetchCtx, origin, destination, p.cfg.WaypointCount)
	if err != nil {
		return nil, graphbuilder.CandidateRoute{}, err
	}
	if p.log != nil {
		p.log.Debug("route cache miss, fetched candidate polylines",
			zap.Int("candidates", len(candidates)))
	}

	graph, err := p.builder.Build(candidates)
	if err != nil {
		return nil, graphbuilder.CandidateRoute{}, err
	}
	if p.mets != nil {
		p.mets.ObserveGraphSize(graph.NumberOfNodes())
	}
	return graph, candidates[0], nil
}

func (p *Planner) runEngine(ctx context.Context, g *da.Graph, algorithm pkg.Algorithm) (da.RouteResult, error) {
	res, err := p.engineFor(algorithm).Search(ctx, g)
	if p.mets != nil {
		p.mets.ObserveEngine(string(algorithm), res.Elapsed)
	}
	return res, err
}

func (p *Planner) engineFor(algorithm pkg.Algorithm) routing.SearchEngine {
	switch algorithm {
	case pkg.ASTAR:
		return routing.NewAstar(p.cfg.Weights)
	case pkg.PSO:
		cfg := p.cfg.PSO
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		return routing.NewPSO(p.cfg.Weights, cfg)
	default:
		return routing.NewDijkstra()
	}
}

func (p *Planner) allEngines() []routing.SearchEngine {
	engines := make([]routing.SearchEngine, 0, len(pkg.Algorithms()))
	for _, a := range pkg.Algorithms() {
		engines = append(engines, p.engineFor(a))
	}
	return engines
}

func (p *Planner) observe(results []da.RouteResult) {
	if p.mets == nil {
		return
	}
	for _, res := range results {
		p.mets.ObserveEngine(string(res.Algorithm), res.Elapsed)
	}
}

func successfulResults(results []da.RouteResult) map[pkg.Algorithm]da.RouteResult {
	out := make(map[pkg.Algorithm]da.RouteResult, len(results))
	for _, res := range results {
		if res.Found {
			out[res.Algorithm] = res
		}
	}
	return out
}
