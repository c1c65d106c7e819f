package cache

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lukman-h/routewise/pkg"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/metrics"
	"go.uber.org/zap"
)

// RouteEntry cached route computation for one origin-destination pair: the
// merged graph snapshot plus one result slot per algorithm. Returned by value
// with the results map copied, so callers can't corrupt the stored entry.
type RouteEntry struct {
	Key               string
	Origin            geo.Coordinate
	Destination       geo.Coordinate
	Graph             *da.Graph
	Results           map[pkg.Algorithm]da.RouteResult
	TotalDistance     float64 // km, as reported by the route source
	EstimatedDuration time.Duration
	CreatedAt         time.Time
	LastAccessedAt    time.Time
	AccessCount       int64
	CacheHitCount     int64
}

func (re RouteEntry) Result(algorithm pkg.Algorithm) (da.RouteResult, bool) {
	res, ok := re.Results[algorithm]
	return res, ok
}

type routeRecord struct {
	origin            geo.Coordinate
	destination       geo.Coordinate
	graph             *da.Graph
	results           map[pkg.Algorithm]da.RouteResult
	totalDistance     float64
	estimatedDuration time.Duration
	createdAt         time.Time
	lastAccessedAt    time.Time
	accessCount       int64
	cacheHitCount     int64
}

// RouteCache OD-pair keyed store for merged graphs and per-algorithm results.
// Graphs are immutable once stored; a later write may only fill a missing
// algorithm slot, never replace a present one, until the entry expires.
type RouteCache struct {
	entries *lru.Cache[string, *routeRecord]
	locks   keyLocks
	ttl     time.Duration
	clk     clock.Clock
	mets    *metrics.Metrics
	log     *zap.Logger

	// optional on-disk graph snapshots; write failures degrade to
	// memory-only instead of failing the request
	snapshotDir string
}

func NewRouteCache(size int, ttl time.Duration, clk clock.Clock, mets *metrics.Metrics,
	log *zap.Logger, snapshotDir string) (*RouteCache, error) {
	entries, err := lru.New[string, *routeRecord](size)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	return &RouteCache{
		entries:     entries,
		ttl:         ttl,
		clk:         clk,
		mets:        mets,
		log:         log,
		snapshotDir: snapshotDir,
	}, nil
}

// Key normalized cache key for an origin-destination coordinate pair.
func (rc *RouteCache) Key(origin, destination geo.Coordinate) string {
	return geo.ODKey(origin, destination)
}

// Get returns a fresh entry and bumps access and hit counters.
func (rc *RouteCache) Get(key string) (RouteEntry, bool) {
	mu := rc.locks.lock(key)
	mu.Lock()
	defer mu.Unlock()

	rec, ok := rc.entries.Get(key)
	if !ok {
		rc.miss()
		return RouteEntry{}, false
	}
	if expired(rc.clk, rec.createdAt, rc.ttl) {
		rc.entries.Remove(key)
		rc.miss()
		return RouteEntry{}, false
	}

	rec.accessCount++
	rec.cacheHitCount++
	rec.lastAccessedAt = rc.clk.Now()
	if rc.mets != nil {
		rc.mets.CacheHit(RouteStore)
	}
	return rc.snapshot(key, rec), true
}

// Put stores a freshly computed entry. If a fresh entry already exists for
// the key (a concurrent identical miss got there first), the existing graph
// is kept and only missing algorithm slots are filled from the new results.
func (rc *RouteCache) Put(key string, origin, destination geo.Coordinate, graph *da.Graph,
	totalDistance float64, estimatedDuration time.Duration, results map[pkg.Algorithm]da.RouteResult) RouteEntry {
	mu := rc.locks.lock(key)
	mu.Lock()
	defer mu.Unlock()

	if rec, ok := rc.entries.Get(key); ok && !expired(rc.clk, rec.createdAt, rc.ttl) {
		for algo, res := range results {
			if _, present := rec.results[algo]; !present {
				rec.results[algo] = res
			}
		}
		return rc.snapshot(key, rec)
	}

	now := rc.clk.Now()
	rec := &routeRecord{
		origin:            origin,
		destination:       destination,
		graph:             graph,
		results:           make(map[pkg.Algorithm]da.RouteResult, len(results)),
		totalDistance:     totalDistance,
		estimatedDuration: estimatedDuration,
		createdAt:         now,
		lastAccessedAt:    now,
	}
	for algo, res := range results {
		rec.results[algo] = res
	}
	rc.entries.Add(key, rec)
	rc.persistSnapshot(key, graph)
	return rc.snapshot(key, rec)
}

// MergeResult fills one missing algorithm slot on an existing fresh entry.
// Returns false when the entry is absent, expired, or the slot is taken.
func (rc *RouteCache) MergeResult(key string, result da.RouteResult) bool {
	mu := rc.locks.lock(key)
	mu.Lock()
	defer mu.Unlock()

	rec, ok := rc.entries.Get(key)
	if !ok || expired(rc.clk, rec.createdAt, rc.ttl) {
		return false
	}
	if _, present := rec.results[result.Algorithm]; present {
		return false
	}
	rec.results[result.Algorithm] = result
	return true
}

func (rc *RouteCache) Len() int {
	return rc.entries.Len()
}

func (rc *RouteCache) snapshot(key string, rec *routeRecord) RouteEntry {
	results := make(map[pkg.Algorithm]da.RouteResult, len(rec.results))
	for algo, res := range rec.results {
		results[algo] = res
	}
	return RouteEntry{
		Key:               key,
		Origin:            rec.origin,
		Destination:       rec.destination,
		Graph:             rec.graph,
		Results:           results,
		TotalDistance:     rec.totalDistance,
		EstimatedDuration: rec.estimatedDuration,
		CreatedAt:         rec.createdAt,
		LastAccessedAt:    rec.lastAccessedAt,
		AccessCount:       rec.accessCount,
		CacheHitCount:     rec.cacheHitCount,
	}
}

func (rc *RouteCache) persistSnapshot(key string, graph *da.Graph) {
	if rc.snapshotDir == "" || graph == nil {
		return
	}
	h := fnv.New64a()
	h.Write([]byte(key))
	filename := filepath.Join(rc.snapshotDir, fmt.Sprintf("%x.graph.bz2", h.Sum64()))
	if err := graph.WriteSnapshotFile(filename); err != nil && rc.log != nil {
		rc.log.Warn("route graph snapshot write failed, continuing without persistence",
			zap.String("file", filename), zap.Error(err))
	}
}

func (rc *RouteCache) miss() {
	if rc.mets != nil {
		rc.mets.CacheMiss(RouteStore)
	}
}
