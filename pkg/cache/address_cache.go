package cache

import (
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/metrics"
	"github.com/lukman-h/routewise/pkg/util"
)

// AddressEntry resolved geocoding result as seen by callers. Counters reflect
// the state at read time.
type AddressEntry struct {
	Address        string
	Formatted      string
	Coordinate     geo.Coordinate
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
}

type addressRecord struct {
	formatted      string
	coordinate     geo.Coordinate
	createdAt      time.Time
	lastAccessedAt time.Time
	accessCount    int64
}

// AddressCache address -> coordinate store with TTL and LRU size bound.
type AddressCache struct {
	entries *lru.Cache[string, *addressRecord]
	locks   keyLocks
	ttl     time.Duration
	clk     clock.Clock
	mets    *metrics.Metrics
}

func NewAddressCache(size int, ttl time.Duration, clk clock.Clock, mets *metrics.Metrics) (*AddressCache, error) {
	entries, err := lru.New[string, *addressRecord](size)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	return &AddressCache{
		entries: entries,
		ttl:     ttl,
		clk:     clk,
		mets:    mets,
	}, nil
}

// Get returns the entry for the normalized address if present and fresh, and
// bumps its access accounting.
func (ac *AddressCache) Get(address string) (AddressEntry, bool) {
	key := util.NormalizeAddress(address)
	mu := ac.locks.lock(key)
	mu.Lock()
	defer mu.Unlock()

	rec, ok := ac.entries.Get(key)
	if !ok {
		ac.miss()
		return AddressEntry{}, false
	}
	if expired(ac.clk, rec.createdAt, ac.ttl) {
		ac.entries.Remove(key)
		ac.miss()
		return AddressEntry{}, false
	}

	rec.accessCount++
	rec.lastAccessedAt = ac.clk.Now()
	if ac.mets != nil {
		ac.mets.CacheHit(AddressStore)
	}
	return AddressEntry{
		Address:        key,
		Formatted:      rec.formatted,
		Coordinate:     rec.coordinate,
		CreatedAt:      rec.createdAt,
		LastAccessedAt: rec.lastAccessedAt,
		AccessCount:    rec.accessCount,
	}, true
}

// Put stores a resolution result. A fresh existing entry is left untouched:
// the first complete write for a key wins until its TTL passes.
func (ac *AddressCache) Put(address string, coord geo.Coordinate, formatted string) {
	key := util.NormalizeAddress(address)
	mu := ac.locks.lock(key)
	mu.Lock()
	defer mu.Unlock()

	if rec, ok := ac.entries.Get(key); ok && !expired(ac.clk, rec.createdAt, ac.ttl) {
		return
	}

	now := ac.clk.Now()
	ac.entries.Add(key, &addressRecord{
		formatted:      formatted,
		coordinate:     coord,
		createdAt:      now,
		lastAccessedAt: now,
	})
}

func (ac *AddressCache) Len() int {
	return ac.entries.Len()
}

func (ac *AddressCache) miss() {
	if ac.mets != nil {
		ac.mets.CacheMiss(AddressStore)
	}
}
