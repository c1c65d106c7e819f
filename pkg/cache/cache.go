// Package cache holds the two request-level stores: resolved addresses and
// built route graphs with their per-algorithm results. Entries carry access
// accounting and a TTL; expired entries read as absent so callers rebuild
// them through the external collaborators.
package cache

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	AddressStore = "address"
	RouteStore   = "route"
)

const lockStripes = 64

// keyLocks striped per-key mutexes. Writers for the same key serialize on one
// stripe instead of a cache-global lock.
type keyLocks struct {
	mus [lockStripes]sync.Mutex
}

func (kl *keyLocks) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &kl.mus[h.Sum32()%lockStripes]
}

func expired(clk clock.Clock, createdAt time.Time, ttl time.Duration) bool {
	return ttl > 0 && clk.Now().Sub(createdAt) > ttl
}
