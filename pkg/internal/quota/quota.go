// Package quota implements a keyed rate limiter.
package quota

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/time/rate"
)

// Quota rate limits events per key.
// Each key gets eps events per second with bursts of up to burst events.
// Limiters are kept in an LRU cache of size maxEntries.
type Quota struct {
	eps   float32    // allowed events per second
	burst int        // maximum events per second (queue)
	mu    sync.Mutex // protects cache
	cache *lru.Cache
}

// NewQuota returns a new Quota.
func NewQuota(eventsPerSecond float32, burst, maxEntries int) *Quota {
	return &Quota{
		eps:   eventsPerSecond,
		burst: burst,
		cache: lru.New(maxEntries),
	}
}

// Blocked reports whether the event for key exceeds the quota.
// Each call that is not blocked consumes one token of key.
func (q *Quota) Blocked(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	var limiter *rate.Limiter
	if v, ok := q.cache.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Limit(q.eps), q.burst)
		q.cache.Add(key, limiter)
	}
	return !limiter.Allow()
}
