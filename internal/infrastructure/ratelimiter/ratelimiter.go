// Package ratelimiter implements a per-source token bucket. Buckets are
// kept in an expiring in-memory map so idle sources cost nothing after the
// TTL passes.
package ratelimiter

import (
	"math"
	"net/http"
	"sync"
	"time"
)

const defaultSourceKey = "X-RateLimit-Key"

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	CacheTTL         time.Duration
	SourceHeaderKey  string
}

type bucket struct {
	tokens   float64
	lastFill time.Time
	lastSeen time.Time
}

type RateLimiter struct {
	mu              sync.Mutex
	buckets         map[string]*bucket
	ratePerSecond   float64
	maxBurst        int
	ttl             time.Duration
	sourceHeaderKey string
	lastSweep       time.Time
}

func New(options Options) Limiter {
	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}
	if options.CacheTTL == 0 {
		options.CacheTTL = 10 * time.Second
	}
	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	return &RateLimiter{
		buckets:         make(map[string]*bucket),
		ratePerSecond:   float64(options.MaxRatePerSecond),
		maxBurst:        options.MaxBurst,
		ttl:             options.CacheTTL,
		sourceHeaderKey: options.SourceHeaderKey,
		lastSweep:       time.Now(),
	}
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.refill(sourceKey, time.Now())
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.refill(sourceKey, time.Now())
	return int(math.Floor(b.tokens))
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}

	// Fall back to IP address
	return r.RemoteAddr
}

// refill tops up the source's bucket for the elapsed time and opportunistically
// sweeps idle buckets. Caller holds the lock.
func (rl *RateLimiter) refill(sourceKey string, now time.Time) *bucket {
	if now.Sub(rl.lastSweep) > rl.ttl {
		for key, b := range rl.buckets {
			if now.Sub(b.lastSeen) > rl.ttl {
				delete(rl.buckets, key)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[sourceKey]
	if !ok {
		b = &bucket{tokens: float64(rl.maxBurst), lastFill: now}
		rl.buckets[sourceKey] = b
	} else {
		b.tokens += now.Sub(b.lastFill).Seconds() * rl.ratePerSecond
		if b.tokens > float64(rl.maxBurst) {
			b.tokens = float64(rl.maxBurst)
		}
		b.lastFill = now
	}
	b.lastSeen = now
	return b
}
