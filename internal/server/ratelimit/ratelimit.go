// Package ratelimit provides per-client token-bucket rate limiting on top of
// golang.org/x/time/rate.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	limit      int
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients, one bucket per
// client, endpoint and method.
type Limiter struct {
	config      *Config
	now         func() time.Time
	mu          sync.Mutex
	buckets     map[string]*bucket
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(10, 20)
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}

	// Start cleanup goroutine if enabled
	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig != nil && endpointConfig.Limit <= 0 {
		// Unlimited endpoint (e.g., health check)
		return true, Info{Allowed: true}
	}

	now := l.now()
	var b *bucket
	if endpointConfig == nil {
		// Default limit is shared by every unmatched endpoint
		b = l.getBucket(clientID, rate.Limit(l.config.Rate), l.config.Burst, now)
	} else {
		key := clientID + ":" + endpointConfig.Method + ":" + endpointConfig.Path
		b = l.getBucket(key, endpointConfig.every(), endpointConfig.burst(), now)
	}

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now.Add(untilTokens(b.limiter, float64(b.limit)-tokens)),
	}
	if !allowed {
		info.RetryAfter = untilTokens(b.limiter, 1-tokens)
	}
	return allowed, info
}

// untilTokens returns how long the bucket needs to gain n tokens.
func untilTokens(lim *rate.Limiter, n float64) time.Duration {
	if n <= 0 || lim.Limit() <= 0 {
		return 0
	}
	return time.Duration(n / float64(lim.Limit()) * float64(time.Second))
}

// getBucket gets or creates the bucket for the given key.
func (l *Limiter) getBucket(key string, r rate.Limit, burst int, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r, burst), limit: burst}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

// cleanup removes old unused buckets to prevent memory leaks.
func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets that haven't been accessed within the idle timeout.
func (l *Limiter) cleanupBuckets() {
	idle := l.config.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}

func (l *Limiter) bucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
