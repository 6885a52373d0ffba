package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(config *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	config.CleanupInterval = 0
	l := NewLimiter(config)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 10})
	defer limiter.Stop()

	// Should allow requests up to the burst
	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/bank", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Remaining != 9-i {
			t.Errorf("Request %d: expected %d remaining, got %d", i+1, 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/bank", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", info.Limit)
	}
	if info.RetryAfter <= 0 || info.RetryAfter > time.Second {
		t.Errorf("Expected retry after within one second, got %v", info.RetryAfter)
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 2})
	defer limiter.Stop()

	limiter.Allow("c", "/bank", "GET")
	limiter.Allow("c", "/bank", "GET")
	if allowed, _ := limiter.Allow("c", "/bank", "GET"); allowed {
		t.Fatal("Expected request to be denied with an empty bucket")
	}

	clock.Advance(1100 * time.Millisecond)

	if allowed, _ := limiter.Allow("c", "/bank", "GET"); !allowed {
		t.Error("Expected request to be allowed after refill")
	}
	if allowed, _ := limiter.Allow("c", "/bank", "GET"); allowed {
		t.Error("Expected request to be denied after consuming refilled token")
	}
}

func TestLimiter_ResetTime(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 10})
	defer limiter.Stop()

	var info Info
	for i := 0; i < 5; i++ {
		_, info = limiter.Allow("c", "/bank", "GET")
	}
	if info.Remaining != 5 {
		t.Errorf("Expected 5 remaining tokens, got %d", info.Remaining)
	}
	if want := clock.Now().Add(5 * time.Second); !info.ResetTime.Equal(want) {
		t.Errorf("Expected reset at %v, got %v", want, info.ResetTime)
	}
}

func TestLimiter_SeparateClients(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 1})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("a", "/bank", "GET"); !allowed {
		t.Error("Expected first client to be allowed")
	}
	if allowed, _ := limiter.Allow("b", "/bank", "GET"); !allowed {
		t.Error("Expected second client to have its own bucket")
	}
	if allowed, _ := limiter.Allow("a", "/bank", "GET"); allowed {
		t.Error("Expected first client to be limited")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(NewConfig(0, 0))
	defer limiter.Stop()

	for i := 0; i < 1000; i++ {
		if allowed, _ := limiter.Allow("c", "/bank", "GET"); !allowed {
			t.Fatal("Expected all requests to be allowed when disabled")
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled: true,
		Rate:    100,
		Burst:   100,
		EndpointConfigs: []EndpointConfig{
			{Path: "/companies/import", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		if allowed, _ := limiter.Allow("c", "/companies/import", "POST"); !allowed {
			t.Errorf("Expected import %d to be allowed", i+1)
		}
	}
	allowed, info := limiter.Allow("c", "/companies/import", "POST")
	if allowed {
		t.Error("Expected third import to be denied")
	}
	if info.RetryAfter <= 0 || info.RetryAfter > 7*time.Second {
		t.Errorf("Expected retry after about 6s, got %v", info.RetryAfter)
	}

	// Other endpoints use the default limit
	if allowed, _ := limiter.Allow("c", "/bank", "GET"); !allowed {
		t.Error("Expected default endpoint to be unaffected")
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 1})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		if allowed, _ := limiter.Allow("c", "/health", "GET"); !allowed {
			t.Fatal("Expected health checks to be unlimited")
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 50})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/bank", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowedCount.Load(); got != 50 {
		t.Errorf("Expected exactly 50 allowed requests, got %d", got)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, Rate: 1, Burst: 1, IdleTimeout: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/bank", "GET")
	}
	clock.Advance(30 * time.Second)
	limiter.Allow("client-0", "/bank", "GET")

	clock.Advance(45 * time.Second)
	limiter.cleanupBuckets()

	if got := limiter.bucketCount(); got != 1 {
		t.Errorf("Expected only the recently used bucket to survive, got %d", got)
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()
	limiter.Stop()

	if allowed, _ := limiter.Allow("c", "/bank", "GET"); !allowed {
		t.Error("Expected default limiter to allow the first request")
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantPath     string
		wantNil      bool
	}{
		{path: "/companies/import", method: "POST", wantPath: "/companies/import"},
		{path: "/companies/abc/export.xlsx", method: "GET", wantPath: "/companies/"},
		{path: "/recordings/q1/audio", method: "POST", wantPath: "/recordings/"},
		{path: "/recordings/q1/audio", method: "GET", wantNil: true},
		{path: "/bank", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected no match, got %s", got.Path)
				}
				return
			}
			if got == nil || got.Path != tt.wantPath {
				t.Errorf("Expected match %s, got %v", tt.wantPath, got)
			}
		})
	}

	if health := MatchEndpoint("/health", "GET", configs); health == nil || health.Limit != 0 {
		t.Error("Expected health check to match as unlimited")
	}
}
