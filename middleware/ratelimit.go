package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// staleAfter is how long an idle bucket survives before a sweep drops it.
const staleAfter = 10 * time.Minute

// sweepEvery is how many allow calls pass between sweeps of idle buckets.
const sweepEvery = 1024

type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiter is a per-client token bucket. Buckets refill continuously and
// idle ones are swept inline, so there is no background goroutine to stop.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	burst     float64
	perSecond float64
	calls     int
	now       func() time.Time
}

// NewRateLimiter allows maxRequests per client over perDuration, with bursts
// up to maxRequests.
func NewRateLimiter(maxRequests int, perDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		burst:     float64(maxRequests),
		perSecond: float64(maxRequests) / perDuration.Seconds(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	rl.calls++
	if rl.calls%sweepEvery == 0 {
		for key, b := range rl.buckets {
			if now.Sub(b.last) > staleAfter {
				delete(rl.buckets, key)
			}
		}
	}

	b, ok := rl.buckets[client]
	if !ok {
		rl.buckets[client] = &bucket{tokens: rl.burst - 1, last: now}
		return true
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.perSecond
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Middleware rejects requests over the per-IP budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
