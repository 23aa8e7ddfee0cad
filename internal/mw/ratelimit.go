package mw

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long a client's limiter is kept without requests.
const DefaultLimiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// IPRateLimiter stores a rate limiter for each client IP address and drops
// limiters of clients that went quiet.
type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        *sync.RWMutex
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:  make(map[string]*visitor),
		mu:   &sync.RWMutex{},
		r:    r,
		b:    b,
		idle: DefaultLimiterIdle,
		now:  time.Now,
	}
}

// GetLimiter returns the rate limiter for an IP address, creating it on
// first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	now := i.now()

	i.mu.RLock()
	v, exists := i.ips[ip]
	i.mu.RUnlock()
	if exists {
		v.lastSeen.Store(now.UnixNano())
		return v.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if now.Sub(i.lastSweep) >= i.idle {
		i.sweep(now)
	}
	// Another request may have created it in between.
	if v, exists = i.ips[ip]; !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen.Store(now.UnixNano())
	return v.limiter
}

// sweep drops visitors idle for longer than i.idle. Callers hold i.mu.
func (i *IPRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-i.idle).UnixNano()
	for ip, v := range i.ips {
		if v.lastSeen.Load() < cutoff {
			delete(i.ips, ip)
		}
	}
	i.lastSweep = now
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
