package middleware

import (
	"net/http"
	"sync"
	"time"

	"tiendapos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowCounter is a fixed-window request counter for one client IP.
type windowCounter struct {
	mu    sync.Mutex
	seen  int
	until time.Time
}

// allow counts one request and reports whether it fits in the window.
func (w *windowCounter) allow(limit int, window time.Duration) (ok bool, retryAt time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.until) {
		w.seen = 0
		w.until = now.Add(window)
	}
	w.seen++
	return w.seen <= limit, w.until
}

// ipLimiter keeps one windowCounter per client IP. Counters for IPs that go
// quiet are dropped by the purge loop.
type ipLimiter struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

func newIPLimiter() *ipLimiter {
	return &ipLimiter{counters: make(map[string]*windowCounter)}
}

func (l *ipLimiter) counter(ip string) *windowCounter {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.counters[ip]
	if !ok {
		c = &windowCounter{}
		l.counters[ip] = c
	}
	return c
}

func (l *ipLimiter) purge(now time.Time) (dropped, kept int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.counters {
		c.mu.Lock()
		expired := now.After(c.until)
		c.mu.Unlock()
		if expired {
			delete(l.counters, ip)
			dropped++
		}
	}
	return dropped, len(l.counters)
}

var (
	loginLimiter = newIPLimiter()
	apiLimiter   = newIPLimiter()
)

// LoginRateLimiter caps login attempts at 20 per minute per IP. Credential
// stuffing gets slowed down without locking out a cashier who fat-fingers
// their PIN a few times.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginLimiter.counter(c.ClientIP()).allow(20, time.Minute)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, try again in 1 minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter caps total requests per IP within the window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAt := apiLimiter.counter(c.ClientIP()).allow(limit, window)
		if !ok {
			c.Header("Retry-After", retryAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// Expired counters pile up as client IPs churn; sweep both maps every few
// minutes.
const purgeInterval = 5 * time.Minute

func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			loginDropped, loginKept := loginLimiter.purge(now)
			apiDropped, apiKept := apiLimiter.purge(now)
			if loginDropped > 0 || apiDropped > 0 {
				log.Debug().
					Int("login_dropped", loginDropped).
					Int("login_kept", loginKept).
					Int("api_dropped", apiDropped).
					Int("api_kept", apiKept).
					Msg("rate limiter counters purged")
			}
		}
	}()
}
