package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWindowCounterAllowsUpToLimit(t *testing.T) {
	var w windowCounter

	for i := 0; i < 3; i++ {
		ok, _ := w.allow(3, time.Minute)
		assert.True(t, ok)
	}
	ok, retryAt := w.allow(3, time.Minute)
	assert.False(t, ok)
	assert.True(t, retryAt.After(time.Now()))
}

func TestWindowCounterResetsAfterWindow(t *testing.T) {
	var w windowCounter

	ok, _ := w.allow(1, 10*time.Millisecond)
	assert.True(t, ok)
	ok, _ = w.allow(1, 10*time.Millisecond)
	assert.False(t, ok)

	time.Sleep(20 * time.Millisecond)
	ok, _ = w.allow(1, 10*time.Millisecond)
	assert.True(t, ok)
}

func TestIPLimiterPurgeDropsExpiredCounters(t *testing.T) {
	l := newIPLimiter()
	l.counter("10.0.0.1").allow(1, 5*time.Millisecond)
	l.counter("10.0.0.2").allow(1, time.Hour)

	time.Sleep(10 * time.Millisecond)
	dropped, kept := l.purge(time.Now())
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, kept)
}

func TestRateLimiterRejectsWithRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
