package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLocalRateLimiter_Allow(t *testing.T) {
	rl := NewLocalRateLimiter(RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         3,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst was rejected", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request beyond burst was allowed")
	}

	// A different key has its own bucket
	if !rl.Allow("5.6.7.8") {
		t.Error("a fresh key must start with a full bucket")
	}
}

func TestLocalRateLimiter_Refill(t *testing.T) {
	rl := NewLocalRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1000,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("k") {
		t.Fatal("first request rejected")
	}
	if rl.Allow("k") {
		t.Fatal("empty bucket allowed a request")
	}

	time.Sleep(5 * time.Millisecond)
	if !rl.Allow("k") {
		t.Error("bucket did not refill")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests = %v, want the first two to pass", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}
