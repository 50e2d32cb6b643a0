package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	require.True(t, rl.Allow("member-a"))
	require.True(t, rl.Allow("member-a"))
	require.False(t, rl.Allow("member-a"))
	require.True(t, rl.Allow("member-b"))
}

func TestRateLimiterHandler(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	setUser := func(c *gin.Context) {
		c.Set(ContextUserID, "user-1")
		c.Next()
	}
	r := newTestRouter(setUser, rl.Handler())

	w, _ := doRequest(r, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doRequest(r, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "TOO_MANY_REQUESTS", body["code"])
	require.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("idle")
	now = now.Add(10 * time.Minute)
	rl.Allow("fresh")

	rl.Cleanup(5 * time.Minute)
	require.Len(t, rl.limiters, 1)
	require.Contains(t, rl.limiters, "fresh")
}
