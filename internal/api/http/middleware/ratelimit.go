package middleware

import (
	"net/http"
	"sync"

	"github.com/Daniel-Kats256/simulations/internal/auth"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LaunchLimiter throttles simulation launches per principal with a token
// bucket. Each identity gets its own limiter, created on first use.
type LaunchLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLaunchLimiter(perSecond float64, burst int) *LaunchLimiter {
	return &LaunchLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *LaunchLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if p, ok := auth.GetPrincipal(c); ok {
			key = p.ID
		}

		if !l.limiterFor(key).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many launches, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (l *LaunchLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim
}
