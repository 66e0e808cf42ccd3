package middleware

import (
	"net/http"
	"sync"

	"github.com/cricketdfs/dream11-optimizer/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a per-client token bucket keyed by client IP.
func RateLimit(rps int, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			utils.SendError(c, http.StatusTooManyRequests,
				utils.NewAppError(utils.ErrCodeValidation, "Rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}
