package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/distill"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Limiter entries unused for limiterTTL are evicted, checked at most once
// per sweepInterval.
const (
	limiterTTL    = time.Hour
	sweepInterval = 5 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter hands out one token bucket per client IP.
type clientLimiter struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		limiters:  make(map[string]*limiterEntry),
		lastSweep: time.Now(),
	}
}

func (l *clientLimiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		cutoff := now.Add(-limiterTTL)
		for id, entry := range l.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(l.limiters, id)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[client]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// rateLimit rejects requests over the per-client budget with 429.
func rateLimit(l *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error: "rate limit exceeded, please slow down",
				Code:  "rate_limited",
			})
			return
		}
		c.Next()
	}
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"client", c.ClientIP(),
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request", attrs...)
			return
		}
		s.logger.Info("request", attrs...)
	}
}

// statusCode maps an application error code to an HTTP status.
func statusCode(code string) int {
	switch code {
	case distill.EINVALID:
		return http.StatusBadRequest
	case distill.ENOTFOUND:
		return http.StatusNotFound
	case distill.EEMPTY:
		return http.StatusUnprocessableEntity
	case distill.ENAVIGATION, distill.EEVALUATION:
		return http.StatusBadGateway
	case distill.EENGINE, distill.ESESSION:
		return http.StatusServiceUnavailable
	case distill.ETIMEOUT:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
