package middleware

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"salefinder/pkg/errors"
	"salefinder/pkg/logger"
	"salefinder/pkg/response"
)

// RateLimiter implements a token bucket per client IP.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens     int
	lastSeen   time.Time
	blocked    bool
	blockUntil time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if blocked, resetTime := rl.take(ip); blocked {
				logger.Warn("rate limit: blocked %s (reset in %v)", ip, time.Until(resetTime))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}

// take consumes a token for ip, returning whether the request must be
// blocked and, if so, when the block lifts.
func (rl *RateLimiter) take(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:   rl.rate - 1,
			lastSeen: time.Now(),
		}
		return false, time.Time{}
	}

	now := time.Now()

	if v.blocked {
		if now.Before(v.blockUntil) {
			return true, v.blockUntil
		}
		v.blocked = false
		v.tokens = rl.rate
	}

	// Refill proportionally to the time passed since the last request.
	elapsed := now.Sub(v.lastSeen)
	v.tokens += int(elapsed * time.Duration(rl.rate) / rl.window)
	if v.tokens > rl.rate {
		v.tokens = rl.rate
	}
	v.lastSeen = now

	if v.tokens <= 0 {
		v.blocked = true
		v.blockUntil = now.Add(rl.window)
		return true, v.blockUntil
	}

	v.tokens--
	return false, time.Time{}
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Hour)

		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastSeen) > 2*time.Hour {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
