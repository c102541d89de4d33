package middleware

import (
	"sync"
	"time"
)

const (
	invalidAuthWindow   = time.Minute
	invalidAuthAttempts = 5
)

// InvalidAuthRateLimiter limits failed authentication attempts per IP.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewInvalidAuthRateLimiter constructs a limiter and starts its cleanup loop.
func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		attempts: make(map[string]*attemptInfo),
	}
	go rl.cleanup()
	return rl
}

// Allow checks if IP can make another attempt
// Limit: 5 attempts per minute
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > invalidAuthWindow {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= invalidAuthAttempts {
		return false
	}
	info.count++
	return true
}

func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, info := range r.attempts {
			if now.Sub(info.firstAt) > invalidAuthWindow {
				delete(r.attempts, ip)
			}
		}
		r.mu.Unlock()
	}
}
