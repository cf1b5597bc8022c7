package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipEntry tracks request counts per IP within a sliding window.
type ipEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	loginIPMap   = make(map[string]*ipEntry)
	loginIPMapMu sync.Mutex
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	const maxAttempts = 20
	return func(c *gin.Context) {
		ip := c.ClientIP()

		loginIPMapMu.Lock()
		entry, exists := loginIPMap[ip]
		if !exists {
			entry = &ipEntry{}
			loginIPMap[ip] = entry
		}
		loginIPMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(time.Minute)
		}
		entry.count++
		if entry.count > maxAttempts {
			log.Warn().Str("ip", ip).Msg("login rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos, espere un minuto"))
			return
		}
		c.Next()
	}
}

// RateLimiter applies a global per-IP request budget over the given window.
// Public storefront endpoints share this budget with staff routes.
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	entries := make(map[string]*ipEntry)
	var mu sync.Mutex

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &ipEntry{}
			entries[ip] = entry
		}
		mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}
		entry.count++
		if entry.count > maxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Limite de peticiones excedido"))
			return
		}
		c.Next()
	}
}
