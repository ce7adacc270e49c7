package middleware

import (
	"net/http"
	"sync"
	"time"

	"casacambios/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana tracks request counts per IP within a sliding window.
type ventana struct {
	count int
	hasta time.Time
	mu    sync.Mutex
}

type limiter struct {
	entradas map[string]*ventana
	mu       sync.Mutex
	limite   int
	duracion time.Duration
	mensaje  string
}

func newLimiter(limite int, duracion time.Duration, mensaje string) *limiter {
	l := &limiter{
		entradas: make(map[string]*ventana),
		limite:   limite,
		duracion: duracion,
		mensaje:  mensaje,
	}
	go l.purge()
	return l
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		v, ok := l.entradas[ip]
		if !ok {
			v = &ventana{}
			l.entradas[ip] = v
		}
		l.mu.Unlock()

		v.mu.Lock()
		defer v.mu.Unlock()

		now := time.Now()
		if now.After(v.hasta) {
			v.count = 0
			v.hasta = now.Add(l.duracion)
		}

		v.count++
		if v.count > l.limite {
			c.Header("Retry-After", v.hasta.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// purge removes expired windows so IPs that never return do not leak.
func (l *limiter) purge() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, v := range l.entradas {
			v.mu.Lock()
			if now.After(v.hasta) {
				delete(l.entradas, ip)
				purged++
			}
			v.mu.Unlock()
		}
		remaining := len(l.entradas)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter entries purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter returns a general-purpose sliding-window limiter per IP.
func RateLimiter(limite int, duracion time.Duration) gin.HandlerFunc {
	return newLimiter(limite, duracion, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
