package rest

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"posture-bot/pkg/log"
)

const RequestIDKey = "X-Request-ID"

type Middleware struct {
	log     *logrus.Logger
	limiter *rateLimiter
}

func NewMiddleware(logger *logrus.Logger, rps float64, burst int) *Middleware {
	return &Middleware{
		log:     logger,
		limiter: newRateLimiter(rate.Limit(rps), burst),
	}
}

func (m *Middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// RequestID берёт идентификатор из заголовка или выдаёт новый ULID
func (m *Middleware) RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)
		if requestID == "" {
			id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
			if err == nil {
				requestID = id.String()
			}
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

func (m *Middleware) Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		fields := log.Fields{
			"request_id":    m.GetRequestID(c),
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get("User-Agent"),
			"response_size": len(c.Response().Body()),
		}

		entry := m.log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Success")
		}

		return err
	}
}

func (m *Middleware) RateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := c.IP()
		if !m.limiter.getLimiterFrom(clientIP).Allow() {
			m.log.Warnf("too many requests for IP %s", clientIP)
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}

// клиент, молчащий дольше limiterIdleTTL, теряет свой лимитер;
// после простоя его ведро всё равно было бы полным
const limiterIdleTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	bucket    map[string]*visitor
	rate      rate.Limit
	burstSize int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(r rate.Limit, burst int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*visitor),
		rate:      r,
		burstSize: burst,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (r *rateLimiter) getLimiterFrom(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= r.idleTTL {
		r.sweep(now)
	}

	v, ok := r.bucket[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep вызывается под r.mu
func (r *rateLimiter) sweep(now time.Time) {
	for ip, v := range r.bucket {
		if now.Sub(v.lastSeen) >= r.idleTTL {
			delete(r.bucket, ip)
		}
	}
	r.lastSweep = now
}
