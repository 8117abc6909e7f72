package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов одного пользователя
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*limiterEntry
	limit    rate.Limit
	burst    int
	log      Logger
}

// NewRateLimiter создает ограничитель: perSecond запросов в секунду, burst подряд
func NewRateLimiter(perSecond float64, burst int, log Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[int64]*limiterEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		log:      log,
	}
}

// Allow проверяет, можно ли пропустить запрос пользователя
func (l *RateLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[userID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// Cleanup удаляет ограничители пользователей, неактивных дольше maxIdle
func (l *RateLimiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, entry := range l.limiters {
		if time.Since(entry.lastSeen) > maxIdle {
			delete(l.limiters, id)
			removed++
		}
	}
	return removed
}

// Middleware ограничивает запросы аутентифицированного пользователя. Должен стоять после Auth.
func (l *RateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if ok && !l.Allow(userID) {
				l.log.Warn("%s %s - Rate limit exceeded for user_id=%d", r.Method, r.URL.Path, userID)
				handlers.RespondTooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
