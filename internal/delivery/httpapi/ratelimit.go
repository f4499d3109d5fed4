package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter keeps one token bucket per authenticated user.
type userLimiter struct {
	mu       sync.Mutex
	visitors map[int64]*visitor
	limit    rate.Limit
	burst    int
}

func newUserLimiter(perSecond float64, burst int) *userLimiter {
	return &userLimiter{
		visitors: make(map[int64]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    max(1, burst),
	}
}

func (l *userLimiter) allow(userID int64, now time.Time) bool {
	l.mu.Lock()
	v, ok := l.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[userID] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (l *userLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, id)
		}
	}
}

// janitor evicts idle buckets until ctx is done.
func (l *userLimiter) janitor(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.cleanup(now)
		}
	}
}

func (l *userLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if !l.allow(userID, time.Now()) {
			c.Header("Retry-After", "1")
			abortWithError(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
