package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCounters(t *testing.T) {
	m := New()

	m.SessionIngested("typing", "applied", 20*time.Millisecond)
	m.SessionIngested("typing", "applied", 10*time.Millisecond)
	m.SessionIngested("typing", "duplicate", time.Millisecond)
	m.SessionIngested("", "invalid", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsIngested.WithLabelValues("typing", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsIngested.WithLabelValues("typing", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsIngested.WithLabelValues("unknown", "invalid")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ingestDuration))
}

func TestXPAndMistakes(t *testing.T) {
	m := New()

	m.XPAwarded("session", 70)
	m.XPAwarded("session", 30)
	m.XPAwarded("grant", 0)
	m.MistakesRecorded(3)
	m.MistakesRecorded(0)

	assert.Equal(t, 100.0, testutil.ToFloat64(m.xpAwarded.WithLabelValues("session")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.mistakesRecorded))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "vocabquest_http_requests_total"))
	assert.Contains(t, body, `endpoint="/ping"`)
}
