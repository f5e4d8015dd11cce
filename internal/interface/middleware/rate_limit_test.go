package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(l Limiter, allow AllowFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), RealIP(), RateLimit(l, KeyByIP(), allow))
	r.Any("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r http.Handler, method, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Local(t *testing.T) {
	r := limitedRouter(NewLocalLimiter(2, time.Minute), nil)

	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "203.0.113.7").Code)
	w := hit(r, http.MethodGet, "203.0.113.7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	w = hit(r, http.MethodGet, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["message"])
	assert.EqualValues(t, 429, body["status"])
	assert.NotEmpty(t, body["requestId"])

	// other clients and preflights are unaffected
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "203.0.113.8").Code)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodOptions, "203.0.113.7").Code)
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r := limitedRouter(NewLocalLimiter(1, time.Minute), AllowPrivateIP())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "10.0.0.5").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, http.MethodGet, "198.51.100.1").Code)
}

type brokenLimiter struct{}

func (brokenLimiter) Take(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("redis down")
}
func (brokenLimiter) Max() int { return 1 }

func TestRateLimit_FailOpen(t *testing.T) {
	r := limitedRouter(brokenLimiter{}, nil)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "203.0.113.9").Code)
	}
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(nil, 0, time.Minute))
	assert.IsType(t, &LocalLimiter{}, NewLimiter(nil, 10, time.Minute))

	// nil limiter disables limiting entirely
	r := limitedRouter(nil, nil)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet, "203.0.113.1").Code)
}

func TestKeyByUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "192.0.2.1")
	assert.Equal(t, "rl:user:anon:ip:192.0.2.1", KeyByUserID()(c))
	c.Set(CtxUserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var got string
	r.GET("/", func(c *gin.Context) { got = c.GetString("request_id") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", got)
}
