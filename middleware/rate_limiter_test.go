package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("1.1.1.1"))
	assert.Equal(t, http.StatusOK, hit("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("1.1.1.1"))
	assert.Equal(t, http.StatusOK, hit("2.2.2.2"))
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": " 9.9.9.9 , 10.0.0.1"}, "127.0.0.1:1234", "9.9.9.9"},
		{"real ip", map[string]string{"X-Real-IP": "8.8.8.8"}, "127.0.0.1:1234", "8.8.8.8"},
		{"remote", nil, "7.7.7.7:5555", "7.7.7.7"},
		{"remote without port", nil, "7.7.7.7", "7.7.7.7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tc.remote
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, getClientIP(c))
		})
	}
}

func TestClientLimitersSweepIdleClients(t *testing.T) {
	l := newClientLimiters(1)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.True(t, l.allow("1.1.1.1", start))
	assert.False(t, l.allow("1.1.1.1", start))
	assert.Len(t, l.clients, 1)

	later := start.Add(clientIdleTTL + time.Minute)
	assert.True(t, l.allow("2.2.2.2", later))
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "2.2.2.2")
}
