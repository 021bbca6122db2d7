package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJwtAuth(t *testing.T) {
	t.Parallel()

	auth := NewJwtAuth("secret")
	valid, err := auth.Encode(jwt.MapClaims{"sub": "ops"})
	require.NoError(t, err)
	expired, err := auth.Encode(jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, err)
	otherKey, err := NewJwtAuth("other").Encode(jwt.MapClaims{})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "合法令牌", header: "Bearer " + valid, wantCode: http.StatusOK},
		{name: "不带 Bearer 前缀", header: valid, wantCode: http.StatusOK},
		{name: "没有令牌", wantCode: http.StatusUnauthorized},
		{name: "令牌过期", header: "Bearer " + expired, wantCode: http.StatusUnauthorized},
		{name: "签名不对", header: "Bearer " + otherKey, wantCode: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := gin.New()
			server.GET("/ping", auth.Build(), func(ctx *gin.Context) {
				claims, ok := ctx.Get(ClaimsKey)
				require.True(t, ok)
				assert.Equal(t, "webpush-platform", claims.(jwt.MapClaims)["iss"])
				ctx.String(http.StatusOK, "pong")
			})
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)
			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}

func TestMetricsBuilder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	server := gin.New()
	server.Use(NewMetricsBuilder(reg).Build())
	server.GET("/api/subscribe", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/subscribe", "/api/subscribe", "/not-found"} {
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	}

	cnt, err := testutil.GatherAndCount(reg, "http_server_handling_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	families, err := reg.Gather()
	require.NoError(t, err)
	var routes []string
	for _, m := range families[0].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "route" {
				routes = append(routes, l.GetValue())
			}
		}
	}
	assert.ElementsMatch(t, []string{"/api/subscribe", "unknown"}, routes)
	assert.True(t, strings.HasPrefix(families[0].GetName(), "http_server"))
}
