package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/utils"
)

func TestGroupOf(t *testing.T) {
	tests := map[string]string{
		"/api/posts":              "posts",
		"/api/posts/3/like":       "posts",
		"/api/users/1/activities": "users",
		"/api/resources/search":   "resources",
		"/api/":                   "",
	}
	for path, want := range tests {
		assert.Equal(t, want, groupOf("/api/", path), path)
	}
}

func TestCacheKey_DependsOnQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	a := cacheKey(cfg, "articles", httptest.NewRequest(http.MethodGet, "/api/articles?category=Pollution", nil))
	b := cacheKey(cfg, "articles", httptest.NewRequest(http.MethodGet, "/api/articles?category=Biodiversity", nil))
	c := cacheKey(cfg, "articles", httptest.NewRequest(http.MethodGet, "/api/articles?category=Pollution", nil))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.Contains(t, a, "cache:get:articles:")
	assert.Equal(t, "cache:group:articles", groupSetKey(cfg, "articles"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCaptureWriter_Truncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	calls := 0
	h := func(c echo.Context) error { calls++; return c.String(http.StatusOK, "ok") }

	cached := NewRedisCache(config.CacheConfig{Enabled: true, PathPrefix: "/api/", TTL: time.Second}, nil, nil)(h)
	limited := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, nil)(h)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		require.NoError(t, cached(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/tips", nil), rec)))
		assert.Empty(t, rec.Header().Get("X-Cache"))

		rec = httptest.NewRecorder()
		require.NoError(t, limited(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/posts", nil), rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 6, calls)
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	assert.True(t, allowed)
	assert.EqualValues(t, 4, remaining)
	assert.Zero(t, retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{"0", "0", "1500"})
	require.True(t, ok)
	assert.False(t, allowed)
	assert.EqualValues(t, 1500, retry)
	assert.Equal(t, 2, retryAfterSeconds(retry))

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, retryAfterSeconds(-10))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/1/like", nil)
	req.RemoteAddr = "10.0.0.7:5000"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/posts/:id/like")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "rl:ip:10.0.0.7:user:anon:route:POST /api/posts/:id/like", buildRateKey(cfg, c))

	c.Set(ctxUserID, uint64(9))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:9", buildRateKey(cfg, c))
}

func TestIdentity(t *testing.T) {
	e := echo.New()
	mw := Identity("secret")
	var seen uint64
	h := mw(func(c echo.Context) error {
		seen, _ = UserIDFrom(c)
		return c.NoContent(http.StatusNoContent)
	})

	run := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if auth != "" {
			req.Header.Set(echo.HeaderAuthorization, auth)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		return rec
	}

	seen = 0
	assert.Equal(t, http.StatusNoContent, run("").Code)
	assert.Zero(t, seen)

	tok, err := utils.NewAccessToken("secret", 12, "alicia", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, run("Bearer "+tok.Token).Code)
	assert.EqualValues(t, 12, seen)

	assert.Equal(t, http.StatusUnauthorized, run("Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, run("Bearer garbage").Code)

	other, err := utils.NewAccessToken("other", 12, "alicia", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, run("Bearer "+other.Token).Code)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var got string
	h := RequestID()(func(c echo.Context) error { got = RequestIDFrom(c); return nil })

	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Len(t, got, 36)
	assert.Equal(t, got, rec.Header().Get(echo.HeaderXRequestID))
}
