package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// truncated reports whether the body outgrew the capture limit.
func (cw *captureWriter) truncated() bool { return cw.limit > 0 && cw.size > cw.limit }

// dependents lists extra groups whose cached reads a write to the key group
// makes stale.  Logging an activity changes /api/users/:id/activities.
var dependents = map[string][]string{
	"activities": {"users"},
}

// groupOf returns the entity group of a path under pathPrefix: the first
// segment after the prefix ("/api/posts/3/like" -> "posts").
func groupOf(pathPrefix, path string) string {
	rest := strings.TrimPrefix(path, pathPrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func groupSetKey(cfg config.CacheConfig, group string) string {
	return cfg.Prefix + ":group:" + group
}

// cacheKey is stable for a group and full request URI, so the same path
// with different filters caches separately.
func cacheKey(cfg config.CacheConfig, group string, r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:get:%s:%x", cfg.Prefix, group, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// NewRedisCache caches successful GET responses under cfg.PathPrefix, with
// their headers, for cfg.TTL.  Every cached key is indexed in a Redis set
// per entity group; a successful write under the prefix deletes its group
// (and dependent groups) so the next read refetches.  With caching
// disabled or no client the middleware is a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, cfg.PathPrefix) {
				return next(c)
			}
			group := groupOf(cfg.PathPrefix, req.URL.Path)
			if req.Method != http.MethodGet {
				return invalidateAfter(c, next, cfg, rdb, log, group)
			}

			ctx := req.Context()
			key := cacheKey(cfg, group, req)
			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) || strings.EqualFold(k, echo.HeaderXRequestID) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			} else if err != redis.Nil {
				log.Debug("cache get failed", zap.String("key", key), zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			// the response is already written; store under a fresh context
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			_, err = rdb.TxPipelined(sctx, func(p redis.Pipeliner) error {
				p.SetEx(sctx, key, payload, cfg.TTL)
				p.SAdd(sctx, groupSetKey(cfg, group), key)
				p.Expire(sctx, groupSetKey(cfg, group), cfg.TTL*2)
				return nil
			})
			if err != nil {
				log.Debug("cache store failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

// invalidateAfter runs a write and, when it succeeded, drops every cached
// read of its group and of the groups that depend on it.
func invalidateAfter(c echo.Context, next echo.HandlerFunc, cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger, group string) error {
	if err := next(c); err != nil {
		return err
	}
	if st := c.Response().Status; st < 200 || st >= 300 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), time.Second)
	defer cancel()
	for _, g := range append([]string{group}, dependents[group]...) {
		if err := InvalidateGroup(ctx, rdb, cfg, g); err != nil {
			log.Warn("cache invalidation failed", zap.String("group", g), zap.Error(err))
		}
	}
	return nil
}

// InvalidateGroup deletes every cached response of an entity group.
func InvalidateGroup(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig, group string) error {
	setKey := groupSetKey(cfg, group)
	keys, err := rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	return rdb.Del(ctx, append(keys, setKey)...).Err()
}
