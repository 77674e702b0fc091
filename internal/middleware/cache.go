package middleware

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/wedding-reservation/internal/config"
)

// cachedPayload is the envelope stored in Redis for a cached response.
type cachedPayload struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// captureWriter tees the response body so a successful answer can be
// stored after the handler runs.
type captureWriter struct {
	http.ResponseWriter
	buf    *bytes.Buffer
	status int
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// NewRedisCache caches idempotent responses in Redis for a short TTL.
// Availability lookups are read-heavy and tolerate slightly stale
// answers; everything else should bypass this middleware.  A miss or a
// Redis failure falls through to the handler.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[req.Method] {
				return next(c)
			}

			key := cacheKeyFrom(cfg, c)
			ctx := req.Context()

			if raw, err := rdb.Get(ctx, key).Result(); err == nil {
				if p, err := decodePayload(raw); err == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(p.Status, p.ContentType, p.Body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				buf:            &bytes.Buffer{},
				status:         http.StatusOK,
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() > 0 && cw.buf.Len() <= cfg.MaxBodyBytes {
				contentType := c.Response().Header().Get(echo.HeaderContentType)
				if raw, err := encodePayload(cw.status, contentType, cw.buf.Bytes()); err == nil {
					if err := rdb.Set(ctx, key, raw, cfg.TTL).Err(); err != nil {
						c.Logger().Warnf("[cache] store failed for key=%s: %v", key, err)
					}
				}
			}
			return nil
		}
	}
}

func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	req := c.Request()
	parts := []string{cfg.Prefix, req.Method, c.Path()}
	switch cfg.KeyStrategy {
	case "route":
	case "route_user":
		parts = append(parts, currentUserID(c))
	default: // "route_query"
		if q := req.URL.RawQuery; q != "" {
			parts = append(parts, q)
		}
	}
	return strings.Join(parts, ":")
}

func encodePayload(status int, contentType string, body []byte) (string, error) {
	p := cachedPayload{
		Status:      status,
		ContentType: contentType,
		Body:        base64.StdEncoding.EncodeToString(body),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type decodedPayload struct {
	Status      int
	ContentType string
	Body        []byte
}

func decodePayload(raw string) (*decodedPayload, error) {
	var p cachedPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	body, err := base64.StdEncoding.DecodeString(p.Body)
	if err != nil {
		return nil, err
	}
	ct := p.ContentType
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	return &decodedPayload{Status: p.Status, ContentType: ct, Body: body}, nil
}
