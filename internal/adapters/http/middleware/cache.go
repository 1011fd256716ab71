package middleware

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// cachedResponse packs what a cache hit needs to replay the original
// response byte for byte.
type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// reportCacheKey builds a stable per-user key from route and query, so
// two users never see each other's cached reports.
func reportCacheKey(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(uint)
	tail := fmt.Sprintf("%d:%s:%s", userID, c.Path(), string(c.Request().URI().QueryString()))
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("report:%x", sum[:])
}

// ReportCache caches successful GET report responses in Redis. A nil
// client disables caching entirely, so the API runs without Redis.
func ReportCache(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	if rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := reportCacheKey(c)

		if raw, err := rdb.Get(c.Context(), key).Bytes(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				c.Set("X-Cache", "HIT")
				c.Set(fiber.HeaderContentType, cached.ContentType)
				return c.Send(cached.Body)
			}
		}

		c.Set("X-Cache", "MISS")
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			payload, err := json.Marshal(cachedResponse{
				ContentType: string(c.Response().Header.ContentType()),
				Body:        body,
			})
			if err == nil {
				_ = rdb.SetEx(c.Context(), key, payload, ttl).Err()
			}
		}
		return nil
	}
}

// NoCacheHeaders sets no-cache headers
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}
