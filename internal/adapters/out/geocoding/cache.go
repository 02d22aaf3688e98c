package geocoding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace    = "fooddispatch"
	geocodePrefix   = "geocode"
	DefaultCacheTTL = 24 * time.Hour
)

// Store is the part of a Redis client the cache uses; *redis.Client satisfies it.
type Store interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// CachedGeocoder remembers resolved addresses in Redis. Failed lookups are
// not cached, and a Redis outage only costs the cache: lookups fall through
// to the wrapped geocoder.
type CachedGeocoder struct {
	next   ports.Geocoder
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.Geocoder = (*CachedGeocoder)(nil)

func NewCachedGeocoder(next ports.Geocoder, store Store, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedGeocoder{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "geocoding_cache"),
	}
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *CachedGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	key := CacheKey(address)

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if point, decodeErr := decodePoint(cached); decodeErr == nil {
			return point, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed geocode cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "geocode cache read failed", "error", err)
	}

	point, err := c.next.Resolve(ctx, address)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	if err = c.store.Set(ctx, key, encodePoint(point), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "geocode cache write failed", "error", err)
	}
	return point, nil
}

// CacheKey normalises case and whitespace so trivially different spellings of
// an address share one entry.
func CacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha256.Sum256([]byte(normalized))
	return strings.Join([]string{keyNamespace, geocodePrefix, hex.EncodeToString(sum[:])}, ":")
}

func encodePoint(p kernel.GeoPoint) string {
	return strconv.FormatFloat(p.Latitude(), 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude(), 'f', -1, 64)
}

func decodePoint(s string) (kernel.GeoPoint, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return kernel.GeoPoint{}, fmt.Errorf("malformed point %q", s)
	}
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	return kernel.NewGeoPoint(latitude, longitude)
}
