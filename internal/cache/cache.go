package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/jetset/internal/models"
)

// Cache stores travel gateway answers that are safe to reuse for a while:
// location lookups and raw flight offers.
type Cache interface {
	GetLocations(ctx context.Context, query LocationKey) ([]models.Location, bool)
	SetLocations(ctx context.Context, query LocationKey, locations []models.Location) error
	GetOffers(ctx context.Context, query OfferKey) ([]json.RawMessage, bool)
	SetOffers(ctx context.Context, query OfferKey, offers []json.RawMessage) error
	Close() error
}

type LocationKey struct {
	Query        string
	LanguageCode string
}

type OfferKey struct {
	FromID       string
	ToID         string
	DepartDate   string
	ReturnDate   string
	Adults       int
	CabinClass   string
	CurrencyCode string
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      10 * time.Minute,
	}
}

// NewRedisClient connects and pings. It is shared by the cache and the
// conversation store.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithClient(client, cfg.TTL), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetLocations(ctx context.Context, query LocationKey) ([]models.Location, bool) {
	var locations []models.Location
	if !c.get(ctx, locationKey(query), &locations) {
		return nil, false
	}
	return locations, true
}

func (c *RedisCache) SetLocations(ctx context.Context, query LocationKey, locations []models.Location) error {
	return c.set(ctx, locationKey(query), locations)
}

func (c *RedisCache) GetOffers(ctx context.Context, query OfferKey) ([]json.RawMessage, bool) {
	var offers []json.RawMessage
	if !c.get(ctx, offerKey(query), &offers) {
		return nil, false
	}
	return offers, true
}

func (c *RedisCache) SetOffers(ctx context.Context, query OfferKey, offers []json.RawMessage) error {
	return c.set(ctx, offerKey(query), offers)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) get(ctx context.Context, key string, v any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetLocations(ctx context.Context, query LocationKey) ([]models.Location, bool) {
	return nil, false
}

func (c *NoOpCache) SetLocations(ctx context.Context, query LocationKey, locations []models.Location) error {
	return nil
}

func (c *NoOpCache) GetOffers(ctx context.Context, query OfferKey) ([]json.RawMessage, bool) {
	return nil, false
}

func (c *NoOpCache) SetOffers(ctx context.Context, query OfferKey, offers []json.RawMessage) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Lookups are case and whitespace insensitive.
func locationKey(q LocationKey) string {
	q.Query = strings.ToLower(strings.Join(strings.Fields(q.Query), " "))
	q.LanguageCode = strings.ToLower(q.LanguageCode)
	return "location:" + hashKey(q)
}

func offerKey(q OfferKey) string {
	return "offers:" + hashKey(q)
}

func hashKey(v any) string {
	data, _ := json.Marshal(v)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
