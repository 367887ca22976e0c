// Package cache connects to the Redis-compatible cache that backs the login
// rate limiter.
package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/redis/go-redis/v9"

	"github.com/gracechapel/chapelcms/internal/pkg/env"
)

// Config holds the cache address. An empty Host disables the cache.
type Config struct {
	Host     string
	Port     int
	Password string
}

func LoadConfig() Config {
	return Config{
		Host:     env.GetEnv("CACHE_HOST", ""),
		Port:     env.GetEnvInt("CACHE_PORT", 6379),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
	}
}

func (c Config) Enabled() bool { return c.Host != "" }

func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Cache wraps the client used for health checks. A nil *Cache is a
// disabled cache.
type Cache struct {
	cfg    Config
	client *redis.Client
}

// New connects when the cache is configured and returns nil otherwise.
func New(cfg Config) *Cache {
	if !cfg.Enabled() {
		log.Info("[Cache] CACHE_HOST not set, using in-memory limiter storage")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	if pong, err := client.Ping(context.Background()).Result(); err != nil {
		log.Warnf("[Cache] could not connect to %s: %v", cfg.Addr(), err)
	} else {
		log.Infof("[Cache] connected to %s: %s", cfg.Addr(), pong)
	}
	return &Cache{cfg: cfg, client: client}
}

// Ping reports whether the cache answers. A disabled cache is never healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// LimiterStorage returns Redis storage for the rate limiter on database 1,
// or nil (fiber's in-memory storage) when the cache is disabled.
func (c *Cache) LimiterStorage() fiber.Storage {
	if c == nil {
		return nil
	}
	return redisstorage.New(redisstorage.Config{
		Host:     c.cfg.Host,
		Port:     c.cfg.Port,
		Password: c.cfg.Password,
		Database: 1,
		Reset:    false,
	})
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
