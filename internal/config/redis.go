package config

// Redis backs the allocation lease, the report cache and the rate limit
// on the allocation trigger. When the server cannot be reached the
// constructor returns nil and callers run without all three.

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment:
//
//	REDIS_ADDR       host:port shorthand
//	REDIS_HOST/PORT  take precedence over REDIS_ADDR when both are set
//	REDIS_PASSWORD   optional password
//	REDIS_DB         database number (default 0)
//	REDIS_TLS        enable TLS when "true" or "1"
func RedisOptions() *redis.Options {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient connects with RedisOptions and pings the server. It
// returns nil when the ping fails.
func NewRedisClient() *redis.Client {
	opts := RedisOptions()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("config: redis %s unreachable, lease/cache/rate limit disabled: %v", opts.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
