package config

import (
	"os"
	"strconv"

	"gopkg.in/redis.v5"
)

// NewRedisClient builds a client from REDIS_URL (host:port), with optional
// REDIS_PASSWORD and REDIS_DB.
func NewRedisClient() *redis.Client {
	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			db = parsed
		}
	}

	return redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_URL"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
}
