package config

import (
	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when no address is configured.
func NewRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
