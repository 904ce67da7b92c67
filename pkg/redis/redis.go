package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/partsden/partsden-backend/config"
	"github.com/partsden/partsden-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var client *redis.Client

// revokedKey namespaces revoked JWTs away from the session keys that
// share this Redis instance.
func revokedKey(token string) string {
	return fmt.Sprintf("partsden:revoked:%s", token)
}

// Init connects the shared client. Redis backs token revocation and the
// selected-vehicle session store, so startup fails hard if it is down.
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Redis ping failed", err, map[string]interface{}{
			"addr": fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			"db":   cfg.DB,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connected", map[string]interface{}{
		"addr": fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		"db":   cfg.DB,
	})
	return nil
}

// GetClient returns the shared Redis client.
func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	return client.Close()
}

// BlacklistToken revokes a JWT until its natural expiry. Logout stores
// the token here so it cannot be replayed before it expires.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if err := client.Set(ctx, revokedKey(token), 1, expiry).Err(); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}
	return nil
}

// IsTokenBlacklisted reports whether a JWT was revoked via logout.
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		logger.Error("Failed to check token revocation", err)
		return false, err
	}
	return n > 0, nil
}
