package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store keeps per-visitor browsing state in Redis. Today that is just
// the selected vehicle used to filter the product catalog. Keys come
// from the session middleware: the user ID for authenticated requests,
// a cookie ID for anonymous ones.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewStore(client *goredis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func vehicleKey(sessionKey string) string {
	return fmt.Sprintf("session:%s:selected_vehicle", sessionKey)
}

// SetSelectedVehicle records the vehicle the visitor is browsing for.
func (s *Store) SetSelectedVehicle(ctx context.Context, sessionKey string, vehicleID uint) error {
	return s.client.Set(ctx, vehicleKey(sessionKey), vehicleID, s.ttl).Err()
}

// SelectedVehicle returns the selected vehicle ID, or (0, nil) when no
// vehicle is selected.
func (s *Store) SelectedVehicle(ctx context.Context, sessionKey string) (uint, error) {
	val, err := s.client.Get(ctx, vehicleKey(sessionKey)).Result()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ClearSelectedVehicle removes the selection.
func (s *Store) ClearSelectedVehicle(ctx context.Context, sessionKey string) error {
	return s.client.Del(ctx, vehicleKey(sessionKey)).Err()
}
