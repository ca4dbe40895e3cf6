package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TTLs for cached entities. Single-row reads are cheap to rebuild, so the
// windows stay short and writes invalidate eagerly.
const (
	UserTTL = 5 * time.Minute
	PostTTL = 2 * time.Minute
)

// UserKey returns the cache key for a user row.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// PostKey returns the cache key for a post row.
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		// Treat any Redis failure (including a miss) as a cache miss.
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result in Redis with ttl (best-effort).
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate deletes the given key (best-effort).
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	client.Del(ctx, key)
}

// InvalidateUser drops the cached row for a user.
func InvalidateUser(ctx context.Context, id uint) {
	Invalidate(ctx, UserKey(id))
}

// InvalidatePost drops the cached row for a post.
func InvalidatePost(ctx context.Context, id uint) {
	Invalidate(ctx, PostKey(id))
}
