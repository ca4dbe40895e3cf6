package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedRow struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedRow) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Name = "alice"
			return nil
		}
	}

	var first cachedRow
	err := Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first))
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Name)
	assert.Equal(t, 1, fetches)
	assert.True(t, mr.Exists(UserKey(7)))

	// second read is served from the cache
	var second cachedRow
	err = Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches)
}

func TestAside_ExpiredEntryRefetches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var row cachedRow
	fetch := func() error {
		fetches++
		row.ID = 3
		return nil
	}

	require.NoError(t, Aside(ctx, PostKey(3), &row, time.Minute, fetch))
	mr.FastForward(2 * time.Minute)

	require.NoError(t, Aside(ctx, PostKey(3), &row, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
}

func TestInvalidate_DropsKey(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(1), cachedRow{ID: 1}, UserTTL))
	require.True(t, mr.Exists(UserKey(1)))

	InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists(UserKey(1)))
}

func TestGetJSON_NilClientIsMiss(t *testing.T) {
	SetClient(nil)

	var row cachedRow
	found, err := GetJSON(context.Background(), UserKey(1), &row)
	assert.NoError(t, err)
	assert.False(t, found)

	// writes are no-ops without a client
	assert.NoError(t, SetJSON(context.Background(), UserKey(1), row, UserTTL))
}
