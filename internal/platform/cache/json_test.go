package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*JSONCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewJSONCache(client, "test", time.Minute), mr
}

func TestFetchCachesLoaderResult(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []item{{ID: "B1", Name: "Central"}}, nil
	}

	var first, second []item
	require.NoError(t, c.Fetch(ctx, &first, loader, "branches"))
	require.NoError(t, c.Fetch(ctx, &second, loader, "branches"))
	require.Equal(t, 1, calls)
	require.Equal(t, first, second)
	require.Equal(t, "Central", second[0].Name)
}

func TestBumpInvalidates(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []item{{ID: "B1"}}, nil
	}

	var out []item
	require.NoError(t, c.Fetch(ctx, &out, loader, "branches"))
	require.NoError(t, c.Bump(ctx))
	require.NoError(t, c.Fetch(ctx, &out, loader, "branches"))
	require.Equal(t, 2, calls)
}

func TestFetchPropagatesLoaderError(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")
	var out []item
	err := c.Fetch(context.Background(), &out, func(context.Context) (any, error) { return nil, boom }, "branches")
	require.ErrorIs(t, err, boom)
}

func TestNilClientLoadsDirectly(t *testing.T) {
	c := NewJSONCache(nil, "test", time.Minute)
	var out []item
	require.NoError(t, c.Fetch(context.Background(), &out, func(context.Context) (any, error) {
		return []item{{ID: "B2"}}, nil
	}, "branches"))
	require.Equal(t, "B2", out[0].ID)
	require.NoError(t, c.Bump(context.Background()))
}

func TestRedisDownFallsBackToLoader(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	var out []item
	require.NoError(t, c.Fetch(context.Background(), &out, func(context.Context) (any, error) {
		return []item{{ID: "B3"}}, nil
	}, "branches"))
	require.Equal(t, "B3", out[0].ID)
}
