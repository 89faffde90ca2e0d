package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Ctx:    context.Background(),
	}
	t.Cleanup(rs.Close)
	return rs, mr
}

func TestDimensionKey(t *testing.T) {
	assert.Equal(t, "dim:accounts:facebook:growth", DimensionKey("accounts", "facebook", "growth"))
	assert.Equal(t, "dim:teams", DimensionKey("teams"))
}

func TestDimensionCacheRoundtrip(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	key := DimensionKey("accounts", "facebook")
	payload := []byte(`[{"id":"a1","name":"Acme"}]`)

	_, found, err := rs.GetDimension(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, rs.SetDimension(ctx, key, payload, time.Minute))

	got, found, err := rs.GetDimension(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got)
}

func TestDimensionCacheExpiry(t *testing.T) {
	rs, mr := newTestStore(t)
	ctx := context.Background()

	key := DimensionKey("teams")
	require.NoError(t, rs.SetDimension(ctx, key, []byte(`[]`), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, found, err := rs.GetDimension(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateDimension(t *testing.T) {
	rs, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, rs.SetDimension(ctx, DimensionKey("accounts", "facebook"), []byte(`a`), time.Minute))
	require.NoError(t, rs.SetDimension(ctx, DimensionKey("accounts", "google"), []byte(`b`), time.Minute))
	require.NoError(t, rs.SetDimension(ctx, DimensionKey("teams"), []byte(`c`), time.Minute))

	require.NoError(t, rs.InvalidateDimension(ctx, "accounts"))

	_, found, err := rs.GetDimension(ctx, DimensionKey("accounts", "facebook"))
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = rs.GetDimension(ctx, DimensionKey("teams"))
	require.NoError(t, err)
	assert.True(t, found)
}
