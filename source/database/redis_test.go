package database

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisDeduper(t *testing.T) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()

	m := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+m.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisDeduper(client, time.Minute), m
}

func TestRedisDeduperRemembersKeys(t *testing.T) {
	deduper, m := newMiniredisDeduper(t)
	ctx := context.Background()

	added, err := deduper.Add(ctx, "pipeline_stage", "k1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = deduper.Add(ctx, "pipeline_stage", "k1")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = deduper.Add(ctx, "other_scope", "k1")
	require.NoError(t, err)
	assert.True(t, added, "scopes must not collide")

	assert.True(t, m.Exists("commandcenter:idempotency:pipeline_stage:k1"))
	assert.Equal(t, time.Minute, m.TTL("commandcenter:idempotency:pipeline_stage:k1"))
}

func TestRedisDeduperForgetsRemovedAndExpiredKeys(t *testing.T) {
	deduper, m := newMiniredisDeduper(t)
	ctx := context.Background()

	_, err := deduper.Add(ctx, "pipeline_stage", "retry")
	require.NoError(t, err)
	require.NoError(t, deduper.Remove(ctx, "pipeline_stage", "retry"))

	added, err := deduper.Add(ctx, "pipeline_stage", "retry")
	require.NoError(t, err)
	assert.True(t, added)

	m.FastForward(2 * time.Minute)

	added, err = deduper.Add(ctx, "pipeline_stage", "retry")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestConnectRedisRejectsBadURI(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "not a uri")
	assert.Error(t, err)
}
