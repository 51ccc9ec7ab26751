package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Licencia-api/internal/application/ports"
)

func newTestCache(t *testing.T) (*LicenceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLicenceCache(client, 30*time.Second), mr
}

func TestKey(t *testing.T) {
	assert.Equal(t, "licence:12345", key(12345))
	assert.Equal(t, "licence:gen:12345", genKey(12345))
}

func TestNewLicenceCache_TTLPorDefecto(t *testing.T) {
	c := NewLicenceCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0)
	assert.Equal(t, time.Minute, c.ttl)
}

func TestLicenceCache_SetYGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	exp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	snap, gen, err := c.Get(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Zero(t, gen)

	require.NoError(t, c.Set(ctx, 12345, gen, ports.LicenceSnapshot{Found: true, ExpiresAt: &exp}))
	assert.Equal(t, 30*time.Second, mr.TTL("licence:12345"))

	snap, gen, err = c.Get(ctx, 12345)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Found)
	assert.True(t, snap.ExpiresAt.Equal(exp))
	assert.Zero(t, gen)
}

func TestLicenceCache_InvalidacionEntreGetYSetDescartaLaEscritura(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, gen, err := c.Get(ctx, 12345)
	require.NoError(t, err)

	// Una compra se confirma mientras la verificación leía la DB.
	require.NoError(t, c.Invalidate(ctx, 12345))
	require.NoError(t, c.Set(ctx, 12345, gen, ports.LicenceSnapshot{Found: true}))
	assert.False(t, mr.Exists("licence:12345"))

	snap, gen, err := c.Get(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, int64(1), gen)

	exp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.Set(ctx, 12345, gen, ports.LicenceSnapshot{Found: true, ExpiresAt: &exp}))
	snap, _, err = c.Get(ctx, 12345)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.ExpiresAt.Equal(exp))
}

func TestLicenceCache_InvalidateBorraLaEntrada(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 12345, 0, ports.LicenceSnapshot{Found: false}))
	require.True(t, mr.Exists("licence:12345"))

	require.NoError(t, c.Invalidate(ctx, 12345))
	assert.False(t, mr.Exists("licence:12345"))
	got, err := mr.Get("licence:gen:12345")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestLicenceCache_RedisCaidoDevuelveError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	c := NewLicenceCache(client, time.Second)
	ctx := context.Background()

	snap, _, err := c.Get(ctx, 12345)
	assert.Error(t, err)
	assert.Nil(t, snap)
	assert.Error(t, c.Set(ctx, 12345, 0, ports.LicenceSnapshot{Found: true}))
	assert.Error(t, c.Invalidate(ctx, 12345))
}

func TestNewClient_URLInvalida(t *testing.T) {
	_, err := NewClient(context.Background(), "no-es-una-url")
	assert.Error(t, err)
}

func TestNewClient_Conecta(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
