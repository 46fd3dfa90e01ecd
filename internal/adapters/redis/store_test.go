package redis_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdnode/internal/adapters/redis"
	"go.trai.ch/sdnode/internal/core/domain"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func testImage() *domain.Image {
	img := domain.NewImage(3, 2, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(255 - i) //nolint:gosec // small index
	}
	return img
}

func TestStore_PutAndGet(t *testing.T) {
	store, mr := newStore(t)
	img := testImage()

	require.NoError(t, store.Put(t.Context(), "abc", img))
	assert.True(t, mr.Exists("sdnode:result:abc"))

	got, err := store.Get(t.Context(), "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, img, got)
}

func TestStore_GetMiss(t *testing.T) {
	store, _ := newStore(t)

	got, err := store.Get(t.Context(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("team:"))
	require.NoError(t, store.Put(t.Context(), "abc", testImage()))

	assert.True(t, mr.Exists("team:result:abc"))
	assert.False(t, mr.Exists("sdnode:result:abc"))
}

func TestStore_TTL(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Hour))
	require.NoError(t, store.Put(t.Context(), "abc", testImage()))

	assert.Equal(t, time.Hour, mr.TTL("sdnode:result:abc"))

	mr.FastForward(2 * time.Hour)
	got, err := store.Get(t.Context(), "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptEntry(t *testing.T) {
	store, mr := newStore(t)
	mr.HSet("sdnode:result:abc", "width", "wide", "height", "2", "channels", "3", "pix", "x")

	_, err := store.Get(t.Context(), "abc")
	require.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())

	mr.HSet("sdnode:result:abc", "width", "3")
	_, err = store.Get(t.Context(), "abc")
	require.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_Clean(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, store.Put(t.Context(), "a", testImage()))
	require.NoError(t, store.Put(t.Context(), "b", testImage()))
	require.NoError(t, mr.Set("sdnode:other", "kept"))

	removed, err := store.Clean(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, mr.Exists("sdnode:other"))
}

func TestStore_Unavailable(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	require.Error(t, store.Ping(t.Context()))

	_, err := store.Get(t.Context(), "abc")
	require.ErrorContains(t, err, domain.ErrStoreReadFailed.Error())

	err = store.Put(t.Context(), "abc", testImage())
	require.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())
}

func TestNew_FromConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redis.New(domain.RedisConfig{Addr: mr.Addr(), Prefix: "cfg:", TTL: time.Minute})
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(t.Context()))
	require.NoError(t, store.Put(t.Context(), "abc", testImage()))
	assert.True(t, mr.Exists("cfg:result:abc"))
	assert.Equal(t, time.Minute, mr.TTL("cfg:result:abc"))
}
