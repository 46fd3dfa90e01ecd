package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdnode/internal/adapters/cas"
	"go.trai.ch/sdnode/internal/adapters/imagecodec"
	"go.trai.ch/sdnode/internal/core/domain"
)

func newStore(t *testing.T) *cas.Store {
	t.Helper()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "store"), imagecodec.New())
	require.NoError(t, err)
	return store
}

func testImage(channels int) *domain.Image {
	img := domain.NewImage(6, 4, channels)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7 % 256) //nolint:gosec // bounded by modulo
	}
	return img
}

func TestStore_PutAndGet(t *testing.T) {
	for _, channels := range []int{1, 3, 4} {
		store := newStore(t)
		img := testImage(channels)

		require.NoError(t, store.Put(t.Context(), "0123456789abcdef", img))

		got, err := store.Get(t.Context(), "0123456789abcdef")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, img.Width, got.Width)
		assert.Equal(t, img.Height, got.Height)
		assert.Equal(t, channels, got.Channels)
		assert.Equal(t, img.Pix, got.Pix)
	}
}

func TestStore_Layout(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Put(t.Context(), "abcdef0123456789", testImage(3)))

	assert.FileExists(t, filepath.Join(store.Root(), "ab", "abcdef0123456789.png"))
	assert.FileExists(t, filepath.Join(store.Root(), "ab", "abcdef0123456789.json"))
	assert.NoFileExists(t, filepath.Join(store.Root(), "ab", "abcdef0123456789.png.tmp"))
}

func TestStore_GetMiss(t *testing.T) {
	store := newStore(t)

	got, err := store.Get(t.Context(), "ffffffffffffffff")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_IncompleteEntryIsMiss(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Put(t.Context(), "abcdef0123456789", testImage(3)))
	require.NoError(t, os.Remove(filepath.Join(store.Root(), "ab", "abcdef0123456789.json")))

	got, err := store.Get(t.Context(), "abcdef0123456789")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptMetadata(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Put(t.Context(), "abcdef0123456789", testImage(3)))

	metaPath := filepath.Join(store.Root(), "ab", "abcdef0123456789.json")
	require.NoError(t, os.WriteFile(metaPath, []byte("{"), domain.FilePerm))

	_, err := store.Get(t.Context(), "abcdef0123456789")
	require.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_MissingImage(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Put(t.Context(), "abcdef0123456789", testImage(3)))
	require.NoError(t, os.Remove(filepath.Join(store.Root(), "ab", "abcdef0123456789.png")))

	_, err := store.Get(t.Context(), "abcdef0123456789")
	require.ErrorContains(t, err, domain.ErrStoreReadFailed.Error())
}

func TestStore_PutInvalidImage(t *testing.T) {
	store := newStore(t)
	bad := domain.NewImage(2, 2, 3)
	bad.Pix = nil

	err := store.Put(t.Context(), "abcdef0123456789", bad)
	require.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())
}

func TestStore_Clean(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Put(t.Context(), "abcdef0123456789", testImage(3)))

	require.NoError(t, store.Clean())
	assert.NoDirExists(t, store.Root())
}

func TestNewStore_CreateFailed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, domain.FilePerm))

	_, err := cas.NewStore(filepath.Join(file, "store"), imagecodec.New())
	require.ErrorContains(t, err, domain.ErrStoreCreateFailed.Error())
}
