package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/engine/cache"
)

func baseKey(img *domain.Image) *cache.KeyBuilder {
	return cache.NewKey("node").
		Image("image", img).
		OptionalText("prompt", domain.Some("a cat")).
		Float("denoise", 0.75).
		Int("seed", 42).
		Bool("tiling", false)
}

func TestKeyBuilder_Stable(t *testing.T) {
	img := domain.NewImage(2, 2, 3)

	a := baseKey(img).Sum()
	b := baseKey(img).Sum()

	assert.Equal(t, a, b)
	assert.Len(t, a.String(), 16)
	assert.False(t, a.IsZero())
}

func TestKeyBuilder_SensitiveToEveryInput(t *testing.T) {
	img := domain.NewImage(2, 2, 3)
	base := baseKey(img).Sum()

	otherPix := domain.NewImage(2, 2, 3)
	otherPix.Pix[0] = 1

	variants := map[string]domain.Fingerprint{
		"node id": cache.NewKey("other").
			Image("image", img).OptionalText("prompt", domain.Some("a cat")).
			Float("denoise", 0.75).Int("seed", 42).Bool("tiling", false).Sum(),
		"pixels": baseKeyWith(otherPix, domain.Some("a cat"), 0.75, 42, false),
		"shape":  baseKeyWith(domain.NewImage(4, 1, 3), domain.Some("a cat"), 0.75, 42, false),
		"prompt": baseKeyWith(img, domain.Some("a dog"), 0.75, 42, false),
		"absent": baseKeyWith(img, domain.None[string](), 0.75, 42, false),
		"float":  baseKeyWith(img, domain.Some("a cat"), 0.76, 42, false),
		"seed":   baseKeyWith(img, domain.Some("a cat"), 0.75, 43, false),
		"bool":   baseKeyWith(img, domain.Some("a cat"), 0.75, 42, true),
	}

	seen := map[domain.Fingerprint]string{base: "base"}
	for name, fp := range variants {
		assert.NotEqual(t, base, fp, name)
		if prev, ok := seen[fp]; ok {
			t.Errorf("%s collides with %s", name, prev)
		}
		seen[fp] = name
	}
}

func TestKeyBuilder_AbsentAndEmptyDiffer(t *testing.T) {
	absent := cache.NewKey("node").OptionalText("prompt", domain.None[string]()).Sum()
	empty := cache.NewKey("node").OptionalText("prompt", domain.Some("")).Sum()
	assert.NotEqual(t, absent, empty)
}

func TestKeyBuilder_FieldBoundaries(t *testing.T) {
	a := cache.NewKey("node").Text("a", "bc").Text("d", "").Sum()
	b := cache.NewKey("node").Text("a", "b").Text("cd", "").Sum()
	assert.NotEqual(t, a, b)
}

func baseKeyWith(img *domain.Image, prompt domain.Optional[string], denoise float64, seed int64, tiling bool) domain.Fingerprint {
	return cache.NewKey("node").
		Image("image", img).
		OptionalText("prompt", prompt).
		Float("denoise", denoise).
		Int("seed", seed).
		Bool("tiling", tiling).
		Sum()
}
