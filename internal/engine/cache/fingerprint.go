package cache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/sdnode/internal/core/domain"
)

// KeyBuilder accumulates a node identity and its input values into a Fingerprint.
// Every field is written as its name, a 0 separator, its value and another 0 separator,
// so reordering or renaming inputs changes the fingerprint.
type KeyBuilder struct {
	hasher *xxhash.Digest
}

// NewKey starts a fingerprint for the given node ID.
func NewKey(nodeID string) *KeyBuilder {
	k := &KeyBuilder{hasher: xxhash.New()}
	_, _ = k.hasher.WriteString(nodeID)
	_, _ = k.hasher.Write([]byte{0})
	return k
}

// Text adds a text input.
func (k *KeyBuilder) Text(name, value string) *KeyBuilder {
	k.field(name)
	_, _ = k.hasher.WriteString(value)
	_, _ = k.hasher.Write([]byte{0})
	return k
}

// OptionalText adds an optional text input. Absent and empty values hash differently.
func (k *KeyBuilder) OptionalText(name string, value domain.Optional[string]) *KeyBuilder {
	k.field(name)
	v, ok := value.Get()
	if !ok {
		_, _ = k.hasher.Write([]byte{0, 0})
		return k
	}
	_, _ = k.hasher.Write([]byte{1})
	_, _ = k.hasher.WriteString(v)
	_, _ = k.hasher.Write([]byte{0})
	return k
}

// Int adds an integer input.
func (k *KeyBuilder) Int(name string, value int64) *KeyBuilder {
	k.field(name)
	k.uint64(uint64(value)) //nolint:gosec // bit pattern is hashed, sign is irrelevant
	return k
}

// Float adds a floating point input by its IEEE 754 bits.
func (k *KeyBuilder) Float(name string, value float64) *KeyBuilder {
	k.field(name)
	k.uint64(math.Float64bits(value))
	return k
}

// Bool adds a boolean input.
func (k *KeyBuilder) Bool(name string, value bool) *KeyBuilder {
	k.field(name)
	b := byte(0)
	if value {
		b = 1
	}
	_, _ = k.hasher.Write([]byte{b, 0})
	return k
}

// Image adds an image input by its shape and pixel content.
func (k *KeyBuilder) Image(name string, img *domain.Image) *KeyBuilder {
	k.field(name)
	if img == nil {
		_, _ = k.hasher.Write([]byte{0, 0})
		return k
	}
	_, _ = k.hasher.Write([]byte{1})
	k.uint64(uint64(img.Width))    //nolint:gosec // dimensions are validated positive
	k.uint64(uint64(img.Height))   //nolint:gosec // dimensions are validated positive
	k.uint64(uint64(img.Channels)) //nolint:gosec // channel count is validated positive
	_, _ = k.hasher.Write(img.Pix)
	_, _ = k.hasher.Write([]byte{0})
	return k
}

// Sum returns the fingerprint as 16 hex characters.
func (k *KeyBuilder) Sum() domain.Fingerprint {
	return domain.Fingerprint(fmt.Sprintf("%016x", k.hasher.Sum64()))
}

func (k *KeyBuilder) field(name string) {
	_, _ = k.hasher.WriteString(name)
	_, _ = k.hasher.Write([]byte{0})
}

func (k *KeyBuilder) uint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = k.hasher.Write(buf[:])
}
