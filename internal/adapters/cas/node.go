package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdnode/internal/adapters/imagecodec"
	"go.trai.ch/sdnode/internal/core/ports"
)

// NodeID is the unique identifier for the disk store factory Graft node.
const NodeID graft.ID = "adapter.cas"

// Factory opens disk stores once the store path is known from the configuration.
type Factory struct {
	codec ports.ImageCodec
}

// NewFactory creates a Factory encoding images with codec.
func NewFactory(codec ports.ImageCodec) *Factory {
	return &Factory{codec: codec}
}

// Open creates a Store rooted at path.
func (f *Factory) Open(path string) (*Store, error) {
	return NewStore(path, f.codec)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{imagecodec.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			codec, err := graft.Dep[ports.ImageCodec](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(codec), nil
		},
	})
}
