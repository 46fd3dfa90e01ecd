// Package img2img implements the Image to Image node backed by the Automatic1111 web UI.
package img2img

import (
	"context"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the registered ID of the node.
const NodeID = "chainner:external_stable_diffusion:img2img"

var _ ports.Node = (*Node)(nil)

// Node sends an image to the img2img endpoint and returns the generated image.
type Node struct {
	backend ports.Backend
	codec   ports.ImageCodec
	cache   ports.InvocationCache
}

// New creates a Node. The cache deduplicates Run calls by fingerprint.
func New(backend ports.Backend, codec ports.ImageCodec, cache ports.InvocationCache) *Node {
	return &Node{
		backend: backend,
		codec:   codec,
		cache:   cache,
	}
}

// Schema returns the UI metadata of the node.
func (n *Node) Schema() domain.NodeSchema {
	return schema()
}

// Run validates the inputs and returns the output, computing it at most once per fingerprint.
func (n *Node) Run(ctx context.Context, in *Inputs) (*domain.Image, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	captured := *in
	return n.cache.Invoke(ctx, captured.Fingerprint(), func(ctx context.Context) (*domain.Image, error) {
		return n.Compute(ctx, &captured)
	})
}

// RunMap decodes loosely typed inputs and calls Run.
func (n *Node) RunMap(ctx context.Context, values map[string]any) (*domain.Image, error) {
	in, err := Decode(values)
	if err != nil {
		return nil, err
	}
	return n.Run(ctx, &in)
}

// Prepare decodes and validates loosely typed inputs and captures them into an invocation.
func (n *Node) Prepare(values map[string]any) (*ports.Prepared, error) {
	in, err := Decode(values)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	return &ports.Prepared{
		NodeID:      NodeID,
		Fingerprint: in.Fingerprint(),
		Compute: func(ctx context.Context) (*domain.Image, error) {
			return n.Compute(ctx, &in)
		},
	}, nil
}

// Payload builds the img2img request. Width and height are quantized to the latent grid.
func (n *Node) Payload(in *Inputs) (*domain.Img2ImgPayload, error) {
	encoded, err := n.codec.EncodeBase64(in.Image)
	if err != nil {
		return nil, err
	}

	width, height := domain.NearestValidSize(in.Width, in.Height)

	return &domain.Img2ImgPayload{
		InitImages:        []string{encoded},
		Prompt:            in.Prompt.OrElse(""),
		NegativePrompt:    in.NegativePrompt.OrElse(""),
		DenoisingStrength: in.DenoisingStrength,
		Seed:              in.Seed.ToU32(),
		Steps:             in.Steps,
		SamplerName:       string(in.Sampler),
		CFGScale:          in.CFGScale,
		Width:             width,
		Height:            height,
		ResizeMode:        in.ResizeMode.Value(),
		Tiling:            in.Tiling,
	}, nil
}

// Compute performs one backend call without consulting the cache.
// It panics with a *domain.ContractViolation when the returned image has the wrong size.
func (n *Node) Compute(ctx context.Context, in *Inputs) (*domain.Image, error) {
	payload, err := n.Payload(in)
	if err != nil {
		return nil, err
	}

	res, err := n.backend.Img2Img(ctx, payload)
	if err != nil {
		return nil, err
	}
	if len(res.Images) == 0 {
		return nil, zerr.With(domain.ErrBackendResponseInvalid, "reason", "response has no images")
	}

	img, err := n.codec.DecodeBase64(res.Images[0], domain.RGBChannels)
	if err != nil {
		return nil, err
	}

	if img.Width != payload.Width || img.Height != payload.Height {
		panic(domain.NewSizeMismatch(NodeID, payload.Width, payload.Height, img.Width, img.Height))
	}

	return img, nil
}
