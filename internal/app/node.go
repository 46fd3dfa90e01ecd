package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdnode/internal/adapters/cas"        //nolint:depguard // Wired in app layer
	"go.trai.ch/sdnode/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sdnode/internal/adapters/imagecodec" //nolint:depguard // Wired in app layer
	"go.trai.ch/sdnode/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sdnode/internal/adapters/metrics"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sdnode/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			imagecodec.NodeID,
			cas.NodeID,
			metrics.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	codec, err := graft.Dep[ports.ImageCodec](ctx)
	if err != nil {
		return nil, err
	}

	stores, err := graft.Dep[*cas.Factory](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*metrics.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, codec, stores, recorder), nil
}
