// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sdnode/internal/adapters/cas"
	_ "go.trai.ch/sdnode/internal/adapters/config"
	_ "go.trai.ch/sdnode/internal/adapters/imagecodec"
	_ "go.trai.ch/sdnode/internal/adapters/logger"
	_ "go.trai.ch/sdnode/internal/adapters/metrics"
	// Register app nodes.
	_ "go.trai.ch/sdnode/internal/app"
)
