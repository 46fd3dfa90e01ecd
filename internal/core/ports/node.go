package ports

import "go.trai.ch/sdnode/internal/core/domain"

// Prepared is a node invocation with captured inputs, ready to run through an InvocationCache.
type Prepared struct {
	NodeID      string
	Fingerprint domain.Fingerprint
	Compute     ComputeFunc
}

// Node is a registered node kind.
//
//go:generate mockgen -source=node.go -destination=mocks/mock_node.go -package=mocks
type Node interface {
	// Schema returns the UI metadata of the node.
	Schema() domain.NodeSchema

	// Prepare decodes loosely typed inputs, validates them and captures them into an invocation.
	Prepare(inputs map[string]any) (*Prepared, error)
}
