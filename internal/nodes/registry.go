// Package nodes keeps the node kinds available to a run.
package nodes

import (
	"sort"
	"sync"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry maps node IDs to nodes.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]ports.Node
}

// NewRegistry creates a registry holding the given nodes.
func NewRegistry(nodes ...ports.Node) (*Registry, error) {
	r := &Registry{nodes: make(map[string]ports.Node, len(nodes))}
	for _, n := range nodes {
		if err := r.Register(n); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a node under its schema ID.
func (r *Registry) Register(n ports.Node) error {
	id := n.Schema().ID

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[id]; ok {
		return zerr.With(domain.ErrNodeAlreadyRegistered, "node", id)
	}
	r.nodes[id] = n
	return nil
}

// Get returns the node registered under id.
func (r *Registry) Get(id string) (ports.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[id]
	if !ok {
		return nil, zerr.With(domain.ErrNodeNotFound, "node", id)
	}
	return n, nil
}

// List returns the schemas of all nodes sorted by ID.
func (r *Registry) List() []domain.NodeSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.NodeSchema, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n.Schema())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
