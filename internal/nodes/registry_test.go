package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports/mocks"
	"go.trai.ch/sdnode/internal/nodes"
	"go.uber.org/mock/gomock"
)

func mockNode(ctrl *gomock.Controller, id string) *mocks.MockNode {
	n := mocks.NewMockNode(ctrl)
	n.EXPECT().Schema().Return(domain.NodeSchema{ID: id, Name: id}).AnyTimes()
	return n
}

func TestRegistry_GetAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mockNode(ctrl, "b:node")
	a := mockNode(ctrl, "a:node")

	r, err := nodes.NewRegistry(b, a)
	require.NoError(t, err)

	got, err := r.Get("a:node")
	require.NoError(t, err)
	assert.Same(t, a, got)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a:node", list[0].ID)
	assert.Equal(t, "b:node", list[1].ID)
}

func TestRegistry_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := nodes.NewRegistry(mockNode(ctrl, "x"), mockNode(ctrl, "x"))
	require.ErrorContains(t, err, domain.ErrNodeAlreadyRegistered.Error())
}

func TestRegistry_NotFound(t *testing.T) {
	r, err := nodes.NewRegistry()
	require.NoError(t, err)

	_, err = r.Get("missing")
	require.ErrorContains(t, err, domain.ErrNodeNotFound.Error())
	assert.Empty(t, r.List())
}
