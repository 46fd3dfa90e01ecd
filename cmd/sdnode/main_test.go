package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sdnode/internal/adapters/cas"
	"go.trai.ch/sdnode/internal/adapters/imagecodec"
	"go.trai.ch/sdnode/internal/adapters/metrics"
	"go.trai.ch/sdnode/internal/app"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports/mocks"
	"go.trai.ch/sdnode/internal/nodes/img2img"
	"go.uber.org/mock/gomock"
)

func newProvider(t *testing.T, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) ComponentProvider {
	t.Helper()
	codec := imagecodec.New()
	application := app.New(loader, logger, codec, cas.NewFactory(codec), metrics.New()).
		WithOutput(io.Discard, io.Discard).
		WithWorkingDir(t.TempDir())

	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: logger,
		}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := newProvider(t, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, io.Discard, provider)

	assert.Equal(t, exitOK, exitCode)
	assert.Contains(t, stdout.String(), "sdnode version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, exitError, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigParseFailed)
	logger.EXPECT().Error(domain.ErrConfigParseFailed)

	exitCode := run(context.Background(), []string{"ping"}, io.Discard, io.Discard, newProvider(t, loader, logger))

	assert.Equal(t, exitError, exitCode)
}

// TestRun_ContractViolation verifies that a contract violation exits with 2 instead of crashing.
func TestRun_ContractViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (*domain.Config, error) {
		panic(domain.NewSizeMismatch(img2img.NodeID, 512, 512, 256, 256))
	})

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"ping"}, io.Discard, stderr, newProvider(t, loader, logger))

	assert.Equal(t, exitContractViolation, exitCode)
	assert.Equal(t,
		"Error: contract violation in chainner:external_stable_diffusion:img2img: "+
			"expected the returned image to be 512x512px but found 256x256px instead\n",
		stderr.String())
}

// TestRun_OtherPanic verifies that panics other than contract violations are not swallowed.
func TestRun_OtherPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (*domain.Config, error) {
		panic("boom")
	})

	assert.PanicsWithValue(t, "boom", func() {
		run(context.Background(), []string{"ping"}, io.Discard, io.Discard, newProvider(t, loader, logger))
	})
}
