package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdnode/cmd/sdnode/commands"
	"go.trai.ch/sdnode/internal/app"
	"go.trai.ch/sdnode/internal/build"
	"go.trai.ch/sdnode/internal/nodes/img2img"
)

type mockApp struct {
	logFormat string
	verbose   bool

	img2imgFunc func(ctx context.Context, opts app.Img2ImgOptions) error
	runFunc     func(ctx context.Context, jobPath string, opts app.RunOptions) error
	pingFunc    func(ctx context.Context) error
	cleaned     bool
}

func (m *mockApp) ConfigureLogging(format string, verbose bool) error {
	m.logFormat = format
	m.verbose = verbose
	if format == "xml" {
		return errors.New("invalid log format")
	}
	return nil
}

func (m *mockApp) Img2Img(ctx context.Context, opts app.Img2ImgOptions) error {
	if m.img2imgFunc != nil {
		return m.img2imgFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Run(ctx context.Context, jobPath string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, jobPath, opts)
	}
	return nil
}

func (m *mockApp) Nodes(w io.Writer) error {
	_, err := io.WriteString(w, img2img.NodeID+"\n")
	return err
}

func (m *mockApp) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockApp) Clean(_ context.Context) error {
	m.cleaned = true
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Img2Img(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.Img2ImgOptions
		mock := &mockApp{
			img2imgFunc: func(_ context.Context, opts app.Img2ImgOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "img2img", "in.png", "out.png",
			"--prompt", "a watercolor fox",
			"--denoise", "0.5",
			"--seed", "-1",
			"--steps", "30",
			"--sampler", "DPM++ 2M Karras",
			"--cfg-scale", "7.5",
			"--resize-mode", "1",
			"-W", "500",
			"-H", "504",
			"--tiling",
			"-o", "linear",
		)
		require.NoError(t, err)

		assert.Equal(t, "in.png", captured.Input)
		assert.Equal(t, "out.png", captured.Output)
		assert.Equal(t, "linear", captured.OutputMode)
		assert.Equal(t, map[string]any{
			img2img.KeyPrompt:            "a watercolor fox",
			img2img.KeyDenoisingStrength: 0.5,
			img2img.KeySeed:              int64(-1),
			img2img.KeySteps:             30,
			img2img.KeySampler:           "DPM++ 2M Karras",
			img2img.KeyCFGScale:          7.5,
			img2img.KeyResizeMode:        "1",
			img2img.KeyWidth:             500,
			img2img.KeyHeight:            504,
			img2img.KeyTiling:            true,
		}, captured.Inputs)
	})

	t.Run("unset prompts are absent", func(t *testing.T) {
		var captured app.Img2ImgOptions
		mock := &mockApp{
			img2imgFunc: func(_ context.Context, opts app.Img2ImgOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "img2img", "in.png", "out.png", "--negative-prompt", "")
		require.NoError(t, err)

		assert.NotContains(t, captured.Inputs, img2img.KeyPrompt)
		assert.Equal(t, "", captured.Inputs[img2img.KeyNegativePrompt])
		assert.Equal(t, img2img.DefaultSteps, captured.Inputs[img2img.KeySteps])
		assert.Equal(t, "auto", captured.OutputMode)
	})

	t.Run("requires input and output", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "img2img", "in.png")
		require.Error(t, err)
	})
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedPath string

		mock := &mockApp{
			runFunc: func(_ context.Context, jobPath string, opts app.RunOptions) error {
				capturedPath = jobPath
				capturedOpts = opts
				return nil
			},
		}

		_, err := execute(t, mock, "run", "job.yaml", "-j", "3", "--ci")
		require.NoError(t, err)
		assert.Equal(t, "job.yaml", capturedPath)
		assert.Equal(t, 3, capturedOpts.Parallel)
		assert.Equal(t, "linear", capturedOpts.OutputMode)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "run", "job.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("shows usage when no job provided", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		out, err := execute(t, mock, "run")
		require.NoError(t, err)
		assert.Contains(t, out, "Usage:")
	})
}

func TestCommands_LogFlags(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "ping", "--log-format", "json", "-v")
	require.NoError(t, err)
	assert.Equal(t, "json", mock.logFormat)
	assert.True(t, mock.verbose)

	_, err = execute(t, &mockApp{}, "ping", "--log-format", "xml")
	require.ErrorContains(t, err, "invalid log format")
}

func TestCommands_Nodes(t *testing.T) {
	out, err := execute(t, &mockApp{}, "nodes")
	require.NoError(t, err)
	assert.Equal(t, img2img.NodeID+"\n", out)
}

func TestCommands_Ping(t *testing.T) {
	mock := &mockApp{
		pingFunc: func(context.Context) error {
			return errors.New("connection refused")
		},
	}

	_, err := execute(t, mock, "ping")
	require.ErrorContains(t, err, "connection refused")
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "clean")
	require.NoError(t, err)
	assert.True(t, mock.cleaned)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "sdnode version "+build.Version)
	assert.Contains(t, out, build.Commit)
}
