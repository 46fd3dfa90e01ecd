// Package app implements the application layer for sdnode.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/sdnode/internal/adapters/a1111"
	"go.trai.ch/sdnode/internal/adapters/cas"
	"go.trai.ch/sdnode/internal/adapters/detector"
	"go.trai.ch/sdnode/internal/adapters/linear"
	"go.trai.ch/sdnode/internal/adapters/metrics"
	"go.trai.ch/sdnode/internal/adapters/progress"
	"go.trai.ch/sdnode/internal/adapters/redis"
	"go.trai.ch/sdnode/internal/adapters/telemetry"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/sdnode/internal/engine/cache"
	"go.trai.ch/sdnode/internal/engine/runner"
	"go.trai.ch/sdnode/internal/nodes"
	"go.trai.ch/sdnode/internal/nodes/img2img"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// logConfigurer is implemented by loggers whose format can change at run time.
type logConfigurer interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	codec        ports.ImageCodec
	stores       *cas.Factory
	metrics      *metrics.Recorder

	stdout io.Writer
	stderr io.Writer
	cwd    string

	logFormat domain.LogFormat
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	codec ports.ImageCodec,
	stores *cas.Factory,
	recorder *metrics.Recorder,
) *App {
	return &App{
		configLoader: loader,
		logger:       logger,
		codec:        codec,
		stores:       stores,
		metrics:      recorder,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput replaces the streams renderers write to. Used by tests.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWorkingDir replaces the directory sdnode.yaml is searched from. Used by tests.
func (a *App) WithWorkingDir(dir string) *App {
	a.cwd = dir
	return a
}

// ConfigureLogging applies the log flags. An empty format defers to the configuration file.
func (a *App) ConfigureLogging(format string, verbose bool) error {
	switch domain.LogFormat(format) {
	case "", domain.LogPretty, domain.LogJSON:
	default:
		return zerr.With(domain.ErrConfigInvalid, "log_format", format)
	}
	a.logFormat = domain.LogFormat(format)

	if lc, ok := a.logger.(logConfigurer); ok {
		lc.SetVerbose(verbose)
		if a.logFormat != "" {
			lc.SetJSON(a.logFormat == domain.LogJSON)
		}
	}
	return nil
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Parallel overrides run.parallel when positive.
	Parallel int
	// OutputMode is one of auto, linear or progress.
	OutputMode string
}

// Run executes the job file at jobPath.
func (a *App) Run(ctx context.Context, jobPath string, opts RunOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	job, err := a.configLoader.LoadJob(jobPath)
	if err != nil {
		return err
	}

	return a.runJob(ctx, cfg, job, opts)
}

// Img2ImgOptions configuration for the Img2Img method.
type Img2ImgOptions struct {
	Input  string
	Output string
	// Inputs are the node inputs other than the image, keyed by input key.
	Inputs     map[string]any
	OutputMode string
}

// Img2Img runs a single Image to Image invocation.
func (a *App) Img2Img(ctx context.Context, opts Img2ImgOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	inputs := make(map[string]any, len(opts.Inputs)+1)
	for k, v := range opts.Inputs {
		inputs[k] = v
	}
	inputs[img2img.KeyImage] = opts.Input

	dir, err := a.workingDir()
	if err != nil {
		return err
	}

	job := &domain.Job{
		Dir: dir,
		Invocations: []domain.Invocation{{
			Node:   img2img.NodeID,
			Inputs: inputs,
			Output: filepath.Clean(opts.Output),
		}},
	}

	return a.runJob(ctx, cfg, job, RunOptions{Parallel: 1, OutputMode: opts.OutputMode})
}

// Ping verifies the backend connection and reports the loaded model.
func (a *App) Ping(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	client := a1111.New(cfg.Backend, a1111.WithMetrics(a.metrics))
	model, err := client.Ping(ctx)
	if err != nil {
		return err
	}

	if model == "" {
		model = "unknown"
	}
	a.logger.Info(fmt.Sprintf("connected to %s (model: %s)", client.BaseURL(), model))
	return nil
}

// Clean removes the disk result store and, when configured, the Redis results.
func (a *App) Clean(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	var errs error

	store, err := a.stores.Open(cfg.Store.Path)
	if err != nil {
		errs = errors.Join(errs, err)
	} else if err := store.Clean(); err != nil {
		errs = errors.Join(errs, err)
	} else {
		a.logger.Info("removed result store " + cfg.Store.Path)
	}

	if cfg.Store.Kind == domain.StoreRedis {
		rs := redis.New(cfg.Store.Redis)
		defer func() {
			_ = rs.Close()
		}()
		n, err := rs.Clean(ctx)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			a.logger.Info(fmt.Sprintf("removed %d result(s) from redis %s", n, cfg.Store.Redis.Addr))
		}
	}

	return errs
}

// Nodes writes the schemas of all registered nodes to w.
func (a *App) Nodes(w io.Writer) error {
	registry, err := nodes.NewRegistry(img2img.New(nil, a.codec, nil))
	if err != nil {
		return err
	}
	return writeSchemas(w, registry.List())
}

func (a *App) workingDir() (string, error) {
	if a.cwd != "" {
		return a.cwd, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	return dir, nil
}

func (a *App) loadConfig() (*domain.Config, error) {
	dir, err := a.workingDir()
	if err != nil {
		return nil, err
	}

	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, err
	}

	if lc, ok := a.logger.(logConfigurer); ok && a.logFormat == "" {
		lc.SetJSON(cfg.LogFormat == domain.LogJSON)
	}
	return cfg, nil
}

// session holds the collaborators of one run.
type session struct {
	cache    *cache.Cache
	registry *nodes.Registry
	close    func()
}

func (a *App) openSession(cfg *domain.Config) (*session, error) {
	store, closeStore, err := a.openStore(cfg)
	if err != nil {
		return nil, err
	}

	opts := []cache.Option{cache.WithMetrics(a.metrics)}
	if store != nil {
		opts = append(opts, cache.WithStore(store))
	}
	invocations := cache.New(a.logger, opts...)

	backend := a1111.New(cfg.Backend, a1111.WithMetrics(a.metrics))
	registry, err := nodes.NewRegistry(img2img.New(backend, a.codec, invocations))
	if err != nil {
		closeStore()
		return nil, err
	}

	return &session{cache: invocations, registry: registry, close: closeStore}, nil
}

func (a *App) openStore(cfg *domain.Config) (ports.ResultStore, func(), error) {
	switch cfg.Store.Kind {
	case domain.StoreDisk:
		store, err := a.stores.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case domain.StoreRedis:
		store := redis.New(cfg.Store.Redis)
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

func (a *App) newRenderer(outputMode string) (ports.Renderer, error) {
	requested, err := detector.ParseMode(outputMode)
	if err != nil {
		return nil, err
	}

	if detector.ResolveMode(detector.DetectEnvironment(), requested) == detector.ModeProgress {
		return progress.NewRenderer(a.stderr), nil
	}
	return linear.NewRenderer(a.stdout, a.stderr), nil
}

//nolint:cyclop // orchestration function
func (a *App) runJob(ctx context.Context, cfg *domain.Config, job *domain.Job, opts RunOptions) error {
	renderer, err := a.newRenderer(opts.OutputMode)
	if err != nil {
		return err
	}

	sess, err := a.openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	// Spans started by the tracer are forwarded to the renderer by the bridge.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	otel.SetTracerProvider(tp)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName).WithRenderer(renderer)

	if cfg.MetricsAddr != "" {
		serveCtx, stopServing := context.WithCancel(ctx)
		defer stopServing()
		go func() {
			if err := metrics.Serve(serveCtx, cfg.MetricsAddr, a.metrics); err != nil {
				a.logger.Warn("metrics endpoint stopped: " + err.Error())
			}
		}()
	}

	parallel := cfg.Parallelism
	if opts.Parallel > 0 {
		parallel = opts.Parallel
	}

	run := runner.New(sess.registry, sess.cache, a.codec, tracer, runner.WithMetrics(a.metrics))

	var (
		results   []domain.InvocationResult
		violation any
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				violation = r
				err = domain.ErrRunFailed
			}
			_ = renderer.Stop()
		}()

		results, err = run.Run(gctx, job, parallel)
		return err
	})

	err = g.Wait()
	if violation != nil {
		panic(violation)
	}
	if err != nil {
		return err
	}

	hits := 0
	for _, res := range results {
		if res.CacheHit {
			hits++
		}
	}
	a.logger.Info(fmt.Sprintf("%d invocation(s) finished, %d served from cache", len(results), hits))
	return nil
}
