// Package internal provides the application initialization and runtime
// wiring: logger, dataset store, rendering engine, file watcher and the
// optional management API, supervised together until shutdown.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/hal"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/api"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/dataset"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/ofday"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/render"
)

// Run starts the application with the given options and blocks until the
// window closes, the tick budget is spent, or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("data_dir", cfg.DataDir),
		slog.Int("categories", len(cfg.Categories)),
		slog.Int("width", cfg.Display.Width),
		slog.Int("height", cfg.Display.Height))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	store := dataset.NewStore(cfg.DataDir, logger)
	store.LoadAll(cfg.Categories)
	resolver := dataset.NewResolver(store, cfg.UpdateEvery(), logger)

	titleFont := render.ResolveFont(cfg.TitleFont, logger)
	bodyFont := render.ResolveFont(cfg.BodyFont, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return dataset.Watch(gctx, store, resolver, logger)
	})

	var eng *ofday.Engine
	newApp := func(h hal.HAL) func() error {
		canvas := render.NewCanvas(h.Display().Framebuffer())
		rend := render.NewRenderer(canvas, titleFont, bodyFont, render.DefaultPalette())
		eng = ofday.New(cfg, app.configPath, store, resolver, canvas, rend, logger)
		eng.Update(time.Now())

		if cfg.HTTP.Enabled {
			startAPI(gctx, g, eng, store, resolver, cfg.HTTP.Address(), logger)
		}

		return func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			now := time.Now()
			eng.Update(now)
			eng.Display(now)
			return nil
		}
	}

	var runErr error
	if app.headless {
		runErr = hal.RunHeadless(gctx, newApp, hal.HeadlessConfig{
			Width:  cfg.Display.Width,
			Height: cfg.Display.Height,
			Hz:     app.hz,
			Ticks:  app.ticks,
		})
	} else {
		runErr = hal.RunWindow(newApp, hal.WindowConfig{
			Width:  cfg.Display.Width,
			Height: cfg.Display.Height,
			Scale:  cfg.Display.Scale,
		})
	}

	cancel()
	if waitErr := g.Wait(); waitErr != nil && !errors.Is(waitErr, context.Canceled) && runErr == nil {
		runErr = waitErr
	}

	if eng != nil {
		eng.Shutdown()
	}

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func startAPI(ctx context.Context, g *errgroup.Group, eng *ofday.Engine, store *dataset.Store, resolver *dataset.Resolver, addr string, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/api/v1", api.NewRouter(api.NewHandler(eng, store, resolver, logger)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("management api listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return srv.Shutdown(shutCtx)
	})
}
