package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"flowmapgo/internal/api"
	"flowmapgo/pkg/cluster"
	"flowmapgo/pkg/config"
	"flowmapgo/pkg/flow"
	"flowmapgo/pkg/logging"
	"flowmapgo/pkg/probe"
	"flowmapgo/pkg/render"
	"flowmapgo/pkg/request"
	"flowmapgo/pkg/version"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault("configs/flowmap.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/flowmap.yaml")
		return
	}

	if err := run(context.Background(), "configs/flowmap.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Optional .env for source URL overrides.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("FlowmapGo Started", "version", version.Version)

	// A failed load is terminal for the data layers, not for the app:
	// the server still comes up and serves the base map with no layers.
	mapH := buildMapHandler(ctx, appCfg)
	return runServer(ctx, appCfg, mapH)
}

// buildMapHandler loads the dataset and wires the map endpoints.
// Returns nil when the load or a critical startup check fails; the
// server then serves the frontend without the map API.
func buildMapHandler(ctx context.Context, appCfg *config.Config) *api.MapHandler {
	reqClient := request.New(request.ClientConfig{
		Retries:   appCfg.Request.Retries,
		Timeout:   time.Duration(appCfg.Request.Timeout),
		BaseDelay: time.Duration(appCfg.Request.Backoff.BaseDelay),
		MaxDelay:  time.Duration(appCfg.Request.Backoff.MaxDelay),
	})

	loader := flow.NewLoader(reqClient,
		flow.Sources{
			Origin:       appCfg.Data.OriginURL,
			Destinations: appCfg.Data.DestinationsURL,
		},
		flow.PropertyKeys{
			Name:   appCfg.Data.NameProperty,
			Volume: appCfg.Data.VolumeProperty,
		})

	ds, err := loader.Load(ctx)
	if err != nil {
		slog.Error("Failed to load dataset, serving base map only", "error", err)
		return nil
	}
	slog.Info("Dataset loaded",
		"origin", ds.Origin.Name,
		"destinations", len(ds.Destinations),
		"max_volume", ds.Bounds.Max)

	results := probe.Run(ctx, datasetProbes(ds))
	if err := probe.AnalyzeResults(results); err != nil {
		slog.Error("Startup checks failed, serving base map only", "error", err)
		return nil
	}

	builder := render.NewBuilder(ds, &cluster.KMeans{})
	thresholds := render.Thresholds{
		Detailed:    appCfg.Render.DetailedZoom,
		Mid:         appCfg.Render.MidZoom,
		MidClusters: appCfg.Render.MidClusters,
		LowClusters: appCfg.Render.LowClusters,
	}
	return api.NewMapHandler(ds, builder, thresholds)
}

// datasetProbes verifies the loaded dataset is renderable before the
// server starts serving layers from it.
func datasetProbes(ds *flow.Dataset) []probe.Probe {
	return []probe.Probe{
		{
			Name:     "Destination records",
			Critical: true,
			Check: func(context.Context) error {
				if len(ds.Destinations) == 0 {
					return fmt.Errorf("no destination records loaded")
				}
				return nil
			},
		},
		{
			Name:     "Volume bounds",
			Critical: true,
			Check: func(context.Context) error {
				if ds.Bounds.MinPositive <= 0 || ds.Bounds.Max <= 0 {
					return fmt.Errorf("volume bounds not positive: %+v", ds.Bounds)
				}
				return nil
			},
		},
		{
			Name:     "Map extent",
			Critical: false,
			Check: func(context.Context) error {
				if ds.Extent.MinLat == ds.Extent.MaxLat && ds.Extent.MinLon == ds.Extent.MaxLon {
					return fmt.Errorf("degenerate extent, all records share one position")
				}
				return nil
			},
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, mapH *api.MapHandler) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address, mapH, shutdownFunc)
	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
