package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"flowmapgo/internal/ui"
	"flowmapgo/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts the map handler and a shutdownFunc for graceful shutdown.
func NewServer(addr string, mapH *MapHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 3. Logs Endpoint
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// 4. Map Endpoints
	if mapH != nil {
		mux.HandleFunc("GET /api/map/layer", mapH.HandleLayer)
		mux.HandleFunc("GET /api/map/mode", mapH.HandleMode)
		mux.HandleFunc("GET /api/map/bounds", mapH.HandleBounds)
		mux.HandleFunc("GET /api/map/scale", mapH.HandleScale)
	}

	// 5. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 6. Static Frontend Serving (SPA)
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}

	spaFS := &spaFileSystem{root: http.FS(distFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
