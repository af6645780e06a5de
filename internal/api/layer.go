package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"flowmapgo/pkg/flow"
	"flowmapgo/pkg/render"
)

// MapHandler serves the computed map layers. The dataset and scales
// are fixed after startup; only the zoom-dependent mode varies per
// request, so every response is derived state and the handler is
// stateless.
type MapHandler struct {
	ds         *flow.Dataset
	builder    *render.Builder
	thresholds render.Thresholds
}

// NewMapHandler creates the handler. Returns nil if the dataset is
// missing.
func NewMapHandler(ds *flow.Dataset, builder *render.Builder, th render.Thresholds) *MapHandler {
	if ds == nil || builder == nil {
		return nil
	}
	return &MapHandler{ds: ds, builder: builder, thresholds: th}
}

// HandleLayer computes the layers for the requested zoom level. The
// response is the complete render pass; the frontend clears its layer
// groups and redraws from it.
// GET /api/map/layer?zoom=Z
func (h *MapHandler) HandleLayer(w http.ResponseWriter, r *http.Request) {
	zoom, ok := parseZoom(w, r)
	if !ok {
		return
	}

	mode := h.thresholds.SelectMode(zoom)
	layer, err := h.builder.Build(mode)
	if err != nil {
		slog.Error("Failed to build layer", "zoom", zoom, "error", err)
		http.Error(w, "failed to build layer", http.StatusInternalServerError)
		return
	}

	writeJSON(w, layer)
}

// HandleMode returns only the selected mode for a zoom level.
// GET /api/map/mode?zoom=Z
func (h *MapHandler) HandleMode(w http.ResponseWriter, r *http.Request) {
	zoom, ok := parseZoom(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.thresholds.SelectMode(zoom))
}

// BoundsResponse is the dataset extent as [minLat, minLon, maxLat, maxLon],
// the order Leaflet's fitBounds expects corners in.
type BoundsResponse struct {
	BBox [4]float64 `json:"bbox"`
}

// HandleBounds returns the dataset extent for the initial map fit.
// GET /api/map/bounds
func (h *MapHandler) HandleBounds(w http.ResponseWriter, r *http.Request) {
	e := h.ds.Extent
	writeJSON(w, BoundsResponse{BBox: [4]float64{e.MinLat, e.MinLon, e.MaxLat, e.MaxLon}})
}

// ScaleResponse carries the visual encoding for a single value.
type ScaleResponse struct {
	Value  float64 `json:"value"`
	Radius float64 `json:"radius"`
	Width  float64 `json:"width"`
}

// HandleScale returns the symbol radius and line width a value would
// render with. Debug surface for inspecting the scales.
// GET /api/map/scale?value=V
func (h *MapHandler) HandleScale(w http.ResponseWriter, r *http.Request) {
	valStr := r.URL.Query().Get("value")
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}
	radius, width := h.builder.Encode(val)
	writeJSON(w, ScaleResponse{Value: val, Radius: radius, Width: width})
}

func parseZoom(w http.ResponseWriter, r *http.Request) (float64, bool) {
	zoomStr := r.URL.Query().Get("zoom")
	zoom, err := strconv.ParseFloat(zoomStr, 64)
	if err != nil {
		http.Error(w, "Invalid zoom", http.StatusBadRequest)
		return 0, false
	}
	return zoom, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
