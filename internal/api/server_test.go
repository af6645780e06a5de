package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerWithoutMapHandler(t *testing.T) {
	// When the dataset failed to load there is no MapHandler; the server
	// must still serve the frontend and core endpoints so the base map
	// renders with no data layers.
	srv := NewServer("localhost:0", nil, func() {})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "leaflet"),
		"root must serve the embedded map page")

	// The map API is absent, not broken.
	for _, target := range []string{
		"/api/map/layer?zoom=4",
		"/api/map/mode?zoom=4",
		"/api/map/bounds",
		"/api/map/scale?value=10",
	} {
		req = httptest.NewRequest(http.MethodGet, target, nil)
		rec = httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		assert.NotEqual(t, http.StatusInternalServerError, rec.Code, "target %s", target)
	}
}

func TestServerWithMapHandler(t *testing.T) {
	srv := NewServer("localhost:0", testMapHandler(), func() {})

	req := httptest.NewRequest(http.MethodGet, "/api/map/bounds", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
