package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"flowmapgo/pkg/config"
)

const testOriginDoc = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"geometry": {"type": "Point", "coordinates": [2.0852, 6.3667]},
		"properties": {"name": "Ouidah"}
	}]
}`

const testDestinationsDoc = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"geometry": {"type": "Point", "coordinates": [-38.50, -12.97]},
		"properties": {"name": "Bahia", "total": 500000}
	}]
}`

func testConfig(originPath, destPath string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Data.OriginURL = originPath
	cfg.Data.DestinationsURL = destPath
	return cfg
}

func TestBuildMapHandlerLoadsDataset(t *testing.T) {
	dir := t.TempDir()
	originPath := filepath.Join(dir, "ouidah.geojson")
	destPath := filepath.Join(dir, "disembarkations_america.geojson")
	if err := os.WriteFile(originPath, []byte(testOriginDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(destPath, []byte(testDestinationsDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	h := buildMapHandler(context.Background(), testConfig(originPath, destPath))
	if h == nil {
		t.Fatal("buildMapHandler() = nil for a valid dataset")
	}
}

func TestBuildMapHandlerMissingDocuments(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(filepath.Join(dir, "missing.geojson"), filepath.Join(dir, "also_missing.geojson"))

	// A failed load must not abort startup; the handler is simply absent
	// and the server serves the base map without the map API.
	if h := buildMapHandler(context.Background(), cfg); h != nil {
		t.Fatalf("buildMapHandler() = %v for missing documents, want nil", h)
	}
}

func TestBuildMapHandlerEmptyDestinations(t *testing.T) {
	dir := t.TempDir()
	originPath := filepath.Join(dir, "ouidah.geojson")
	destPath := filepath.Join(dir, "empty.geojson")
	if err := os.WriteFile(originPath, []byte(testOriginDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(destPath, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if h := buildMapHandler(context.Background(), testConfig(originPath, destPath)); h != nil {
		t.Fatal("buildMapHandler() != nil for an empty destinations document")
	}
}
