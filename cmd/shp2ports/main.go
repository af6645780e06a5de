// Command shp2ports converts a shapefile of ports into the point-feature
// GeoJSON document the flow loader consumes. Only point shapes survive the
// conversion; the named dBASE attributes are copied onto each feature under
// the loader's property keys.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func main() {
	inputPath := flag.String("input", "", "Path to input .shp file")
	outputPath := flag.String("output", "", "Path to output .geojson file")
	nameField := flag.String("name-field", "NAME", "dBASE attribute holding the port name")
	volumeField := flag.String("volume-field", "TOTAL", "dBASE attribute holding the disembarkation count")
	nameKey := flag.String("name-key", "name", "GeoJSON property key for the port name")
	volumeKey := flag.String("volume-key", "total", "GeoJSON property key for the disembarkation count")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		log.Fatal("Input and output paths are required")
	}

	if err := run(*inputPath, *outputPath, *nameField, *volumeField, *nameKey, *volumeKey); err != nil {
		log.Fatal(err)
	}
}

func run(inputPath, outputPath, nameField, volumeField, nameKey, volumeKey string) error {
	shape, err := shp.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shape.Close()

	nameIdx, volumeIdx := -1, -1
	for i, f := range shape.Fields() {
		switch {
		case strings.EqualFold(f.String(), nameField):
			nameIdx = i
		case strings.EqualFold(f.String(), volumeField):
			volumeIdx = i
		}
	}
	if nameIdx < 0 {
		return fmt.Errorf("attribute %q not found in %s", nameField, inputPath)
	}
	if volumeIdx < 0 {
		return fmt.Errorf("attribute %q not found in %s", volumeField, inputPath)
	}

	fc := geojson.NewFeatureCollection()
	skipped := 0

	for shape.Next() {
		n, p := shape.Shape()

		pt, ok := p.(*shp.Point)
		if !ok {
			skipped++
			continue
		}

		volume, err := strconv.ParseFloat(strings.TrimSpace(shape.ReadAttribute(n, volumeIdx)), 64)
		if err != nil || volume <= 0 {
			skipped++
			continue
		}

		f := geojson.NewFeature(orb.Point{pt.X, pt.Y})
		f.Properties[nameKey] = strings.TrimSpace(shape.ReadAttribute(n, nameIdx))
		f.Properties[volumeKey] = volume
		fc.Append(f)
	}

	if err := shape.Err(); err != nil {
		return fmt.Errorf("error iterating shapes: %w", err)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Converted %d port features to %s (%d skipped)\n", len(fc.Features), outputPath, skipped)
	return nil
}
