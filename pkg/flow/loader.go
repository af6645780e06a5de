package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"flowmapgo/pkg/geo"
	"flowmapgo/pkg/scale"
)

// ErrEmptyCollection is returned when a fetched document parses but
// contains zero features. It aborts the rest of the pipeline.
var ErrEmptyCollection = errors.New("feature collection has no features")

// Fetcher fetches a document over HTTP. Satisfied by request.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Sources names the two GeoJSON documents.
type Sources struct {
	Origin       string
	Destinations string
}

// PropertyKeys names the feature properties carrying the port name and
// the disembarkation volume. The keys must match the source schema of
// the data files exactly.
type PropertyKeys struct {
	Name   string
	Volume string
}

// DefaultPropertyKeys matches the shipped disembarkation documents.
func DefaultPropertyKeys() PropertyKeys {
	return PropertyKeys{Name: "name", Volume: "total"}
}

// Loader loads the origin and destination documents sequentially and
// assembles the Dataset. Sources may be http(s) URLs or local file
// paths.
type Loader struct {
	fetcher Fetcher
	sources Sources
	keys    PropertyKeys
	logger  *slog.Logger
}

// NewLoader creates a Loader. Zero-value keys fall back to the default
// property schema.
func NewLoader(f Fetcher, src Sources, keys PropertyKeys) *Loader {
	if keys.Name == "" {
		keys.Name = DefaultPropertyKeys().Name
	}
	if keys.Volume == "" {
		keys.Volume = DefaultPropertyKeys().Volume
	}
	return &Loader{
		fetcher: f,
		sources: src,
		keys:    keys,
		logger:  slog.With("component", "loader"),
	}
}

// Load runs the two-stage pipeline: origin first, destinations only on
// success. A failed or empty first stage short-circuits the second.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	origin, err := l.LoadOrigin(ctx)
	if err != nil {
		return nil, fmt.Errorf("origin document: %w", err)
	}

	destinations, err := l.LoadDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("destinations document: %w", err)
	}

	ds := &Dataset{Origin: origin, Destinations: destinations}
	bounds, ok := scale.BoundsOf(ds.Volumes())
	if !ok {
		// Unreachable in practice: the origin override is positive.
		// Scaling degenerates to constant minimums.
		bounds = scale.Bounds{MinPositive: 1, Max: 1}
	}
	ds.Bounds = bounds

	positions := make([]geo.Point, 0, len(destinations)+1)
	positions = append(positions, origin.Pos)
	for _, r := range destinations {
		positions = append(positions, r.Pos)
	}
	ds.Extent, _ = geo.BoundOf(positions)

	l.logger.Info("Dataset loaded",
		"origin", origin.Name,
		"destinations", len(destinations),
		"min_positive", bounds.MinPositive,
		"max", bounds.Max)
	return ds, nil
}

// LoadOrigin fetches and parses the origin document. The single Point
// feature becomes the origin record; its volume property is ignored
// and overwritten with OriginVolume, and a missing name defaults to
// DefaultOriginName.
func (l *Loader) LoadOrigin(ctx context.Context) (Record, error) {
	fc, err := l.fetchCollection(ctx, l.sources.Origin)
	if err != nil {
		return Record{}, err
	}

	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		name := geo.StringProp(f.Properties, l.keys.Name)
		if name == "" {
			name = DefaultOriginName
		}
		return Record{
			Name:   name,
			Pos:    geo.Point{Lat: pt[1], Lon: pt[0]},
			Volume: OriginVolume,
		}, nil
	}
	return Record{}, fmt.Errorf("no point feature in %s", l.sources.Origin)
}

// LoadDestinations fetches and parses the destination document.
// Features lacking point geometry or a parseable numeric volume are
// silently skipped; that is a filtering policy, not an error.
func (l *Loader) LoadDestinations(ctx context.Context) ([]Record, error) {
	fc, err := l.fetchCollection(ctx, l.sources.Destinations)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		volume, ok := geo.NumberProp(f.Properties, l.keys.Volume)
		if !ok {
			continue
		}
		records = append(records, Record{
			Name:   geo.StringProp(f.Properties, l.keys.Name),
			Pos:    geo.Point{Lat: pt[1], Lon: pt[0]},
			Volume: volume,
		})
	}
	return records, nil
}

func (l *Loader) fetchCollection(ctx context.Context, source string) (*geojson.FeatureCollection, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyCollection)
	}
	return fc, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetcher.Get(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return data, nil
}
