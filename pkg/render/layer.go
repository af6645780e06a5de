package render

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"flowmapgo/pkg/cluster"
	"flowmapgo/pkg/flow"
	"flowmapgo/pkg/geo"
	"flowmapgo/pkg/scale"
)

// Layer is one complete render pass: the proportional-symbol layer and
// the flow-line layer, built from scratch. Pass is a fresh ID per
// build so clients can verify a full redraw rather than an
// accumulation onto stale layers.
type Layer struct {
	Pass    string                     `json:"pass"`
	Mode    Mode                       `json:"mode"`
	Symbols *geojson.FeatureCollection `json:"symbols"`
	Flows   *geojson.FeatureCollection `json:"flows"`
}

// Builder produces layers from the loaded dataset. The two scale
// functions are derived once from the dataset bounds at construction.
type Builder struct {
	ds        *flow.Dataset
	radius    func(float64) float64
	width     func(float64) float64
	clusterer cluster.Clusterer
}

// NewBuilder creates a Builder over the dataset.
func NewBuilder(ds *flow.Dataset, c cluster.Clusterer) *Builder {
	return &Builder{
		ds:        ds,
		radius:    scale.Radius(ds.Bounds.Max),
		width:     scale.LineWidth(ds.Bounds),
		clusterer: c,
	}
}

// Encode returns the symbol radius and line width a volume renders
// with under the dataset's scales.
func (b *Builder) Encode(volume float64) (radius, width float64) {
	return b.radius(volume), b.width(volume)
}

// Build renders the dataset in the given mode. Calling it twice with
// the same mode yields layers with identical feature counts; nothing
// carries over between passes.
func (b *Builder) Build(mode Mode) (*Layer, error) {
	layer := &Layer{
		Pass:    uuid.NewString(),
		Mode:    mode,
		Symbols: geojson.NewFeatureCollection(),
		Flows:   geojson.NewFeatureCollection(),
	}

	b.addOriginSymbol(layer)

	switch mode.Kind {
	case KindDetailed:
		b.buildDetailed(layer)
	case KindAggregated:
		if err := b.buildAggregated(layer, mode.Clusters); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("render: unknown mode %q", mode.Kind)
	}

	return layer, nil
}

func (b *Builder) addOriginSymbol(layer *Layer) {
	origin := b.ds.Origin
	f := geojson.NewFeature(toOrbPoint(origin.Pos))
	f.Properties = geojson.Properties{
		"name":   origin.Name,
		"volume": origin.Volume,
		"radius": b.radius(origin.Volume),
		"origin": true,
		"label":  volumeLabel(origin.Name, origin.Volume),
	}
	layer.Symbols.Append(f)
}

func (b *Builder) buildDetailed(layer *Layer) {
	for _, r := range b.ds.Destinations {
		symbol := geojson.NewFeature(toOrbPoint(r.Pos))
		symbol.Properties = geojson.Properties{
			"name":   r.Name,
			"volume": r.Volume,
			"radius": b.radius(r.Volume),
			"label":  volumeLabel(r.Name, r.Volume),
		}
		layer.Symbols.Append(symbol)

		line := geojson.NewFeature(flowLine(b.ds.Origin.Pos, r.Pos))
		line.Properties = geojson.Properties{
			"name":   r.Name,
			"volume": r.Volume,
			"width":  b.width(r.Volume),
			"label":  volumeLabel(r.Name, r.Volume),
		}
		layer.Flows.Append(line)
	}
}

func (b *Builder) buildAggregated(layer *Layer, k int) error {
	points := make([]geo.Point, len(b.ds.Destinations))
	volumes := make([]float64, len(b.ds.Destinations))
	for i, r := range b.ds.Destinations {
		points[i] = r.Pos
		volumes[i] = r.Volume
	}

	groups, err := cluster.Partition(points, volumes, k, b.clusterer)
	if err != nil {
		return err
	}

	for _, g := range groups {
		members := make([]string, 0, len(g.Indices))
		for _, idx := range g.Indices {
			if name := b.ds.Destinations[idx].Name; name != "" {
				members = append(members, name)
			}
		}
		label := fmt.Sprintf("%d ports: %s disembarked", len(g.Indices), formatVolume(g.Total))
		if len(g.Indices) == 1 {
			label = fmt.Sprintf("1 port: %s disembarked", formatVolume(g.Total))
		}

		symbol := geojson.NewFeature(toOrbPoint(g.Centroid))
		symbol.Properties = geojson.Properties{
			"id":      g.ID,
			"count":   len(g.Indices),
			"members": members,
			"volume":  g.Total,
			"radius":  b.radius(g.Total),
			"label":   label,
		}
		layer.Symbols.Append(symbol)

		line := geojson.NewFeature(flowLine(b.ds.Origin.Pos, g.Centroid))
		line.Properties = geojson.Properties{
			"id":     g.ID,
			"count":  len(g.Indices),
			"volume": g.Total,
			"width":  b.width(g.Total),
			"label":  label,
		}
		layer.Flows.Append(line)
	}
	return nil
}

func toOrbPoint(p geo.Point) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

func flowLine(from, to geo.Point) orb.LineString {
	return orb.LineString{toOrbPoint(from), toOrbPoint(to)}
}

func volumeLabel(name string, volume float64) string {
	if name == "" {
		name = "Unknown port"
	}
	return fmt.Sprintf("%s: %s disembarked", name, formatVolume(volume))
}

// formatVolume renders a volume with thousands separators ("1,300,000").
func formatVolume(v float64) string {
	n := int64(v + 0.5)
	if n < 0 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
