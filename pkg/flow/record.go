// Package flow owns the disembarkation dataset: the fixed origin port,
// the destination records, and the two-stage load pipeline that builds
// the immutable session state the renderer works from.
package flow

import (
	"flowmapgo/pkg/geo"
	"flowmapgo/pkg/scale"
)

// The origin port is rendered with a fixed volume regardless of what
// the source document states, so its symbol stays commensurate with
// the destination symbols.
const (
	OriginVolume      = 1_300_000
	DefaultOriginName = "Ouidah"
)

// Record is one port with its total disembarkation volume. Immutable
// once loaded.
type Record struct {
	Name   string
	Pos    geo.Point
	Volume float64
}

// Dataset is the session state computed once after both documents
// load: the origin, the valid destination records, and the scale
// bounds over all volumes including the origin override. Renders only
// ever read from it.
type Dataset struct {
	Origin       Record
	Destinations []Record
	Bounds       scale.Bounds
	// Extent is the bounding box over origin and destinations, used by
	// the frontend for the initial map fit.
	Extent geo.Bound
}

// Volumes returns the destination volumes plus the origin volume, the
// value range the scales are built from.
func (d *Dataset) Volumes() []float64 {
	vols := make([]float64, 0, len(d.Destinations)+1)
	for _, r := range d.Destinations {
		vols = append(vols, r.Volume)
	}
	return append(vols, d.Origin.Volume)
}
