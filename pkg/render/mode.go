// Package render turns the loaded dataset into the symbol and
// flow-line layers the map frontend draws, switching between a
// detailed per-port view and a k-means aggregated view depending on
// the zoom level.
package render

// ModeKind distinguishes the two rendering modes.
type ModeKind string

const (
	// KindDetailed renders one symbol and one flow line per record.
	KindDetailed ModeKind = "detailed"
	// KindAggregated renders one symbol and one flow line per cluster.
	KindAggregated ModeKind = "aggregated"
)

// Mode is the rendering mode selected for a zoom level. Clusters is
// only meaningful for KindAggregated.
type Mode struct {
	Kind     ModeKind `json:"kind"`
	Clusters int      `json:"clusters,omitempty"`
}

// Detailed is the per-record mode.
var Detailed = Mode{Kind: KindDetailed}

// Aggregated returns the clustered mode with the given cluster count.
func Aggregated(k int) Mode {
	return Mode{Kind: KindAggregated, Clusters: k}
}

// Thresholds holds the zoom tiers for mode selection.
//
//	zoom >= Detailed          -> detailed view
//	Mid <= zoom < Detailed    -> aggregated, MidClusters groups
//	zoom < Mid                -> aggregated, LowClusters groups
type Thresholds struct {
	Detailed    float64 `yaml:"detailed"`
	Mid         float64 `yaml:"mid"`
	MidClusters int     `yaml:"mid_clusters"`
	LowClusters int     `yaml:"low_clusters"`
}

// DefaultThresholds is the 5/3 tier set with 20/5 clusters.
func DefaultThresholds() Thresholds {
	return Thresholds{Detailed: 5, Mid: 3, MidClusters: 20, LowClusters: 5}
}

// SelectMode picks the rendering mode for a zoom level. Pure function,
// re-evaluated independently on every zoom change; no hysteresis.
func (t Thresholds) SelectMode(zoom float64) Mode {
	switch {
	case zoom >= t.Detailed:
		return Detailed
	case zoom >= t.Mid:
		return Aggregated(t.MidClusters)
	default:
		return Aggregated(t.LowClusters)
	}
}
