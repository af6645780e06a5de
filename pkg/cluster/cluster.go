// Package cluster partitions destination ports into geographic groups
// for the aggregated map view.
package cluster

import (
	"fmt"
	"sort"

	"github.com/golang/geo/s2"

	"flowmapgo/pkg/geo"
)

// Clusterer abstracts the clustering implementation. Any algorithm that
// assigns each input point to one of k groups satisfies the contract;
// the shipped implementation is Lloyd's k-means, but the rendering
// pipeline only depends on this interface.
type Clusterer interface {
	// Cluster returns one group index in [0, k) per input point, in
	// input order. k is clamped to len(points) by implementations.
	Cluster(points []geo.Point, k int) ([]int, error)
}

// Group is one aggregated cluster of destination records. It lives for
// a single render pass and is rebuilt from scratch on the next.
type Group struct {
	ID       string
	Indices  []int // indices into the caller's record slice, ascending
	Centroid geo.Point
	Total    float64
}

// s2IDLevel is the S2 cell level used for group identity (~600m cells).
// Tokens at this level are stable across re-renders as long as the
// centroid stays put, so the frontend can correlate popups between
// redraws.
const s2IDLevel = 10

func groupID(p geo.Point) string {
	ll := s2.LatLngFromDegrees(p.Lat, p.Lon)
	return "s2_" + s2.CellIDFromLatLng(ll).Parent(s2IDLevel).ToToken()
}

// Partition clusters the given points into at most k non-empty groups
// and aggregates the parallel volumes. Groups are sorted by centroid
// (Lat, then Lon) for reproducibility.
func Partition(points []geo.Point, volumes []float64, k int, c Clusterer) ([]Group, error) {
	if len(points) != len(volumes) {
		return nil, fmt.Errorf("cluster: %d points but %d volumes", len(points), len(volumes))
	}
	if len(points) == 0 {
		return nil, nil
	}
	if k < 1 {
		k = 1
	}

	assignments, err := c.Cluster(points, k)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	if len(assignments) != len(points) {
		return nil, fmt.Errorf("cluster: got %d assignments for %d points", len(assignments), len(points))
	}

	byGroup := make(map[int][]int)
	for i, g := range assignments {
		byGroup[g] = append(byGroup[g], i)
	}

	groups := make([]Group, 0, len(byGroup))
	for _, indices := range byGroup {
		sort.Ints(indices)
		members := make([]geo.Point, len(indices))
		var total float64
		for j, idx := range indices {
			members[j] = points[idx]
			total += volumes[idx]
		}
		centroid := geo.Centroid(members)
		groups = append(groups, Group{
			ID:       groupID(centroid),
			Indices:  indices,
			Centroid: centroid,
			Total:    total,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Centroid.Lat != groups[j].Centroid.Lat {
			return groups[i].Centroid.Lat < groups[j].Centroid.Lat
		}
		return groups[i].Centroid.Lon < groups[j].Centroid.Lon
	})
	return groups, nil
}
