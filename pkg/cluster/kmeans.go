package cluster

import (
	"sort"

	"flowmapgo/pkg/geo"
)

// KMeans is a deterministic Lloyd's-algorithm clusterer over geographic
// positions. Seeding is not random: initial centroids are spread evenly
// over the input sorted by (Lat, Lon), so repeated runs over the same
// dataset produce the same partition.
type KMeans struct {
	// MaxIterations bounds the refinement loop. Zero means the default.
	MaxIterations int
}

const defaultMaxIterations = 50

// Cluster implements Clusterer.
func (km *KMeans) Cluster(points []geo.Point, k int) ([]int, error) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	maxIter := km.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	centroids := seedCentroids(points, k)
	assignments := make([]int, n)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignments[i] != best {
				changed = true
				assignments[i] = best
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; reseed any emptied cluster to the point
		// farthest from its current centroid so k groups survive.
		sums := make([]geo.Point, k)
		counts := make([]int, k)
		for i, p := range points {
			g := assignments[i]
			sums[g].Lat += p.Lat
			sums[g].Lon += p.Lon
			counts[g]++
		}
		for g := 0; g < k; g++ {
			if counts[g] == 0 {
				centroids[g] = farthestPoint(points, assignments, centroids)
				continue
			}
			centroids[g] = geo.Point{
				Lat: sums[g].Lat / float64(counts[g]),
				Lon: sums[g].Lon / float64(counts[g]),
			}
		}
	}

	return assignments, nil
}

// seedCentroids picks k initial centroids evenly spaced over the points
// sorted by (Lat, Lon).
func seedCentroids(points []geo.Point, k int) []geo.Point {
	sorted := make([]geo.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Lat != sorted[j].Lat {
			return sorted[i].Lat < sorted[j].Lat
		}
		return sorted[i].Lon < sorted[j].Lon
	})

	centroids := make([]geo.Point, k)
	for g := 0; g < k; g++ {
		idx := g * (len(sorted) - 1) / max(k-1, 1)
		centroids[g] = sorted[idx]
	}
	return centroids
}

func nearestCentroid(p geo.Point, centroids []geo.Point) int {
	best := 0
	bestDist := geo.Distance(p, centroids[0])
	for g := 1; g < len(centroids); g++ {
		if d := geo.Distance(p, centroids[g]); d < bestDist {
			bestDist = d
			best = g
		}
	}
	return best
}

// farthestPoint returns the input point farthest from its assigned
// centroid, used to reseed emptied clusters.
func farthestPoint(points []geo.Point, assignments []int, centroids []geo.Point) geo.Point {
	best := points[0]
	bestDist := -1.0
	for i, p := range points {
		if d := geo.Distance(p, centroids[assignments[i]]); d > bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}
