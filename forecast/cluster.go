package forecast

import (
	"math"

	"agrohub-ai/models"
)

const (
	maxRegionClusters = 3
	kmeansMaxIter     = 100
)

// ClusterRegions groups counties into demand-intensity clusters over the
// (total_orders, total_revenue) feature space with k-means, k = min(3, n).
// Cluster ids are arbitrary labels; identical feature vectors always share
// a cluster because assignment is purely nearest-centroid. Returns an empty
// map when there are no regional sales.
func ClusterRegions(regions []models.RegionalSales) map[string]models.RegionCluster {
	heatmap := make(map[string]models.RegionCluster)
	if len(regions) == 0 {
		return heatmap
	}

	features := make([][2]float64, len(regions))
	for i, r := range regions {
		features[i] = [2]float64{float64(r.TotalOrders), r.TotalRevenue}
	}

	k := maxRegionClusters
	if len(regions) < k {
		k = len(regions)
	}
	assignments := kmeans(features, k)

	for i, r := range regions {
		heatmap[r.County] = models.RegionCluster{
			DemandScore: r.TotalOrders,
			Revenue:     r.TotalRevenue,
			Cluster:     assignments[i],
		}
	}
	return heatmap
}

// kmeans runs Lloyd's algorithm with deterministic initialization: the
// first k distinct points seed the centroids.
func kmeans(points [][2]float64, k int) []int {
	centroids := make([][2]float64, 0, k)
	for _, p := range points {
		distinct := true
		for _, c := range centroids {
			if c == p {
				distinct = false
				break
			}
		}
		if distinct {
			centroids = append(centroids, p)
			if len(centroids) == k {
				break
			}
		}
	}
	// Fewer distinct points than k: reuse points to fill the remainder.
	for i := 0; len(centroids) < k; i++ {
		centroids = append(centroids, points[i%len(points)])
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		var sums [maxRegionClusters][2]float64
		var counts [maxRegionClusters]int
		for i, p := range points {
			a := assignments[i]
			sums[a][0] += p[0]
			sums[a][1] += p[1]
			counts[a]++
		}
		for c := 0; c < k; c++ {
			if counts[c] > 0 {
				centroids[c] = [2]float64{
					sums[c][0] / float64(counts[c]),
					sums[c][1] / float64(counts[c]),
				}
			}
		}
	}
	return assignments
}

func nearestCentroid(p [2]float64, centroids [][2]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		dx := p[0] - centroid[0]
		dy := p[1] - centroid[1]
		dist := dx*dx + dy*dy
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
