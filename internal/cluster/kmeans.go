package cluster

import (
	"math"
	"math/rand/v2"
)

func sqDist(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// kmeansResult is one converged k-means run
type kmeansResult struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// kmeans clusters points into at most k groups, keeping the lowest-inertia
// run out of inits k-means++ seedings. Fewer than k groups come back when
// there are fewer than k distinct points.
func kmeans(points [][]float64, k int, seed uint64, inits, maxIter int) kmeansResult {
	rng := rand.New(rand.NewPCG(seed, seed))
	best := kmeansResult{inertia: math.Inf(1)}
	for run := 0; run < max(inits, 1); run++ {
		res := lloyd(points, seedCentroids(points, k, rng), maxIter)
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// seedCentroids picks initial centroids with k-means++ weighting
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	first := points[rng.IntN(len(points))]
	centroids := [][]float64{clone(first)}

	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = sqDist(p, first)
	}
	for len(centroids) < k {
		var total float64
		for _, d := range nearest {
			total += d
		}
		if total == 0 {
			break
		}
		target := rng.Float64() * total
		pick := len(points) - 1
		for i, d := range nearest {
			target -= d
			if target < 0 {
				pick = i
				break
			}
		}
		c := clone(points[pick])
		centroids = append(centroids, c)
		for i, p := range points {
			nearest[i] = min(nearest[i], sqDist(p, c))
		}
	}
	return centroids
}

// lloyd alternates assignment and update until labels stop changing
func lloyd(points [][]float64, centroids [][]float64, maxIter int) kmeansResult {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < max(maxIter, 1); iter++ {
		changed := false
		for i, p := range points {
			if l := closest(p, centroids); l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}
		counts := updateCentroids(points, labels, centroids)
		for c := range centroids {
			if counts[c] == 0 {
				reseedEmpty(points, labels, centroids, counts, c)
			}
		}
	}
	updateCentroids(points, labels, centroids)

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}

// updateCentroids moves every non-empty centroid to the mean of its points
// and returns the member counts
func updateCentroids(points [][]float64, labels []int, centroids [][]float64) []int {
	dim := len(points[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		counts[labels[i]]++
		for d, v := range p {
			sums[labels[i]][d] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
		centroids[c] = sums[c]
	}
	return counts
}

// reseedEmpty moves the point farthest from its centroid into empty cluster c
func reseedEmpty(points [][]float64, labels []int, centroids [][]float64, counts []int, c int) {
	far, farDist := -1, 0.0
	for i, p := range points {
		if counts[labels[i]] <= 1 {
			continue
		}
		if d := sqDist(p, centroids[labels[i]]); d > farDist {
			far, farDist = i, d
		}
	}
	if far < 0 {
		return
	}
	counts[labels[far]]--
	labels[far] = c
	counts[c] = 1
	centroids[c] = clone(points[far])
}

func closest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
