package cluster

const noise = -1

// dbscan labels points by density over a precomputed distance matrix.
// A point's neighborhood includes itself; noise is labelled -1.
func dbscan(dist [][]float64, eps float64, minSamples int) []int {
	n := len(dist)
	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || dist[i][j] <= eps {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = noise
	}
	visited := make([]bool, n)
	next := 0
	for i := 0; i < n; i++ {
		if visited[i] || len(neighbors[i]) < minSamples {
			continue
		}
		label := next
		next++
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			labels[p] = label
			if len(neighbors[p]) < minSamples {
				continue
			}
			for _, q := range neighbors[p] {
				if !visited[q] {
					visited[q] = true
					queue = append(queue, q)
				}
			}
		}
	}
	return labels
}
