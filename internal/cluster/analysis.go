package cluster

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// DefaultMergeThreshold is the Jaccard similarity at which clusters merge
const DefaultMergeThreshold = 0.7

// AnalyzeClusters reports size, coverage and a balance-weighted quality score.
// Coverage is the share of distinct original skills that landed in a cluster.
func AnalyzeClusters(clusters []types.Cluster, original []string) types.ClusterAnalysis {
	analysis := types.ClusterAnalysis{
		TotalClusters: len(clusters),
		ClusterSizes:  []int{},
	}
	if len(clusters) == 0 {
		return analysis
	}

	clustered := make(map[string]bool)
	for _, cl := range clusters {
		analysis.TotalSkills += len(cl.Skills)
		analysis.ClusterSizes = append(analysis.ClusterSizes, len(cl.Skills))
		for _, s := range cl.Skills {
			clustered[s] = true
		}
	}
	analysis.AverageClusterSize = float64(analysis.TotalSkills) / float64(len(clusters))

	distinct := make(map[string]bool, len(original))
	covered := 0
	for _, s := range original {
		if distinct[s] {
			continue
		}
		distinct[s] = true
		if clustered[s] {
			covered++
		}
	}
	if len(distinct) > 0 {
		analysis.Coverage = float64(covered) / float64(len(distinct))
	}

	if len(clusters) > 1 {
		balance := 1 / (1 + variance(analysis.ClusterSizes))
		analysis.QualityScore = (balance + min(analysis.Coverage, 1)) / 2
	}
	return analysis
}

// variance is the population variance of sizes
func variance(sizes []int) float64 {
	var mean float64
	for _, s := range sizes {
		mean += float64(s)
	}
	mean /= float64(len(sizes))
	var v float64
	for _, s := range sizes {
		d := float64(s) - mean
		v += d * d
	}
	return v / float64(len(sizes))
}

func jaccard(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	union := len(set)
	inter := 0
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		if seen[s] {
			continue
		}
		seen[s] = true
		if set[s] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// MergeSimilarClusters unions clusters whose member sets have Jaccard
// similarity at or above threshold, repeating until no pair qualifies, so a
// second call on the result changes nothing. The input is left untouched.
func MergeSimilarClusters(clusters []types.Cluster, threshold float64) []types.Cluster {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMergeThreshold
	}
	out := make([]types.Cluster, len(clusters))
	for i, cl := range clusters {
		out[i] = cl
		out[i].Skills = append([]string(nil), cl.Skills...)
		out[i].Centroid = clone(cl.Centroid)
	}

	for {
		i, j := similarPair(out, threshold)
		if i < 0 {
			return out
		}
		out[i] = union(out[i], out[j])
		out = append(out[:j], out[j+1:]...)
	}
}

func similarPair(clusters []types.Cluster, threshold float64) (int, int) {
	for i := range clusters {
		for j := i + 1; j < len(clusters); j++ {
			if jaccard(clusters[i].Skills, clusters[j].Skills) >= threshold {
				return i, j
			}
		}
	}
	return -1, -1
}

// union merges b into a; centroids are averaged by member count
func union(a, b types.Cluster) types.Cluster {
	wa, wb := float64(len(a.Skills)), float64(len(b.Skills))

	seen := make(map[string]bool, len(a.Skills)+len(b.Skills))
	var skills []string
	for _, s := range append(append([]string{}, a.Skills...), b.Skills...) {
		if !seen[s] {
			seen[s] = true
			skills = append(skills, s)
		}
	}
	a.Skills = skills
	a.Size = len(skills)
	a.Representative = representative(skills)
	if a.Category != b.Category {
		a.Category = ""
	}

	if len(a.Centroid) > 0 && len(a.Centroid) == len(b.Centroid) && wa+wb > 0 {
		merged := make([]float64, len(a.Centroid))
		for d := range merged {
			merged[d] = (a.Centroid[d]*wa + b.Centroid[d]*wb) / (wa + wb)
		}
		a.Centroid = merged
	} else {
		a.Centroid = nil
	}
	return a
}

var nameWord = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// SuggestClusterNames labels each cluster with its three most frequent words
// longer than three characters. The input is left untouched.
func SuggestClusterNames(clusters []types.Cluster) []types.Cluster {
	out := make([]types.Cluster, len(clusters))
	for i, cl := range clusters {
		cl.Skills = append([]string(nil), cl.Skills...)
		cl.SuggestedName = suggestName(cl.Skills)
		out[i] = cl
	}
	return out
}

func suggestName(skills []string) string {
	counts := make(map[string]int)
	var order []string
	for _, w := range nameWord.FindAllString(strings.ToLower(strings.Join(skills, " ")), -1) {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 3 {
		order = order[:3]
	}
	return cases.Title(language.English).String(strings.Join(order, " "))
}
