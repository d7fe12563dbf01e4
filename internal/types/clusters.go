package types

// ClusterMethod selects a clustering algorithm
type ClusterMethod string

const (
	ClusterEmbedding ClusterMethod = "embedding"
	ClusterTextual   ClusterMethod = "textual"
	ClusterCategory  ClusterMethod = "category"
	ClusterHybrid    ClusterMethod = "hybrid"
)

// Cluster is a group of related skills
type Cluster struct {
	ID             string        `json:"id"`
	Skills         []string      `json:"skills"`
	Method         ClusterMethod `json:"method"`
	Category       string        `json:"category,omitempty"`
	Size           int           `json:"size"`
	Representative string        `json:"representative"`
	Centroid       []float64     `json:"centroid,omitempty"`
	SuggestedName  string        `json:"suggested_name,omitempty"`
}

// ClusterAnalysis reports quality measures over a clustering run
type ClusterAnalysis struct {
	TotalClusters      int     `json:"total_clusters"`
	TotalSkills        int     `json:"total_skills"`
	AverageClusterSize float64 `json:"average_cluster_size"`
	ClusterSizes       []int   `json:"cluster_sizes"`
	Coverage           float64 `json:"coverage"`
	QualityScore       float64 `json:"quality_score"`
}
