package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-taxonomy/internal/cluster"
	"github.com/jonathan/skill-taxonomy/internal/observability"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <skills...>",
	Short: "Group related skills",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCluster,
}

var (
	clusterMethod      string
	clusterMinSize     int
	clusterMaxClusters int
	clusterMerge       float64
	clusterNames       bool
)

func init() {
	clusterCmd.Flags().StringVar(&clusterMethod, "method", string(types.ClusterHybrid), "Clustering method: embedding, textual, category or hybrid")
	clusterCmd.Flags().IntVar(&clusterMinSize, "min-size", 0, "Smallest cluster to keep (default from config)")
	clusterCmd.Flags().IntVar(&clusterMaxClusters, "max-clusters", 0, "Upper bound on clusters (default from config)")
	clusterCmd.Flags().Float64Var(&clusterMerge, "merge", 0, "Merge clusters whose Jaccard similarity reaches this value (0 disables)")
	clusterCmd.Flags().BoolVar(&clusterNames, "names", false, "Suggest a name for every cluster")

	rootCmd.AddCommand(clusterCmd)
}

// clusterReport is the JSON output of the cluster command
type clusterReport struct {
	Clusters []types.Cluster       `json:"clusters"`
	Analysis types.ClusterAnalysis `json:"analysis"`
}

func runCluster(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	clusters, err := a.clusterer.Cluster(ctx, args, types.ClusterMethod(clusterMethod), cluster.Options{
		MinClusterSize: clusterMinSize,
		MaxClusters:    clusterMaxClusters,
	})
	if err != nil {
		return fmt.Errorf("cluster failed: %w", err)
	}
	if clusterMerge > 0 {
		clusters = cluster.MergeSimilarClusters(clusters, clusterMerge)
	}
	if clusterNames {
		clusters = cluster.SuggestClusterNames(clusters)
	}

	report := clusterReport{Clusters: clusters, Analysis: cluster.AnalyzeClusters(clusters, args)}
	return render(cmd.OutOrStdout(), report, func(p *observability.Printer) {
		p.PrintClusters(report.Clusters, &report.Analysis)
	})
}
