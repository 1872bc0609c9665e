package markerscore

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/exprmatrix"
)

// Evidence is the per-(cluster, gene) summary an analyst reads when deciding
// what a cluster is. Precision and recall treat "cell expresses the gene" as
// a prediction of "cell belongs to the cluster": recall is the expressing
// fraction of the cluster, precision the in-cluster fraction of the
// expressing cells.
type Evidence struct {
	Clustering string  `csv:"clustering"`
	Cluster    string  `csv:"cluster"`
	Gene       string  `csv:"gene"`
	NCells     int     `csv:"n_cells"`
	MeanIn     float64 `csv:"mean_in"`
	MeanOut    float64 `csv:"mean_out"`
	Precision  float64 `csv:"precision"`
	Recall     float64 `csv:"recall"`
}

// ClusterEvidence computes Evidence rows for every (cluster, gene) pair of
// one clustering run. Cells present in the table but absent from the matrix
// are an error: evidence computed over a partial matrix would quietly skew
// every fraction.
func ClusterEvidence(t *cellmeta.Table, clustering string, panel *exprmatrix.Panel) ([]*Evidence, error) {
	membership, err := t.Column(clustering)
	if err != nil {
		return nil, err
	}

	colOf := make(map[string]int, len(panel.Cells))
	for i, cell := range panel.Cells {
		colOf[cell] = i
	}

	clusterCells := make(map[string][]int)
	for cell, cluster := range membership {
		if cluster == "" {
			// Filtered out of this clustering run.
			continue
		}
		ci, present := colOf[cell]
		if !present {
			return nil, fmt.Errorf("cell %q is in the cell table but not in the expression matrix", cell)
		}
		clusterCells[cluster] = append(clusterCells[cluster], ci)
	}
	if len(clusterCells) == 0 {
		return nil, fmt.Errorf("clustering %q assigns no cells", clustering)
	}

	clusters := make([]string, 0, len(clusterCells))
	for cluster := range clusterCells {
		clusters = append(clusters, cluster)
	}
	sortClusters(clusters)

	genes := make([]string, 0, len(panel.Genes))
	for gene := range panel.Genes {
		genes = append(genes, gene)
	}
	sort.Strings(genes)

	out := []*Evidence{}
	for _, cluster := range clusters {
		members := clusterCells[cluster]
		inCluster := make(map[int]struct{}, len(members))
		for _, ci := range members {
			inCluster[ci] = struct{}{}
		}

		for _, gene := range genes {
			values := panel.Genes[gene]

			in := make([]float64, 0, len(members))
			out2 := make([]float64, 0, len(values)-len(members))
			expressingIn, expressingTotal := 0, 0
			for ci, v := range values {
				if _, member := inCluster[ci]; member {
					in = append(in, v)
					if v > 0 {
						expressingIn++
					}
				} else {
					out2 = append(out2, v)
				}
				if v > 0 {
					expressingTotal++
				}
			}

			ev := &Evidence{
				Clustering: clustering,
				Cluster:    cluster,
				Gene:       gene,
				NCells:     len(members),
				MeanIn:     stat.Mean(in, nil),
				Recall:     float64(expressingIn) / float64(len(members)),
			}
			if len(out2) > 0 {
				ev.MeanOut = stat.Mean(out2, nil)
			}
			if expressingTotal > 0 {
				ev.Precision = float64(expressingIn) / float64(expressingTotal)
			}

			out = append(out, ev)
		}
	}

	return out, nil
}

// sortClusters orders cluster ids numerically when every id parses as an
// integer, lexically otherwise.
func sortClusters(clusters []string) {
	numeric := make(map[string]int, len(clusters))
	for _, c := range clusters {
		n, err := strconv.Atoi(c)
		if err != nil {
			sort.Strings(clusters)
			return
		}
		numeric[c] = n
	}

	sort.Slice(clusters, func(i, j int) bool {
		return numeric[clusters[i]] < numeric[clusters[j]]
	})
}
