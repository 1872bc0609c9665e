// Package markerscore computes per-cell marker-panel scores and per-cluster
// marker evidence, and applies score-threshold refinement to named
// populations. The score of a cell is the summed log-expression of the
// panel's genes, matching how signature scores are computed upstream.
package markerscore

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/AdrianBZG/urdannot/exprmatrix"
)

// PanelScore sums each cell's log-expression over the panel's genes. The
// returned map is keyed by cell id.
func PanelScore(panel *exprmatrix.Panel) (map[string]float64, error) {
	if len(panel.Genes) == 0 {
		return nil, fmt.Errorf("empty marker panel")
	}

	out := make(map[string]float64, len(panel.Cells))
	for gene, values := range panel.Genes {
		if len(values) != len(panel.Cells) {
			return nil, fmt.Errorf("gene %q has %d values for %d cells", gene, len(values), len(panel.Cells))
		}
		for i, v := range values {
			out[panel.Cells[i]] += v
		}
	}

	return out, nil
}

// Summary describes a score distribution.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	P10    float64
	P90    float64
}

// Summarize computes distribution statistics over the given scores.
func Summarize(scores []float64) (Summary, error) {
	out := Summary{N: len(scores)}
	if len(scores) == 0 {
		return out, fmt.Errorf("no scores to summarize")
	}

	data := stats.Float64Data(scores)

	var err error
	if out.Min, err = data.Min(); err != nil {
		return out, err
	}
	if out.Max, err = data.Max(); err != nil {
		return out, err
	}
	if out.Mean, err = data.Mean(); err != nil {
		return out, err
	}
	if out.Median, err = data.Median(); err != nil {
		return out, err
	}
	if out.P10, err = data.Percentile(10); err != nil {
		return out, err
	}
	if out.P90, err = data.Percentile(90); err != nil {
		return out, err
	}

	return out, nil
}
