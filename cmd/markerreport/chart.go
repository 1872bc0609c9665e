package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/exprmatrix"
	"github.com/AdrianBZG/urdannot/markerscore"
)

// plotClusterScores renders the mean marker-panel score of every cluster in
// the clustering as a PNG, cluster ids along the x axis.
func plotClusterScores(filename string, cells *cellmeta.Table, clustering string, panel *exprmatrix.Panel) error {
	scores, err := markerscore.PanelScore(panel)
	if err != nil {
		return err
	}

	membership, err := cells.Column(clustering)
	if err != nil {
		return err
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for cell, cluster := range membership {
		if cluster == "" {
			continue
		}
		score, scored := scores[cell]
		if !scored {
			return fmt.Errorf("cell %q is in the cell table but not in the expression matrix", cell)
		}
		sums[cluster] += score
		counts[cluster]++
	}
	if len(sums) == 0 {
		return fmt.Errorf("clustering %q assigns no cells", clustering)
	}

	clusters := make([]string, 0, len(sums))
	for cluster := range sums {
		clusters = append(clusters, cluster)
	}
	sort.Slice(clusters, func(i, j int) bool {
		a, errA := strconv.Atoi(clusters[i])
		b, errB := strconv.Atoi(clusters[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return clusters[i] < clusters[j]
	})

	xValues := make([]float64, 0, len(clusters))
	yValues := make([]float64, 0, len(clusters))
	ticks := make([]chart.Tick, 0, len(clusters))
	for i, cluster := range clusters {
		xValues = append(xValues, float64(i))
		yValues = append(yValues, sums[cluster]/float64(counts[cluster]))
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: cluster})
	}

	graph := chart.Chart{
		Width:  1024,
		Height: 384,
		XAxis: chart.XAxis{
			Name:  clustering,
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Mean panel score",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := buffer.WriteTo(outFile); err != nil {
		outFile.Close()
		return err
	}

	return outFile.Close()
}
