// tipscore refines a named population by a marker-panel score: each member
// cell's score is its summed log-expression over the panel, and cells whose
// score is not strictly greater than the threshold lose the label. Without
// -threshold it only prints the score distribution, which is how the
// threshold gets chosen in the first place.
package main

import (
	"flag"
	"log"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"

	"github.com/AdrianBZG/urdannot"
	"github.com/AdrianBZG/urdannot/cellmeta"
	_ "github.com/AdrianBZG/urdannot/compileinfoprint"
	"github.com/AdrianBZG/urdannot/exprmatrix"
	"github.com/AdrianBZG/urdannot/markerscore"
)

func main() {
	var cellPath, matrixPath, genes, panelPath, name, labelColumn, idColumn, outPath string
	var threshold float64

	flag.StringVar(&cellPath, "cells", "", "Path to the labeled cell table (tsv or csv, optionally compressed).")
	flag.StringVar(&matrixPath, "matrix", "", "Path to the genes-by-cells log-expression matrix (optionally compressed).")
	flag.StringVar(&genes, "genes", "", "Comma-separated marker genes. Mutually exclusive with -panel.")
	flag.StringVar(&panelPath, "panel", "", "Path or URL of a marker-panel file, one gene per line.")
	flag.StringVar(&name, "name", "", "The population label to refine, e.g. 'EVL/Periderm'.")
	flag.StringVar(&labelColumn, "labelcol", "tip.name", "Cell-table column holding the assigned names.")
	flag.StringVar(&idColumn, "idcol", "tip", "Cell-table column holding the global tip ids.")
	flag.Float64Var(&threshold, "threshold", math.NaN(), "Score threshold; member cells must exceed it (strictly) to keep the label. Omit to only inspect the distribution.")
	flag.StringVar(&outPath, "out", "", "Path for the refined cell table (tsv). Required with -threshold.")
	flag.Parse()

	if cellPath == "" || matrixPath == "" || name == "" || (genes == "" && panelPath == "") {
		flag.PrintDefaults()
		os.Exit(1)
	}
	if !math.IsNaN(threshold) && outPath == "" {
		log.Fatalln("-threshold without -out would discard the refinement; supply -out")
	}

	if err := run(cellPath, matrixPath, genes, panelPath, name, labelColumn, idColumn, outPath, threshold); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(cellPath, matrixPath, genes, panelPath, name, labelColumn, idColumn, outPath string, threshold float64) error {
	cellPath, err := urdannot.ExpandHome(cellPath)
	if err != nil {
		return err
	}

	cells, err := cellmeta.Load(cellPath)
	if err != nil {
		return err
	}

	panelGenes, err := panelGeneList(genes, panelPath)
	if err != nil {
		return err
	}
	log.Printf("Scoring %d marker genes: %s\n", len(panelGenes), strings.Join(panelGenes, ", "))

	matrixPath, err = urdannot.ExpandHome(matrixPath)
	if err != nil {
		return err
	}

	m, err := exprmatrix.Open(matrixPath)
	if err != nil {
		return err
	}
	defer m.Close()

	panel, err := exprmatrix.PanelValues(m, panelGenes)
	if err != nil {
		return err
	}

	scores, err := markerscore.PanelScore(panel)
	if err != nil {
		return err
	}

	// Restrict the distribution to the population under refinement.
	labels, err := cells.Column(labelColumn)
	if err != nil {
		return err
	}

	memberScores := []float64{}
	for cell, label := range labels {
		if label == name {
			memberScores = append(memberScores, scores[cell])
		}
	}
	sort.Float64s(memberScores)

	summary, err := markerscore.Summarize(memberScores)
	if err != nil {
		return err
	}
	log.Printf("%q: %d cells, score min %.3f / p10 %.3f / median %.3f / mean %.3f / p90 %.3f / max %.3f\n",
		name, summary.N, summary.Min, summary.P10, summary.Median, summary.Mean, summary.P90, summary.Max)

	hist := histogram.Hist(20, memberScores)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
		return err
	}

	if math.IsNaN(threshold) {
		log.Println("No -threshold given; nothing was filtered")
		return nil
	}

	refined, report, err := markerscore.ClearBelowThreshold(cells, labelColumn, idColumn, name, scores, threshold)
	if err != nil {
		return err
	}
	log.Printf("Score > %.3f: retained %d of %d cells, cleared %d\n", threshold, report.Retained, report.Considered, report.Cleared)

	return refined.SaveVerified(outPath)
}

func panelGeneList(genes, panelPath string) ([]string, error) {
	if genes != "" {
		out := []string{}
		for _, g := range strings.Split(genes, ",") {
			if g = strings.TrimSpace(g); g != "" {
				out = append(out, g)
			}
		}
		return out, nil
	}

	fileBytes, err := urdannot.OpenFileOrURL(panelPath)
	if err != nil {
		return nil, err
	}

	return exprmatrix.ParsePanel(fileBytes), nil
}
