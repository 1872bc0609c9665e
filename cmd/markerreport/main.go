// markerreport tabulates marker-gene evidence per cluster of one clustering
// run: mean log-expression in and out of each cluster and the
// precision/recall of each marker for cluster membership. This is the table
// an analyst reads, together with domain knowledge, when assigning
// biological names to clusters.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/AdrianBZG/urdannot"
	"github.com/AdrianBZG/urdannot/cellmeta"
	_ "github.com/AdrianBZG/urdannot/compileinfoprint"
	"github.com/AdrianBZG/urdannot/exprmatrix"
	"github.com/AdrianBZG/urdannot/markerscore"
)

func main() {
	var cellPath, matrixPath, clustering, genes, panelPath, outPath, chartPath string

	flag.StringVar(&cellPath, "cells", "", "Path to the master per-cell metadata table (tsv or csv, optionally compressed).")
	flag.StringVar(&matrixPath, "matrix", "", "Path to the genes-by-cells log-expression matrix (optionally compressed).")
	flag.StringVar(&clustering, "clustering", "", "Name of the clustering column to report on, e.g. 'Infomap-30'.")
	flag.StringVar(&genes, "genes", "", "Comma-separated marker genes. Mutually exclusive with -panel.")
	flag.StringVar(&panelPath, "panel", "", "Path or URL of a marker-panel file, one gene per line.")
	flag.StringVar(&outPath, "out", "", "Path for the evidence table (tsv).")
	flag.StringVar(&chartPath, "chart", "", "Optional path for a PNG of mean panel score per cluster.")
	flag.Parse()

	if cellPath == "" || matrixPath == "" || clustering == "" || outPath == "" || (genes == "" && panelPath == "") {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cellPath, matrixPath, clustering, genes, panelPath, outPath, chartPath); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(cellPath, matrixPath, clustering, genes, panelPath, outPath, chartPath string) error {
	cells, err := cellmeta.Load(cellPath)
	if err != nil {
		return err
	}

	panelGenes, err := panelGeneList(genes, panelPath)
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

	evidence, err := markerscore.ClusterEvidence(cells, clustering, panel)
	if err != nil {
		return err
	}
	log.Printf("Computed evidence for %d (cluster, gene) pairs\n", len(evidence))

	if err := writeEvidence(outPath, evidence); err != nil {
		return err
	}
	log.Println("Wrote evidence table to", outPath)

	if chartPath == "" {
		return nil
	}

	if err := plotClusterScores(chartPath, cells, clustering, panel); err != nil {
		return err
	}
	log.Println("Wrote score chart to", chartPath)

	return nil
}

func writeEvidence(path string, evidence []*markerscore.Evidence) error {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})

	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	return gocsv.MarshalFile(&evidence, f)
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
