// annotate merges analyst cluster-annotation tables into the master per-cell
// metadata table, assigning a globally unique id to every named cluster, and
// emits the final tip table for downstream trajectory-tree inference.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/AdrianBZG/urdannot"
	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/clusterannot"
	_ "github.com/AdrianBZG/urdannot/compileinfoprint"
)

func main() {
	var cellPath, assignPaths, labelColumn, idColumn, priority, outPath, tipsPath string

	flag.StringVar(&cellPath, "cells", "", "Path to the master per-cell metadata table (tsv or csv, optionally compressed).")
	flag.StringVar(&assignPaths, "assignments", "", "Comma-separated paths to cluster-annotation tables (tsv).")
	flag.StringVar(&labelColumn, "labelcol", "tip.name", "Cell-table column that receives the assigned biological name.")
	flag.StringVar(&idColumn, "idcol", "tip", "Cell-table column that receives the global tip id.")
	flag.StringVar(&priority, "priority", "", "Optional comma-separated clustering names, highest priority first, for resolving cells claimed by overlapping clusterings. Without it, any overlap is an error.")
	flag.StringVar(&outPath, "out", "", "Path for the labeled cell table (tsv).")
	flag.StringVar(&tipsPath, "tipsout", "", "Path for the final tip table (tsv).")
	flag.Parse()

	if cellPath == "" || assignPaths == "" || outPath == "" || tipsPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cellPath, assignPaths, labelColumn, idColumn, priority, outPath, tipsPath); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(cellPath, assignPaths, labelColumn, idColumn, priority, outPath, tipsPath string) error {
	cellPath, err := urdannot.ExpandHome(cellPath)
	if err != nil {
		return err
	}

	log.Println("Loading cell table from", cellPath)
	cells, err := cellmeta.Load(cellPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d cells with %d columns\n", cells.NCells(), len(cells.Columns()))

	tables := []clusterannot.Table{}
	for _, path := range strings.Split(assignPaths, ",") {
		path, err := urdannot.ExpandHome(strings.TrimSpace(path))
		if err != nil {
			return err
		}

		table, err := clusterannot.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Printf("Loaded %d assignment rows (%d named) from %s\n", len(table), len(table.Retained()), path)

		tables = append(tables, table)
	}

	if err := cellmeta.CheckAssignments(cells, tables); err != nil {
		return err
	}

	tables, err = clusterannot.Reindex(tables)
	if err != nil {
		return err
	}
	log.Printf("Assigned tip ids 1..%d\n", clusterannot.RetainedCount(tables))

	opt := cellmeta.ApplyOptions{LabelColumn: labelColumn, IDColumn: idColumn}
	if priority != "" {
		opt.Priority = strings.Split(priority, ",")
	}

	labeled, report, err := cellmeta.Apply(cells, tables, opt)
	if err != nil {
		return err
	}
	log.Printf("Labeled %d cells from %d clusters (%d conflicts resolved by priority)\n",
		report.CellsLabeled, report.ClustersApplied, report.ConflictsResolved)

	log.Println("Writing labeled cell table to", outPath)
	if err := labeled.SaveVerified(outPath); err != nil {
		return err
	}

	tips := clusterannot.Table{}
	for _, t := range tables {
		tips = append(tips, t.Retained()...)
	}
	log.Printf("Writing %d tip rows to %s\n", len(tips), tipsPath)

	return clusterannot.WriteFileVerified(tipsPath, tips)
}
