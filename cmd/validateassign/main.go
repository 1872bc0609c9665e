// validateassign checks cluster-annotation tables against the master cell
// table before any merge is attempted: composite-key uniqueness, cluster ids
// that actually select cells, and overlapping clusterings that would need a
// priority order.
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
	var cellPath, assignPaths string

	flag.StringVar(&cellPath, "cells", "", "Path to the master per-cell metadata table (tsv or csv, optionally compressed).")
	flag.StringVar(&assignPaths, "assignments", "", "Comma-separated paths to cluster-annotation tables (tsv).")
	flag.Parse()

	if cellPath == "" || assignPaths == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cellPath, assignPaths); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(cellPath, assignPaths string) error {
	cellPath, err := urdannot.ExpandHome(cellPath)
	if err != nil {
		return err
	}

	cells, err := cellmeta.Load(cellPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d cells\n", cells.NCells())

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
		log.Printf("%s: %d rows, %d named, %d flagged as tips\n", path, len(table), len(table.Retained()), len(table.Tips()))

		tables = append(tables, table)
	}

	if err := cellmeta.CheckAssignments(cells, tables); err != nil {
		return err
	}
	log.Println("All named clusters select at least one cell")

	components, err := cellmeta.ConflictComponents(cells, tables)
	if err != nil {
		return err
	}

	if len(components) == 0 {
		log.Println("No overlapping clusterings; the merge needs no priority order")
		return nil
	}

	for i, component := range components {
		log.Printf("Overlap group %d: %s\n", i+1, strings.Join(component, ", "))
	}

	return fmt.Errorf("%d groups of clusters share cells; the merge will need a -priority order", len(components))
}
