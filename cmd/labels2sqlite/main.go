// labels2sqlite loads the final annotation artifacts (the tip table and the
// labeled cell table) into a SQLite database, so downstream tree inference
// and ad-hoc queries don't re-parse the delimited files.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/carbocation/pfx"

	"github.com/AdrianBZG/urdannot"
	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/clusterannot"
	_ "github.com/AdrianBZG/urdannot/compileinfoprint"
	"github.com/AdrianBZG/urdannot/labelstore"
)

func main() {
	var cellPath, tipsPath, labelColumn, idColumn, dbPath string

	flag.StringVar(&cellPath, "cells", "", "Path to the labeled cell table (tsv or csv, optionally compressed).")
	flag.StringVar(&tipsPath, "tips", "", "Path to the tip table (tsv).")
	flag.StringVar(&labelColumn, "labelcol", "tip.name", "Cell-table column holding the assigned names.")
	flag.StringVar(&idColumn, "idcol", "tip", "Cell-table column holding the global tip ids.")
	flag.StringVar(&dbPath, "db", "", "Path to the SQLite database to create or extend.")
	flag.Parse()

	if cellPath == "" || tipsPath == "" || dbPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cellPath, tipsPath, labelColumn, idColumn, dbPath); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func run(cellPath, tipsPath, labelColumn, idColumn, dbPath string) error {
	cellPath, err := urdannot.ExpandHome(cellPath)
	if err != nil {
		return err
	}

	cells, err := cellmeta.Load(cellPath)
	if err != nil {
		return err
	}

	tips, err := clusterannot.ReadFile(tipsPath)
	if err != nil {
		return err
	}
	if err := tips.Validate(); err != nil {
		return err
	}

	store, err := labelstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}

	nTips, err := store.SaveTips([]clusterannot.Table{tips})
	if err != nil {
		return err
	}
	log.Printf("Saved %d tip rows\n", nTips)

	nCells, err := store.SaveCellLabels(cells, labelColumn, idColumn)
	if err != nil {
		return err
	}
	log.Printf("Saved %d cell labels\n", nCells)

	return nil
}
