// Package labelstore persists the final annotation artifacts (the tip table
// and the per-cell labels) into a SQLite database so downstream tree
// inference can query them without re-parsing the delimited files.
package labelstore

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/clusterannot"
)

type Store struct {
	db *sqlx.DB
}

// Open connects to (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the schema if it does not exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS tips(
	tip_id INTEGER PRIMARY KEY,
	clustering TEXT NOT NULL,
	cluster TEXT NOT NULL,
	name TEXT NOT NULL,
	is_tip INTEGER NOT NULL,
	UNIQUE(clustering, cluster)
);
CREATE TABLE IF NOT EXISTS cell_labels(
	cell TEXT PRIMARY KEY,
	tip_id INTEGER NOT NULL REFERENCES tips(tip_id),
	name TEXT NOT NULL
);
`)

	return err
}

type tipRow struct {
	TipID      int    `db:"tip_id"`
	Clustering string `db:"clustering"`
	Cluster    string `db:"cluster"`
	Name       string `db:"name"`
	IsTip      bool   `db:"is_tip"`
}

type cellLabelRow struct {
	Cell  string `db:"cell"`
	TipID int    `db:"tip_id"`
	Name  string `db:"name"`
}

// SaveTips inserts the retained, reindexed rows of the given tables and then
// reads them back and compares, so a partial write cannot pass for a
// complete one.
func (s *Store) SaveTips(tables []clusterannot.Table) (int, error) {
	want := []tipRow{}
	for _, t := range tables {
		for _, row := range t.Retained() {
			if row.TipID == 0 {
				return 0, fmt.Errorf("cluster %s has no tip id; reindex before saving", row.Key())
			}
			want = append(want, tipRow{
				TipID:      row.TipID,
				Clustering: row.Clustering,
				Cluster:    row.Cluster,
				Name:       row.Name.String,
				IsTip:      row.Tip.ValueOrZero(),
			})
		}
	}
	if len(want) == 0 {
		return 0, fmt.Errorf("no named clusters to save")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, err
	}
	for _, row := range want {
		if _, err := tx.NamedExec(`INSERT INTO tips(tip_id, clustering, cluster, name, is_tip)
			VALUES(:tip_id, :clustering, :cluster, :name, :is_tip)`, row); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(want), s.verifyTips(want)
}

func (s *Store) verifyTips(want []tipRow) error {
	got := []tipRow{}
	if err := s.db.Select(&got, `SELECT tip_id, clustering, cluster, name, is_tip FROM tips ORDER BY tip_id`); err != nil {
		return err
	}

	byID := make(map[int]tipRow, len(got))
	for _, row := range got {
		byID[row.TipID] = row
	}

	for _, row := range want {
		if byID[row.TipID] != row {
			return fmt.Errorf("verifying tips: tip %d read back as %+v, expected %+v", row.TipID, byID[row.TipID], row)
		}
	}

	return nil
}

// SaveCellLabels inserts one row per labeled cell of the given table, then
// verifies the count read back.
func (s *Store) SaveCellLabels(t *cellmeta.Table, labelColumn, idColumn string) (int, error) {
	labels, err := t.Column(labelColumn)
	if err != nil {
		return 0, err
	}
	ids, err := t.Column(idColumn)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, cell := range t.CellIDs() {
		name := labels[cell]
		if name == "" {
			continue
		}

		tipID, err := strconv.Atoi(ids[cell])
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("cell %q: bad tip id %q: %w", cell, ids[cell], err)
		}

		if _, err := tx.NamedExec(`INSERT INTO cell_labels(cell, tip_id, name)
			VALUES(:cell, :tip_id, :name)`, cellLabelRow{Cell: cell, TipID: tipID, Name: name}); err != nil {
			tx.Rollback()
			return 0, err
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM cell_labels`); err != nil {
		return 0, err
	}
	if count < n {
		return 0, fmt.Errorf("verifying cell labels: %d rows read back, %d written", count, n)
	}

	return n, nil
}
