package labelstore

import (
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/clusterannot"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	return store
}

func TestSaveTipsAndCellLabels(t *testing.T) {
	store := testStore(t)

	tips := clusterannot.Table{
		{Clustering: "A", Cluster: "1", Name: null.StringFrom("Epidermis"), Tip: null.BoolFrom(true), TipID: 1},
		{Clustering: "A", Cluster: "3", Name: null.StringFrom("Heart"), TipID: 2},
		{Clustering: "A", Cluster: "2"}, // unnamed, skipped
	}

	n, err := store.SaveTips([]clusterannot.Table{tips})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("saved %d tips, expected 2", n)
	}

	cells, err := cellmeta.NewTable([]string{"cell", "tip.name", "tip"}, [][]string{
		{"c1", "Epidermis", "1"},
		{"c2", "", ""},
		{"c3", "Heart", "2"},
	})
	if err != nil {
		t.Fatal(err)
	}

	n, err = store.SaveCellLabels(cells, "tip.name", "tip")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("saved %d cell labels, expected 2", n)
	}

	var name string
	if err := store.db.Get(&name, `SELECT name FROM cell_labels WHERE cell = 'c3'`); err != nil {
		t.Fatal(err)
	}
	if name != "Heart" {
		t.Errorf("c3 labeled %q, expected Heart", name)
	}
}

func TestSaveTipsRejectsUnindexedRows(t *testing.T) {
	store := testStore(t)

	tips := clusterannot.Table{
		{Clustering: "A", Cluster: "1", Name: null.StringFrom("Epidermis")},
	}

	if _, err := store.SaveTips([]clusterannot.Table{tips}); err == nil {
		t.Error("expected an error for a named row without a tip id")
	}
}

func TestSaveCellLabelsRejectsBadIDs(t *testing.T) {
	store := testStore(t)

	cells, err := cellmeta.NewTable([]string{"cell", "tip.name", "tip"}, [][]string{
		{"c1", "Epidermis", "notanumber"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.SaveCellLabels(cells, "tip.name", "tip"); err == nil {
		t.Error("expected an error for a non-numeric tip id")
	}
}
