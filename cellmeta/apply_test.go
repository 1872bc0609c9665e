package cellmeta

import (
	"strings"
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/AdrianBZG/urdannot/clusterannot"
)

func named(clustering, cluster, name string) *clusterannot.Assignment {
	return &clusterannot.Assignment{Clustering: clustering, Cluster: cluster, Name: null.StringFrom(name)}
}

func unnamed(clustering, cluster string) *clusterannot.Assignment {
	return &clusterannot.Assignment{Clustering: clustering, Cluster: cluster}
}

// testCells has two clusterings: cells c1-c3 clustered by A, cell c4 by B,
// and c5 in neither.
func testCells(t *testing.T) *Table {
	t.Helper()

	table, err := NewTable([]string{"cell", "A", "B"}, [][]string{
		{"c1", "1", ""},
		{"c2", "2", ""},
		{"c3", "3", ""},
		{"c4", "", "1"},
		{"c5", "", ""},
	})
	if err != nil {
		t.Fatal(err)
	}

	return table
}

func testAssignments(t *testing.T) []clusterannot.Table {
	t.Helper()

	a := clusterannot.Table{
		named("A", "1", "Epidermis"),
		unnamed("A", "2"),
		named("A", "3", "Heart"),
	}
	b := clusterannot.Table{named("B", "1", "Midbrain")}

	out, err := clusterannot.Reindex([]clusterannot.Table{a, b})
	if err != nil {
		t.Fatal(err)
	}

	return out
}

func TestApplyWritesLabelsAndIDs(t *testing.T) {
	cells := testCells(t)
	tables := testAssignments(t)

	out, report, err := Apply(cells, tables, ApplyOptions{LabelColumn: "tip.name", IDColumn: "tip"})
	if err != nil {
		t.Fatal(err)
	}

	if report.CellsLabeled != 3 || report.ClustersApplied != 3 || report.ConflictsResolved != 0 {
		t.Errorf("unexpected report: %+v", report)
	}

	want := map[string][2]string{
		"c1": {"Epidermis", "1"},
		"c2": {"", ""},
		"c3": {"Heart", "2"},
		"c4": {"Midbrain", "3"},
		"c5": {"", ""},
	}
	for cell, expected := range want {
		name, err := out.Value(cell, "tip.name")
		if err != nil {
			t.Fatal(err)
		}
		id, err := out.Value(cell, "tip")
		if err != nil {
			t.Fatal(err)
		}
		if name != expected[0] || id != expected[1] {
			t.Errorf("%s: got (%q, %q), expected (%q, %q)", cell, name, id, expected[0], expected[1])
		}
	}

	// The input table must be untouched.
	if cells.HasColumn("tip.name") {
		t.Error("Apply mutated its input table")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	cells := testCells(t)
	tables := testAssignments(t)
	opt := ApplyOptions{LabelColumn: "tip.name", IDColumn: "tip"}

	once, _, err := Apply(cells, tables, opt)
	if err != nil {
		t.Fatal(err)
	}
	twice, _, err := Apply(once, tables, opt)
	if err != nil {
		t.Fatal(err)
	}

	if !once.Equal(twice) {
		t.Error("re-applying the same inputs changed the table")
	}
}

func TestApplyRejectsConflictsWithoutPriority(t *testing.T) {
	// c2 belongs to both A/2 and B/9.
	cells, err := NewTable([]string{"cell", "A", "B"}, [][]string{
		{"c1", "1", ""},
		{"c2", "2", "9"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tables, err := clusterannot.Reindex([]clusterannot.Table{
		{named("A", "2", "Heart")},
		{named("B", "9", "Midbrain")},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = Apply(cells, tables, ApplyOptions{LabelColumn: "tip.name", IDColumn: "tip"})
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	if !strings.Contains(err.Error(), "A/2") || !strings.Contains(err.Error(), "B/9") {
		t.Errorf("error should name both claimants: %v", err)
	}

	// With a priority order, the higher-priority clustering wins no matter
	// which table is iterated first.
	out, report, err := Apply(cells, tables, ApplyOptions{
		LabelColumn: "tip.name",
		IDColumn:    "tip",
		Priority:    []string{"B", "A"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.ConflictsResolved != 1 {
		t.Errorf("expected 1 resolved conflict, got %d", report.ConflictsResolved)
	}
	if name, _ := out.Value("c2", "tip.name"); name != "Midbrain" {
		t.Errorf("priority order not honored: c2 labeled %q", name)
	}
}

func TestApplyRequiresReindexedTables(t *testing.T) {
	cells := testCells(t)

	_, _, err := Apply(cells, []clusterannot.Table{{named("A", "1", "Epidermis")}},
		ApplyOptions{LabelColumn: "tip.name", IDColumn: "tip"})
	if err == nil || !strings.Contains(err.Error(), "reindex") {
		t.Errorf("expected a reindex error, got %v", err)
	}
}

func TestApplyRejectsEmptySelections(t *testing.T) {
	cells := testCells(t)

	tables, err := clusterannot.Reindex([]clusterannot.Table{{named("A", "99", "Ghost")}})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := Apply(cells, tables, ApplyOptions{LabelColumn: "tip.name", IDColumn: "tip"}); err == nil {
		t.Error("expected an error for a cluster id that selects no cells")
	}

	tables, err = clusterannot.Reindex([]clusterannot.Table{{named("C", "1", "Nowhere")}})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := Apply(cells, tables, ApplyOptions{LabelColumn: "tip.name", IDColumn: "tip"}); err == nil {
		t.Error("expected an error for a clustering with no column")
	}
}
