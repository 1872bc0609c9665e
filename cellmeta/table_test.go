package cellmeta

import (
	"strings"
	"testing"
)

func TestNewTableInvariants(t *testing.T) {
	if _, err := NewTable([]string{"cell", "A", "A"}, nil); err == nil {
		t.Error("expected an error for a duplicate column")
	}

	if _, err := NewTable([]string{"cell", "A"}, [][]string{{"c1", "1"}, {"c1", "2"}}); err == nil {
		t.Error("expected an error for a duplicate cell id")
	}

	if _, err := NewTable([]string{"cell", "A"}, [][]string{{"c1"}}); err == nil {
		t.Error("expected an error for a ragged row")
	}

	if _, err := NewTable([]string{"cell", "A"}, [][]string{{"", "1"}}); err == nil {
		t.Error("expected an error for an empty cell id")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	table, err := NewTable([]string{"cell", "A"}, [][]string{{"c1", "1"}, {"c2", "2"}})
	if err != nil {
		t.Fatal(err)
	}

	dup := table.Clone()
	dup.EnsureColumn("extra")
	ci := dup.colIndex["A"]
	dup.set(0, ci, "changed")

	if table.HasColumn("extra") {
		t.Error("adding a column to the clone changed the original")
	}
	if v, _ := table.Value("c1", "A"); v != "1" {
		t.Errorf("writing to the clone changed the original: %q", v)
	}
}

func TestReadDetectsShape(t *testing.T) {
	input := "cell\tA\tB\nc1\t1\t\nc2\t2\t1\n"

	table, err := Read(strings.NewReader(input), '\t')
	if err != nil {
		t.Fatal(err)
	}

	if table.NCells() != 2 {
		t.Fatalf("loaded %d cells, expected 2", table.NCells())
	}
	if v, err := table.Value("c2", "B"); err != nil || v != "1" {
		t.Errorf("c2/B = %q, %v", v, err)
	}
	if _, err := table.Value("c3", "A"); err == nil {
		t.Error("expected an error for an unknown cell")
	}
	if _, err := table.Value("c1", "C"); err == nil {
		t.Error("expected an error for an unknown column")
	}
}

func TestSaveVerifiedRoundTrips(t *testing.T) {
	table, err := NewTable([]string{"cell", "A"}, [][]string{{"c1", "1"}, {"c2", ""}})
	if err != nil {
		t.Fatal(err)
	}

	path := t.TempDir() + "/cells.tsv"
	if err := table.SaveVerified(path); err != nil {
		t.Fatal(err)
	}

	check, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !table.Equal(check) {
		t.Error("reloaded table differs from the saved one")
	}
}
