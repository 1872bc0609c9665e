package markerscore

import (
	"math"
	"testing"

	"github.com/AdrianBZG/urdannot/cellmeta"
	"github.com/AdrianBZG/urdannot/exprmatrix"
)

func TestClusterEvidence(t *testing.T) {
	cells, err := cellmeta.NewTable([]string{"cell", "Infomap-30"}, [][]string{
		{"c1", "1"},
		{"c2", "1"},
		{"c3", "2"},
		{"c4", "2"},
		{"c5", ""}, // filtered out of this clustering run
	})
	if err != nil {
		t.Fatal(err)
	}

	panel := &exprmatrix.Panel{
		Cells: []string{"c1", "c2", "c3", "c4", "c5"},
		Genes: map[string][]float64{
			"krt4": {1, 0, 2, 0, 0},
		},
	}

	evidence, err := ClusterEvidence(cells, "Infomap-30", panel)
	if err != nil {
		t.Fatal(err)
	}

	if len(evidence) != 2 {
		t.Fatalf("got %d evidence rows, expected 2", len(evidence))
	}

	approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

	one := evidence[0]
	if one.Cluster != "1" || one.Gene != "krt4" || one.NCells != 2 {
		t.Fatalf("unexpected first row: %+v", one)
	}
	// Cluster 1 holds c1 (1) and c2 (0): one of two members expresses, one
	// of two expressing cells is a member.
	if !approx(one.Recall, 0.5) || !approx(one.Precision, 0.5) {
		t.Errorf("cluster 1 precision/recall: %+v", one)
	}
	if !approx(one.MeanIn, 0.5) {
		t.Errorf("cluster 1 mean in: %+v", one)
	}
	// Out-of-cluster cells are c3 (2), c4 (0), c5 (0).
	if !approx(one.MeanOut, 2.0/3.0) {
		t.Errorf("cluster 1 mean out: %+v", one)
	}

	two := evidence[1]
	if two.Cluster != "2" {
		t.Fatalf("unexpected second row: %+v", two)
	}
	if !approx(two.MeanIn, 1) || !approx(two.Recall, 0.5) || !approx(two.Precision, 0.5) {
		t.Errorf("cluster 2: %+v", two)
	}
}

func TestClusterEvidenceNumericClusterOrder(t *testing.T) {
	cells, err := cellmeta.NewTable([]string{"cell", "K"}, [][]string{
		{"c1", "10"},
		{"c2", "2"},
	})
	if err != nil {
		t.Fatal(err)
	}

	panel := &exprmatrix.Panel{
		Cells: []string{"c1", "c2"},
		Genes: map[string][]float64{"krt4": {1, 1}},
	}

	evidence, err := ClusterEvidence(cells, "K", panel)
	if err != nil {
		t.Fatal(err)
	}

	if evidence[0].Cluster != "2" || evidence[1].Cluster != "10" {
		t.Errorf("clusters not in numeric order: %s, %s", evidence[0].Cluster, evidence[1].Cluster)
	}
}

func TestClusterEvidenceMissingCell(t *testing.T) {
	cells, err := cellmeta.NewTable([]string{"cell", "K"}, [][]string{{"c1", "1"}})
	if err != nil {
		t.Fatal(err)
	}

	panel := &exprmatrix.Panel{
		Cells: []string{"other"},
		Genes: map[string][]float64{"krt4": {1}},
	}

	if _, err := ClusterEvidence(cells, "K", panel); err == nil {
		t.Error("expected an error for a cell missing from the matrix")
	}
}
