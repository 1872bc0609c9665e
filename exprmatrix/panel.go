package exprmatrix

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Panel holds the expression of a marker-gene panel: per-gene value slices
// aligned with Cells.
type Panel struct {
	Cells []string
	Genes map[string][]float64
}

// ParsePanel reads a marker-panel file: one gene per line, blank lines and
// #-comments ignored.
func ParsePanel(fileBytes []byte) []string {
	out := []string{}
	for _, line := range strings.Split(string(fileBytes), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}

	return out
}

// PanelValues scans the matrix for the named genes, stopping early once all
// are found. Missing genes are an error: a misspelled marker silently
// scoring zero would corrupt the threshold filter downstream.
func PanelValues(m *Matrix, genes []string) (*Panel, error) {
	wanted := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		wanted[g] = struct{}{}
	}
	if len(wanted) != len(genes) {
		return nil, fmt.Errorf("panel lists a gene more than once")
	}

	out := &Panel{Genes: make(map[string][]float64, len(genes))}

	for len(out.Genes) < len(wanted) {
		gene, values, err := m.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if _, want := wanted[gene]; !want {
			continue
		}
		if _, seen := out.Genes[gene]; seen {
			return nil, fmt.Errorf("gene %q appears twice in the matrix", gene)
		}
		out.Genes[gene] = values
	}

	if len(out.Genes) < len(wanted) {
		missing := []string{}
		for g := range wanted {
			if _, found := out.Genes[g]; !found {
				missing = append(missing, g)
			}
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("genes not present in the matrix: %s", strings.Join(missing, ", "))
	}

	out.Cells = m.Cells()

	return out, nil
}
