package markerscore

import (
	"fmt"

	"github.com/AdrianBZG/urdannot/cellmeta"
)

// FilterReport summarizes a threshold refinement.
type FilterReport struct {
	Considered int
	Retained   int
	Cleared    int
}

// ClearBelowThreshold refines a named population: cells labeled name whose
// panel score is not strictly greater than threshold lose both their label
// and their tip id in the returned copy. Cells with no score are cleared
// and counted as sub-threshold. The comparison is strictly greater-than: a
// cell sitting exactly on the threshold does not keep the label.
func ClearBelowThreshold(t *cellmeta.Table, labelColumn, idColumn, name string, scores map[string]float64, threshold float64) (*cellmeta.Table, *FilterReport, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("population name is required")
	}

	labels, err := t.Column(labelColumn)
	if err != nil {
		return nil, nil, err
	}
	if !t.HasColumn(idColumn) {
		return nil, nil, fmt.Errorf("unknown column %q", idColumn)
	}

	out := t.Clone()
	report := &FilterReport{}

	for cell, label := range labels {
		if label != name {
			continue
		}
		report.Considered++

		if score, scored := scores[cell]; scored && score > threshold {
			report.Retained++
			continue
		}

		if err := out.Clear(cell, labelColumn); err != nil {
			return nil, nil, err
		}
		if err := out.Clear(cell, idColumn); err != nil {
			return nil, nil, err
		}
		report.Cleared++
	}

	if report.Considered == 0 {
		return nil, nil, fmt.Errorf("no cells carry the label %q in column %q", name, labelColumn)
	}

	return out, report, nil
}
