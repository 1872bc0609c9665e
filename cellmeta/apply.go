package cellmeta

import (
	"fmt"
	"strconv"

	"github.com/AdrianBZG/urdannot/clusterannot"
)

// ApplyOptions configures the merge of annotation tables into the cell
// table.
type ApplyOptions struct {
	// LabelColumn receives the assigned biological name, e.g. "tip.name".
	LabelColumn string

	// IDColumn receives the global tip id, e.g. "tip".
	IDColumn string

	// Priority optionally ranks clustering names, highest priority first.
	// When two retained clusters claim the same cell, the cluster from the
	// earlier-listed clustering wins. With no priority list, any such
	// conflict fails the merge. Iteration order never decides a label.
	Priority []string
}

// ApplyReport summarizes what a merge did.
type ApplyReport struct {
	CellsLabeled      int
	ClustersApplied   int
	ConflictsResolved int
}

// claim records which assignment row labeled a cell, for conflict handling.
type claim struct {
	row  *clusterannot.Assignment
	rank int
}

// Apply writes each retained assignment's name and tip id into the metadata
// rows of the cells belonging to that (clustering, cluster). It returns a
// new table; the input table and assignment tables are unmodified. The
// label and id columns are recreated from scratch, so applying the same
// inputs twice yields identical columns.
//
// Tables must have been through Reindex: a retained row with TipID 0 is an
// error.
func Apply(t *Table, tables []clusterannot.Table, opt ApplyOptions) (*Table, *ApplyReport, error) {
	if opt.LabelColumn == "" || opt.IDColumn == "" {
		return nil, nil, fmt.Errorf("label and id column names are required")
	}
	if opt.LabelColumn == opt.IDColumn {
		return nil, nil, fmt.Errorf("label column and id column are both %q", opt.LabelColumn)
	}

	rank, err := priorityRanks(opt.Priority)
	if err != nil {
		return nil, nil, err
	}

	out := t.Clone()
	labelCol := out.EnsureColumn(opt.LabelColumn)
	idCol := out.EnsureColumn(opt.IDColumn)
	out.clearColumn(labelCol)
	out.clearColumn(idCol)

	report := &ApplyReport{}
	claims := make(map[int]claim)

	for _, table := range tables {
		for _, row := range table.Retained() {
			if row.TipID == 0 {
				return nil, nil, fmt.Errorf("cluster %s has no tip id; reindex before applying", row.Key())
			}

			members, err := memberRows(out, row.Clustering, row.Cluster)
			if err != nil {
				return nil, nil, err
			}
			if len(members) == 0 {
				return nil, nil, fmt.Errorf("cluster %s selects no cells", row.Key())
			}

			rowRank, err := rankFor(rank, opt.Priority, row.Clustering)
			if err != nil {
				return nil, nil, err
			}

			for _, ri := range members {
				prior, contested := claims[ri]
				if contested {
					if prior.row == row {
						continue
					}
					if len(opt.Priority) == 0 {
						return nil, nil, fmt.Errorf("cell %q is claimed by both cluster %s and cluster %s; supply a priority order or fix the annotations",
							out.rows[ri][0], prior.row.Key(), row.Key())
					}

					report.ConflictsResolved++
					if prior.rank <= rowRank {
						continue
					}
				}

				claims[ri] = claim{row: row, rank: rowRank}
				out.set(ri, labelCol, row.Name.String)
				out.set(ri, idCol, strconv.Itoa(row.TipID))
			}

			report.ClustersApplied++
		}
	}

	report.CellsLabeled = len(claims)

	return out, report, nil
}

// memberRows resolves the row indexes of the cells whose value in the
// clustering's column equals the cluster id.
func memberRows(t *Table, clustering, cluster string) ([]int, error) {
	ci, exists := t.colIndex[clustering]
	if !exists {
		return nil, fmt.Errorf("the cell table has no column for clustering %q", clustering)
	}

	out := []int{}
	for ri, row := range t.rows {
		if row[ci] == cluster {
			out = append(out, ri)
		}
	}

	return out, nil
}

func priorityRanks(priority []string) (map[string]int, error) {
	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, exists := rank[name]; exists {
			return nil, fmt.Errorf("clustering %q appears twice in the priority list", name)
		}
		rank[name] = i
	}

	return rank, nil
}

func rankFor(rank map[string]int, priority []string, clustering string) (int, error) {
	if len(priority) == 0 {
		return 0, nil
	}

	r, exists := rank[clustering]
	if !exists {
		return 0, fmt.Errorf("clustering %q is missing from the priority list", clustering)
	}

	return r, nil
}
