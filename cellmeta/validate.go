package cellmeta

import (
	"fmt"

	"github.com/theodesp/unionfind"

	"github.com/AdrianBZG/urdannot/clusterannot"
)

// CheckAssignments validates annotation tables against the cell table: each
// table must satisfy its composite-key invariant, every clustering name must
// have a column, and every retained cluster id must select at least one
// cell. An id that selects nothing is almost always a typo, and the original
// workflow's silent empty selection is exactly the failure mode this guards
// against.
func CheckAssignments(t *Table, tables []clusterannot.Table) error {
	for ti, table := range tables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("table %d: %w", ti+1, err)
		}

		for _, row := range table.Retained() {
			members, err := memberRows(t, row.Clustering, row.Cluster)
			if err != nil {
				return fmt.Errorf("table %d: %w", ti+1, err)
			}
			if len(members) == 0 {
				return fmt.Errorf("table %d: cluster %s (%q) selects no cells", ti+1, row.Key(), row.Name.String)
			}
		}
	}

	return nil
}

// ConflictComponents groups retained clusters into connected components of
// shared cell membership across all tables. Each returned component holds
// two or more cluster keys that transitively claim at least one common
// cell; an empty result means the merge can proceed without a priority
// order.
func ConflictComponents(t *Table, tables []clusterannot.Table) ([][]string, error) {
	rows := []*clusterannot.Assignment{}
	for _, table := range tables {
		rows = append(rows, table.Retained()...)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	uf := unionfind.NewThreadSafeUnionFind(len(rows))

	// For every cell, join all clusters that claim it.
	claimants := make(map[int][]int, t.NCells())
	for i, row := range rows {
		members, err := memberRows(t, row.Clustering, row.Cluster)
		if err != nil {
			return nil, err
		}
		for _, ri := range members {
			claimants[ri] = append(claimants[ri], i)
		}
	}

	for _, rowIdxs := range claimants {
		for i := 1; i < len(rowIdxs); i++ {
			uf.Union(rowIdxs[0], rowIdxs[i])
		}
	}

	// Collect components with more than one member, ordered by first
	// appearance so output is stable.
	components := make(map[int][]string)
	rootOrder := []int{}
	for i, row := range rows {
		root := uf.Root(i)
		if root < 0 {
			// Never joined to anything.
			continue
		}
		if _, seen := components[root]; !seen {
			rootOrder = append(rootOrder, root)
		}
		components[root] = append(components[root], row.Key())
	}

	out := [][]string{}
	for _, root := range rootOrder {
		if keys := components[root]; len(keys) > 1 {
			out = append(out, keys)
		}
	}

	return out, nil
}
