package clusterannot

import "fmt"

// Reindex assigns a dense, 1-based TipID to every retained row across the
// given tables, in order of appearance. The result is a deep copy; the
// inputs are not modified. The assignment is a bijection from retained
// (clustering, cluster) pairs onto 1..N, which implies no composite key may
// recur across tables.
func Reindex(tables []Table) ([]Table, error) {
	out := make([]Table, 0, len(tables))
	seen := make(map[string]struct{})

	next := 1
	for ti, t := range tables {
		dup := t.clone()
		for _, row := range dup {
			if !row.Assigned() {
				row.TipID = 0
				continue
			}

			if _, exists := seen[row.Key()]; exists {
				return nil, fmt.Errorf("table %d: cluster %s was already assigned an id by an earlier table", ti+1, row.Key())
			}
			seen[row.Key()] = struct{}{}

			row.TipID = next
			next++
		}
		out = append(out, dup)
	}

	return out, nil
}

// RetainedCount reports how many rows across the tables carry a name, which
// after Reindex equals the highest TipID.
func RetainedCount(tables []Table) int {
	n := 0
	for _, t := range tables {
		n += len(t.Retained())
	}

	return n
}
