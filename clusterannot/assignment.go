// Package clusterannot holds the analyst's cluster-annotation decisions: for
// each cluster produced by a clustering run, the biological name assigned
// from marker evidence and whether the population is a terminal tip of the
// developmental trajectory.
package clusterannot

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// Assignment is one row of an annotation table: one cluster from one
// clustering run. Cluster ids are only unique within their own clustering,
// so (Clustering, Cluster) is the composite key. Name is null until the
// analyst has decided what the cluster is; unnamed rows never participate in
// the merge into the cell table.
type Assignment struct {
	Clustering string      `csv:"clustering"`
	Cluster    string      `csv:"cluster"`
	Name       null.String `csv:"name"`
	Tip        null.Bool   `csv:"tip"`

	// TipID is the globally unique id over all retained rows, assigned by
	// Reindex. Zero means not yet assigned.
	TipID int `csv:"tip_id"`
}

// Key renders the composite key for error messages and map lookups.
func (a Assignment) Key() string {
	return a.Clustering + "/" + a.Cluster
}

// Assigned reports whether the analyst has named this cluster.
func (a Assignment) Assigned() bool {
	return a.Name.Valid
}

// Table is the ordered set of assignment rows from one annotation file.
type Table []*Assignment

// Validate checks the composite-key invariant: no two rows in the table may
// share a (clustering, cluster) pair. Row numbers in the error are 1-based
// data rows, matching what the analyst sees in the file.
func (t Table) Validate() error {
	seen := make(map[string]int, len(t))

	for i, row := range t {
		if row.Cluster == "" {
			return fmt.Errorf("row %d: empty cluster id (clustering %q)", i+1, row.Clustering)
		}
		if row.Clustering == "" {
			return fmt.Errorf("row %d: empty clustering name (cluster %q)", i+1, row.Cluster)
		}

		if prior, exists := seen[row.Key()]; exists {
			return fmt.Errorf("rows %d and %d both describe cluster %s", prior, i+1, row.Key())
		}
		seen[row.Key()] = i + 1
	}

	return nil
}

// Retained returns the rows that carry an assigned name, in table order. The
// underlying rows are shared, not copied.
func (t Table) Retained() Table {
	out := make(Table, 0, len(t))
	for _, row := range t {
		if row.Assigned() {
			out = append(out, row)
		}
	}

	return out
}

// Tips returns the retained rows flagged as terminal populations.
func (t Table) Tips() Table {
	out := make(Table, 0, len(t))
	for _, row := range t {
		if row.Assigned() && row.Tip.ValueOrZero() {
			out = append(out, row)
		}
	}

	return out
}

// clone deep-copies the table so reindexing never mutates caller data.
func (t Table) clone() Table {
	out := make(Table, 0, len(t))
	for _, row := range t {
		dup := *row
		out = append(out, &dup)
	}

	return out
}
