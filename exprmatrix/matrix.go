// Package exprmatrix streams a genes-by-cells log-expression matrix: a
// header row of cell ids followed by one row per gene, the gene name first.
// Matrices exported from analysis environments can run to tens of thousands
// of genes, so rows are scanned one at a time rather than held in memory.
package exprmatrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/AdrianBZG/urdannot"
)

// Matrix scans gene rows from an open expression table.
type Matrix struct {
	header  []string
	cells   []string
	sep     string
	scanner *bufio.Scanner
	file    *os.File
	rc      io.ReadCloser
	line    int
}

// New prepares a Matrix over r, reading the header row immediately. The
// delimiter is taken from the header: tab if the header contains one,
// otherwise comma.
//
// Exporters disagree on whether the header carries a field for the gene
// column ("gene<TAB>cellA<TAB>cellB") or only the cell ids
// ("cellA<TAB>cellB", the R write.table convention). The ambiguity is
// resolved against the width of the first data row, so Cells is only
// reliable after the first call to Next on a matrix whose header's first
// field is neither blank nor an obvious gene-column name.
func New(r io.Reader) (*Matrix, error) {
	m := &Matrix{scanner: bufio.NewScanner(r)}
	m.scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	if !m.scanner.Scan() {
		if err := m.scanner.Err(); err != nil {
			return nil, pfx.Err(err)
		}
		return nil, fmt.Errorf("empty expression matrix")
	}
	m.line++

	header := strings.TrimSuffix(m.scanner.Text(), "\r")
	m.sep = "\t"
	if !strings.Contains(header, "\t") {
		m.sep = ","
	}

	m.header = strings.Split(header, m.sep)
	if fields := m.header; fields[0] == "" || strings.EqualFold(fields[0], "gene") || strings.EqualFold(fields[0], "gene_id") {
		m.cells = fields[1:]
	}

	if m.cells != nil && len(m.cells) == 0 {
		return nil, fmt.Errorf("expression matrix header names no cells")
	}

	return m, nil
}

// Open opens the expression matrix at path, transparently decompressing.
func Open(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rc, err := urdannot.MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	m, err := New(rc)
	if err != nil {
		rc.Close()
		f.Close()
		return nil, err
	}
	m.file = f
	m.rc = rc

	return m, nil
}

// Cells returns the cell ids from the header, in column order.
func (m *Matrix) Cells() []string {
	return append([]string{}, m.cells...)
}

// Next returns the next gene row. It returns io.EOF when the matrix is
// exhausted.
func (m *Matrix) Next() (gene string, values []float64, err error) {
	if !m.scanner.Scan() {
		if err := m.scanner.Err(); err != nil {
			return "", nil, pfx.Err(err)
		}
		return "", nil, io.EOF
	}
	m.line++

	fields := strings.Split(strings.TrimSuffix(m.scanner.Text(), "\r"), m.sep)

	if m.cells == nil {
		// First data row decides whether the header included a gene-column
		// field.
		switch len(fields) {
		case len(m.header) + 1:
			m.cells = m.header
		case len(m.header):
			m.cells = m.header[1:]
		default:
			return "", nil, fmt.Errorf("line %d: %d fields does not fit a header of %d fields", m.line, len(fields), len(m.header))
		}
	}

	if len(fields) != len(m.cells)+1 {
		return "", nil, fmt.Errorf("line %d: %d fields, expected %d (1 gene + %d cells)", m.line, len(fields), len(m.cells)+1, len(m.cells))
	}

	gene = fields[0]
	values = make([]float64, 0, len(m.cells))
	for i, field := range fields[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return "", nil, fmt.Errorf("line %d: cell %s: parsing %q: %w", m.line, m.cells[i], field, err)
		}
		values = append(values, v)
	}

	return gene, values, nil
}

// Close releases the underlying file, if any.
func (m *Matrix) Close() error {
	if m.rc != nil {
		m.rc.Close()
	}
	if m.file != nil {
		return m.file.Close()
	}

	return nil
}
