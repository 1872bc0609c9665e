package cellmeta

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/pfx"

	"github.com/AdrianBZG/urdannot"
)

// Read parses a delimited cell table from r.
func Read(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	return NewTable(records[0], records[1:])
}

// Load reads the cell table at path, transparently decompressing it and
// sniffing whether it is tab- or comma-delimited.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	rc, err := urdannot.MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	fileBytes, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := urdannot.DetermineDelimiter(bytes.NewReader(fileBytes))

	return Read(bytes.NewReader(fileBytes), delim)
}

// Write renders the table to w, tab-delimited.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(t.cols); err != nil {
		return pfx.Err(err)
	}
	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return pfx.Err(err)
		}
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// SaveVerified writes the table to path and then loads the file back and
// compares it against the in-memory table. The master table is the product
// of irreversible manual annotation, so a bad write must be caught here.
func (t *Table) SaveVerified(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	check, err := Load(path)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if !t.Equal(check) {
		return fmt.Errorf("verifying %s: file contents do not match the table that was written", path)
	}

	return nil
}
