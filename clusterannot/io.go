package clusterannot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Annotation tables are tab-delimited: biological names routinely contain
// commas ("Neural crest, cranial").
func useTabDelimitedTables() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		return r
	})
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})
}

// ReadTable parses a tab-delimited annotation table.
func ReadTable(fileBytes []byte) (Table, error) {
	useTabDelimitedTables()

	records := []*Assignment{}
	if err := gocsv.UnmarshalBytes(fileBytes, &records); err != nil {
		return nil, pfx.Err(err)
	}

	return Table(records), nil
}

// ReadFile loads and parses the annotation table at path.
func ReadFile(path string) (Table, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return ReadTable(fileBytes)
}

// MarshalTable renders the table as tab-delimited text.
func MarshalTable(t Table) ([]byte, error) {
	useTabDelimitedTables()

	records := []*Assignment(t)
	out, err := gocsv.MarshalBytes(&records)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// WriteFileVerified persists the table at path and then reads the file back
// and compares it row for row. Annotation is hours of manual effort; a
// truncated write must not pass silently.
func WriteFileVerified(path string, t Table) error {
	out, err := MarshalTable(t)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return pfx.Err(err)
	}

	check, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}

	if !reflect.DeepEqual(check, t) {
		return fmt.Errorf("verifying %s: file contents do not match the table that was written", path)
	}

	return nil
}
