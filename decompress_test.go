package urdannot

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMaybeDecompressGzip(t *testing.T) {
	content := "gene\tcellA\tcellB\nkrt4\t1.5\t0\n"

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "matrix.tsv.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rc, err := MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("decompressed %q, expected %q", got, content)
	}
}

func TestMaybeDecompressPassthrough(t *testing.T) {
	content := "gene\tcellA\tcellB\nkrt4\t1.5\t0\n"

	path := filepath.Join(t.TempDir(), "matrix.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rc, err := MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		t.Fatal(err)
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("read %q, expected %q", got, content)
	}
}

func TestDetermineDelimiter(t *testing.T) {
	tab := "cell\tA\tB\nc1\t1\t2\nc2\t3\t4\n"
	if d := DetermineDelimiter(strings.NewReader(tab)); d != '\t' {
		t.Errorf("detected %q, expected tab", d)
	}

	comma := "cell,A,B\nc1,1,2\nc2,3,4\n"
	if d := DetermineDelimiter(strings.NewReader(comma)); d != ',' {
		t.Errorf("detected %q, expected comma", d)
	}
}
