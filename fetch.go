package urdannot

import (
	"io"
	"net/http"
	"os"
	"strings"
)

// OpenFileOrURL reads the full contents of a local file or, if the input
// starts with http, of a remote resource. Marker-gene panels are often kept
// alongside published analyses, so fetching them by URL is convenient.
func OpenFileOrURL(input string) ([]byte, error) {
	var f io.ReadCloser

	if strings.HasPrefix(input, "http") {
		resp, err := http.Get(input)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		f = resp.Body
	} else {
		file, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		f = file
	}

	return io.ReadAll(f)
}
