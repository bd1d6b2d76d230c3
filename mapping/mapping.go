// Package mapping loads the key-migration table: an ordered CSV of
// (new_key, old_key) pairs declaring which legacy resource each 2025 key
// inherits its translation from.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Pair declares that NewKey should inherit the content previously stored
// under OldKey.
type Pair struct {
	NewKey string
	OldKey string
}

// Header is the exact column header the mapping CSV must carry.
var Header = []string{"new_key", "old_key"}

// SchemaError reports a mapping file whose header does not match Header.
type SchemaError struct {
	// Found is the header row actually present in the file.
	Found []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected mapping headers: [%s] (want [%s])",
		strings.Join(e.Found, ", "), strings.Join(Header, ", "))
}

// Load reads the mapping CSV from path.
func Load(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	pairs, err := Parse(f)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pairs, nil
}

// Parse reads (new_key, old_key) pairs from CSV data. Row order is preserved
// and duplicate rows are kept verbatim — later rows for the same new key win
// during resolution, so dropping them here would change semantics.
func Parse(r io.Reader) ([]Pair, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Found: nil}
	}
	if err != nil {
		return nil, err
	}
	if len(header) != len(Header) || header[0] != Header[0] || header[1] != Header[1] {
		return nil, &SchemaError{Found: header}
	}

	var pairs []Pair
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{NewKey: record[0], OldKey: record[1]})
	}
	return pairs, nil
}
