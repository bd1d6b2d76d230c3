package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse_OrderedPairs(t *testing.T) {
	csv := "new_key,old_key\nnew_a,old_a\nnew_b,old_x\nnew_a,old_z\n"

	pairs, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := []Pair{
		{NewKey: "new_a", OldKey: "old_a"},
		{NewKey: "new_b", OldKey: "old_x"},
		{NewKey: "new_a", OldKey: "old_z"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("Parse() = %#v, want %#v", pairs, want)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	pairs, err := Parse(strings.NewReader("new_key,old_key\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs, got %#v", pairs)
	}
}

func TestParse_SchemaError(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "wrong names", csv: "old_key,new_key\na,b\n"},
		{name: "extra column", csv: "new_key,old_key,comment\na,b,c\n"},
		{name: "single column", csv: "new_key\na\n"},
		{name: "empty file", csv: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.csv))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SchemaError, got %v", err)
			}
		})
	}
}

func TestSchemaError_ListsFoundHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("foo,bar\n"))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(se.Found, []string{"foo", "bar"}) {
		t.Fatalf("Found = %#v, want [foo bar]", se.Found)
	}
	if !strings.Contains(se.Error(), "foo, bar") {
		t.Fatalf("error message should list the found header: %q", se.Error())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping_2025.csv")
	if err := os.WriteFile(path, []byte("new_key,old_key\nn1,o1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pairs, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(pairs) != 1 || pairs[0] != (Pair{NewKey: "n1", OldKey: "o1"}) {
		t.Fatalf("Load() = %#v", pairs)
	}

	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
