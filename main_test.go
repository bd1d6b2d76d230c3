package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/inware-app/portkit/manifest"
	"github.com/inware-app/portkit/resfile"
)

const testBaseXML = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <!-- 2025 key set -->
    <string name="new_a">Hi</string>
    <string name="new_b">Hey</string>
    <string name="new_c">Untouched</string>
</resources>
`

const testLangXML = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="old_a">Hello</string>
    <string name="new_b">Olá</string>
</resources>
`

const testMappingCSV = "new_key,old_key\nnew_a,old_a\nnew_b,old_x\n"

// setupRepo builds a minimal translations repository and points the global
// rootDir at it for the duration of the test.
func setupRepo(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	mustWrite := func(rel, content string) {
		t.Helper()
		path := filepath.Join(tmp, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	mustWrite(filepath.Join("values", "strings.xml"), testBaseXML)
	mustWrite(filepath.Join("values-pt-rBR", "strings.xml"), testLangXML)
	mustWrite(filepath.Join("scripts", "mapping_2025.csv"), testMappingCSV)

	oldRoot := rootDir
	rootDir = tmp
	t.Cleanup(func() { rootDir = oldRoot })

	return tmp
}

func TestRunPort_EndToEnd(t *testing.T) {
	tmp := setupRepo(t)

	if err := runPort("pt-BR", portOptions{}); err != nil {
		t.Fatalf("runPort error: %v", err)
	}

	// The pre-port file is archived verbatim.
	archived, err := os.ReadFile(filepath.Join(tmp, "legacy", "values-pt-rBR", "strings.xml"))
	if err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	if string(archived) != testLangXML {
		t.Errorf("archive content changed:\n%s", archived)
	}

	// The ported file keeps the base skeleton with resolved bodies.
	out, err := os.ReadFile(filepath.Join(tmp, "values-pt-rBR", "strings.xml"))
	if err != nil {
		t.Fatalf("ported file missing: %v", err)
	}

	if got := resfile.Keys(string(out)); !reflect.DeepEqual(got, []string{"new_a", "new_b", "new_c"}) {
		t.Errorf("key order = %#v, want base order", got)
	}

	bodies := resfile.Extract(string(out))
	if bodies["new_a"] != "Hello" {
		t.Errorf("new_a = %q, want Hello (legacy applied)", bodies["new_a"])
	}
	if bodies["new_b"] != "Olá" {
		t.Errorf("new_b = %q, want Olá (existing kept)", bodies["new_b"])
	}
	if bodies["new_c"] != "Untouched" {
		t.Errorf("new_c = %q, want base default body", bodies["new_c"])
	}
	if !strings.Contains(string(out), "<!-- 2025 key set -->") {
		t.Error("comment outside entries was not preserved")
	}

	// The run is recorded in the audit log.
	mf, err := manifest.Load(tmp)
	if err != nil {
		t.Fatalf("manifest load: %v", err)
	}
	rec, ok := mf.Get("pt-BR")
	if !ok {
		t.Fatal("no manifest record for pt-BR")
	}
	if rec.Applied != 1 || rec.FallbackExisting != 1 || rec.FallbackDefault != 0 {
		t.Errorf("manifest stats = %+v", rec)
	}
	if rec.MissingOld != 1 {
		t.Errorf("MissingOld = %d, want 1 (old_x)", rec.MissingOld)
	}
	if rec.Archive != "legacy/values-pt-rBR" {
		t.Errorf("Archive = %q", rec.Archive)
	}
}

// A second run must abort on the occupied archive destination before moving
// or overwriting anything.
func TestRunPort_ArchiveSafety(t *testing.T) {
	tmp := setupRepo(t)

	if err := runPort("pt-BR", portOptions{}); err != nil {
		t.Fatalf("first runPort error: %v", err)
	}

	firstOutput, err := os.ReadFile(filepath.Join(tmp, "values-pt-rBR", "strings.xml"))
	if err != nil {
		t.Fatal(err)
	}

	err = runPort("pt-BR", portOptions{})
	if err == nil {
		t.Fatal("second run must fail on occupied archive destination")
	}
	if !strings.Contains(err.Error(), "legacy destination") {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both the language folder and the first archive are intact.
	secondOutput, err := os.ReadFile(filepath.Join(tmp, "values-pt-rBR", "strings.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(secondOutput) != string(firstOutput) {
		t.Error("language folder was modified by the aborted run")
	}
	archived, err := os.ReadFile(filepath.Join(tmp, "legacy", "values-pt-rBR", "strings.xml"))
	if err != nil || string(archived) != testLangXML {
		t.Errorf("first archive was disturbed: %v", err)
	}
}

func TestRunPort_PreconditionFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, tmp string)
		wantErr string
	}{
		{
			name: "missing base file",
			mutate: func(t *testing.T, tmp string) {
				if err := os.Remove(filepath.Join(tmp, "values", "strings.xml")); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: "missing base translation file",
		},
		{
			name: "missing language folder",
			mutate: func(t *testing.T, tmp string) {
				if err := os.RemoveAll(filepath.Join(tmp, "values-pt-rBR")); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: "does not exist",
		},
		{
			name: "missing mapping file",
			mutate: func(t *testing.T, tmp string) {
				if err := os.Remove(filepath.Join(tmp, "scripts", "mapping_2025.csv")); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: "mapping file",
		},
		{
			name: "missing language strings.xml",
			mutate: func(t *testing.T, tmp string) {
				if err := os.Remove(filepath.Join(tmp, "values-pt-rBR", "strings.xml")); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: "legacy strings file missing",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmp := setupRepo(t)
			tc.mutate(t, tmp)

			err := runPort("pt-BR", portOptions{})
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("runPort error = %v, want %q", err, tc.wantErr)
			}

			// Nothing may have been archived.
			if pathExists(filepath.Join(tmp, "legacy")) {
				t.Error("aborted run created the legacy directory")
			}
		})
	}
}

func TestRunPort_BadMappingHeader(t *testing.T) {
	tmp := setupRepo(t)
	path := filepath.Join(tmp, "scripts", "mapping_2025.csv")
	if err := os.WriteFile(path, []byte("old_key,new_key\na,b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := runPort("pt-BR", portOptions{})
	if err == nil || !strings.Contains(err.Error(), "unexpected mapping headers") {
		t.Fatalf("runPort error = %v, want schema error", err)
	}
	if pathExists(filepath.Join(tmp, "legacy")) {
		t.Error("aborted run created the legacy directory")
	}
}

func TestRunPort_DryRun(t *testing.T) {
	tmp := setupRepo(t)

	if err := runPort("pt-BR", portOptions{dryRun: true}); err != nil {
		t.Fatalf("runPort error: %v", err)
	}

	if pathExists(filepath.Join(tmp, "legacy")) {
		t.Error("dry run created the legacy directory")
	}
	current, err := os.ReadFile(filepath.Join(tmp, "values-pt-rBR", "strings.xml"))
	if err != nil || string(current) != testLangXML {
		t.Errorf("dry run touched the language file: %v", err)
	}
	if pathExists(filepath.Join(tmp, manifest.FileName)) {
		t.Error("dry run wrote the manifest")
	}
}

// ---------------------------------------------------------------------------
// Helper tests
// ---------------------------------------------------------------------------

func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Error("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Error("fileExists(directory) = true, want false")
	}
	if dirExists(filePath) {
		t.Error("dirExists(file) = true, want false")
	}
	if !dirExists(dir) {
		t.Error("dirExists(directory) = false, want true")
	}
	if !pathExists(filePath) || !pathExists(dir) {
		t.Error("pathExists should accept files and directories")
	}
	if pathExists(filepath.Join(dir, "missing")) {
		t.Error("pathExists(missing) = true, want false")
	}
}
