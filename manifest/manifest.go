// Package manifest implements portkit.lock — an audit log of completed key
// ports. One record is appended per successfully ported language, capturing
// when the port ran, how the values were resolved, and where the pre-port
// folder was archived. The status command reads it to tell ported languages
// from pending ones.
//
// The file is stored in the project root as portkit.lock.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default manifest file name.
const FileName = "portkit.lock"

// Version is the manifest file format version.
const Version = 1

// Record captures the outcome of one port run.
type Record struct {
	// PortedAt is when the run completed, RFC 3339.
	PortedAt time.Time `yaml:"ported_at"`
	// Applied / FallbackExisting / FallbackDefault mirror the run's
	// resolution statistics.
	Applied          int `yaml:"applied"`
	FallbackExisting int `yaml:"fallback_existing,omitempty"`
	FallbackDefault  int `yaml:"fallback_default,omitempty"`
	// MissingOld / MissingNew are the counts of unresolved keys.
	MissingOld int `yaml:"missing_old,omitempty"`
	MissingNew int `yaml:"missing_new,omitempty"`
	// Archive is the relative path the pre-port folder was moved to.
	Archive string `yaml:"archive"`
}

// File represents the portkit.lock structure.
type File struct {
	Version int `yaml:"version"`
	// Ports maps language code to its port record.
	Ports map[string]Record `yaml:"ports"`

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// Load reads the manifest from the given directory.
// Returns an empty manifest if the file doesn't exist.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	f := &File{
		Version: Version,
		Ports:   make(map[string]Record),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.path = path

	if f.Ports == nil {
		f.Ports = make(map[string]Record)
	}

	return f, nil
}

// Save writes the manifest to disk.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.path == "" {
		return fmt.Errorf("manifest path not set")
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}

	return nil
}

// Path returns the manifest file path.
func (f *File) Path() string {
	return f.path
}

// Set records (or replaces) the port record for a language.
func (f *File) Set(lang string, rec Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ports[lang] = rec
}

// Get returns the record for a language and whether one exists.
func (f *File) Get(lang string) (Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Ports[lang]
	return rec, ok
}

// Languages returns the sorted list of recorded languages.
func (f *File) Languages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	langs := make([]string, 0, len(f.Ports))
	for lang := range f.Ports {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
