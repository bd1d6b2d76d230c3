// Package port implements the key-migration resolution engine.
//
// Given the legacy translation bodies, the current (pre-port) translation
// bodies, the target key set of the fresh base file and the base-language
// default bodies, Resolve decides which source supplies each new key's value
// and reports how the decisions were split.
package port

import (
	"strings"

	"github.com/inware-app/portkit/mapping"
)

// legacyPrefix marks keys reserved for manually parked legacy values; they
// are never carried forward from the pre-port translation.
const legacyPrefix = "legacy_"

// Stats counts how each mapping pair was resolved.
type Stats struct {
	// Applied is the number of pairs whose legacy body was ported.
	Applied int
	// FallbackExisting counts pairs that kept the current translation
	// because no legacy body was found.
	FallbackExisting int
	// FallbackDefault counts pairs that fell back to the base-language
	// default (or empty when the base lacks the key).
	FallbackDefault int

	// MissingOld holds old keys that had no legacy body.
	MissingOld map[string]bool
	// MissingNew holds new keys absent from the target key set.
	MissingNew map[string]bool
}

// NewStats returns an empty Stats with initialized sets.
func NewStats() *Stats {
	return &Stats{
		MissingOld: make(map[string]bool),
		MissingNew: make(map[string]bool),
	}
}

// Resolved is the total number of pairs that produced an output entry.
func (s *Stats) Resolved() int {
	return s.Applied + s.FallbackExisting + s.FallbackDefault
}

// Resolve walks the mapping pairs in input order and produces the body for
// each new key, plus resolution statistics. For every pair:
//
//  1. A new key not present in targets is recorded in MissingNew and skipped.
//  2. A legacy body for the old key always wins.
//  3. Otherwise the current translation of the new key is kept, if any.
//  4. Otherwise the base-language default is used (empty if the base lacks
//     the key). Cases 3 and 4 record the old key in MissingOld.
//
// A new key repeated across pairs is resolved independently each time; the
// last occurrence wins in the output map.
//
// After the mapping pass, keys present in the current translation that were
// not produced above are carried forward when they are recognized target keys
// without the "legacy_" name prefix — this preserves manually maintained
// entries the mapping table doesn't know about.
//
// Inputs are never mutated; bodies are copied into a fresh map.
func Resolve(pairs []mapping.Pair, legacy, existing map[string]string, targets map[string]bool, defaults map[string]string) (map[string]string, *Stats) {
	replacements := make(map[string]string)
	stats := NewStats()

	for _, pair := range pairs {
		if !targets[pair.NewKey] {
			stats.MissingNew[pair.NewKey] = true
			continue
		}

		if body, ok := legacy[pair.OldKey]; ok {
			replacements[pair.NewKey] = body
			stats.Applied++
			continue
		}

		if body, ok := existing[pair.NewKey]; ok {
			replacements[pair.NewKey] = body
			stats.FallbackExisting++
		} else {
			replacements[pair.NewKey] = defaults[pair.NewKey]
			stats.FallbackDefault++
		}
		stats.MissingOld[pair.OldKey] = true
	}

	for key, body := range existing {
		if strings.HasPrefix(key, legacyPrefix) {
			continue
		}
		if _, done := replacements[key]; done {
			continue
		}
		if !targets[key] {
			continue
		}
		replacements[key] = body
	}

	return replacements, stats
}
