// Package resfile implements span-level reading and rewriting of Android
// strings.xml resource files.
//
// Everything here works on byte spans of the original text rather than a
// parsed document tree: Extract captures the verbatim inner body of each
// <string name="…"> element, and Rewrite splices replacement bodies back
// between the original opening/closing tags without touching any other byte
// of the file — comments, whitespace, attribute order and namespace
// declarations included. Nested inline markup such as <xliff:g> is carried
// through as opaque text and never interpreted.
//
// Text outside recognized <string> elements is passed through unexamined, so
// malformed surroundings never produce an error — they simply yield fewer
// matches.
package resfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// reString captures each <string> element as (open tag, name, body, close tag).
// The body is non-greedy and dotall so multi-line values with nested markup
// are captured verbatim.
var reString = regexp.MustCompile(`(?s)(<string\s+[^>]*name="([^"]+)"[^>]*>)(.*?)(</string>)`)

// Submatch indices into reString captures.
const (
	subOpenTag = 1
	subName    = 2
	subBody    = 3
)

// Entry is a single <string> resource: its name attribute and its raw inner
// body exactly as it appears in the file.
type Entry struct {
	Key  string
	Body string
}

// ---------------------------------------------------------------------------
// Extraction
// ---------------------------------------------------------------------------

// Entries returns all <string> entries in document order.
// Duplicate keys are returned as-is, one Entry per occurrence.
func Entries(content string) []Entry {
	matches := reString.FindAllStringSubmatch(content, -1)
	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, Entry{Key: m[subName], Body: m[subBody]})
	}
	return entries
}

// Keys returns the resource names in document order, duplicates included.
func Keys(content string) []string {
	var keys []string
	for _, m := range reString.FindAllStringSubmatch(content, -1) {
		keys = append(keys, m[subName])
	}
	return keys
}

// Extract returns a map from resource name to raw inner body.
// If a key appears more than once, the last occurrence wins.
// Returns an empty map when the content has no recognizable entries.
func Extract(content string) map[string]string {
	bodies := make(map[string]string)
	for _, m := range reString.FindAllStringSubmatch(content, -1) {
		bodies[m[subName]] = m[subBody]
	}
	return bodies
}

// ExtractFile reads a strings.xml file and extracts its bodies.
func ExtractFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Extract(string(data)), nil
}

// ---------------------------------------------------------------------------
// Rewriting
// ---------------------------------------------------------------------------

// Rewrite returns content with the inner bodies of the given keys replaced.
// Entries without a replacement, and every byte outside an entry body, are
// copied through unchanged; the opening and closing tags of replaced entries
// are kept byte-identical. No entries are added, removed, or reordered.
func Rewrite(content string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, loc := range reString.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2*subName]:loc[2*subName+1]]
		b.WriteString(content[last:loc[0]])

		body, ok := replacements[name]
		if !ok {
			b.WriteString(content[loc[0]:loc[1]])
		} else {
			b.WriteString(content[loc[2*subOpenTag]:loc[2*subOpenTag+1]])
			b.WriteString(body)
			b.WriteString(content[loc[2*subBody+1]:loc[1]])
		}
		last = loc[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

// ---------------------------------------------------------------------------
// Resource directory layout
// ---------------------------------------------------------------------------

// ValuesDirName converts a standard language code to an Android values
// directory name (e.g., "pt-BR" -> "values-pt-rBR", "ru" -> "values-ru").
func ValuesDirName(lang string) string {
	return "values-" + standardToAndroidLocale(lang)
}

// StringsPath returns the path to strings.xml for a given language.
func StringsPath(resDir, lang string) string {
	return filepath.Join(resDir, ValuesDirName(lang), "strings.xml")
}

// BaseStringsPath returns the path to the default (base-language) strings.xml.
func BaseStringsPath(resDir string) string {
	return filepath.Join(resDir, "values", "strings.xml")
}

// DetectLanguages scans a resource directory for values-XX/ directories that
// contain strings.xml and returns their language codes in standard form.
func DetectLanguages(resDir string) []string {
	entries, err := os.ReadDir(resDir)
	if err != nil {
		return nil
	}

	var langs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "values-") {
			continue
		}
		lang := strings.TrimPrefix(name, "values-")
		if lang == "" {
			continue
		}
		stringsPath := filepath.Join(resDir, name, "strings.xml")
		if _, err := os.Stat(stringsPath); err == nil {
			langs = append(langs, androidLocaleToStandard(lang))
		}
	}
	sort.Strings(langs)
	return langs
}

// androidLocaleToStandard converts Android locale format to standard BCP-47.
// e.g., "pt-rBR" -> "pt-BR", "zh-rCN" -> "zh-CN", "ru" -> "ru"
func androidLocaleToStandard(androidLocale string) string {
	if idx := strings.Index(androidLocale, "-r"); idx >= 0 {
		return androidLocale[:idx] + "-" + androidLocale[idx+2:]
	}
	return androidLocale
}

// standardToAndroidLocale converts standard BCP-47 to Android locale format.
// e.g., "pt-BR" -> "pt-rBR", "zh-CN" -> "zh-rCN", "ru" -> "ru"
func standardToAndroidLocale(lang string) string {
	parts := strings.SplitN(lang, "-", 2)
	if len(parts) == 2 && len(parts[1]) > 0 {
		return parts[0] + "-r" + parts[1]
	}
	return lang
}
