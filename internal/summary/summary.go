// Package summary turns upstream leak-search responses into short
// human-readable digests.
package summary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxLength caps the fallback string form of an unrecognized response.
	MaxLength = 2000

	maxFieldLength    = 200
	maxPreviewEntries = 3
	ellipsis          = "…"
)

// Summarize produces a bounded-length text digest of a decoded upstream
// response. It is a pure function: the same input always yields the same
// output. JSON objects carry no ordering, so database names and record
// fields are emitted sorted.
func Summarize(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return Shorten(stringify(v), MaxLength)
	}

	if code, ok := obj["Error code"]; ok {
		return fmt.Sprintf("API error: %v. %s", code, firstNonEmpty(obj, "Description", "message"))
	}

	if list, ok := obj["List"].(map[string]any); ok {
		return summarizeList(list)
	}

	return Shorten(stringify(obj), MaxLength)
}

func summarizeList(list map[string]any) string {
	names := make([]string, 0, len(list))
	for name := range list {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("== %s ==", name))

		db, _ := list[name].(map[string]any)
		if info := firstNonEmpty(db, "InfoLeak", "info"); info != "" {
			lines = append(lines, "Summary: "+info)
		}

		data, _ := db["Data"].([]any)
		lines = append(lines, fmt.Sprintf("Entries: %d", len(data)))

		for i, entry := range data {
			if i >= maxPreviewEntries {
				break
			}
			lines = append(lines, fmt.Sprintf(" Entry %d:", i+1))
			lines = append(lines, entryLines(entry)...)
		}

		if extra := len(data) - maxPreviewEntries; extra > 0 {
			lines = append(lines, fmt.Sprintf("...and %d more entries", extra))
		}

		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func entryLines(entry any) []string {
	rec, ok := entry.(map[string]any)
	if !ok {
		return []string{"  " + stringify(entry)}
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v := stringify(rec[k])
		if r := []rune(v); len(r) > maxFieldLength {
			v = string(r[:maxFieldLength]) + ellipsis
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", k, v))
	}
	return lines
}

// Shorten collapses whitespace and caps the string at width runes,
// appending an ellipsis marker when truncated.
func Shorten(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + ellipsis
}

func firstNonEmpty(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
