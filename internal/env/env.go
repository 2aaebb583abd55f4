// Package env expands ${env.KEY} references in configuration documents.
package env

import (
	"os"
	"strings"
	"unicode"
)

const prefix = "${env."

// Expand replaces every ${env.KEY} in value with the KEY environment
// variable, or "" when unset.
func Expand(value string) string {
	return ExpandWith(value, os.Getenv)
}

// ExpandWith is Expand with a custom lookup. A reference without a closing
// brace is kept literally; a reference whose key has characters other than
// letters, digits or '_' keeps its prefix and the rest is scanned again.
func ExpandWith(value string, lookup func(string) string) string {
	if !strings.Contains(value, prefix) {
		return value
	}
	var b strings.Builder
	for {
		idx := strings.Index(value, prefix)
		if idx < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:idx])
		rest := value[idx+len(prefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[idx:])
			return b.String()
		}
		key := rest[:end]
		if !isKey(key) {
			b.WriteString(prefix)
			value = rest
			continue
		}
		b.WriteString(lookup(key))
		value = rest[end+1:]
	}
}

func isKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
