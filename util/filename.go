package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxFilenameBytes keeps names below the 255 byte limit most filesystems share,
// with room left for an extension.
const maxFilenameBytes = 200

var (
	unsafeChars = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]`)
	underscores = regexp.MustCompile(`__+`)
	separators  = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename turns an episode title into a name that is valid on every
// platform. It never returns an empty string.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = underscores.ReplaceAllString(name, "_")
	name = separators.ReplaceAllString(truncate(name, maxFilenameBytes), "")

	if name == "" {
		return "untitled"
	}
	return name
}

// FileStem is the base name of path without its last extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	s = s[:limit]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
