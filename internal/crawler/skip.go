package crawler

import (
	"path"
	"strings"
)

// skipList holds glob patterns over category names.
//
// Patterns use path.Match syntax and are compared case-insensitively with
// spaces and underscores treated alike, so "*_images" matches
// "Item_images" and "Monster images".
type skipList []string

func newSkipList(patterns []string) skipList {
	s := make(skipList, 0, len(patterns))
	for _, p := range patterns {
		if p = normalizePattern(p); p != "" {
			s = append(s, p)
		}
	}
	return s
}

func normalizePattern(p string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(p), " ", "_"))
}

// match reports whether name matches any pattern.
// Malformed patterns never match.
func (s skipList) match(name string) bool {
	name = normalizePattern(name)
	for _, p := range s {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
