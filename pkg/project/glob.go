package project

import (
	"path"
	"strings"
)

// MatchGlob matches a slash separated relative path against a glob. A
// pattern without a slash also matches the base name, and "**" spans
// directories: "**/obj", "bin/**" and "Views/**/_*.cshtml" all work.
func MatchGlob(p, pattern string) bool {
	p = strings.TrimPrefix(p, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	if strings.Contains(pattern, "**") {
		return matchDoubleStar(p, pattern)
	}
	if ok, err := path.Match(pattern, p); err == nil && ok {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	ok, err := path.Match(pattern, path.Base(p))
	return err == nil && ok
}

func matchDoubleStar(p, pattern string) bool {
	parts := strings.SplitN(pattern, "**", 2)
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix != "" && p != prefix && !strings.HasPrefix(p, prefix+"/") {
		return false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/")
	if suffix == "" {
		return true
	}

	// Try the suffix against every tail of the remaining path.
	segments := strings.Split(rest, "/")
	for i := range segments {
		if MatchGlob(strings.Join(segments[i:], "/"), suffix) {
			return true
		}
	}
	return false
}
