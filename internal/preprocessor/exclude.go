package preprocessor

import "path/filepath"

// Excludes is a list of file names, paths or glob patterns that must never
// be expanded.
type Excludes []string

// MatchPath reports whether the absolute path of a file matches an entry,
// either as a whole or by its base name, literally or as a filepath.Match
// pattern.
func (ex Excludes) MatchPath(path string) bool {
	return ex.match(filepath.Clean(path), filepath.Base(path))
}

// MatchName reports whether a name, as written in a directive or on the
// command line, matches an entry literally or as a pattern. The name is not
// resolved against the working directory.
func (ex Excludes) MatchName(name string) bool {
	return ex.match(filepath.Clean(name))
}

func (ex Excludes) match(cands ...string) bool {
	for _, e := range ex {
		if e == "" {
			continue
		}
		pat := filepath.Clean(e)
		for _, c := range cands {
			if pat == c {
				return true
			}
			if ok, err := filepath.Match(pat, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}
